package forecast

import (
	"fmt"

	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// Lookahead bounds for building targets out of real history. A cut day
// needs at least historyTargetMinDays of later history to form a target;
// at most historyTargetMaxDays of it are averaged in.
const (
	historyTargetMinDays = 7
	historyTargetMaxDays = 30
	daysPerYear          = 365
)

// SamplesFromHistory turns daily footprint history into training samples
// by sliding a cut point through it: features come from the window ending
// at the cut day, the target is the mean daily total over the days after
// the cut, annualized. History must be in ascending date order.
//
// Cut points whose window is too sparse for the builder, or with fewer
// than historyTargetMinDays of later history, are skipped. When no cut
// point is viable the error wraps ErrInsufficientData.
func SamplesFromHistory(builder *features.Builder, profile features.Profile, history []footprint.Result) ([]TrainingSample, error) {
	if builder == nil {
		return nil, fmt.Errorf("forecast: feature builder is nil")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	var samples []TrainingSample
	for i := range history {
		future := history[i+1:]
		if len(future) < historyTargetMinDays {
			break
		}

		vec, _, err := builder.Build(history[:i+1], profile, history[i].Date)
		if err != nil {
			continue
		}

		n := len(future)
		if n > historyTargetMaxDays {
			n = historyTargetMaxDays
		}
		var sum float64
		for _, r := range future[:n] {
			sum += r.Total
		}
		target := sum / float64(n) * daysPerYear

		samples = append(samples, TrainingSample{Features: vec, Target: target})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no viable training windows in %d days of history",
			ErrInsufficientData, len(history))
	}
	return samples, nil
}
