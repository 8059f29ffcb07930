// Package recommend ranks behavioral interventions by estimated impact.
//
// Candidates come from a fixed catalog. The ranking score starts from each
// intervention's baseline annual reduction estimate and scales it by how
// much the target category contributes to the user's own footprint and by
// how much weight the forecast model attributes to that category. The
// engine is pure: no I/O, no stored state, safe for concurrent use.
//
// Impact numbers are estimates of typical savings, never guarantees; the
// engine makes no causal claim about any individual household.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/logging"
)

// Config holds the ranking knobs. All values are read once at Engine
// construction.
type Config struct {
	// MaxResults caps the returned list length.
	MaxResults int

	// ShareWeight scales how strongly a category's share of the user's
	// footprint lifts that category's interventions.
	ShareWeight float64

	// ImportanceWeight scales how strongly the forecast model's per
	// category importance lifts that category's interventions.
	ImportanceWeight float64

	// TrendBoost is the extra score multiplier applied to the dominant
	// category when the recent emission trend is rising.
	TrendBoost float64
}

// DefaultConfig returns the standard ranking configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults:       8,
		ShareWeight:      1.0,
		ImportanceWeight: 0.5,
		TrendBoost:       0.25,
	}
}

func (c Config) validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("recommend: max results must be at least 1, got %d", c.MaxResults)
	}
	if c.ShareWeight < 0 {
		return fmt.Errorf("recommend: share weight must not be negative, got %g", c.ShareWeight)
	}
	if c.ImportanceWeight < 0 {
		return fmt.Errorf("recommend: importance weight must not be negative, got %g", c.ImportanceWeight)
	}
	if c.TrendBoost < 0 {
		return fmt.Errorf("recommend: trend boost must not be negative, got %g", c.TrendBoost)
	}
	return nil
}

// Engine ranks the intervention catalog for one user at a time.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with a validated configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Recommend ranks the catalog against one user's emission profile.
//
// breakdown holds per-category emission totals for whatever period the
// caller considers current; only each category's share of the total enters
// the score, so daily means and window sums rank identically. importances
// is the forecast model's feature importance map and may be nil when no
// trained model exists or the selected model reports none. trend comes
// from AnalyzeTrend; a rising direction boosts the dominant category.
//
// Entries are ordered by score descending. Equal scores prefer lower
// difficulty, then earlier catalog position. A zero or empty breakdown
// returns the starter set, never an empty list.
func (e *Engine) Recommend(ctx context.Context, breakdown map[factors.Category]float64, importances map[string]float64, trend Trend) []Recommendation {
	log := logging.FromContext(ctx)

	var total float64
	for _, c := range factors.Categories() {
		if v := breakdown[c]; v > 0 {
			total += v
		}
	}
	if total <= 0 {
		starters := StarterSet()
		log.Debug().
			Str("component", "recommend").
			Str("operation", "recommend").
			Int("returned", len(starters)).
			Msg("no usable footprint, serving starter set")
		return starters
	}

	catImportance := categoryImportances(importances)
	dominant := dominantCategory(breakdown)

	catalog := interventions()
	ranked := make([]Recommendation, 0, len(catalog))
	for _, iv := range catalog {
		var share float64
		if v := breakdown[iv.Category]; v > 0 {
			share = v / total
		}

		scale := 1 + e.cfg.ShareWeight*share + e.cfg.ImportanceWeight*catImportance[iv.Category]
		if trend.Direction == TrendRising && iv.Category == dominant {
			scale *= 1 + e.cfg.TrendBoost
		}
		ranked = append(ranked, iv.recommendation(iv.EstimatedAnnualKg*scale))
	}

	// Stable sort keeps catalog order as the final tie-break.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Difficulty < ranked[j].Difficulty
	})

	if len(ranked) > e.cfg.MaxResults {
		ranked = ranked[:e.cfg.MaxResults]
	}

	log.Debug().
		Str("component", "recommend").
		Str("operation", "recommend").
		Str("dominant", dominant.String()).
		Str("trend", trend.Direction.String()).
		Int("returned", len(ranked)).
		Msg("ranked interventions")
	return ranked
}

// categoryImportances folds the model's feature importances into per
// category weights via the share features, normalized to sum to one.
// A nil or shareless map yields an empty result, which drops the
// importance term from every score.
func categoryImportances(importances map[string]float64) map[factors.Category]float64 {
	out := make(map[factors.Category]float64, len(factors.Categories()))
	var sum float64
	for name, w := range importances {
		c, ok := features.CategoryForShareFeature(name)
		if !ok || w <= 0 {
			continue
		}
		out[c] += w
		sum += w
	}
	if sum <= 0 {
		return out
	}
	for c, w := range out {
		out[c] = w / sum
	}
	return out
}

// dominantCategory returns the category with the largest breakdown value.
// Ties resolve to the earliest category in canonical order.
func dominantCategory(breakdown map[factors.Category]float64) factors.Category {
	cats := factors.Categories()
	best := cats[0]
	bestVal := breakdown[best]
	for _, c := range cats[1:] {
		if breakdown[c] > bestVal {
			best, bestVal = c, breakdown[c]
		}
	}
	return best
}
