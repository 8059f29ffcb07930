package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_StarterSetOnEmptyHistory(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "recommend", "--output", "json")
	require.NoError(t, err)

	var result struct {
		Trend struct {
			Direction string `json:"direction"`
		} `json:"trend"`
		Recommendations []struct {
			Title      string  `json:"title"`
			Category   string  `json:"category"`
			Difficulty string  `json:"difficulty"`
			Score      float64 `json:"score"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &result))
	assert.NotEmpty(t, result.Recommendations, "empty history should fall back to the starter set")
	for _, rec := range result.Recommendations {
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Category)
	}
}

func TestRecommend_TableWithHistory(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "log", "demo", "--days", "30")
	require.NoError(t, err)

	output, err := executeCommand(t, "recommend")
	require.NoError(t, err)
	assert.Contains(t, output, "RECOMMENDATIONS")
	assert.Contains(t, output, "ACTION")
	assert.Contains(t, output, "EST. ANNUAL SAVINGS")
	assert.Contains(t, output, "DIFFICULTY")
}

func TestRecommend_MaxCapsResults(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "log", "demo", "--days", "30")
	require.NoError(t, err)

	output, err := executeCommand(t, "recommend", "--max", "3", "--output", "json")
	require.NoError(t, err)

	var result struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &result))
	assert.LessOrEqual(t, len(result.Recommendations), 3)
	assert.NotEmpty(t, result.Recommendations)
}

func TestRecommend_VerboseIncludesRationale(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "log", "demo", "--days", "30")
	require.NoError(t, err)

	output, err := executeCommand(t, "recommend", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "1. ")
}

func TestRecommend_RankedByScore(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "log", "demo", "--days", "30")
	require.NoError(t, err)

	output, err := executeCommand(t, "recommend", "--output", "json")
	require.NoError(t, err)

	var result struct {
		Recommendations []struct {
			Score float64 `json:"score"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &result))
	require.NotEmpty(t, result.Recommendations)
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			result.Recommendations[i-1].Score, result.Recommendations[i].Score,
			"recommendations should be in descending score order")
	}
}

func TestRecommend_RejectsZeroDays(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "recommend", "--days", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days must be at least 1")
}
