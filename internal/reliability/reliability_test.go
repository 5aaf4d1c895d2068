package reliability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

func TestScore_Thresholds(t *testing.T) {
	tbl := NewTable()
	tbl.Set("TSLA", "1d", models.ReliabilityRecord{Samples: 50, DirectionAccuracy: 0.62, AvgHierarchicalScore: 0.35})
	tbl.Set("AAPL", "1d", models.ReliabilityRecord{Samples: 50, DirectionAccuracy: 0.555, AvgHierarchicalScore: 0.15})
	tbl.Set("MSFT", "1d", models.ReliabilityRecord{Samples: 10, DirectionAccuracy: 0.41, AvgHierarchicalScore: 0.1499})
	tbl.Set("NVDA", "1d", models.ReliabilityRecord{Samples: 5, DirectionAccuracy: 0.9, AvgHierarchicalScore: 0.9})
	tbl.Set("AMZN", "1d", models.ReliabilityRecord{Samples: 12, DirectionAccuracy: 0.7, AvgHierarchicalScore: 0.30})

	cases := []struct {
		ticker, horizon string
		want            models.ReliabilityLabel
	}{
		{"TSLA", "1d", models.ReliabilityLabel{Level: models.ReliabilityHigh, Class: "high", Text: "62% direction accuracy"}},
		{"AMZN", "1d", models.ReliabilityLabel{Level: models.ReliabilityHigh, Class: "high", Text: "70% direction accuracy"}},
		{"AAPL", "1d", models.ReliabilityLabel{Level: models.ReliabilityMedium, Class: "medium", Text: "56% direction accuracy"}},
		{"MSFT", "1d", models.ReliabilityLabel{Level: models.ReliabilityLow, Class: "low", Text: "41% direction accuracy"}},
		{"NVDA", "1d", models.ReliabilityLabel{Level: models.ReliabilityLow, Class: "low", Text: "Insufficient history"}},
		{"TSLA", "1w", models.ReliabilityLabel{Level: models.ReliabilityLow, Class: "low", Text: "Insufficient history"}},
		{"GOOG", "1d", models.ReliabilityLabel{Level: models.ReliabilityLow, Class: "low", Text: "Insufficient history"}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tbl.Score(tc.ticker, tc.horizon), "%s/%s", tc.ticker, tc.horizon)
	}
}

func TestScore_NilTable(t *testing.T) {
	var tbl *Table
	got := tbl.Score("TSLA", "1d")
	assert.Equal(t, models.ReliabilityLow, got.Level)
	assert.Equal(t, "Insufficient history", got.Text)
}

func TestLookup_HorizonSpecificWins(t *testing.T) {
	tbl := NewTable()
	tbl.SetAllHorizons("TSLA", models.ReliabilityRecord{Samples: 20, AvgHierarchicalScore: 0.1})
	tbl.Set("TSLA", "1w", models.ReliabilityRecord{Samples: 30, AvgHierarchicalScore: 0.4})

	rec, ok := tbl.Lookup("TSLA", "1w")
	require.True(t, ok)
	assert.Equal(t, 30, rec.Samples)

	rec, ok = tbl.Lookup("TSLA", "1d")
	require.True(t, ok)
	assert.Equal(t, 20, rec.Samples)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_NestedJSON(t *testing.T) {
	p := writeFile(t, "reliability.json", `{
		"tsla": {
			"1d": {"samples": 50, "direction_accuracy": 0.62, "avg_hierarchical_score": 0.35},
			"1w": {"samples": 8, "direction_accuracy": 0.5, "avg_hierarchical_score": 0.2}
		}
	}`)

	tbl, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityHigh, tbl.Score("TSLA", "1d").Level)
	assert.Equal(t, "Insufficient history", tbl.Score("TSLA", "1w").Text)
	assert.Equal(t, 1, tbl.Tickers())
}

func TestLoad_FlatJSON(t *testing.T) {
	p := writeFile(t, "ticker_reliability.json", `{
		"AAPL": {"samples": 40, "direction_accuracy": 0.58, "avg_hierarchical_score": 0.2}
	}`)

	tbl, err := Load(p)
	require.NoError(t, err)
	for _, h := range []string{"1d", "1w", "anything"} {
		got := tbl.Score("AAPL", h)
		assert.Equal(t, models.ReliabilityMedium, got.Level)
		assert.Equal(t, "58% direction accuracy", got.Text)
	}
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "reliability.yaml", `
MSFT:
  1d:
    samples: 25
    direction_accuracy: 0.64
    avg_hierarchical_score: 0.31
`)

	tbl, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, models.ReliabilityLabel{Level: models.ReliabilityHigh, Class: "high", Text: "64% direction accuracy"}, tbl.Score("MSFT", "1d"))
}

func TestLoad_MissingFileDegrades(t *testing.T) {
	tbl, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Tickers())
	assert.Equal(t, "Insufficient history", tbl.Score("TSLA", "1d").Text)

	tbl, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Tickers())
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeFile(t, "bad.json", `{"TSLA": [1, 2]}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad2.json", `{"TSLA": {"1d": {"samples": "many", "direction_accuracy": 0.5, "avg_hierarchical_score": 0.1}}}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad3.json", `{"TSLA": {"1d": {"samples": 12}}}`))
	assert.Error(t, err)
}
