package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

const singleJSON = `{"ticker":"TSLA","direction":"UP","strength":"moderate","expectedMovePercent":2.4,"explanation":"Delivery beat."}`

func TestParseSingle(t *testing.T) {
	inputs := map[string]string{
		"plain":          singleJSON,
		"json fence":     "```json\n" + singleJSON + "\n```",
		"bare fence":     "```\n" + singleJSON + "\n```",
		"surrounding ws": "\n\n  " + singleJSON + "  \n",
		"prose wrapper":  "Here is my analysis:\n" + singleJSON + "\nHope this helps.",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			rec, err := ParseSingle(in)
			require.NoError(t, err)
			assert.Equal(t, models.PredictionRecord{
				Ticker:              "TSLA",
				Direction:           models.DirectionUp,
				Strength:            models.StrengthModerate,
				ExpectedMovePercent: 2.4,
				Explanation:         "Delivery beat.",
			}, rec)
		})
	}
}

func TestParseSingle_ZeroMoveIsPresent(t *testing.T) {
	rec, err := ParseSingle(`{"ticker":"KO","direction":"NO_IMPACT","strength":"none","expectedMovePercent":0,"explanation":"Unrelated."}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.ExpectedMovePercent)
}

func TestParseSingle_Failures(t *testing.T) {
	inputs := map[string]string{
		"not json":         "The stock will probably go up.",
		"empty":            "",
		"array for single": "[" + singleJSON + "]",
		"missing move":     `{"ticker":"TSLA","direction":"UP","strength":"weak","explanation":"x"}`,
		"missing ticker":   `{"direction":"UP","strength":"weak","expectedMovePercent":1,"explanation":"x"}`,
		"empty ticker":     `{"ticker":"","direction":"UP","strength":"weak","expectedMovePercent":1,"explanation":"x"}`,
		"bad direction":    `{"ticker":"TSLA","direction":"SIDEWAYS","strength":"weak","expectedMovePercent":1,"explanation":"x"}`,
		"lowercase dir":    `{"ticker":"TSLA","direction":"up","strength":"weak","expectedMovePercent":1,"explanation":"x"}`,
		"bad strength":     `{"ticker":"TSLA","direction":"UP","strength":"huge","expectedMovePercent":1,"explanation":"x"}`,
		"move as string":   `{"ticker":"TSLA","direction":"UP","strength":"weak","expectedMovePercent":"1","explanation":"x"}`,
		"unknown field":    `{"ticker":"TSLA","direction":"UP","strength":"weak","expectedMovePercent":1,"explanation":"x","confidence":0.9}`,
		"truncated":        `{"ticker":"TSLA","direction":"UP"`,
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSingle(in)
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
		})
	}
}

func TestParseDiscovery_SortsByAbsoluteMove(t *testing.T) {
	in := "```json\n[" +
		`{"ticker":"AAPL","direction":"UP","strength":"weak","expectedMovePercent":0.8,"explanation":"a"},` +
		`{"ticker":"TSLA","direction":"DOWN","strength":"strong","expectedMovePercent":-4.5,"explanation":"b"},` +
		`{"ticker":"MSFT","direction":"UP","strength":"moderate","expectedMovePercent":2.0,"explanation":"c"},` +
		`{"ticker":"GOOGL","direction":"UP","strength":"moderate","expectedMovePercent":2.0,"explanation":"d"}` +
		"]\n```"

	recs, err := ParseDiscovery(in)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	got := []string{recs[0].Ticker, recs[1].Ticker, recs[2].Ticker, recs[3].Ticker}
	assert.Equal(t, []string{"TSLA", "MSFT", "GOOGL", "AAPL"}, got)
}

func TestParseDiscovery_Empty(t *testing.T) {
	recs, err := ParseDiscovery("[]")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseDiscovery_Failures(t *testing.T) {
	inputs := map[string]string{
		"object for discovery": singleJSON,
		"one bad element":      "[" + singleJSON + `,{"ticker":"X"}]`,
		"not json":             "No companies are affected.",
		"array of strings":     `["TSLA","AAPL"]`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDiscovery(in)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %v", err)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	single := BuildPrompt(PromptRequest{ArticleText: "Tesla beat deliveries.", Ticker: "TSLA", Horizon: "1d"})
	assert.Contains(t, single, `"TSLA"`)
	assert.Contains(t, single, "single JSON object")
	assert.Contains(t, single, "the next trading day")
	assert.Contains(t, single, "Tesla beat deliveries.")
	assert.Contains(t, single, "at most 0.3")

	discovery := BuildPrompt(PromptRequest{ArticleText: "Chip export rules tighten.", Horizon: "2w"})
	assert.Contains(t, discovery, "JSON array")
	assert.Contains(t, discovery, "Prediction horizon: 2w.")
	assert.True(t, PromptRequest{Ticker: "  "}.Discovery())
}

func TestReplayPredictor(t *testing.T) {
	p := NewReplayPredictor(singleJSON)
	out, err := p.Predict(t.Context(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, singleJSON, out)
	assert.Equal(t, "replay", p.Name())
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(t.Context(), Options{Provider: ProviderAnthropic})
	assert.Error(t, err)

	_, err = New(t.Context(), Options{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)

	p, err := New(t.Context(), Options{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.Name())
}
