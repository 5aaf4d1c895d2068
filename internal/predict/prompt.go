package predict

import (
	"fmt"
	"strings"
)

var horizonText = map[string]string{
	"1d": "the next trading day",
	"1w": "the next week",
	"1m": "the next month",
}

// PromptRequest describes one analysis. An empty Ticker asks the model to
// discover the affected tickers itself.
type PromptRequest struct {
	ArticleText string
	Ticker      string
	Horizon     string
}

func (r PromptRequest) Discovery() bool {
	return strings.TrimSpace(r.Ticker) == ""
}

const recordSchema = `{
  "ticker": "exchange ticker symbol, e.g. TSLA",
  "direction": "UP" | "DOWN" | "NO_IMPACT",
  "strength": "none" | "weak" | "moderate" | "strong",
  "expectedMovePercent": number,
  "explanation": "one or two sentences"
}`

const bandingRule = `Strength must follow expectedMovePercent (absolute value):
- "none" if direction is NO_IMPACT or the move is at most 0.3
- "weak" if at most 1.0
- "moderate" if at most 3.0
- "strong" if above 3.0`

// BuildPrompt renders the instruction sent to the predictor.
func BuildPrompt(req PromptRequest) string {
	horizon := horizonText[req.Horizon]
	if horizon == "" {
		horizon = req.Horizon
	}

	var b strings.Builder
	b.WriteString("You are analyzing a news article for its likely effect on stock prices.\n")
	fmt.Fprintf(&b, "Prediction horizon: %s.\n\n", horizon)

	if req.Discovery() {
		b.WriteString("Identify the publicly traded companies whose stocks are likely to be affected by this article.\n")
		b.WriteString("Respond with a JSON array only, one object per company, using exactly these fields:\n")
		b.WriteString(recordSchema)
		b.WriteString("\nIf no companies are affected, respond with an empty array [].\n")
	} else {
		fmt.Fprintf(&b, "Focus specifically on how the stock %q might be affected by this article.\n", strings.TrimSpace(req.Ticker))
		b.WriteString("Respond with a single JSON object only, using exactly these fields:\n")
		b.WriteString(recordSchema)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(bandingRule)
	b.WriteString("\n\nDo not include any text outside the JSON.\n\nArticle:\n\"")
	b.WriteString(req.ArticleText)
	b.WriteString("\"\n")
	return b.String()
}
