// Package analysis turns predictor output into trust-annotated predictions
// and runs the end-to-end article analysis.
package analysis

import (
	"context"
	"strings"

	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/ticker"
)

// PriceLookup resolves a normalized ticker's close on or before date.
type PriceLookup interface {
	Lookup(ctx context.Context, ticker, date string) (models.PriceLookupResult, error)
}

// Scorer labels how trustworthy past predictions for a ticker were.
type Scorer interface {
	Score(ticker, horizon string) models.ReliabilityLabel
}

type Assembler struct {
	prices           PriceLookup
	reliability      Scorer
	validateStrength bool
}

func NewAssembler(prices PriceLookup, reliability Scorer, validateStrength bool) *Assembler {
	return &Assembler{prices: prices, reliability: reliability, validateStrength: validateStrength}
}

// Assemble annotates records in input order. Records are handled one at a
// time; a price failure only sets that record's reason. The error is
// non-nil only when ctx ended mid-run.
func (a *Assembler) Assemble(ctx context.Context, records []models.PredictionRecord, date, horizon string) ([]models.AnnotatedPrediction, error) {
	out := make([]models.AnnotatedPrediction, 0, len(records))

	for _, rec := range records {
		ap, err := a.annotate(ctx, rec, date, horizon)
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

func (a *Assembler) annotate(ctx context.Context, rec models.PredictionRecord, date, horizon string) (models.AnnotatedPrediction, error) {
	ap := models.AnnotatedPrediction{PredictionRecord: rec}

	key := strings.ToUpper(strings.TrimSpace(rec.Ticker))
	sym, ok := ticker.Normalize(rec.Ticker)
	if !ok {
		ap.PriceReason = models.UnsupportedTickerReason
	} else {
		key = sym
		ap.NormalizedTicker = sym

		r, err := a.prices.Lookup(ctx, sym, date)
		if err != nil {
			return ap, err
		}
		if r.OK() {
			ap.Price = &models.PriceInfo{RequestedDate: date, TradingDay: r.Date, Close: r.Close}
		} else {
			ap.PriceReason = r.Error.Reason()
		}
	}

	if a.reliability != nil {
		label := a.reliability.Score(key, horizon)
		ap.Reliability = &label
	}

	if a.validateStrength {
		consistent := rec.StrengthConsistent()
		ap.StrengthConsistent = &consistent
	}
	return ap, nil
}
