// Package reliability scores how far past predictions for a ticker and
// horizon can be trusted, from a precomputed accuracy table.
package reliability

import (
	"fmt"
	"math"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

const (
	minSamples  = 10
	highScore   = 0.30
	mediumScore = 0.15

	insufficientText = "Insufficient history"
)

// Table is read-only after Load. The zero value and a nil *Table both score
// every lookup as insufficient.
type Table struct {
	byHorizon map[string]map[string]models.ReliabilityRecord
	// Records from the flat ticker -> record format apply to every horizon.
	anyHorizon map[string]models.ReliabilityRecord
}

func NewTable() *Table {
	return &Table{
		byHorizon:  make(map[string]map[string]models.ReliabilityRecord),
		anyHorizon: make(map[string]models.ReliabilityRecord),
	}
}

func (t *Table) Set(ticker, horizon string, rec models.ReliabilityRecord) {
	if t.byHorizon[ticker] == nil {
		t.byHorizon[ticker] = make(map[string]models.ReliabilityRecord)
	}
	t.byHorizon[ticker][horizon] = rec
}

func (t *Table) SetAllHorizons(ticker string, rec models.ReliabilityRecord) {
	t.anyHorizon[ticker] = rec
}

// Lookup returns the record for ticker/horizon, preferring a
// horizon-specific entry over an all-horizon one.
func (t *Table) Lookup(ticker, horizon string) (models.ReliabilityRecord, bool) {
	if t == nil {
		return models.ReliabilityRecord{}, false
	}
	if rec, ok := t.byHorizon[ticker][horizon]; ok {
		return rec, true
	}
	rec, ok := t.anyHorizon[ticker]
	return rec, ok
}

// Tickers returns how many tickers have at least one record.
func (t *Table) Tickers() int {
	if t == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(t.byHorizon)+len(t.anyHorizon))
	for k := range t.byHorizon {
		seen[k] = struct{}{}
	}
	for k := range t.anyHorizon {
		seen[k] = struct{}{}
	}
	return len(seen)
}

// Score maps the record for ticker/horizon to a trust label.
func (t *Table) Score(ticker, horizon string) models.ReliabilityLabel {
	rec, ok := t.Lookup(ticker, horizon)
	if !ok || rec.Samples < minSamples {
		return label(models.ReliabilityLow, insufficientText)
	}

	text := fmt.Sprintf("%d%% direction accuracy", int(math.Round(rec.DirectionAccuracy*100)))
	switch {
	case rec.AvgHierarchicalScore >= highScore:
		return label(models.ReliabilityHigh, text)
	case rec.AvgHierarchicalScore >= mediumScore:
		return label(models.ReliabilityMedium, text)
	default:
		return label(models.ReliabilityLow, text)
	}
}

func label(level models.ReliabilityLevel, text string) models.ReliabilityLabel {
	class := "low"
	switch level {
	case models.ReliabilityHigh:
		class = "high"
	case models.ReliabilityMedium:
		class = "medium"
	}
	return models.ReliabilityLabel{Level: level, Class: class, Text: text}
}
