package models

import "math"

type Direction string

const (
	DirectionUp       Direction = "UP"
	DirectionDown     Direction = "DOWN"
	DirectionNoImpact Direction = "NO_IMPACT"
)

type Strength string

const (
	StrengthNone     Strength = "none"
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// Banding tiers. Each boundary belongs to the lower tier.
const (
	noneMaxMove     = 0.3
	weakMaxMove     = 1.0
	moderateMaxMove = 3.0
)

// PredictionRecord is one prediction as emitted by the model.
type PredictionRecord struct {
	Ticker              string    `json:"ticker"`
	Direction           Direction `json:"direction"`
	Strength            Strength  `json:"strength"`
	ExpectedMovePercent float64   `json:"expectedMovePercent"`
	Explanation         string    `json:"explanation"`
}

// BandStrength maps a direction and expected move to its strength tier.
func BandStrength(dir Direction, expectedMovePercent float64) Strength {
	move := math.Abs(expectedMovePercent)
	switch {
	case dir == DirectionNoImpact || move <= noneMaxMove:
		return StrengthNone
	case move <= weakMaxMove:
		return StrengthWeak
	case move <= moderateMaxMove:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

// StrengthConsistent reports whether the record's strength matches the
// banding of its expected move.
func (p PredictionRecord) StrengthConsistent() bool {
	return p.Strength == BandStrength(p.Direction, p.ExpectedMovePercent)
}

// AnnotatedPrediction is a prediction with its resolved price and
// reliability attached. Price is nil when PriceReason explains why.
type AnnotatedPrediction struct {
	PredictionRecord
	NormalizedTicker   string            `json:"normalizedTicker,omitempty"`
	Price              *PriceInfo        `json:"price,omitempty"`
	PriceReason        string            `json:"priceReason,omitempty"`
	Reliability        *ReliabilityLabel `json:"reliability,omitempty"`
	StrengthConsistent *bool             `json:"strengthConsistent,omitempty"`
}
