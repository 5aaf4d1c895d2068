package models

// ReliabilityRecord holds precomputed accuracy statistics for one
// ticker/horizon pair.
type ReliabilityRecord struct {
	Samples              int     `json:"samples" yaml:"samples"`
	DirectionAccuracy    float64 `json:"direction_accuracy" yaml:"direction_accuracy"`
	AvgHierarchicalScore float64 `json:"avg_hierarchical_score" yaml:"avg_hierarchical_score"`
}

type ReliabilityLevel string

const (
	ReliabilityHigh   ReliabilityLevel = "High"
	ReliabilityMedium ReliabilityLevel = "Medium"
	ReliabilityLow    ReliabilityLevel = "Low"
)

type ReliabilityLabel struct {
	Level ReliabilityLevel `json:"level"`
	Class string           `json:"class"`
	Text  string           `json:"text"`
}
