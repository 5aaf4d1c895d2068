package models

import "time"

type AnalysisMode string

const (
	ModeSingle    AnalysisMode = "single"
	ModeDiscovery AnalysisMode = "discovery"
)

type Analysis struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"createdAt"`
	Mode        AnalysisMode          `json:"mode"`
	Ticker      string                `json:"ticker,omitempty"`
	Horizon     string                `json:"horizon"`
	ArticleDate string                `json:"articleDate"`
	Predictor   string                `json:"predictor"`
	Predictions []AnnotatedPrediction `json:"predictions"`
}
