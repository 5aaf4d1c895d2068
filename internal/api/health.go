package api

import (
	"net/http"
	"time"

	"github.com/kjannette/newsimpact-backend/internal/pricing"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Database           string             `json:"database"`
	PriceCache         pricing.CacheStats `json:"priceCache"`
	ReliabilityTickers int                `json:"reliabilityTickers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if s.deps.DBPing != nil {
		dbStatus = "connected"
		if err := s.deps.DBPing(r.Context()); err != nil {
			dbStatus = "disconnected"
		}
	}

	var stats pricing.CacheStats
	if s.deps.Prices != nil {
		stats = s.deps.Prices.Cache().Stats()
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: healthServices{
			Database:           dbStatus,
			PriceCache:         stats,
			ReliabilityTickers: s.deps.Reliability.Tickers(),
		},
	})
}
