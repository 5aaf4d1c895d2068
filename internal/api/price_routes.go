package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/ticker"
)

type priceJSON struct {
	Ticker        string           `json:"ticker"`
	RequestedDate string           `json:"requestedDate"`
	TradingDay    string           `json:"tradingDay,omitempty"`
	Close         *float64         `json:"close,omitempty"`
	ErrorKind     models.ErrorKind `json:"errorKind,omitempty"`
	Reason        string           `json:"reason,omitempty"`
}

// handlePrice resolves one close. Classified provider and alignment
// failures are answers, not errors, and come back as 200 with a reason.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	sym, ok := ticker.Normalize(r.PathValue("ticker"))
	if !ok {
		writeError(w, http.StatusBadRequest, models.UnsupportedTickerReason)
		return
	}

	res, err := s.deps.Prices.Lookup(r.Context(), sym, date)
	if err != nil {
		writeError(w, http.StatusGatewayTimeout, "price lookup abandoned")
		return
	}

	out := priceJSON{Ticker: sym, RequestedDate: date}
	if res.OK() {
		c := res.Close
		out.TradingDay, out.Close = res.Date, &c
	} else {
		out.ErrorKind, out.Reason = res.Error, res.Error.Reason()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePurgeCache(w http.ResponseWriter, r *http.Request) {
	n := s.deps.Prices.Cache().Purge()
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

type reliabilityJSON struct {
	Ticker  string                    `json:"ticker"`
	Horizon string                    `json:"horizon"`
	Record  *models.ReliabilityRecord `json:"record,omitempty"`
	Label   models.ReliabilityLabel   `json:"label"`
}

func (s *Server) handleReliability(w http.ResponseWriter, r *http.Request) {
	horizon := r.PathValue("horizon")
	if s.deps.Pipeline != nil && !slices.Contains(s.deps.Pipeline.Horizons(), horizon) {
		writeError(w, http.StatusBadRequest, "unsupported horizon")
		return
	}

	sym, ok := ticker.Normalize(r.PathValue("ticker"))
	if !ok {
		sym = strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))
	}

	out := reliabilityJSON{Ticker: sym, Horizon: horizon, Label: s.deps.Reliability.Score(sym, horizon)}
	if rec, found := s.deps.Reliability.Lookup(sym, horizon); found {
		out.Record = &rec
	}
	writeJSON(w, http.StatusOK, out)
}
