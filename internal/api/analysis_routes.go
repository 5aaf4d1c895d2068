package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/analysis"
	"github.com/kjannette/newsimpact-backend/internal/article"
	"github.com/kjannette/newsimpact-backend/internal/predict"
	"github.com/kjannette/newsimpact-backend/internal/repository"
)

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	a, err := s.deps.Pipeline.Analyze(r.Context(), req)
	if err != nil {
		status, msg := analysisErrorStatus(err)
		if status >= 500 {
			log.Error().Err(err).Int("status", status).Msg("api: analysis failed")
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func analysisErrorStatus(err error) (int, string) {
	var pe *predict.ParseError
	switch {
	case errors.Is(err, article.ErrNoArticleText),
		errors.Is(err, analysis.ErrInvalidHorizon),
		errors.Is(err, analysis.ErrInvalidDate):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "analysis abandoned"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "predictor returned an unusable response: " + pe.Reason
	case errors.Is(err, analysis.ErrPredictor):
		return http.StatusBadGateway, "predictor call failed"
	}
	return http.StatusInternalServerError, "analysis failed"
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	out, err := s.deps.History.GetRecent(r.Context(), parseLimit(r, 50), ticker)
	if err != nil {
		log.Error().Err(err).Msg("api: list analyses")
		writeError(w, http.StatusInternalServerError, "failed to fetch analyses")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return
	}
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}
	a, err := s.deps.History.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("api: get analysis")
		writeError(w, http.StatusInternalServerError, "failed to fetch analysis")
		return
	}
	writeJSON(w, http.StatusOK, a)
}
