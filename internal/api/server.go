package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/kjannette/newsimpact-backend/internal/analysis"
	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/pricing"
	"github.com/kjannette/newsimpact-backend/internal/reliability"
)

const (
	maxQueryLimit = 1000
	maxBodyBytes  = 2 << 20
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// HistoryStore reads recorded analyses. Nil when history is disabled.
type HistoryStore interface {
	GetRecent(ctx context.Context, limit int, ticker string) ([]models.Analysis, error)
	GetByID(ctx context.Context, id string) (*models.Analysis, error)
}

type Deps struct {
	Pipeline    *analysis.Pipeline
	Prices      *pricing.Service
	Reliability *reliability.Table
	History     HistoryStore
	DBPing      func(ctx context.Context) error
}

type Options struct {
	Port            int
	APIKey          string
	CORSAllowOrigin string
	// RatePerMinute bounds analysis submissions across all clients; zero
	// disables throttling.
	RatePerMinute int
}

type Server struct {
	deps       Deps
	apiKey     string
	limiter    *rate.Limiter
	handler    http.Handler
	httpServer *http.Server
}

func NewServer(deps Deps, opts Options) *Server {
	s := &Server{deps: deps, apiKey: opts.APIKey}
	if opts.RatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), opts.RatePerMinute)
	}

	mux := http.NewServeMux()

	// Analyses
	mux.Handle("POST /v1/analyses", s.throttle(http.HandlerFunc(s.handleCreateAnalysis)))
	mux.HandleFunc("GET /v1/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)

	// Prices & reliability
	mux.HandleFunc("GET /v1/prices/{ticker}/{date}", s.handlePrice)
	mux.HandleFunc("DELETE /v1/cache", s.handlePurgeCache)
	mux.HandleFunc("GET /v1/reliability/{ticker}/{horizon}", s.handleReliability)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.authMiddleware(corsMiddleware(mux, opts.CORSAllowOrigin))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// analyses wait on the predictor and on the price cooldown
		WriteTimeout: 3 * time.Minute,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Bool("auth", s.apiKey != "").Msg("api: REST server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := s.limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, "analysis rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
