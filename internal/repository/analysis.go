package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

var ErrNotFound = errors.New("analysis not found")

type AnalysisRepo struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

const selectAnalysis = `SELECT id::text, created_at, mode, ticker, horizon, article_date, predictor, predictions FROM analyses`

func (r *AnalysisRepo) Record(ctx context.Context, a *models.Analysis) error {
	preds, err := json.Marshal(a.Predictions)
	if err != nil {
		return fmt.Errorf("marshal predictions: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO analyses (id, created_at, mode, ticker, horizon, article_date, predictor, predictions)
		 VALUES ($1::text::uuid, $2, $3, $4, $5, $6::text::date, $7, $8)`,
		a.ID, a.CreatedAt, string(a.Mode), a.Ticker, a.Horizon, a.ArticleDate, a.Predictor, preds,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepo) GetByID(ctx context.Context, id string) (*models.Analysis, error) {
	row := r.pool.QueryRow(ctx,
		selectAnalysis+` WHERE id::text = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetRecent returns the newest analyses first. Ticker filters on the
// requested ticker of single-mode analyses when non-empty.
func (r *AnalysisRepo) GetRecent(ctx context.Context, limit int, ticker string) ([]models.Analysis, error) {
	query := selectAnalysis
	args := []any{}
	if ticker != "" {
		query += ` WHERE ticker = $1`
		args = append(args, ticker)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAnalysis(row scannable) (*models.Analysis, error) {
	var (
		a     models.Analysis
		mode  string
		day   time.Time
		preds []byte
	)
	if err := row.Scan(&a.ID, &a.CreatedAt, &mode, &a.Ticker, &a.Horizon, &day, &a.Predictor, &preds); err != nil {
		return nil, err
	}
	a.Mode = models.AnalysisMode(mode)
	a.ArticleDate = day.Format("2006-01-02")
	if err := json.Unmarshal(preds, &a.Predictions); err != nil {
		return nil, fmt.Errorf("decode predictions for %s: %w", a.ID, err)
	}
	return &a, nil
}

func collectAnalyses(rows rowsIter) ([]models.Analysis, error) {
	out := []models.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
