package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/article"
	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/predict"
	"github.com/kjannette/newsimpact-backend/internal/pricing"
)

var (
	ErrPredictor      = errors.New("predictor call failed")
	ErrInvalidHorizon = errors.New("unsupported horizon")
	ErrInvalidDate    = errors.New("invalid article date")
)

// HistoryRecorder persists completed analyses.
type HistoryRecorder interface {
	Record(ctx context.Context, a *models.Analysis) error
}

// Notifier is told about every completed analysis and decides itself
// whether it is worth sending.
type Notifier interface {
	NotifyAnalysis(ctx context.Context, a *models.Analysis) error
}

// Request is one article submission. ArticleHTML wins over ArticleText when
// both are set; an explicit ArticleDate wins over the page's own date.
type Request struct {
	ArticleText string `json:"articleText,omitempty"`
	ArticleHTML string `json:"articleHtml,omitempty"`
	ArticleDate string `json:"articleDate,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
	Horizon     string `json:"horizon,omitempty"`
}

type Options struct {
	Horizons       []string
	DefaultHorizon string
	MaxChars       int
	History        HistoryRecorder
	Notifier       Notifier
	Now            func() time.Time
}

type Pipeline struct {
	predictor predict.Predictor
	assembler *Assembler
	opts      Options
}

func NewPipeline(predictor predict.Predictor, assembler *Assembler, opts Options) *Pipeline {
	if len(opts.Horizons) == 0 {
		opts.Horizons = []string{"1d", "1w", "1m"}
	}
	if opts.DefaultHorizon == "" {
		opts.DefaultHorizon = opts.Horizons[0]
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = article.DefaultMaxChars
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{predictor: predictor, assembler: assembler, opts: opts}
}

func (p *Pipeline) Horizons() []string {
	return p.opts.Horizons
}

// Analyze runs one article through intake, prediction and annotation.
// Intake and request validation fail before any network call is made.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*models.Analysis, error) {
	art, err := p.intake(req)
	if err != nil {
		return nil, err
	}

	date, err := p.articleDate(req.ArticleDate, art.PublishedAt)
	if err != nil {
		return nil, err
	}

	horizon := strings.TrimSpace(req.Horizon)
	if horizon == "" {
		horizon = p.opts.DefaultHorizon
	}
	if !slices.Contains(p.opts.Horizons, horizon) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHorizon, horizon)
	}

	pr := predict.PromptRequest{ArticleText: art.Text, Ticker: strings.TrimSpace(req.Ticker), Horizon: horizon}
	raw, err := p.predictor.Predict(ctx, predict.BuildPrompt(pr))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPredictor, p.predictor.Name(), err)
	}

	a := &models.Analysis{
		ID:          uuid.NewString(),
		CreatedAt:   p.opts.Now().UTC(),
		Ticker:      pr.Ticker,
		Horizon:     horizon,
		ArticleDate: date,
		Predictor:   p.predictor.Name(),
	}

	var records []models.PredictionRecord
	if pr.Discovery() {
		a.Mode = models.ModeDiscovery
		records, err = predict.ParseDiscovery(raw)
	} else {
		a.Mode = models.ModeSingle
		var rec models.PredictionRecord
		rec, err = predict.ParseSingle(raw)
		records = []models.PredictionRecord{rec}
	}
	if err != nil {
		return nil, err
	}

	a.Predictions, err = p.assembler.Assemble(ctx, records, date, horizon)
	if err != nil {
		return nil, fmt.Errorf("assemble predictions: %w", err)
	}

	log.Info().Str("id", a.ID).Str("mode", string(a.Mode)).Str("date", date).
		Str("horizon", horizon).Int("predictions", len(a.Predictions)).Msg("analysis: completed")

	p.afterAnalysis(ctx, a)
	return a, nil
}

func (p *Pipeline) intake(req Request) (article.Article, error) {
	if strings.TrimSpace(req.ArticleHTML) != "" {
		return article.FromHTML(req.ArticleHTML, p.opts.MaxChars)
	}
	return article.FromText(req.ArticleText, p.opts.MaxChars)
}

func (p *Pipeline) articleDate(explicit, published string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		d, err := pricing.ParseArticleDate(s)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
		return d, nil
	}
	if published != "" {
		if d, err := pricing.ParseArticleDate(published); err == nil {
			return d, nil
		}
		log.Warn().Str("published", published).Msg("analysis: unparseable page date, using today")
	}
	return pricing.DateKey(p.opts.Now()), nil
}

// History and notification failures are logged; the analysis already
// succeeded.
func (p *Pipeline) afterAnalysis(ctx context.Context, a *models.Analysis) {
	if p.opts.History != nil {
		if err := p.opts.History.Record(ctx, a); err != nil {
			log.Error().Err(err).Str("id", a.ID).Msg("analysis: failed to record history")
		}
	}
	if p.opts.Notifier != nil {
		if err := p.opts.Notifier.NotifyAnalysis(ctx, a); err != nil {
			log.Warn().Err(err).Str("id", a.ID).Msg("analysis: notification failed")
		}
	}
}
