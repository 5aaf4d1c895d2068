// Package app wires the price, reliability and prediction components
// shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/analysis"
	"github.com/kjannette/newsimpact-backend/internal/config"
	"github.com/kjannette/newsimpact-backend/internal/external"
	"github.com/kjannette/newsimpact-backend/internal/predict"
	"github.com/kjannette/newsimpact-backend/internal/pricing"
	"github.com/kjannette/newsimpact-backend/internal/reliability"
)

type Core struct {
	Prices      *pricing.Service
	Reliability *reliability.Table
	Predictor   predict.Predictor
	Assembler   *analysis.Assembler
}

// NewCore builds the shared components. A non-nil predictor replaces the
// configured provider.
func NewCore(ctx context.Context, cfg *config.Config, predictor predict.Predictor) (*Core, error) {
	table, err := LoadReliability(cfg)
	if err != nil {
		return nil, err
	}

	if predictor == nil {
		predictor, err = predict.New(ctx, predict.Options{
			Provider: cfg.PredictorProvider,
			APIKey:   cfg.PredictorAPIKey(),
			Model:    cfg.PredictorModel,
		})
		if err != nil {
			return nil, fmt.Errorf("predictor: %w", err)
		}
	}

	prices := NewPriceService(cfg)

	return &Core{
		Prices:      prices,
		Reliability: table,
		Predictor:   predictor,
		Assembler:   analysis.NewAssembler(prices, table, cfg.ValidateStrength),
	}, nil
}

func LoadReliability(cfg *config.Config) (*reliability.Table, error) {
	table, err := reliability.Load(cfg.ReliabilityPath)
	if err != nil {
		return nil, fmt.Errorf("reliability table: %w", err)
	}
	log.Info().Str("path", cfg.ReliabilityPath).Int("tickers", table.Tickers()).Msg("app: reliability table loaded")
	return table, nil
}

// NewPriceService returns a lookup service over one Alpha Vantage client,
// so every caller shares its cooldown and cache.
func NewPriceService(cfg *config.Config) *pricing.Service {
	client := external.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, external.AlphaVantageOptions{
		BaseURL:  cfg.AlphaVantageBaseURL,
		Cooldown: cfg.PriceCooldown,
		Timeout:  cfg.PriceTimeout,
	})
	return pricing.NewService(client, pricing.NewCache())
}

// Pipeline returns an analysis pipeline over the core components.
func (c *Core) Pipeline(cfg *config.Config, history analysis.HistoryRecorder, notifier analysis.Notifier) *analysis.Pipeline {
	return analysis.NewPipeline(c.Predictor, c.Assembler, analysis.Options{
		Horizons:       cfg.Horizons,
		DefaultHorizon: cfg.DefaultHorizon,
		MaxChars:       cfg.MaxArticleChars,
		History:        history,
		Notifier:       notifier,
	})
}
