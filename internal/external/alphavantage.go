package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

const (
	alphaVantageURL = "https://www.alphavantage.co/query"

	// DefaultCooldown is the minimum spacing between Alpha Vantage calls.
	DefaultCooldown = 2000 * time.Millisecond
)

type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	outputSize string
	httpClient *http.Client
	cooldown   *Cooldown
}

type AlphaVantageOptions struct {
	BaseURL    string
	OutputSize string // "full" or "compact"
	Cooldown   time.Duration
	Timeout    time.Duration
	Clock      Clock
	HTTPClient *http.Client
}

func NewAlphaVantageClient(apiKey string, opts AlphaVantageOptions) *AlphaVantageClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = alphaVantageURL
	}
	outputSize := opts.OutputSize
	if outputSize == "" {
		outputSize = "full"
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		outputSize: outputSize,
		httpClient: httpClient,
		cooldown:   NewCooldown(cooldown, opts.Clock),
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

// FetchDaily returns the full daily series for symbol. Provider failures
// come back as *LookupError; a context error is returned as is so the
// caller can tell an abandoned lookup from a classified one.
func (c *AlphaVantageClient) FetchDaily(ctx context.Context, symbol string) (models.TimeSeries, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", c.outputSize)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, classified(models.ErrAPILimitOrError, symbol, fmt.Errorf("build request: %w", err))
	}

	if err := c.cooldown.Wait(ctx); err != nil {
		return nil, fmt.Errorf("price cooldown: %w", err)
	}

	log.Debug().Str("symbol", symbol).Msg("alphavantage: TIME_SERIES_DAILY request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("alphavantage fetch: %w", ctxErr)
		}
		return nil, classified(models.ErrAPILimitOrError, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, classified(models.ErrAPILimitOrError, symbol,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	var raw avDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, classified(models.ErrAPILimitOrError, symbol, fmt.Errorf("decode: %w", err))
	}

	if msg := raw.providerError(); msg != "" {
		log.Warn().Str("symbol", symbol).Str("message", msg).Msg("alphavantage: provider signalled limit or error")
		return nil, classified(models.ErrAPILimitOrError, symbol, errors.New(msg))
	}
	if raw.Series == nil {
		return nil, classified(models.ErrNoSeries, symbol, nil)
	}

	return raw.Series, nil
}

// Alpha Vantage reports quota and request errors in the body of a 200.
type avDailyResponse struct {
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
	MetaData     json.RawMessage   `json:"Meta Data"`
	Series       models.TimeSeries `json:"Time Series (Daily)"`
}

func (r *avDailyResponse) providerError() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	case r.Information != "":
		return r.Information
	}
	return ""
}
