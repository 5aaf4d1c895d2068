// Package notifications posts alerts about notable analyses to a Slack or
// Discord compatible webhook.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/httputil"
	"github.com/kjannette/newsimpact-backend/internal/models"
)

const defaultBotName = "NewsImpact"

type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewSender(webhookURL, botName string) *Sender {
	if botName == "" {
		botName = defaultBotName
	}
	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send logs msg and posts it to the webhook when one is configured.
func (s *Sender) Send(ctx context.Context, msg string) error {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	log.Info().Str("bot", s.botName).Msg(msg)

	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	resp.Body.Close()
	return nil
}

// NotifyAnalysis sends one alert per strong prediction whose reliability
// is High. Other analyses are ignored.
func (s *Sender) NotifyAnalysis(ctx context.Context, a *models.Analysis) error {
	for _, p := range a.Predictions {
		if !Notable(p) {
			continue
		}
		if err := s.Send(ctx, formatAlert(a, p)); err != nil {
			return err
		}
	}
	return nil
}

func Notable(p models.AnnotatedPrediction) bool {
	return p.Strength == models.StrengthStrong &&
		p.Reliability != nil && p.Reliability.Level == models.ReliabilityHigh
}

func formatAlert(a *models.Analysis, p models.AnnotatedPrediction) string {
	sym := p.NormalizedTicker
	if sym == "" {
		sym = strings.ToUpper(p.Ticker)
	}
	msg := fmt.Sprintf("%s %s %+.1f%% over %s (%s)", sym, p.Direction, p.ExpectedMovePercent, a.Horizon, p.Reliability.Text)
	if p.Price != nil {
		msg += fmt.Sprintf(", close %.2f on %s", p.Price.Close, p.Price.TradingDay)
	}
	return msg + ": " + p.Explanation
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}
