// Package predict builds impact prompts, calls a language model and decodes
// its answer into typed prediction records.
package predict

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Predictor sends a prompt to a language model and returns its raw text.
type Predictor interface {
	Predict(ctx context.Context, prompt string) (string, error)
	Name() string
}

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Options struct {
	Provider string
	APIKey   string
	Model    string
}

// New returns the predictor for opts.Provider.
func New(ctx context.Context, opts Options) (Predictor, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s API key not configured", opts.Provider)
	}
	switch strings.ToLower(opts.Provider) {
	case ProviderGemini, "":
		return NewGeminiPredictor(ctx, opts.APIKey, opts.Model)
	case ProviderAnthropic:
		return NewAnthropicPredictor(opts.APIKey, opts.Model), nil
	case ProviderOpenAI:
		return NewOpenAIPredictor(opts.APIKey, opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown predictor provider %q", opts.Provider)
	}
}

// ReplayPredictor answers every prompt with a fixed response, typically a
// model output saved to disk. Used for offline runs.
type ReplayPredictor struct {
	response string
}

func NewReplayPredictor(response string) *ReplayPredictor {
	return &ReplayPredictor{response: response}
}

func NewReplayPredictorFromFile(path string) (*ReplayPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay response: %w", err)
	}
	return NewReplayPredictor(string(data)), nil
}

func (r *ReplayPredictor) Predict(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.response, nil
}

func (r *ReplayPredictor) Name() string { return "replay" }
