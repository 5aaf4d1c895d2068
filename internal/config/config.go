package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
)

type Config struct {
	// Price provider
	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string
	PriceCooldown       time.Duration
	PriceTimeout        time.Duration

	// Reliability
	ReliabilityPath string
	Horizons        []string
	DefaultHorizon  string

	// Predictor
	PredictorProvider string
	GeminiAPIKey      string
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	PredictorModel    string
	MaxArticleChars   int
	ValidateStrength  bool

	// History
	HistoryEnabled bool
	DBHost         string
	DBPort         int
	DBName         string
	DBUser         string
	DBPassword     string

	// API
	APIPort          int
	APIKey           string
	CORSAllowOrigin  string
	APIRatePerMinute int

	// Maintenance & notifications
	CachePurgeCron string
	WebhookURL     string
	BotName        string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AlphaVantageAPIKey:  envStr("ALPHAVANTAGE_API_KEY", ""),
		AlphaVantageBaseURL: envStr("ALPHAVANTAGE_BASE_URL", ""),
		PriceCooldown:       envMillis("PRICE_COOLDOWN_MS", 2000),
		PriceTimeout:        time.Duration(envInt("PRICE_TIMEOUT_SECONDS", 30)) * time.Second,

		ReliabilityPath: envStr("RELIABILITY_PATH", "reliability.json"),
		Horizons:        envList("HORIZONS", []string{"1d", "1w", "1m"}),
		DefaultHorizon:  envStr("DEFAULT_HORIZON", "1d"),

		PredictorProvider: strings.ToLower(envStr("PREDICTOR_PROVIDER", "gemini")),
		GeminiAPIKey:      envStr("GEMINI_API_KEY", ""),
		AnthropicAPIKey:   envStr("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		PredictorModel:    envStr("PREDICTOR_MODEL", ""),
		MaxArticleChars:   envInt("MAX_ARTICLE_CHARS", 8000),
		ValidateStrength:  envBool("VALIDATE_STRENGTH", false),

		HistoryEnabled: envBool("HISTORY_ENABLED", false),
		DBHost:         envStr("DB_HOST", "localhost"),
		DBPort:         envInt("DB_PORT", 5432),
		DBName:         envStr("DB_NAME", "news_impact"),
		DBUser:         envStr("DB_USER", ""),
		DBPassword:     envStr("DB_PASSWORD", ""),

		APIPort:          envInt("API_PORT", 3001),
		APIKey:           envStr("API_KEY", ""),
		CORSAllowOrigin:  envStr("CORS_ALLOW_ORIGIN", "*"),
		APIRatePerMinute: envInt("API_RATE_PER_MINUTE", 10),

		CachePurgeCron: envStr("CACHE_PURGE_CRON", "0 22 * * 1-5"),
		WebhookURL:     envStr("WEBHOOK_URL", ""),
		BotName:        envStr("BOT_NAME", "NewsImpact"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

var providers = []string{"gemini", "anthropic", "openai"}

func (c *Config) Validate() error {
	var errs []string

	if c.AlphaVantageAPIKey == "" {
		errs = append(errs, "ALPHAVANTAGE_API_KEY is required")
	}
	if c.PriceCooldown <= 0 {
		errs = append(errs, "PRICE_COOLDOWN_MS must be positive")
	}
	if !slices.Contains(providers, c.PredictorProvider) {
		errs = append(errs, fmt.Sprintf("PREDICTOR_PROVIDER must be one of %s", strings.Join(providers, ", ")))
	} else if c.PredictorAPIKey() == "" {
		errs = append(errs, fmt.Sprintf("%s_API_KEY is required for provider %s", strings.ToUpper(c.PredictorProvider), c.PredictorProvider))
	}
	if len(c.Horizons) == 0 {
		errs = append(errs, "HORIZONS must list at least one horizon")
	} else if !slices.Contains(c.Horizons, c.DefaultHorizon) {
		errs = append(errs, fmt.Sprintf("DEFAULT_HORIZON %q is not in HORIZONS", c.DefaultHorizon))
	}
	if c.MaxArticleChars <= 0 {
		errs = append(errs, "MAX_ARTICLE_CHARS must be positive")
	}
	if c.HistoryEnabled && c.DBUser == "" {
		errs = append(errs, "DB_USER is required when HISTORY_ENABLED is set")
	}

	if c.APIKey == "" {
		log.Warn().Msg("API_KEY not set, REST API has no authentication")
	}
	if c.APIRatePerMinute <= 0 {
		log.Warn().Msg("API_RATE_PER_MINUTE is 0, analysis requests are not throttled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// PredictorAPIKey returns the key for the configured provider.
func (c *Config) PredictorAPIKey() string {
	switch c.PredictorProvider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func (c *Config) Print() {
	fmt.Println("=== News Impact Backend Configuration ===")
	fmt.Printf("Price Provider: Alpha Vantage (cooldown %s, timeout %s)\n", c.PriceCooldown, c.PriceTimeout)
	fmt.Printf("Predictor: %s%s\n", c.PredictorProvider, boolLabel(c.PredictorModel != "", " / "+c.PredictorModel, ""))
	fmt.Printf("Horizons: %s (default %s)\n", strings.Join(c.Horizons, ", "), c.DefaultHorizon)
	fmt.Printf("Reliability Table: %s\n", c.ReliabilityPath)
	fmt.Printf("Strength Validation: %v\n", c.ValidateStrength)
	fmt.Println("--------------------------------------")
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("API Auth: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Printf("Analysis Rate: %d/min\n", c.APIRatePerMinute)
	fmt.Printf("History: %s\n", boolLabel(c.HistoryEnabled, "postgres "+c.DBHost+"/"+c.DBName, "disabled"))
	fmt.Printf("Cache Purge: %s\n", boolLabel(c.CachePurgeCron != "", c.CachePurgeCron, "disabled"))
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
