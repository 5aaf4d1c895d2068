package reliability

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"gopkg.in/yaml.v3"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

// Load reads a reliability table from a JSON or YAML file (by extension).
// Two layouts are accepted:
//
//	{"TSLA": {"1d": {"samples": 40, ...}, "1w": {...}}}   per horizon
//	{"TSLA": {"samples": 40, ...}}                        all horizons
//
// A missing file yields an empty table so every lookup scores as
// insufficient history.
func Load(path string) (*Table, error) {
	if path == "" {
		log.Warn().Msg("reliability: no table configured, all lookups will be insufficient")
		return NewTable(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("reliability: table not found, all lookups will be insufficient")
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reliability table: %w", err)
	}

	var raw map[string]map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse reliability table %s: %w", path, err)
	}

	t, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("reliability table %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("tickers", t.Tickers()).Msg("reliability: table loaded")
	return t, nil
}

func build(raw map[string]map[string]any) (*Table, error) {
	t := NewTable()
	for ticker, entry := range raw {
		key := strings.ToUpper(strings.TrimSpace(ticker))

		if _, flat := entry["samples"]; flat {
			rec, err := recordFrom(entry)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ticker, err)
			}
			t.SetAllHorizons(key, rec)
			continue
		}

		for horizon, v := range entry {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s/%s: expected an object, got %T", ticker, horizon, v)
			}
			rec, err := recordFrom(m)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", ticker, horizon, err)
			}
			t.Set(key, strings.TrimSpace(horizon), rec)
		}
	}
	return t, nil
}

func recordFrom(m map[string]any) (models.ReliabilityRecord, error) {
	samples, err := number(m, "samples")
	if err != nil {
		return models.ReliabilityRecord{}, err
	}
	acc, err := number(m, "direction_accuracy")
	if err != nil {
		return models.ReliabilityRecord{}, err
	}
	score, err := number(m, "avg_hierarchical_score")
	if err != nil {
		return models.ReliabilityRecord{}, err
	}
	return models.ReliabilityRecord{
		Samples:              int(samples),
		DirectionAccuracy:    acc,
		AvgHierarchicalScore: score,
	}, nil
}

func number(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("%q is not a number (%T)", key, v)
	}
}
