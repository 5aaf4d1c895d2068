package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

// ParseError reports a predictor response that could not be decoded into
// prediction records. The whole analysis fails on it.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse predictor response: %s: %v", e.Reason, e.Err)
	}
	return "parse predictor response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// wirePrediction mirrors the schema the prompt asks for. Pointer fields
// let the validator tell an absent field from a zero value.
type wirePrediction struct {
	Ticker              *string  `json:"ticker" validate:"required,min=1"`
	Direction           *string  `json:"direction" validate:"required,oneof=UP DOWN NO_IMPACT"`
	Strength            *string  `json:"strength" validate:"required,oneof=none weak moderate strong"`
	ExpectedMovePercent *float64 `json:"expectedMovePercent" validate:"required"`
	Explanation         *string  `json:"explanation" validate:"required"`
}

var validate = validator.New()

// ParseSingle decodes a single-ticker response: exactly one JSON object.
func ParseSingle(text string) (models.PredictionRecord, error) {
	body := extractJSON(text, '{', '}')
	if body == "" || body[0] != '{' {
		return models.PredictionRecord{}, &ParseError{Reason: "expected a JSON object", Raw: text}
	}

	var w wirePrediction
	if err := decodeStrict(body, &w); err != nil {
		return models.PredictionRecord{}, &ParseError{Reason: "malformed JSON", Raw: text, Err: err}
	}
	rec, err := w.record()
	if err != nil {
		return models.PredictionRecord{}, &ParseError{Reason: "invalid prediction", Raw: text, Err: err}
	}
	return rec, nil
}

// ParseDiscovery decodes a discovery response: a JSON array of objects,
// returned ordered by absolute expected move, largest first.
func ParseDiscovery(text string) ([]models.PredictionRecord, error) {
	body := extractJSON(text, '[', ']')
	if body == "" || body[0] != '[' {
		return nil, &ParseError{Reason: "expected a JSON array", Raw: text}
	}

	var ws []wirePrediction
	if err := decodeStrict(body, &ws); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Raw: text, Err: err}
	}

	out := make([]models.PredictionRecord, 0, len(ws))
	for i, w := range ws {
		rec, err := w.record()
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("invalid prediction at index %d", i), Raw: text, Err: err}
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ExpectedMovePercent) > math.Abs(out[j].ExpectedMovePercent)
	})
	return out, nil
}

func (w wirePrediction) record() (models.PredictionRecord, error) {
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return models.PredictionRecord{}, fmt.Errorf("failed fields: %s", strings.Join(fields, ", "))
		}
		return models.PredictionRecord{}, err
	}
	return models.PredictionRecord{
		Ticker:              *w.Ticker,
		Direction:           models.Direction(*w.Direction),
		Strength:            models.Strength(*w.Strength),
		ExpectedMovePercent: *w.ExpectedMovePercent,
		Explanation:         *w.Explanation,
	}, nil
}

func decodeStrict(body string, v any) error {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// extractJSON strips code fences and any prose around the outermost
// open...close span.
func extractJSON(text string, open, close byte) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end < start {
		return s
	}
	// Anything before the span other than whitespace must not itself be
	// JSON of the other shape, e.g. an array when an object was expected.
	if first := strings.TrimSpace(s[:start]); first != "" && (first[0] == '[' || first[0] == '{') {
		return s
	}
	return s[start : end+1]
}
