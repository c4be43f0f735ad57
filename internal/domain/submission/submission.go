// Package submission turns raw submit payloads into normalized race results.
//
// Decoding is lenient by default: a body that is not a JSON object counts as
// {}, text fields that are missing, blank or not text fall back to their
// defaults, and a time_s that cannot be read as a finite number becomes 0.
// Strict mode reports the last two cases as validation errors instead.
package submission

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/wask/internal/domain/model"
)

// Defaults applied to missing fields.
const (
	DefaultName    = "Player"
	DefaultEmail   = ""
	DefaultOutcome = "unknown"
	DefaultTimeS   = 0.0
)

// Normalizer applies defaulting rules to submitted results.
type Normalizer struct {
	defaultName string
	strict      bool
}

// New returns a Normalizer configured by opts.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{defaultName: DefaultName}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Strict reports whether malformed input is rejected.
func (n *Normalizer) Strict() bool { return n.strict }

// Parse decodes a raw request body and normalizes it.
func (n *Normalizer) Parse(body []byte) (model.Submission, error) {
	fields, ok := decodeObject(body)
	if !ok {
		if n.strict {
			return model.Submission{}, &validationError{kind: ErrMalformedBody}
		}
		fields = map[string]any{}
	}
	return n.Normalize(fields)
}

// Normalize applies defaults to already decoded fields.
func (n *Normalizer) Normalize(fields map[string]any) (model.Submission, error) {
	timeS, ok := toFloat(fields["time_s"])
	if !ok {
		if n.strict {
			return model.Submission{}, &validationError{kind: ErrInvalidTime}
		}
		timeS = DefaultTimeS
	}
	return model.Submission{
		Name:    textOr(fields["name"], n.defaultName),
		Email:   textOr(fields["email"], DefaultEmail),
		TimeS:   timeS,
		Outcome: textOr(fields["outcome"], DefaultOutcome),
	}, nil
}

func decodeObject(body []byte) (map[string]any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// textOr trims strings and formats numbers; anything else is absent.
func textOr(v any, def string) string {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	}
	if s == "" {
		return def
	}
	return s
}

// toFloat reports false only for values that are present but unusable.
func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case nil:
		return DefaultTimeS, true
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case float64:
		f = t
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
