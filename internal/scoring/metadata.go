package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NumericalParams are the parameters of a NUMERICAL question.
type NumericalParams struct {
	Tolerance float64
}

// SJTParams holds the option weights of a situational-judgment question.
type SJTParams struct {
	Weights map[string]float64
}

// RubricItem is one criterion of a free-text rubric.
type RubricItem struct {
	ID    string
	Max   *float64
	Label *string
}

// Cap is the item's maximum, falling back to ScoreMax.
func (i RubricItem) Cap() float64 {
	if i.Max == nil {
		return ScoreMax
	}
	return *i.Max
}

// DisplayLabel is the item's label, falling back to its id.
func (i RubricItem) DisplayLabel() string {
	if i.Label == nil {
		return i.ID
	}
	return *i.Label
}

// FreeTextParams holds the rubric of a FREE_TEXT question. HasRubric is false
// when the metadata carries no rubric list at all.
type FreeTextParams struct {
	Rubric    []RubricItem
	HasRubric bool
}

// TechnicalParams holds the expected value of a TECHNICAL question.
type TechnicalParams struct {
	Expected    any
	HasExpected bool
}

// document is the metadata bag with every known key kept raw until the
// question type decides how to read it.
type document struct {
	Tolerance     json.RawMessage            `json:"tolerance"`
	SJTWeights    map[string]json.RawMessage `json:"sjtWeights"`
	Rubric        json.RawMessage            `json:"rubric"`
	CorrectAnswer json.RawMessage            `json:"correctAnswer"`
	Options       json.RawMessage            `json:"options"`
}

func decodeDocument(metadata []byte) document {
	var doc document
	if len(bytes.TrimSpace(metadata)) == 0 {
		return doc
	}
	if err := json.Unmarshal(metadata, &doc); err != nil {
		return document{}
	}
	return doc
}

func ParseNumericalParams(metadata []byte) NumericalParams {
	doc := decodeDocument(metadata)
	tol, ok := jsonNumber(doc.Tolerance)
	if !ok {
		tol = 0
	}
	return NumericalParams{Tolerance: tol}
}

func ParseSJTParams(metadata []byte) SJTParams {
	doc := decodeDocument(metadata)
	weights := make(map[string]float64, len(doc.SJTWeights))
	for option, raw := range doc.SJTWeights {
		if w, ok := jsonNumber(raw); ok {
			weights[option] = w
		}
	}
	return SJTParams{Weights: weights}
}

func ParseFreeTextParams(metadata []byte) FreeTextParams {
	doc := decodeDocument(metadata)
	var items []json.RawMessage
	if !isArray(doc.Rubric) || json.Unmarshal(doc.Rubric, &items) != nil {
		return FreeTextParams{}
	}
	params := FreeTextParams{HasRubric: true, Rubric: make([]RubricItem, 0, len(items))}
	for _, raw := range items {
		var item struct {
			ID    json.RawMessage `json:"id"`
			Max   json.RawMessage `json:"max"`
			Label json.RawMessage `json:"label"`
		}
		if json.Unmarshal(raw, &item) != nil {
			continue
		}
		id, _ := jsonString(item.ID)
		ri := RubricItem{ID: id}
		if m, ok := jsonNumber(item.Max); ok {
			ri.Max = &m
		}
		if l, ok := jsonString(item.Label); ok {
			ri.Label = &l
		}
		params.Rubric = append(params.Rubric, ri)
	}
	return params
}

func ParseTechnicalParams(correctAnswer *string, metadata []byte) TechnicalParams {
	doc := decodeDocument(metadata)
	if !isNull(doc.CorrectAnswer) {
		var expected any
		if json.Unmarshal(doc.CorrectAnswer, &expected) == nil {
			return TechnicalParams{Expected: expected, HasExpected: true}
		}
	}
	if correctAnswer != nil {
		return TechnicalParams{Expected: *correctAnswer, HasExpected: true}
	}
	return TechnicalParams{}
}

// Options lists the selectable options a question presents, never its key.
// metadata.options wins; SJT questions fall back to their weighted options.
func Options(qType string, metadata []byte) []string {
	doc := decodeDocument(metadata)
	var opts []string
	if isArray(doc.Options) && json.Unmarshal(doc.Options, &opts) == nil {
		return opts
	}
	if QuestionType(qType) != TypeSJT {
		return nil
	}
	weights := ParseSJTParams(metadata).Weights
	for option := range weights {
		opts = append(opts, option)
	}
	sort.Strings(opts)
	return opts
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// jsonNumber accepts only a JSON number literal.
func jsonNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) || trimmed[0] == '"' {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return 0, false
	}
	return f, true
}

func jsonString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// looseNumber accepts a JSON number or a string holding one. Blank strings and
// non-finite values are rejected.
func looseNumber(raw json.RawMessage) (float64, bool) {
	if f, ok := jsonNumber(raw); ok {
		return f, finite(f)
	}
	s, ok := jsonString(raw)
	if !ok {
		return 0, false
	}
	return parseNumber(s)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
