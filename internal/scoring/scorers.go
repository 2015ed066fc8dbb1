package scoring

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
)

// NewScorer binds the scorer for a question type, decoding its metadata into
// the variant's parameters. Unknown types get a scorer that awards nothing.
func NewScorer(t QuestionType, correctAnswer *string, metadata []byte) Scorer {
	switch t {
	case TypeMCQ:
		return NewMCQScorer(correctAnswer)
	case TypeNumerical:
		return NewNumericalScorer(correctAnswer, ParseNumericalParams(metadata))
	case TypeSJT:
		return NewSJTScorer(ParseSJTParams(metadata))
	case TypeFreeText:
		return NewFreeTextScorer(ParseFreeTextParams(metadata))
	case TypeTechnical:
		return NewTechnicalScorer(ParseTechnicalParams(correctAnswer, metadata))
	default:
		return unknownScorer{}
	}
}

var (
	_ Scorer = MCQScorer{}
	_ Scorer = NumericalScorer{}
	_ Scorer = SJTScorer{}
	_ Scorer = FreeTextScorer{}
	_ Scorer = TechnicalScorer{}
	_ Scorer = unknownScorer{}
)

// MCQScorer awards full credit for an exact string match.
type MCQScorer struct {
	correct    string
	hasCorrect bool
}

func NewMCQScorer(correctAnswer *string) MCQScorer {
	if correctAnswer == nil {
		return MCQScorer{}
	}
	return MCQScorer{correct: *correctAnswer, hasCorrect: true}
}

func (s MCQScorer) Score(response json.RawMessage) Raw {
	got, ok := jsonString(response)
	if ok && s.hasCorrect && got == s.correct {
		return Raw{Score: 1, Max: 1}
	}
	return Raw{Score: 0, Max: 1}
}

// NumericalScorer awards full credit when the response lies within tolerance
// of the correct value.
type NumericalScorer struct {
	correct   float64
	valid     bool
	tolerance float64
}

func NewNumericalScorer(correctAnswer *string, params NumericalParams) NumericalScorer {
	s := NumericalScorer{tolerance: params.Tolerance}
	if correctAnswer != nil {
		s.correct, s.valid = parseNumber(*correctAnswer)
	}
	return s
}

func (s NumericalScorer) Score(response json.RawMessage) Raw {
	got, ok := looseNumber(response)
	if ok && s.valid && math.Abs(s.correct-got) <= s.tolerance {
		return Raw{Score: 1, Max: 1}
	}
	return Raw{Score: 0, Max: 1}
}

// SJTScorer grants weighted partial credit. A multi-select response is
// measured against the best possible pick of the same size.
type SJTScorer struct {
	weights   map[string]float64
	sorted    []float64
	maxWeight float64
}

func NewSJTScorer(params SJTParams) SJTScorer {
	s := SJTScorer{weights: params.Weights}
	for _, w := range params.Weights {
		s.sorted = append(s.sorted, w)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(s.sorted)))
	if len(s.sorted) > 0 {
		s.maxWeight = s.sorted[0]
	}
	return s
}

func (s SJTScorer) Score(response json.RawMessage) Raw {
	if isArray(response) {
		var selected []json.RawMessage
		if json.Unmarshal(response, &selected) == nil {
			return s.scoreSelection(selected)
		}
	}
	if option, ok := jsonString(response); ok {
		return Raw{Score: s.weights[option], Max: orOne(s.maxWeight)}
	}
	return Raw{Score: 0, Max: orOne(s.maxWeight)}
}

func (s SJTScorer) scoreSelection(selected []json.RawMessage) Raw {
	var raw float64
	for _, item := range selected {
		if option, ok := jsonString(item); ok {
			raw += s.weights[option]
		}
	}
	var best float64
	for i := 0; i < len(selected) && i < len(s.sorted); i++ {
		best += s.sorted[i]
	}
	return Raw{Score: raw, Max: orOne(best)}
}

// FreeTextScorer grades rubric sub-scores, or a single holistic score when no
// rubric applies.
type FreeTextScorer struct {
	params FreeTextParams
}

func NewFreeTextScorer(params FreeTextParams) FreeTextScorer {
	return FreeTextScorer{params: params}
}

func (s FreeTextScorer) Score(response json.RawMessage) Raw {
	if !isObject(response) {
		return Raw{Score: 0, Max: ScoreMax}
	}
	var body struct {
		RubricScores json.RawMessage `json:"rubricScores"`
		Score        json.RawMessage `json:"score"`
	}
	if json.Unmarshal(response, &body) != nil {
		return Raw{Score: 0, Max: ScoreMax}
	}
	if isObject(body.RubricScores) && s.params.HasRubric {
		var given map[string]json.RawMessage
		if json.Unmarshal(body.RubricScores, &given) == nil {
			return s.scoreRubric(given)
		}
	}
	if score, ok := jsonNumber(body.Score); ok {
		return Raw{Score: clamp(score, 0, ScoreMax), Max: ScoreMax}
	}
	return Raw{Score: 0, Max: ScoreMax}
}

func (s FreeTextScorer) scoreRubric(given map[string]json.RawMessage) Raw {
	out := Raw{Rubric: make([]RubricLine, 0, len(s.params.Rubric))}
	for _, item := range s.params.Rubric {
		limit := item.Cap()
		v, ok := jsonNumber(given[item.ID])
		if !ok {
			v = 0
		}
		score := math.Min(v, limit)
		out.Score += score
		out.Max += limit
		out.Rubric = append(out.Rubric, RubricLine{
			ID:    item.ID,
			Label: item.DisplayLabel(),
			Score: score,
			Max:   limit,
		})
	}
	if out.Max == 0 {
		out.Max = ScoreMax
	}
	return out
}

// TechnicalScorer compares the decoded response structurally with the expected
// value. Array order matters.
type TechnicalScorer struct {
	params TechnicalParams
}

func NewTechnicalScorer(params TechnicalParams) TechnicalScorer {
	return TechnicalScorer{params: params}
}

func (s TechnicalScorer) Score(response json.RawMessage) Raw {
	if !s.params.HasExpected || isNull(response) {
		return Raw{Score: 0, Max: 1}
	}
	var got any
	if json.Unmarshal(response, &got) != nil {
		return Raw{Score: 0, Max: 1}
	}
	if reflect.DeepEqual(got, s.params.Expected) {
		return Raw{Score: 1, Max: 1}
	}
	return Raw{Score: 0, Max: 1}
}

type unknownScorer struct{}

func (unknownScorer) Score(json.RawMessage) Raw {
	return Raw{Score: 0, Max: 1}
}

func orOne(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}
