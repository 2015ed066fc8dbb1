// Package scoring turns raw test-taker responses into normalized answer
// scores, splits them across linked behaviours and folds them into attempt
// level results. Everything here is pure: no I/O, no clocks, no shared state.
package scoring

import "encoding/json"

// ScoreMax is the canonical ceiling every question type is rescaled onto.
const ScoreMax = 4.0

// DefaultBehaviourName is reported for a contribution whose behaviour has no name.
const DefaultBehaviourName = "Behaviour"

type QuestionType string

const (
	TypeMCQ       QuestionType = "MCQ"
	TypeNumerical QuestionType = "NUMERICAL"
	TypeSJT       QuestionType = "SJT"
	TypeFreeText  QuestionType = "FREE_TEXT"
	TypeTechnical QuestionType = "TECHNICAL"
)

// RubricLine is one itemized sub-score of a rubric-graded answer.
type RubricLine struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Raw is a scorer's output on the question's own scale.
type Raw struct {
	Score  float64
	Max    float64
	Rubric []RubricLine
}

// Scorer grades a response for one question variant. Implementations never
// fail: a response of the wrong shape degrades to no credit.
type Scorer interface {
	Score(response json.RawMessage) Raw
}

// BehaviourRef identifies a behaviour linked to a question.
type BehaviourRef struct {
	ID   string
	Name string
}

// Contribution is the share of one answer credited to one behaviour.
type Contribution struct {
	BehaviourID string  `json:"behaviour_id"`
	Behaviour   string  `json:"behaviour"`
	Awarded     float64 `json:"awarded"`
	Max         float64 `json:"max"`
}

// AnswerScore is a fully scored answer on the canonical scale.
type AnswerScore struct {
	AwardedScore  float64
	MaxScore      float64
	Contributions []Contribution
	Rubric        []RubricLine
}

// Question is a question definition compiled for scoring.
type Question struct {
	ID         string
	Type       QuestionType
	Scorer     Scorer
	Behaviours []BehaviourRef
}

// Compile decodes the type-specific metadata of a question once and binds the
// matching scorer.
func Compile(id string, qType string, correctAnswer *string, metadata []byte, behaviours []BehaviourRef) Question {
	t := QuestionType(qType)
	return Question{
		ID:         id,
		Type:       t,
		Scorer:     NewScorer(t, correctAnswer, metadata),
		Behaviours: behaviours,
	}
}

// Score runs the response through the scorer, normalizes it and splits it
// across the question's behaviours.
func (q Question) Score(response json.RawMessage) AnswerScore {
	raw := q.Scorer.Score(response)
	awarded := Normalize(raw.Score, raw.Max)
	return AnswerScore{
		AwardedScore:  awarded,
		MaxScore:      ScoreMax,
		Contributions: Split(awarded, ScoreMax, q.Behaviours),
		Rubric:        raw.Rubric,
	}
}
