package scoring

import "math"

// BehaviourTotal is the running credit for one behaviour.
type BehaviourTotal struct {
	ID       string
	Name     string
	Earned   float64
	Possible float64
}

// Tally accumulates scored answers. It is a value: Add returns a new Tally and
// never modifies the receiver, so partial tallies can be shared freely.
type Tally struct {
	earned     float64
	possible   float64
	behaviours []BehaviourTotal
}

func (t Tally) Add(a AnswerScore) Tally {
	next := Tally{
		earned:     t.earned + a.AwardedScore,
		possible:   t.possible + a.MaxScore,
		behaviours: append([]BehaviourTotal(nil), t.behaviours...),
	}
	for _, c := range a.Contributions {
		i := next.indexOf(c.BehaviourID)
		if i < 0 {
			next.behaviours = append(next.behaviours, BehaviourTotal{ID: c.BehaviourID, Name: behaviourName(c.Behaviour)})
			i = len(next.behaviours) - 1
		}
		next.behaviours[i].Earned += c.Awarded
		next.behaviours[i].Possible += c.Max
	}
	return next
}

func (t Tally) indexOf(id string) int {
	for i := range t.behaviours {
		if t.behaviours[i].ID == id {
			return i
		}
	}
	return -1
}

func (t Tally) Earned() float64   { return t.earned }
func (t Tally) Possible() float64 { return t.possible }

// Behaviours returns a copy of the per-behaviour totals in first-seen order.
func (t Tally) Behaviours() []BehaviourTotal {
	return append([]BehaviourTotal(nil), t.behaviours...)
}

type BehaviourScore struct {
	BehaviourID string
	Behaviour   string
	Score       float64
}

// Report is the attempt-level outcome: an overall percentage and a score per
// behaviour on the 0..ScoreMax scale.
type Report struct {
	OverallScore    int
	BehaviourScores []BehaviourScore
}

func (t Tally) Report() Report {
	r := Report{BehaviourScores: make([]BehaviourScore, 0, len(t.behaviours))}
	if t.possible > 0 {
		r.OverallScore = int(math.Round(t.earned / t.possible * 100))
	}
	for _, b := range t.behaviours {
		var score float64
		if b.Possible > 0 {
			score = roundTo(b.Earned/b.Possible*ScoreMax, 2)
		}
		r.BehaviourScores = append(r.BehaviourScores, BehaviourScore{
			BehaviourID: b.ID,
			Behaviour:   b.Name,
			Score:       score,
		})
	}
	return r
}

// Aggregate folds every answer into an empty Tally and reports it.
func Aggregate(answers ...AnswerScore) Report {
	var t Tally
	for _, a := range answers {
		t = t.Add(a)
	}
	return t.Report()
}
