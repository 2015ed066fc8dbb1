package scoring

import "math"

// StoredAnswer is a persisted answer as read back for results reconstruction.
type StoredAnswer struct {
	AwardedScore   *float64
	MaxScore       *float64
	ManualOverride bool
	ManualScore    *float64
	Contributions  []Contribution
	Rubric         []RubricLine
}

func (a StoredAnswer) ceiling() float64 {
	if a.MaxScore == nil {
		return ScoreMax
	}
	return *a.MaxScore
}

func (a StoredAnswer) storedAwarded() float64 {
	if a.AwardedScore == nil {
		return 0
	}
	return *a.AwardedScore
}

// EffectiveScore is the manual score clamped to the answer's ceiling when an
// override is active, otherwise the stored automatic score.
func EffectiveScore(a StoredAnswer) float64 {
	if a.ManualOverride && a.ManualScore != nil && finite(*a.ManualScore) {
		return math.Max(0, math.Min(a.ceiling(), *a.ManualScore))
	}
	return a.storedAwarded()
}

// OverrideRatio relates the effective score to what the stored contributions
// were computed from: the stored awarded score, or failing that the sum of the
// contribution maxima. It is 0 when neither is positive.
func OverrideRatio(a StoredAnswer, effective float64) float64 {
	if stored := a.storedAwarded(); stored > 0 {
		return effective / stored
	}
	var total float64
	for _, c := range a.Contributions {
		total += c.Max
	}
	if total > 0 {
		return effective / total
	}
	return 0
}

// Reconcile produces the answer score used when rebuilding results from
// storage. Contributions are rescaled by OverrideRatio so behaviour totals
// follow a manual override; their maxima are left untouched. When the stored
// awarded score was zero the ratio is relative to the maxima, so it is applied
// to each contribution's max share instead of its (zero) awarded share. This
// intentionally departs from scaling the awarded share alone, which would leave
// every behaviour at zero after a full-credit override.
func Reconcile(a StoredAnswer) AnswerScore {
	effective := EffectiveScore(a)
	ratio := OverrideRatio(a, effective)
	fromMax := a.storedAwarded() <= 0

	contributions := make([]Contribution, 0, len(a.Contributions))
	for _, c := range a.Contributions {
		base := c.Awarded
		if fromMax {
			base = c.Max
		}
		c.Awarded = base * ratio
		c.Behaviour = behaviourName(c.Behaviour)
		contributions = append(contributions, c)
	}
	return AnswerScore{
		AwardedScore:  effective,
		MaxScore:      a.ceiling(),
		Contributions: contributions,
		Rubric:        a.Rubric,
	}
}
