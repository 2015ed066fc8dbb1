package scoring

import "math"

// Normalize rescales raw/max onto [0, ScoreMax]. A non-positive max yields 0.
func Normalize(raw, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	v := raw / maxScore * ScoreMax
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, ScoreMax)
}

// Split divides an answer's score evenly over its linked behaviours. With no
// links nothing is emitted and the score still counts toward the overall total.
func Split(awarded, maxScore float64, links []BehaviourRef) []Contribution {
	if len(links) == 0 {
		return nil
	}
	n := float64(len(links))
	out := make([]Contribution, 0, len(links))
	for _, link := range links {
		out = append(out, Contribution{
			BehaviourID: link.ID,
			Behaviour:   behaviourName(link.Name),
			Awarded:     awarded / n,
			Max:         maxScore / n,
		})
	}
	return out
}

func behaviourName(name string) string {
	if name == "" {
		return DefaultBehaviourName
	}
	return name
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundTo rounds half away from zero at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
