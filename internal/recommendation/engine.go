package recommendation

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lshigami/behavio/internal/scoring"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Engine evaluates an ordered rule set. It is safe for concurrent use once
// built.
type Engine struct {
	rules []Rule
}

// Parse decodes a YAML list of rules and compiles every condition.
func Parse(content []byte) (*Engine, error) {
	var rules []Rule
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, err
		}
	}
	return &Engine{rules: rules}, nil
}

func LoadFromFile(file string) (*Engine, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Default returns the built-in rule set.
func Default() (*Engine, error) {
	return Parse(defaultRules)
}

// Recommend lists the recommendations for a report, in rule order, without
// duplicates. The result is never nil.
func (e *Engine) Recommend(report scoring.Report, grade string) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for i := range e.rules {
		r := &e.rules[i]
		overall := Input{Overall: report.OverallScore, Grade: grade, Score: -1}
		if r.Match(overall) {
			add(r.Render(overall))
		}
		for _, b := range report.BehaviourScores {
			in := Input{Overall: report.OverallScore, Grade: grade, Behaviour: b.Behaviour, Score: b.Score}
			if r.Match(in) {
				add(r.Render(in))
			}
		}
	}
	return out
}

func (e *Engine) Len() int { return len(e.rules) }
