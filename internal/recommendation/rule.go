// Package recommendation derives development recommendations from an
// attempt's scores using CEL rules.
package recommendation

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Rule pairs a CEL condition with the recommendation it produces.
//
// When is evaluated once for the attempt as a whole (behaviour == "",
// score == -1) and once per behaviour score. Then may reference
// {{behaviour}} and {{grade}}.
type Rule struct {
	Name string `yaml:"name"`
	When string `yaml:"when"`
	Then string `yaml:"then"`

	program cel.Program
}

// Input is the activation a rule is evaluated against.
type Input struct {
	Overall   int
	Grade     string
	Behaviour string
	Score     float64
}

func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("overall", cel.IntType),
		cel.Variable("grade", cel.StringType),
		cel.Variable("behaviour", cel.StringType),
		cel.Variable("score", cel.DoubleType),
	)
}

// Init compiles When. The expression must be boolean.
func (r *Rule) Init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return fmt.Errorf("rule %q: %w", r.Name, iss.Err())
	}
	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return fmt.Errorf("rule %q: %w", r.Name, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q: condition must be boolean, got %s", r.Name, checked.OutputType())
	}
	program, err := env.Program(checked)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	r.program = program
	return nil
}

// Match reports whether the rule fires for in. Evaluation errors count as no
// match.
func (r *Rule) Match(in Input) bool {
	if r.program == nil {
		return false
	}
	out, _, err := r.program.Eval(map[string]any{
		"overall":   int64(in.Overall),
		"grade":     in.Grade,
		"behaviour": in.Behaviour,
		"score":     in.Score,
	})
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched
}

func (r *Rule) Render(in Input) string {
	return strings.NewReplacer("{{behaviour}}", in.Behaviour, "{{grade}}", in.Grade).Replace(r.Then)
}
