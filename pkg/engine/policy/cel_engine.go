package policy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// Engine manages the compilation and execution of exclusion rules.
// Rules compile once and evaluate per file, in file order.
type Engine struct {
	env   *cel.Env
	rules []compiledRule
}

type compiledRule struct {
	name string
	prg  cel.Program
}

// NewEngine initializes the CEL environment with the file attribute
// declarations rules may reference.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("path", decls.String),
			decls.NewVar("size", decls.Int),
			decls.NewVar("age_days", decls.Double),
			decls.NewVar("replication", decls.Int),
			decls.NewVar("owner", decls.String),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &Engine{env: env}, nil
}

// Compile compiles enabled rules into executable programs. Disabled
// rules are skipped without compiling, so a broken draft rule can stay
// in the file turned off.
func (e *Engine) Compile(rules []Rule) error {
	for _, r := range rules {
		if !r.Enabled {
			continue
		}

		ast, issues := e.env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.Name, issues.Err())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.Name, err)
		}

		e.rules = append(e.rules, compiledRule{name: r.Name, prg: prg})
	}
	return nil
}

// Evaluate checks the variables against every compiled rule.
// Returns the names of all matching rules.
func (e *Engine) Evaluate(vars map[string]interface{}) []string {
	var matches []string

	for _, r := range e.rules {
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			slog.Error("Rule evaluation failed", "rule", r.name, "error", err)
			continue
		}

		// Rules return a boolean (true = file is excluded).
		if match, ok := out.Value().(bool); ok && match {
			matches = append(matches, r.name)
		}
	}

	return matches
}

// Variables flattens a file record into the attributes rules see.
func Variables(f catalog.FileRecord, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"path":        f.Path,
		"size":        f.Size,
		"age_days":    now.Sub(f.AccessedAt()).Hours() / 24,
		"replication": f.Replication,
		"owner":       f.Owner,
	}
}

// ExcludedFile reports the first rule exempting the file from plan
// actions, if any.
func (e *Engine) ExcludedFile(f catalog.FileRecord, now time.Time) (string, bool) {
	if len(e.rules) == 0 {
		return "", false
	}
	matches := e.Evaluate(Variables(f, now))
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}
