package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

// Sources recorded on the Analysis.
const (
	SourceLLM      = "llm_analysis"
	SourceFallback = "fallback_analysis"
)

var (
	// ErrNoJSON means the model reply contained no JSON object at all.
	ErrNoJSON = errors.New("advisor: no JSON object in model response")
)

// Generator produces a raw model reply for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Advisor runs the analysis pass. With a nil Generator it always answers
// from the deterministic fallback.
type Advisor struct {
	gen    Generator
	logger *slog.Logger
}

func New(gen Generator, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{gen: gen, logger: logger}
}

// Analyze asks the model for recommendations and falls back to the
// heuristic analysis on any model or parse failure. Only context
// cancellation surfaces as an error.
func (a *Advisor) Analyze(ctx context.Context, res *analyzer.Result) (*Analysis, error) {
	f := SummarizeFindings(res)

	if a.gen == nil {
		return Fallback(f), nil
	}

	reply, err := a.gen.GenerateJSON(ctx, BuildPrompt(f))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("model analysis failed, using fallback", "error", err)
		return Fallback(f), nil
	}

	analysis, err := a.parse(reply)
	if err != nil {
		a.logger.Warn("model reply unparseable, using fallback", "error", err)
		return Fallback(f), nil
	}
	analysis.Source = SourceLLM
	return analysis, nil
}

// parse extracts the JSON object from a reply that may carry prose or
// code fences around it, then checks the contract.
func (a *Advisor) parse(reply string) (*Analysis, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}
	raw := reply[start : end+1]

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("advisor: decode model reply: %w", err)
	}
	for _, field := range []string{"analysis_summary", "recommendations", "cost_calculations"} {
		if _, ok := probe[field]; !ok {
			return nil, fmt.Errorf("advisor: model reply missing %q", field)
		}
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("advisor: decode model reply: %w", err)
	}

	for i, rec := range analysis.Recommendations {
		if rec.Title == "" || rec.Description == "" || rec.Category == "" || rec.Impact == "" {
			a.logger.Warn("recommendation missing fields", "index", i, "title", rec.Title, "category", rec.Category)
		}
	}
	return &analysis, nil
}
