package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/config"
)

// Engine runs registered classifiers in parallel over one file snapshot.
type Engine struct {
	classifiers []Classifier
}

func NewEngine() *Engine {
	return &Engine{}
}

// NewDefaultEngine wires the standard classifier set from cfg.
func NewDefaultEngine(cfg config.AnalysisConfig) *Engine {
	e := NewEngine()
	e.Register(&ColdDataClassifier{ThresholdDays: cfg.ColdThresholdDays})
	e.Register(&DuplicateClassifier{})
	e.Register(&EfficiencyClassifier{SmallFileBytes: cfg.SmallFileBytes, TargetReplication: cfg.TargetReplication})
	e.Register(&OrphanedTempClassifier{MinAgeDays: cfg.OrphanAgeDays})
	e.Register(&DirectoryClassifier{SmallFileBytes: cfg.SmallFileBytes})
	e.Register(&WasteClassifier{SmallFileBytes: cfg.SmallFileBytes, TargetReplication: cfg.TargetReplication})
	return e
}

func (e *Engine) Register(c Classifier) {
	e.classifiers = append(e.classifiers, c)
}

// Run fans the classifiers out over files with a clock sampled once, then
// ranks the combined priority list from their reports.
func (e *Engine) Run(ctx context.Context, files []catalog.FileRecord) (*Result, error) {
	return e.RunAt(ctx, files, time.Now().UTC())
}

// RunAt is Run with an explicit clock. Each classifier owns a distinct
// Result field, so the WaitGroup is the only synchronization the fan-out
// needs. The first classifier error wins; the rest still finish.
func (e *Engine) RunAt(ctx context.Context, files []catalog.FileRecord, now time.Time) (*Result, error) {
	tracer := otel.Tracer("hdfslash/analyzer")

	res := &Result{}
	in := Input{Files: files, Now: now}

	var wg sync.WaitGroup
	errs := make(chan error, len(e.classifiers))

	for _, c := range e.classifiers {
		wg.Add(1)
		go func(c Classifier) {
			defer wg.Done()

			cctx, span := tracer.Start(ctx, "Classifier."+c.Name())
			defer span.End()

			start := time.Now()
			stats, err := c.Classify(cctx, in, res)
			duration := time.Since(start)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				errs <- fmt.Errorf("%s failed: %w", c.Name(), err)
				return
			}

			span.SetAttributes(
				attribute.Int64("duration_ms", duration.Milliseconds()),
				attribute.String("classifier", c.Name()),
			)
			if stats != nil {
				span.SetAttributes(
					attribute.Int("items_found", stats.ItemsFound),
					attribute.Int64("bytes_flagged", stats.BytesFlagged),
				)
			}
		}(c)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	res.Priorities = Priorities(res.Cold, res.Efficiency, res.Orphaned, res.Waste)
	return res, nil
}
