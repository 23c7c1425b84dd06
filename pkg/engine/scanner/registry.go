package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/swarm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registry manages a collection of scanners.
type Registry struct {
	scanners []Scanner
}

// NewRegistry creates a new scanner registry.
func NewRegistry() *Registry {
	return &Registry{
		scanners: []Scanner{},
	}
}

// Register adds a scanner to the registry.
func (r *Registry) Register(s Scanner) {
	r.scanners = append(r.scanners, s)
}

// Len reports the number of registered scanners.
func (r *Registry) Len() int {
	return len(r.scanners)
}

// RunAll executes all registered scanners using the provided swarm engine.
func (r *Registry) RunAll(ctx context.Context, cat *catalog.Catalog, pool *swarm.Engine, wg *sync.WaitGroup, cluster string) {
	for _, s := range r.scanners {
		scanner := s
		wg.Add(1)
		pool.Submit(func(ctx context.Context) error {
			defer wg.Done()
			return runWithTelemetry(ctx, scanner, cat, cluster)
		})
	}
}

func runWithTelemetry(ctx context.Context, s Scanner, cat *catalog.Catalog, cluster string) error {
	taskName := s.Name()
	tr := otel.Tracer("hdfslash/scanner")
	ctx, span := tr.Start(ctx, taskName, trace.WithAttributes(
		attribute.String("storage.system", "hdfs"),
		attribute.String("hdfs.cluster", cluster),
	))
	defer span.End()

	slog.Debug("Starting Scanner", "name", taskName)
	err := s.Scan(ctx, cat)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		// Capture partial failure
		scope := fmt.Sprintf("%s [%s]", cluster, taskName)
		cat.AddError(scope, err)
		slog.Error("Scanner encountered error", "name", taskName, "error", err)
	} else {
		slog.Debug("Scanner completed", "name", taskName)
	}
	return err
}
