// Package store persists scan reports, optimization plans, and
// optimization envelopes behind a pluggable blob backend. Local disk,
// S3, and an in-memory store share the same key layout, so a scan
// written on a laptop reads back identically from a bucket.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/optimize"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

// ErrNotFound marks a key with no stored object behind it.
var ErrNotFound = errors.New("object not found")

// BlobStore is the raw byte-level backend. Implementations map keys to
// flat objects. Deleting a missing key is not an error.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

const (
	scanPrefix     = "scans/"
	planPrefix     = "plans/"
	optimizePrefix = "optimizations/"
)

// Store wraps a BlobStore with the typed envelopes the engine reads
// and writes.
type Store struct {
	blobs BlobStore
}

// New wraps a backend.
func New(blobs BlobStore) *Store {
	return &Store{blobs: blobs}
}

func scanKey(id string) string     { return scanPrefix + id + ".json" }
func planKey(id string) string     { return planPrefix + id + ".json" }
func optimizeKey(id string) string { return optimizePrefix + id + ".json" }

// PutScan persists a scan report, failed scans included. Listings and
// downstream gates rely on the failure envelope being retrievable.
func (s *Store) PutScan(ctx context.Context, rep *scan.Report) error {
	if rep.ScanID == "" {
		return fmt.Errorf("refusing to store scan without an ID")
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode scan %s: %w", rep.ScanID, err)
	}
	if err := s.blobs.Put(ctx, scanKey(rep.ScanID), data); err != nil {
		return fmt.Errorf("failed to store scan %s: %w", rep.ScanID, err)
	}
	return nil
}

// GetScan loads one scan report by ID.
func (s *Store) GetScan(ctx context.Context, id string) (*scan.Report, error) {
	data, err := s.blobs.Get(ctx, scanKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %s: %w", id, err)
	}
	var rep scan.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to decode scan %s: %w", id, err)
	}
	return &rep, nil
}

// DeleteScan removes a stored scan. Missing scans are a no-op.
func (s *Store) DeleteScan(ctx context.Context, id string) error {
	if err := s.blobs.Delete(ctx, scanKey(id)); err != nil {
		return fmt.Errorf("failed to delete scan %s: %w", id, err)
	}
	return nil
}

// ListScans returns listing projections for every stored scan, newest
// first. Scans that fail to decode are skipped rather than sinking the
// whole listing.
func (s *Store) ListScans(ctx context.Context) ([]scan.ListEntry, error) {
	keys, err := s.blobs.List(ctx, scanPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	entries := make([]scan.ListEntry, 0, len(keys))
	for _, key := range keys {
		data, err := s.blobs.Get(ctx, key)
		if err != nil {
			continue
		}
		var rep scan.Report
		if err := json.Unmarshal(data, &rep); err != nil {
			continue
		}
		entries = append(entries, rep.ToListEntry())
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ScanStarted.After(entries[j].ScanStarted)
	})
	return entries, nil
}

// PutPlan persists an implementation plan.
func (s *Store) PutPlan(ctx context.Context, p *plan.Plan) error {
	if p.PlanID == "" {
		return fmt.Errorf("refusing to store plan without an ID")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan %s: %w", p.PlanID, err)
	}
	if err := s.blobs.Put(ctx, planKey(p.PlanID), data); err != nil {
		return fmt.Errorf("failed to store plan %s: %w", p.PlanID, err)
	}
	return nil
}

// GetPlan loads one plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	data, err := s.blobs.Get(ctx, planKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", id, err)
	}
	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", id, err)
	}
	return &p, nil
}

// PutOptimization persists an optimization envelope. Failed runs are
// stored too so their error survives for later inspection.
func (s *Store) PutOptimization(ctx context.Context, o *optimize.Optimization) error {
	if o.OptimizationID == "" {
		return fmt.Errorf("refusing to store optimization without an ID")
	}
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode optimization %s: %w", o.OptimizationID, err)
	}
	if err := s.blobs.Put(ctx, optimizeKey(o.OptimizationID), data); err != nil {
		return fmt.Errorf("failed to store optimization %s: %w", o.OptimizationID, err)
	}
	return nil
}

// GetOptimization loads one optimization envelope by ID.
func (s *Store) GetOptimization(ctx context.Context, id string) (*optimize.Optimization, error) {
	data, err := s.blobs.Get(ctx, optimizeKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load optimization %s: %w", id, err)
	}
	var o optimize.Optimization
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to decode optimization %s: %w", id, err)
	}
	return &o, nil
}

// ListOptimizations returns listing projections for every stored
// optimization, newest first. Failed runs carry zero savings but still
// appear.
func (s *Store) ListOptimizations(ctx context.Context) ([]optimize.ListEntry, error) {
	keys, err := s.blobs.List(ctx, optimizePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimizations: %w", err)
	}

	entries := make([]optimize.ListEntry, 0, len(keys))
	for _, key := range keys {
		data, err := s.blobs.Get(ctx, key)
		if err != nil {
			continue
		}
		var o optimize.Optimization
		if err := json.Unmarshal(data, &o); err != nil {
			continue
		}
		entries = append(entries, o.ToListEntry())
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
