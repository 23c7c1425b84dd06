// Package catalog holds the file inventory assembled during a cluster scan.
// Scanners push records through a buffered channel and a single builder
// goroutine owns all writes, so ingestion needs no locks on the hot path.
package catalog

import (
	"sync"

	"github.com/DrSkyle/hdfslash/pkg/sys/intern"
)

type opKind int

const (
	opFile opKind = iota
	opMetrics
)

type catalogOp struct {
	kind    opKind
	file    FileRecord
	metrics ClusterMetrics
}

// ScopeError records a scan scope that failed without aborting the run.
type ScopeError struct {
	Scope string `json:"scope"`
	Error string `json:"error"`
}

// Metadata describes the completeness of a scan.
type Metadata struct {
	Partial      bool         `json:"partial"`
	FailedScopes []ScopeError `json:"failed_scopes,omitempty"`
}

// Catalog is the single-writer inventory of scanned files.
type Catalog struct {
	mu       sync.RWMutex
	files    []FileRecord
	byPath   map[string]int
	metrics  ClusterMetrics
	metadata Metadata

	opChan    chan catalogOp
	buildDone chan struct{}
}

// New creates a catalog and starts its builder goroutine.
func New() *Catalog {
	c := &Catalog{
		files:     make([]FileRecord, 0, 1000),
		byPath:    make(map[string]int),
		opChan:    make(chan catalogOp, 10000),
		buildDone: make(chan struct{}),
	}
	c.startBuilder()
	return c
}

func (c *Catalog) startBuilder() {
	go func() {
		defer close(c.buildDone)
		for op := range c.opChan {
			c.mu.Lock()
			switch op.kind {
			case opFile:
				c.unsafeAddFile(op.file)
			case opMetrics:
				c.metrics = op.metrics
			}
			c.mu.Unlock()
		}
	}()
}

// CloseAndWait seals the ingestion pipeline and waits for the builder to
// drain. After this returns the catalog is immutable and safe for parallel
// reads.
func (c *Catalog) CloseAndWait() {
	close(c.opChan)
	<-c.buildDone
}

// AddFile queues a record for ingestion. Safe for concurrent use.
func (c *Catalog) AddFile(f FileRecord) {
	if f.Path == "" {
		return
	}
	c.opChan <- catalogOp{kind: opFile, file: f}
}

// SetMetrics queues the cluster metrics snapshot.
func (c *Catalog) SetMetrics(m ClusterMetrics) {
	c.opChan <- catalogOp{kind: opMetrics, metrics: m}
}

// unsafeAddFile runs only in the builder goroutine. A re-listed path
// overwrites the earlier record so the latest NameNode status wins.
func (c *Catalog) unsafeAddFile(f FileRecord) {
	f.Owner = intern.Canonical(f.Owner)
	f.Group = intern.Canonical(f.Group)
	f.Permission = intern.Canonical(f.Permission)
	f.StoragePolicy = intern.Canonical(f.StoragePolicy)

	if idx, ok := c.byPath[f.Path]; ok {
		c.files[idx] = f
		return
	}
	c.byPath[f.Path] = len(c.files)
	c.files = append(c.files, f)
}

// AddError marks the scan partial and records the failed scope.
func (c *Catalog) AddError(scope string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metadata.Partial = true
	c.metadata.FailedScopes = append(c.metadata.FailedScopes, ScopeError{
		Scope: scope,
		Error: err.Error(),
	})
}

// Files returns a snapshot copy of all records.
func (c *Catalog) Files() []FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files := make([]FileRecord, len(c.files))
	copy(files, c.files)
	return files
}

// Get returns the record for a path.
func (c *Catalog) Get(path string) (FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byPath[path]
	if !ok {
		return FileRecord{}, false
	}
	return c.files[idx], true
}

// Len reports the number of distinct files ingested.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// TotalSize sums all file sizes in bytes.
func (c *Catalog) TotalSize() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for i := range c.files {
		total += c.files[i].Size
	}
	return total
}

// Metrics returns the cluster metrics snapshot.
func (c *Catalog) Metrics() ClusterMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Metadata returns the scan completeness metadata.
func (c *Catalog) Metadata() Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := Metadata{Partial: c.metadata.Partial}
	out.FailedScopes = append(out.FailedScopes, c.metadata.FailedScopes...)
	return out
}
