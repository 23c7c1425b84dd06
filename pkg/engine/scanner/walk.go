package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/hdfs"
)

// WalkScanner traverses one HDFS root breadth-first and ingests every file
// it sees. Depth 0 lists only the root's direct children; each extra level
// descends one directory further.
type WalkScanner struct {
	source hdfs.Source
	root   string
	depth  int
}

// NewWalkScanner builds a scanner for a single root path.
func NewWalkScanner(source hdfs.Source, root string, depth int) *WalkScanner {
	return &WalkScanner{source: source, root: root, depth: depth}
}

func (s *WalkScanner) Name() string {
	return "Walk(" + s.root + ")"
}

type walkItem struct {
	path  string
	depth int
}

// Scan lists directories level by level. A missing root is fatal for this
// scope; a missing subdirectory (deleted mid-scan) is skipped.
func (s *WalkScanner) Scan(ctx context.Context, cat *catalog.Catalog) error {
	queue := []walkItem{{path: s.root, depth: 0}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := queue[0]
		queue = queue[1:]

		statuses, err := s.source.ListStatus(ctx, item.path)
		if err != nil {
			if item.depth > 0 && errors.Is(err, hdfs.ErrNotFound) {
				continue
			}
			return fmt.Errorf("walking %s: %w", item.path, err)
		}

		for _, st := range statuses {
			if st.IsDir() {
				if item.depth < s.depth {
					queue = append(queue, walkItem{
						path:  st.AbsolutePath(item.path),
						depth: item.depth + 1,
					})
				}
				continue
			}
			cat.AddFile(st.ToRecord(item.path))
		}
	}

	return nil
}

// MetricsScanner captures the NameNode JMX snapshot. Metric failures mark
// the scan partial but never sink it.
type MetricsScanner struct {
	source hdfs.Source
}

func NewMetricsScanner(source hdfs.Source) *MetricsScanner {
	return &MetricsScanner{source: source}
}

func (s *MetricsScanner) Name() string {
	return "ClusterMetrics"
}

func (s *MetricsScanner) Scan(ctx context.Context, cat *catalog.Catalog) error {
	metrics, err := s.source.ClusterMetrics(ctx)
	if err != nil {
		return fmt.Errorf("collecting cluster metrics: %w", err)
	}
	cat.SetMetrics(metrics)
	return nil
}
