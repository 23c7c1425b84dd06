package hdfs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// MockSource is a synthetic cluster for demos and tests. Every population
// below exists to trigger one analyzer: cold archive data, small event
// files, empty landing files, over-replicated criticals, orphaned temp
// files, and duplicate-sized backups.
type MockSource struct {
	now  time.Time
	tree map[string][]FileStatus
}

// NewMockSource builds the synthetic tree. Ages are derived from now so the
// classifier outputs stay stable for a fixed clock.
func NewMockSource(now time.Time) *MockSource {
	m := &MockSource{
		now:  now,
		tree: make(map[string][]FileStatus),
	}

	daysAgo := func(d int) int64 {
		return now.Add(-time.Duration(d) * 24 * time.Hour).UnixMilli()
	}

	m.addDir("/", "data")
	m.addDir("/", "tmp")
	m.addDir("/", "backup")
	m.addDir("/data", "warehouse")
	m.addDir("/data", "archive")
	m.addDir("/data", "events")
	m.addDir("/data", "landing")
	m.addDir("/data", "critical")
	m.addDir("/data/events", "hourly")
	m.addDir("/tmp", "etl")

	// 1. Healthy warehouse files. Recent access, standard replication.
	for i := 0; i < 3; i++ {
		m.addFile("/data/warehouse", FileStatus{
			PathSuffix:  fmt.Sprintf("part-%05d.parquet", i),
			Length:      2 << 30,
			Replication: 3,
			BlockSize:   128 << 20,
			AccessTime:  daysAgo(3 + i),
		})
	}

	// 2. Cold archive data. Last touched 200-380 days ago.
	for i := 0; i < 4; i++ {
		m.addFile("/data/archive", FileStatus{
			PathSuffix:  fmt.Sprintf("snapshot-2024-q%d.orc", i+1),
			Length:      int64(i+1) << 30,
			Replication: 3,
			BlockSize:   128 << 20,
			AccessTime:  daysAgo(200 + 60*i),
		})
	}

	// 3. Small event files. Sub-64MiB spread with a few under 1MiB, plus
	// one file exactly on the boundary that must not count as small.
	for i := 0; i < 120; i++ {
		size := int64(256<<10 + i*400<<10)
		m.addFile("/data/events/hourly", FileStatus{
			PathSuffix:  fmt.Sprintf("events-%03d.json", i),
			Length:      size,
			Replication: 3,
			BlockSize:   128 << 20,
			AccessTime:  daysAgo(1),
		})
	}
	m.addFile("/data/events/hourly", FileStatus{
		PathSuffix:  "events-boundary.json",
		Length:      64 << 20,
		Replication: 3,
		BlockSize:   128 << 20,
		AccessTime:  daysAgo(1),
	})

	// 4. Empty landing files from aborted ingests.
	for i := 0; i < 3; i++ {
		m.addFile("/data/landing", FileStatus{
			PathSuffix:  fmt.Sprintf("ingest-%d.avro", i),
			Length:      0,
			Replication: 3,
			BlockSize:   128 << 20,
			AccessTime:  daysAgo(14),
		})
	}
	m.addFile("/data/landing", FileStatus{
		PathSuffix:  "ingest-ok.avro",
		Length:      96 << 20,
		Replication: 3,
		BlockSize:   128 << 20,
		AccessTime:  daysAgo(2),
	})

	// 5. Over-replicated criticals. Factor 3 stays untouched.
	for i, repl := range []int{4, 5, 6, 3} {
		m.addFile("/data/critical", FileStatus{
			PathSuffix:  fmt.Sprintf("ledger-%d.db", i),
			Length:      5 << 30,
			Replication: repl,
			BlockSize:   256 << 20,
			AccessTime:  daysAgo(5),
		})
	}

	// 6. Orphaned temp files across the priority tiers. The 2-day file is
	// too fresh to count.
	m.addFile("/tmp/etl", FileStatus{
		PathSuffix: "session_001.tmp", Length: 512 << 20, Replication: 3,
		BlockSize: 128 << 20, ModificationTime: daysAgo(10), AccessTime: daysAgo(10),
	})
	m.addFile("/tmp/etl", FileStatus{
		PathSuffix: "cache_big.tmp", Length: 4 << 30, Replication: 3,
		BlockSize: 128 << 20, ModificationTime: daysAgo(45), AccessTime: daysAgo(45),
	})
	m.addFile("/tmp/etl", FileStatus{
		PathSuffix: "stale_export.bak", Length: 1 << 30, Replication: 3,
		BlockSize: 128 << 20, ModificationTime: daysAgo(120), AccessTime: daysAgo(120),
	})
	m.addFile("/tmp/etl", FileStatus{
		PathSuffix: "fresh.tmp", Length: 64 << 20, Replication: 3,
		BlockSize: 128 << 20, ModificationTime: daysAgo(2), AccessTime: daysAgo(2),
	})

	// 7. Duplicate-sized backups.
	for _, name := range []string{"dump-primary.dat", "dump-replica.dat", "dump-dr.dat"} {
		m.addFile("/backup", FileStatus{
			PathSuffix:  name,
			Length:      1 << 30,
			Replication: 3,
			BlockSize:   128 << 20,
			AccessTime:  daysAgo(30),
		})
	}

	return m
}

func (m *MockSource) addDir(parent, name string) {
	m.tree[parent] = append(m.tree[parent], FileStatus{
		PathSuffix:  name,
		Type:        "DIRECTORY",
		Replication: 0,
	})
	child := strings.TrimSuffix(parent, "/") + "/" + name
	if _, ok := m.tree[child]; !ok {
		m.tree[child] = nil
	}
}

func (m *MockSource) addFile(dir string, st FileStatus) {
	if st.Type == "" {
		st.Type = "FILE"
	}
	if st.Owner == "" {
		st.Owner = "hadoop"
	}
	if st.Group == "" {
		st.Group = "supergroup"
	}
	if st.Permission == "" {
		st.Permission = "644"
	}
	if st.ModificationTime == 0 {
		st.ModificationTime = st.AccessTime
	}
	m.tree[dir] = append(m.tree[dir], st)
}

// ListStatus lists children of path from the synthetic tree.
func (m *MockSource) ListStatus(ctx context.Context, path string) ([]FileStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, ok := m.tree[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	out := make([]FileStatus, len(children))
	copy(out, children)
	sort.Slice(out, func(i, j int) bool { return out[i].PathSuffix < out[j].PathSuffix })
	return out, nil
}

// GetFileStatus resolves one path from the tree.
func (m *MockSource) GetFileStatus(ctx context.Context, path string) (FileStatus, error) {
	if err := ctx.Err(); err != nil {
		return FileStatus{}, err
	}
	if path == "/" {
		return FileStatus{Type: "DIRECTORY"}, nil
	}
	parent := path[:strings.LastIndex(path, "/")]
	if parent == "" {
		parent = "/"
	}
	name := path[strings.LastIndex(path, "/")+1:]
	for _, st := range m.tree[parent] {
		if st.PathSuffix == name {
			return st, nil
		}
	}
	return FileStatus{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// ClusterMetrics returns a canned NameNode snapshot with elevated
// utilization so the health report has something to say.
func (m *MockSource) ClusterMetrics(ctx context.Context) (catalog.ClusterMetrics, error) {
	if err := ctx.Err(); err != nil {
		return catalog.ClusterMetrics{}, err
	}
	total := int64(100) << 40
	used := int64(86) << 40
	return catalog.ClusterMetrics{
		Filesystem: catalog.FilesystemMetrics{
			CapacityTotal:         total,
			CapacityUsed:          used,
			CapacityRemaining:     total - used,
			FilesTotal:            141,
			BlocksTotal:           512,
			UnderReplicatedBlocks: 12,
			CorruptBlocks:         0,
		},
		RPC: catalog.RPCMetrics{
			QueueTimeAvg:      1.7,
			ProcessingTimeAvg: 4.2,
		},
		Timestamp: m.now,
	}, nil
}
