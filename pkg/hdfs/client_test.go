package hdfs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/config"
)

func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parsing test server port: %v", err)
	}
	cfg := config.DefaultClusterConfig()
	cfg.Host = u.Hostname()
	cfg.WebPort = port
	return NewClient(cfg, nil)
}

func TestListStatusParsesWireFormat(t *testing.T) {
	// 1. Setup: a NameNode stub serving one listing.
	var gotUser string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("op") != "LISTSTATUS" {
			t.Errorf("Expected op=LISTSTATUS, got %q", r.URL.Query().Get("op"))
		}
		gotUser = r.URL.Query().Get("user.name")
		w.Write([]byte(`{"FileStatuses":{"FileStatus":[
			{"accessTime":1715000000000,"blockSize":134217728,"group":"supergroup",
			 "length":24930,"modificationTime":1714000000000,"owner":"hadoop",
			 "pathSuffix":"events.json","permission":"644","replication":3,"type":"FILE"},
			{"accessTime":0,"blockSize":0,"group":"supergroup","length":0,
			 "modificationTime":1714000000000,"owner":"hadoop","pathSuffix":"hourly",
			 "permission":"755","replication":0,"type":"DIRECTORY"}
		]}}`))
	}))
	defer ts.Close()

	// 2. Run
	client := newTestClient(t, ts)
	statuses, err := client.ListStatus(context.Background(), "/data")
	if err != nil {
		t.Fatalf("ListStatus failed: %v", err)
	}

	// 3. Assertions
	if gotUser != "hadoop" {
		t.Errorf("Expected user.name=hadoop on the request, got %q", gotUser)
	}
	if len(statuses) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(statuses))
	}
	file := statuses[0]
	if file.IsDir() {
		t.Error("Expected first status to be a file")
	}
	if file.Length != 24930 || file.Replication != 3 {
		t.Errorf("Unexpected file fields: %+v", file)
	}
	rec := file.ToRecord("/data")
	if rec.Path != "/data/events.json" {
		t.Errorf("Expected record path /data/events.json, got %q", rec.Path)
	}
	if !statuses[1].IsDir() {
		t.Error("Expected second status to be a directory")
	}
}

func TestRemoteExceptionMapsToNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"RemoteException":{"exception":"FileNotFoundException",
			"javaClassName":"java.io.FileNotFoundException",
			"message":"File does not exist: /nope"}}`))
	}))
	defer ts.Close()

	client := newTestClient(t, ts)

	_, err := client.GetFileStatus(context.Background(), "/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	exists, err := client.Exists(context.Background(), "/nope")
	if err != nil {
		t.Fatalf("Exists should swallow not-found, got %v", err)
	}
	if exists {
		t.Error("Expected /nope to not exist")
	}
}

func TestStoragePolicyDefaultsToHot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"BlockStoragePolicy":{"id":0,"name":""}}`))
	}))
	defer ts.Close()

	client := newTestClient(t, ts)
	policy, err := client.GetStoragePolicy(context.Background(), "/data/f")
	if err != nil {
		t.Fatalf("GetStoragePolicy failed: %v", err)
	}
	if policy != DefaultStoragePolicy {
		t.Errorf("Expected default policy %q, got %q", DefaultStoragePolicy, policy)
	}
}

func TestClusterMetricsParsesBeans(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/jmx") {
			t.Errorf("Expected /jmx request, got %s", r.URL.Path)
		}
		switch {
		case strings.Contains(r.URL.Query().Get("qry"), "FSNamesystem"):
			w.Write([]byte(`{"beans":[{"CapacityTotal":1000,"CapacityUsed":850,
				"CapacityRemaining":150,"FilesTotal":42,"BlocksTotal":128,
				"UnderReplicatedBlocks":3,"CorruptBlocks":1}]}`))
		case strings.Contains(r.URL.Query().Get("qry"), "RpcActivity"):
			w.Write([]byte(`{"beans":[{"RpcQueueTimeAvgTime":1.5,"RpcProcessingTimeAvgTime":3.25}]}`))
		default:
			w.Write([]byte(`{"beans":[]}`))
		}
	}))
	defer ts.Close()

	client := newTestClient(t, ts)
	metrics, err := client.ClusterMetrics(context.Background())
	if err != nil {
		t.Fatalf("ClusterMetrics failed: %v", err)
	}

	if metrics.Filesystem.CapacityUsed != 850 {
		t.Errorf("Expected used capacity 850, got %d", metrics.Filesystem.CapacityUsed)
	}
	if metrics.Filesystem.CorruptBlocks != 1 {
		t.Errorf("Expected 1 corrupt block, got %d", metrics.Filesystem.CorruptBlocks)
	}
	if metrics.RPC.ProcessingTimeAvg != 3.25 {
		t.Errorf("Expected rpc processing avg 3.25, got %f", metrics.RPC.ProcessingTimeAvg)
	}
}

func TestMockSourcePopulations(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockSource(now)

	root, err := mock.ListStatus(context.Background(), "/")
	if err != nil {
		t.Fatalf("ListStatus(/) failed: %v", err)
	}
	if len(root) != 3 {
		t.Fatalf("Expected 3 root entries, got %d", len(root))
	}

	hourly, err := mock.ListStatus(context.Background(), "/data/events/hourly")
	if err != nil {
		t.Fatalf("ListStatus(hourly) failed: %v", err)
	}
	var boundary *FileStatus
	for i := range hourly {
		if hourly[i].PathSuffix == "events-boundary.json" {
			boundary = &hourly[i]
		}
	}
	if boundary == nil {
		t.Fatal("Expected boundary file in hourly listing")
	}
	if boundary.Length != 64<<20 {
		t.Errorf("Expected boundary file at exactly 64MiB, got %d", boundary.Length)
	}

	if _, err := mock.ListStatus(context.Background(), "/absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing dir, got %v", err)
	}

	metrics, err := mock.ClusterMetrics(context.Background())
	if err != nil {
		t.Fatalf("ClusterMetrics failed: %v", err)
	}
	if metrics.UtilizationPercent() < 85 || metrics.UtilizationPercent() > 87 {
		t.Errorf("Expected ~86%% utilization, got %f", metrics.UtilizationPercent())
	}
}
