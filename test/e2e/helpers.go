//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/DrSkyle/hdfslash/pkg/scan"
	"github.com/DrSkyle/hdfslash/pkg/store"
)

var bucketSeq atomic.Int64

// GetAWSConfig returns the shared AWS config pointing at LocalStack.
func GetAWSConfig(t *testing.T) aws.Config {
	if awsCfg.Region == "" {
		t.Fatal("AWS config not initialized (TestMain didn't run?)")
	}
	return awsCfg
}

// pathStyle forces path-style addressing. Bucket-as-subdomain does not
// resolve against a localhost endpoint.
func pathStyle(o *s3.Options) {
	o.UsePathStyle = true
}

// newBucket creates a uniquely named bucket in LocalStack.
func newBucket(t *testing.T) string {
	t.Helper()

	name := fmt.Sprintf("hdfslash-e2e-%d-%d", time.Now().Unix(), bucketSeq.Add(1))
	client := s3.NewFromConfig(GetAWSConfig(t), pathStyle)
	_, err := client.CreateBucket(context.Background(), &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		t.Fatalf("CreateBucket failed: %v", err)
	}
	return name
}

// newS3Store wraps a fresh bucket in the typed store.
func newS3Store(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.NewS3Store(GetAWSConfig(t), newBucket(t), pathStyle))
}

// seedScan builds a minimal completed scan envelope. The timestamp is
// normalized so it survives a JSON round-trip unchanged.
func seedScan(id string, started time.Time) *scan.Report {
	started = started.UTC().Truncate(time.Millisecond)
	return &scan.Report{
		ScanID:         id,
		Status:         scan.StatusCompleted,
		ScanStarted:    started,
		ScanCompleted:  started.Add(2 * time.Second),
		ScannedPaths:   []string{"/data"},
		ScanDepth:      3,
		TotalFiles:     10,
		TotalSizeBytes: 5 << 30,
		TotalSizeGB:    5,
	}
}
