package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/hdfslash/pkg/cloud"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadArtifacts mirrors a directory of rendered artifacts (scripts,
// exports, dashboards) to an s3://bucket/prefix target. Single-file
// failures are logged and skipped so one bad object does not abort the
// batch.
func (e *Engine) UploadArtifacts(ctx context.Context, dir, target string) error {
	rest, ok := strings.CutPrefix(target, "s3://")
	if !ok {
		return fmt.Errorf("invalid S3 target %q", target)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return fmt.Errorf("invalid S3 target %q", target)
	}

	cl, err := cloud.NewClient(ctx, e.config.Region, "", e.config.Verbose)
	if err != nil {
		return fmt.Errorf("failed to load AWS config for upload: %w", err)
	}
	client := s3.NewFromConfig(cl.Config)

	e.Logger.Info("Uploading artifacts", "bucket", bucket, "prefix", prefix, "dir", dir)

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		// S3 keys use forward slashes regardless of host OS.
		key := filepath.ToSlash(filepath.Join(prefix, relPath))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		if err != nil {
			e.Logger.Warn("Failed to upload artifact", "file", relPath, "error", err)
			return nil
		}

		return nil
	})
}
