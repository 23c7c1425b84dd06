// Package hdfs talks to a NameNode over WebHDFS and JMX. It is the only
// package that knows the Hadoop wire formats; everything downstream works
// with catalog records.
package hdfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/config"
)

// DefaultStoragePolicy is assumed when the NameNode cannot report one.
const DefaultStoragePolicy = "HOT"

// ErrNotFound indicates the path does not exist on the cluster.
var ErrNotFound = errors.New("hdfs: path not found")

// ErrThrottled indicates the NameNode is shedding load. Callers should back
// off rather than retry immediately.
var ErrThrottled = errors.New("hdfs: namenode throttled request")

// Source is the read surface scanners need. Both the live client and the
// mock cluster implement it.
type Source interface {
	ListStatus(ctx context.Context, path string) ([]FileStatus, error)
	GetFileStatus(ctx context.Context, path string) (FileStatus, error)
	ClusterMetrics(ctx context.Context) (catalog.ClusterMetrics, error)
}

// Client is a WebHDFS client bound to one NameNode.
type Client struct {
	cfg    config.ClusterConfig
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a client from cluster config. A nil logger falls back to
// slog.Default.
func NewClient(cfg config.ClusterConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) webhdfsURL(path, op string) string {
	params := url.Values{}
	params.Set("op", op)
	if c.cfg.User != "" {
		params.Set("user.name", c.cfg.User)
	}
	return fmt.Sprintf("http://%s:%d/webhdfs/v1%s?%s", c.cfg.Host, c.cfg.WebPort, path, params.Encode())
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("namenode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: status %d", ErrThrottled, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		var remote remoteExceptionResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&remote); decodeErr == nil && remote.RemoteException.Exception != "" {
			if remote.RemoteException.Exception == "FileNotFoundException" {
				return fmt.Errorf("%w: %s", ErrNotFound, remote.RemoteException.Message)
			}
			return fmt.Errorf("namenode rejected request: %s: %s",
				remote.RemoteException.Exception, remote.RemoteException.Message)
		}
		return fmt.Errorf("namenode returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding namenode response: %w", err)
	}
	return nil
}

// ListStatus lists the immediate children of path.
func (c *Client) ListStatus(ctx context.Context, path string) ([]FileStatus, error) {
	var resp listStatusResponse
	if err := c.get(ctx, c.webhdfsURL(path, "LISTSTATUS"), &resp); err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	return resp.FileStatuses.FileStatus, nil
}

// GetFileStatus fetches the status of a single path.
func (c *Client) GetFileStatus(ctx context.Context, path string) (FileStatus, error) {
	var resp fileStatusResponse
	if err := c.get(ctx, c.webhdfsURL(path, "GETFILESTATUS"), &resp); err != nil {
		return FileStatus{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return resp.FileStatus, nil
}

// GetContentSummary returns the recursive usage rollup for a directory.
func (c *Client) GetContentSummary(ctx context.Context, path string) (ContentSummary, error) {
	var resp contentSummaryResponse
	if err := c.get(ctx, c.webhdfsURL(path, "GETCONTENTSUMMARY"), &resp); err != nil {
		return ContentSummary{}, fmt.Errorf("content summary %s: %w", path, err)
	}
	return resp.ContentSummary, nil
}

// GetStoragePolicy returns the storage policy name for a path.
func (c *Client) GetStoragePolicy(ctx context.Context, path string) (string, error) {
	var resp storagePolicyResponse
	if err := c.get(ctx, c.webhdfsURL(path, "GETSTORAGEPOLICY"), &resp); err != nil {
		return "", fmt.Errorf("storage policy %s: %w", path, err)
	}
	if resp.BlockStoragePolicy.Name == "" {
		return DefaultStoragePolicy, nil
	}
	return resp.BlockStoragePolicy.Name, nil
}

// Exists reports whether a path is present on the cluster.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	_, err := c.GetFileStatus(ctx, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
