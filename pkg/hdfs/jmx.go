package hdfs

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// JMX bean queries served by the NameNode HTTP endpoint.
const (
	jmxQueryFSNamesystem = "Hadoop:service=NameNode,name=FSNamesystem"
	jmxQueryRPCActivity  = "Hadoop:service=NameNode,name=RpcActivity"
)

type fsNamesystemBean struct {
	CapacityTotal         int64 `json:"CapacityTotal"`
	CapacityUsed          int64 `json:"CapacityUsed"`
	CapacityRemaining     int64 `json:"CapacityRemaining"`
	FilesTotal            int64 `json:"FilesTotal"`
	BlocksTotal           int64 `json:"BlocksTotal"`
	UnderReplicatedBlocks int64 `json:"UnderReplicatedBlocks"`
	CorruptBlocks         int64 `json:"CorruptBlocks"`
}

type rpcActivityBean struct {
	RPCQueueTimeAvgTime      float64 `json:"RpcQueueTimeAvgTime"`
	RPCProcessingTimeAvgTime float64 `json:"RpcProcessingTimeAvgTime"`
}

type jmxResponse[B any] struct {
	Beans []B `json:"beans"`
}

func (c *Client) jmxURL(query string) string {
	u := fmt.Sprintf("http://%s:%d/jmx", c.cfg.Host, c.cfg.WebPort)
	if query != "" {
		u += "?qry=" + url.QueryEscape(query)
	}
	return u
}

// ClusterMetrics collects the FSNamesystem and RpcActivity beans into one
// snapshot. A metrics failure should not sink a scan; callers decide whether
// to record it as a partial-scan scope.
func (c *Client) ClusterMetrics(ctx context.Context) (catalog.ClusterMetrics, error) {
	metrics := catalog.ClusterMetrics{Timestamp: time.Now().UTC()}

	var fs jmxResponse[fsNamesystemBean]
	if err := c.get(ctx, c.jmxURL(jmxQueryFSNamesystem), &fs); err != nil {
		metrics.Error = err.Error()
		return metrics, fmt.Errorf("fsnamesystem bean: %w", err)
	}
	if len(fs.Beans) > 0 {
		b := fs.Beans[0]
		metrics.Filesystem = catalog.FilesystemMetrics{
			CapacityTotal:         b.CapacityTotal,
			CapacityUsed:          b.CapacityUsed,
			CapacityRemaining:     b.CapacityRemaining,
			FilesTotal:            b.FilesTotal,
			BlocksTotal:           b.BlocksTotal,
			UnderReplicatedBlocks: b.UnderReplicatedBlocks,
			CorruptBlocks:         b.CorruptBlocks,
		}
	}

	var rpc jmxResponse[rpcActivityBean]
	if err := c.get(ctx, c.jmxURL(jmxQueryRPCActivity), &rpc); err != nil {
		metrics.Error = err.Error()
		return metrics, fmt.Errorf("rpcactivity bean: %w", err)
	}
	if len(rpc.Beans) > 0 {
		metrics.RPC = catalog.RPCMetrics{
			QueueTimeAvg:      rpc.Beans[0].RPCQueueTimeAvgTime,
			ProcessingTimeAvg: rpc.Beans[0].RPCProcessingTimeAvgTime,
		}
	}

	return metrics, nil
}
