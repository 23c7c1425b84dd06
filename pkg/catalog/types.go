package catalog

import "time"

// FileRecord is one file's metadata as reported by the NameNode.
// Timestamps are milliseconds since the epoch, matching WebHDFS.
type FileRecord struct {
	Path             string `json:"path"`
	Size             int64  `json:"size"`
	Replication      int    `json:"replication"`
	BlockSize        int64  `json:"block_size"`
	AccessTime       int64  `json:"access_time"`
	ModificationTime int64  `json:"modification_time"`
	Owner            string `json:"owner"`
	Group            string `json:"group"`
	Permission       string `json:"permission"`
	StoragePolicy    string `json:"storage_policy,omitempty"`
}

// AccessedAt converts the raw access time into a time.Time.
func (f FileRecord) AccessedAt() time.Time {
	return time.UnixMilli(f.AccessTime)
}

// ModifiedAt converts the raw modification time into a time.Time.
func (f FileRecord) ModifiedAt() time.Time {
	return time.UnixMilli(f.ModificationTime)
}

// SizeGB returns the file size in gigabytes.
func (f FileRecord) SizeGB() float64 {
	return float64(f.Size) / (1 << 30)
}

// SizeMB returns the file size in megabytes.
func (f FileRecord) SizeMB() float64 {
	return float64(f.Size) / (1 << 20)
}

// FilesystemMetrics mirrors the FSNamesystem JMX bean.
type FilesystemMetrics struct {
	CapacityTotal         int64 `json:"capacity_total"`
	CapacityUsed          int64 `json:"capacity_used"`
	CapacityRemaining     int64 `json:"capacity_remaining"`
	FilesTotal            int64 `json:"files_total"`
	BlocksTotal           int64 `json:"blocks_total"`
	UnderReplicatedBlocks int64 `json:"under_replicated_blocks"`
	CorruptBlocks         int64 `json:"corrupt_blocks"`
}

// RPCMetrics mirrors the RpcActivity JMX bean averages, in milliseconds.
type RPCMetrics struct {
	QueueTimeAvg      float64 `json:"rpc_queue_time_avg"`
	ProcessingTimeAvg float64 `json:"rpc_processing_time_avg"`
}

// ClusterMetrics bundles NameNode-level health numbers captured at scan time.
type ClusterMetrics struct {
	Filesystem FilesystemMetrics `json:"filesystem"`
	RPC        RPCMetrics        `json:"rpc"`
	Timestamp  time.Time         `json:"timestamp"`
	Error      string            `json:"error,omitempty"`
}

// UtilizationPercent returns used capacity as a percentage of total.
func (m ClusterMetrics) UtilizationPercent() float64 {
	if m.Filesystem.CapacityTotal <= 0 {
		return 0
	}
	return float64(m.Filesystem.CapacityUsed) / float64(m.Filesystem.CapacityTotal) * 100
}
