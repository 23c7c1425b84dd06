package analyzer

import (
	"context"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// nameNodeObjectBytes approximates NameNode heap per tracked object. Each
// file, directory, and block costs roughly 150 bytes of namespace memory.
const nameNodeObjectBytes = 150

const bytesPerGB = 1 << 30

// Waste totals the recoverable bytes across three sinks: replicas beyond
// the target factor, block allocations held by empty files, and NameNode
// overhead for files too small to fill a block.
func Waste(files []catalog.FileRecord, smallFileBytes int64, targetReplication int) WasteReport {
	var rep WasteReport
	smallCount := 0
	for _, f := range files {
		rep.TotalSizeBytes += f.Size
		if f.Replication > targetReplication {
			rep.ReplicationWasteBytes += f.Size * int64(f.Replication-targetReplication)
		}
		if f.Size == 0 {
			rep.EmptyFileWasteBytes += f.BlockSize
		}
		if f.Size < smallFileBytes {
			smallCount++
		}
	}
	rep.SmallFileOverheadBytes = int64(smallCount) * nameNodeObjectBytes
	rep.TotalWasteBytes = rep.ReplicationWasteBytes + rep.EmptyFileWasteBytes + rep.SmallFileOverheadBytes

	rep.TotalSizeGB = float64(rep.TotalSizeBytes) / bytesPerGB
	rep.ReplicationWasteGB = float64(rep.ReplicationWasteBytes) / bytesPerGB
	if rep.TotalSizeBytes > 0 {
		rep.WastePercentage = float64(rep.TotalWasteBytes) / float64(rep.TotalSizeBytes) * 100
	}
	return rep
}

// WasteClassifier totals recoverable storage.
type WasteClassifier struct {
	SmallFileBytes    int64
	TargetReplication int
}

func (w *WasteClassifier) Name() string { return "Waste" }

func (w *WasteClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Waste = Waste(in.Files, w.SmallFileBytes, w.TargetReplication)
	return &Stats{BytesFlagged: res.Waste.TotalWasteBytes}, nil
}
