// internal/poller/types.go
package poller

import "time"

// Snapshot is the aggregate database statistics read at one poll tick.
// Objects is the only field the watchdog decides on; the rest is carried for logs.
type Snapshot struct {
	Database    string
	Collections int64
	Views       int64
	Objects     int64
	AvgObjSize  float64
	DataSize    float64
	StorageSize float64
	Indexes     int64
	IndexSize   float64
	TotalSize   float64
	FsUsedSize  float64
	FsTotalSize float64
}

// PollResult is the outcome of one poll cycle.
// Exactly one of Snapshot (Err == nil) or Err is meaningful.
type PollResult struct {
	At       time.Time
	Snapshot Snapshot
	Err      error // non-nil means the poll cycle failed
}
