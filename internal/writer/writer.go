// internal/writer/writer.go
package writer

import (
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/mongo-watchdog/internal/status"
	"github.com/tamzrod/mongo-watchdog/internal/watchdog"
)

// Mirror publishes every tick into the status block.
// Write failures are logged; they never reach the watchdog loop.
type Mirror struct {
	w    StatusWriter
	log  *zap.SugaredLogger
	last status.Snapshot
}

func NewMirror(w StatusWriter, log *zap.SugaredLogger) *Mirror {
	return &Mirror{
		w:    w,
		log:  log,
		last: status.Snapshot{Health: status.HealthUnknown},
	}
}

// Start writes the boot block so stale values from a previous run are cleared.
func (m *Mirror) Start() {
	m.write(m.last)
}

func (m *Mirror) Report(r watchdog.TickReport) {
	m.write(SnapshotFromReport(r))
}

func (m *Mirror) Stopped() {
	s := m.last
	s.Health = status.HealthStopped
	s.IntervalSeconds = 0
	m.write(s)
}

func (m *Mirror) write(s status.Snapshot) {
	m.last = s
	if err := m.w.WriteStatus(s); err != nil {
		m.log.Warnw("status write failed", "health", s.Health, "error", err)
	}
}

// SnapshotFromReport maps a tick onto the register block. Values saturate at 65535.
func SnapshotFromReport(r watchdog.TickReport) status.Snapshot {
	s := status.Snapshot{
		ConsecutiveStalls: status.Saturate(int64(r.ConsecutiveStalls)),
		IntervalSeconds:   status.Saturate(int64(r.Next / time.Second)),
	}

	switch {
	case r.Err != nil:
		s.Health = status.HealthProbeError
	case r.Verdict == watchdog.Stalled:
		s.Health = status.HealthStalled
	default:
		s.Health = status.HealthOK
	}

	if r.LastKnown != nil && r.LastKnown.Objects > 0 {
		s.ObjectCount = uint64(r.LastKnown.Objects)
	}

	return s
}
