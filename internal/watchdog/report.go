// internal/watchdog/report.go
package watchdog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tamzrod/mongo-watchdog/internal/poller"
)

// TickReport describes one completed tick.
type TickReport struct {
	At      time.Time
	Verdict Verdict

	// Snapshot is this tick's poll; nil when the probe failed (see Err).
	Snapshot *poller.Snapshot
	// LastKnown is the most recent successful poll, possibly from an earlier tick.
	LastKnown *poller.Snapshot
	Err       error

	Elapsed           time.Duration // interval that led to this tick
	Next              time.Duration // interval until the next tick
	ConsecutiveStalls int
	Notified          bool
}

// Cause labels a stall: "probe_error" or "idle". Empty for progress.
func (r TickReport) Cause() string {
	switch {
	case r.Verdict != Stalled:
		return ""
	case r.Err != nil:
		return "probe_error"
	default:
		return "idle"
	}
}

// Reporter observes the loop. Calls happen on the loop goroutine and must not block.
type Reporter interface {
	Report(r TickReport)
	Stopped()
}

// StallMessage is the operator text for a stall. elapsed is the interval that
// just passed without progress, not the next one.
func StallMessage(elapsed time.Duration, probeErr error) string {
	msg := "No database update for " + formatSeconds(elapsed) + " seconds!"
	if probeErr != nil {
		msg += fmt.Sprintf(" (stats probe failed: %v)", probeErr)
	}
	return msg
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
