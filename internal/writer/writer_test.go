// internal/writer/writer_test.go
package writer

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tamzrod/mongo-watchdog/internal/poller"
	"github.com/tamzrod/mongo-watchdog/internal/status"
	"github.com/tamzrod/mongo-watchdog/internal/watchdog"
)

type fakeStatusWriter struct {
	got  []status.Snapshot
	fail bool
}

func (f *fakeStatusWriter) WriteStatus(s status.Snapshot) error {
	f.got = append(f.got, s)
	if f.fail {
		return errors.New("unreachable")
	}
	return nil
}

func TestSnapshotFromReport_Health(t *testing.T) {
	last := &poller.Snapshot{Objects: 99}

	ok := SnapshotFromReport(watchdog.TickReport{Verdict: watchdog.Progressed, LastKnown: last, Next: 5 * time.Second})
	if ok.Health != status.HealthOK || ok.IntervalSeconds != 5 || ok.ObjectCount != 99 {
		t.Fatalf("unexpected ok snapshot: %+v", ok)
	}

	stalled := SnapshotFromReport(watchdog.TickReport{Verdict: watchdog.Stalled, LastKnown: last, ConsecutiveStalls: 2})
	if stalled.Health != status.HealthStalled || stalled.ConsecutiveStalls != 2 {
		t.Fatalf("unexpected stalled snapshot: %+v", stalled)
	}

	probeErr := SnapshotFromReport(watchdog.TickReport{Verdict: watchdog.Stalled, Err: errors.New("x")})
	if probeErr.Health != status.HealthProbeError || probeErr.ObjectCount != 0 {
		t.Fatalf("unexpected probe error snapshot: %+v", probeErr)
	}
}

func TestSnapshotFromReport_SaturatesInterval(t *testing.T) {
	s := SnapshotFromReport(watchdog.TickReport{Verdict: watchdog.Stalled, Next: 48 * time.Hour})
	if s.IntervalSeconds != 0xFFFF {
		t.Fatalf("expected saturated interval, got %d", s.IntervalSeconds)
	}
}

func TestMirror_StoppedKeepsLastCount(t *testing.T) {
	fw := &fakeStatusWriter{}
	m := NewMirror(fw, zaptest.NewLogger(t).Sugar())

	m.Start()
	m.Report(watchdog.TickReport{Verdict: watchdog.Progressed, LastKnown: &poller.Snapshot{Objects: 7}, Next: time.Second})
	m.Stopped()

	if len(fw.got) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(fw.got))
	}
	if fw.got[0].Health != status.HealthUnknown {
		t.Fatalf("boot block must be unknown, got %d", fw.got[0].Health)
	}
	final := fw.got[2]
	if final.Health != status.HealthStopped || final.ObjectCount != 7 || final.IntervalSeconds != 0 {
		t.Fatalf("unexpected final snapshot: %+v", final)
	}
}

func TestMirror_WriteErrorsAreSwallowed(t *testing.T) {
	fw := &fakeStatusWriter{fail: true}
	m := NewMirror(fw, zaptest.NewLogger(t).Sugar())

	m.Report(watchdog.TickReport{Verdict: watchdog.Stalled})

	if len(fw.got) != 1 {
		t.Fatalf("expected write attempt, got %d", len(fw.got))
	}
}
