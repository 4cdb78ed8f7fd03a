// internal/watchdog/clock.go
package watchdog

import "time"

// Timer is a cancellable one-shot wait.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock is the loop's scheduler. Tests substitute a manual one.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTimer(d time.Duration) Timer {
	return realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }
