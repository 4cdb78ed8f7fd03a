// internal/watchdog/helpers_test.go
package watchdog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tamzrod/mongo-watchdog/internal/poller"
)

// ---- fake probe ----

// fakeProbe replays scripted poll results; once exhausted it repeats the last one.
type fakeProbe struct {
	mu      sync.Mutex
	results []poller.PollResult
	polls   int
	closed  int

	// block, when set, holds PollOnce until it is closed; entered is signalled first.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeProbe) PollOnce(ctx context.Context) poller.PollResult {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.polls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.polls++

	res := f.results[i]
	res.At = time.Now()
	return res
}

func (f *fakeProbe) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeProbe) counts() (polls, closed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls, f.closed
}

// ---- fake notifier ----

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) Send(_ context.Context, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, message)
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

// ---- manual clock ----

type fakeTimer struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) fire() { t.c <- time.Now() }

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// manualClock hands every new timer to the test instead of waiting.
type manualClock struct {
	timers chan *fakeTimer
}

func newManualClock() *manualClock {
	return &manualClock{timers: make(chan *fakeTimer, 16)}
}

func (c *manualClock) Now() time.Time { return time.Now() }

func (c *manualClock) NewTimer(d time.Duration) Timer {
	t := &fakeTimer{d: d, c: make(chan time.Time, 1)}
	c.timers <- t
	return t
}

func (c *manualClock) next(t *testing.T) *fakeTimer {
	t.Helper()
	select {
	case tm := <-c.timers:
		return tm
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not schedule a tick")
		return nil
	}
}

// ---- recording reporter ----

type recorder struct {
	mu      sync.Mutex
	reports []TickReport
	stopped int
}

func (r *recorder) Report(rep TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *recorder) Stopped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped++
}

// ---- loop builders ----

// newTickLoop returns a loop whose session is already acquired, for driving tick directly.
func newTickLoop(t *testing.T, p Policy, probe *fakeProbe, n *fakeNotifier, opts ...Option) *Loop {
	t.Helper()

	l, err := New(
		Config{Policy: p, AlertsEnabled: true},
		func(context.Context) (Probe, error) { return probe, nil },
		n,
		zaptest.NewLogger(t).Sugar(),
		opts...,
	)
	require.NoError(t, err)

	l.probe = probe
	return l
}

// runLoop starts Run in the background and returns a channel with its result.
func runLoop(l *Loop, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
		return nil
	}
}
