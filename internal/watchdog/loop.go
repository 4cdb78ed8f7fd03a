// internal/watchdog/loop.go
package watchdog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/tamzrod/mongo-watchdog/internal/notify"
	"github.com/tamzrod/mongo-watchdog/internal/poller"
)

// Loop states.
const (
	StateStarting = "starting"
	StateRunning  = "running"
	StateStopping = "stopping"
	StateStopped  = "stopped"
)

// Loop events.
const (
	EventStarted  = "started"
	EventFail     = "fail"
	EventStop     = "stop"
	EventStopDone = "stop_done"
)

const closeTimeout = 10 * time.Second

// Probe is an acquired database session that can be polled and released.
type Probe interface {
	PollOnce(ctx context.Context) poller.PollResult
	Close(ctx context.Context) error
}

// Connector acquires the session. A failure is fatal to the loop.
type Connector func(ctx context.Context) (Probe, error)

type Config struct {
	Policy        Policy
	AlertsEnabled bool

	// StartupNotice is sent once after the session is acquired. Empty disables it.
	StartupNotice string
}

// PollState is carried from tick to tick. Only the Run goroutine touches it.
type PollState struct {
	Previous          *poller.Snapshot // nil until the first successful poll
	Interval          time.Duration
	ConsecutiveStalls int
}

// Loop polls the database, detects stalls and backs off while stalled.
// Exactly one tick runs at a time; the wait between ticks is cancellable.
type Loop struct {
	cfg       Config
	connect   Connector
	notifier  notify.Notifier
	reporters []Reporter
	clock     Clock
	log       *zap.SugaredLogger

	fsm      *fsm.FSM
	stopCh   chan struct{}
	stopOnce sync.Once
	lastTick atomic.Int64 // unix nanos

	probe Probe
	state PollState
}

type Option func(*Loop)

// WithClock replaces the wall clock used to schedule ticks.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithReporters registers tick observers, called in order.
func WithReporters(r ...Reporter) Option {
	return func(l *Loop) { l.reporters = append(l.reporters, r...) }
}

func New(cfg Config, connect Connector, notifier notify.Notifier, log *zap.SugaredLogger, opts ...Option) (*Loop, error) {
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if connect == nil {
		return nil, errors.New("watchdog: connector required")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	l := &Loop{
		cfg:      cfg,
		connect:  connect,
		notifier: notifier,
		clock:    realClock{},
		log:      log,
		stopCh:   make(chan struct{}),
		state:    PollState{Interval: cfg.Policy.Baseline},
	}
	for _, o := range opts {
		o(l)
	}

	l.fsm = fsm.NewFSM(
		StateStarting,
		fsm.Events{
			{Name: EventStarted, Src: []string{StateStarting}, Dst: StateRunning},
			{Name: EventFail, Src: []string{StateStarting}, Dst: StateStopped},
			{Name: EventStop, Src: []string{StateRunning}, Dst: StateStopping},
			{Name: EventStopDone, Src: []string{StateStopping}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				l.log.Infof("watchdog %s -> %s", e.Src, e.Dst)
			},
		},
	)

	return l, nil
}

// Run acquires the session and ticks until ctx is done or Stop is called.
// It returns a *FatalError if the session cannot be acquired, nil otherwise.
// Run may be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.fsm.Is(StateStarting) {
		return errors.New("watchdog: loop already ran")
	}

	probe, err := l.connect(ctx)
	if err != nil {
		l.transition(ctx, EventFail)
		return &FatalError{Err: err}
	}
	l.probe = probe

	if l.cfg.StartupNotice != "" && l.cfg.AlertsEnabled {
		l.notifier.Send(ctx, l.cfg.StartupNotice)
	}

	l.transition(ctx, EventStarted)

	for {
		l.tick(ctx)
		if !l.wait(ctx) {
			break
		}
	}

	l.shutdown(ctx)
	return nil
}

// Stop requests shutdown. Safe to call at any time and more than once.
// A tick in flight finishes; the pending wait, if any, is cancelled.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// State returns the current loop state.
func (l *Loop) State() string {
	return l.fsm.Current()
}

// LastTick returns when the last tick completed; zero before the first one.
func (l *Loop) LastTick() time.Time {
	n := l.lastTick.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// tick runs probe -> detect -> notify -> backoff -> record, in that order.
func (l *Loop) tick(ctx context.Context) TickReport {
	res := l.probe.PollOnce(ctx)
	verdict := Detect(l.state.Previous, res)
	elapsed := l.state.Interval

	rep := TickReport{
		At:      res.At,
		Verdict: verdict,
		Err:     res.Err,
		Elapsed: elapsed,
	}

	if res.Err != nil {
		l.log.Warnw("stats probe failed", "error", res.Err)
	}

	if verdict == Stalled {
		l.state.ConsecutiveStalls++
		msg := StallMessage(elapsed, res.Err)
		if l.cfg.AlertsEnabled {
			l.notifier.Send(ctx, msg)
			rep.Notified = true
		} else {
			l.log.Warnw("stall detected, alerting disabled", "message", msg)
		}
	} else {
		l.state.ConsecutiveStalls = 0
	}

	l.state.Interval = NextInterval(verdict, l.state.Interval, l.cfg.Policy)

	// A failed poll keeps the last good snapshot as the comparison baseline.
	if res.Err == nil {
		snap := res.Snapshot
		l.state.Previous = &snap
		rep.Snapshot = &snap
	}
	if l.state.Previous != nil {
		last := *l.state.Previous
		rep.LastKnown = &last
	}

	rep.Next = l.state.Interval
	rep.ConsecutiveStalls = l.state.ConsecutiveStalls

	if rep.Snapshot != nil {
		l.log.Infof("object count: %d, check again in %s seconds",
			rep.Snapshot.Objects, formatSeconds(rep.Next))
	} else {
		l.log.Infof("object count unavailable, check again in %s seconds", formatSeconds(rep.Next))
	}

	l.lastTick.Store(l.clock.Now().UnixNano())
	for _, r := range l.reporters {
		r.Report(rep)
	}

	return rep
}

// wait blocks for the current interval. It returns false when a stop was
// requested before or during the wait.
func (l *Loop) wait(ctx context.Context) bool {
	if l.stopRequested(ctx) {
		return false
	}

	t := l.clock.NewTimer(l.state.Interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-l.stopCh:
		return false
	case <-t.C():
		return !l.stopRequested(ctx)
	}
}

func (l *Loop) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

// shutdown releases the session. Only reached after the last tick returned.
func (l *Loop) shutdown(ctx context.Context) {
	l.transition(ctx, EventStop)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()
	if err := l.probe.Close(cctx); err != nil {
		l.log.Warnw("closing database session failed", "error", err)
	}

	l.transition(ctx, EventStopDone)

	for _, r := range l.reporters {
		r.Stopped()
	}
}

func (l *Loop) transition(ctx context.Context, event string) {
	// The fsm callbacks must still run after a shutdown cancelled ctx.
	if err := l.fsm.Event(context.WithoutCancel(ctx), event); err != nil {
		l.log.Errorw("watchdog state transition failed", "event", event, "state", l.fsm.Current(), "error", err)
	}
}
