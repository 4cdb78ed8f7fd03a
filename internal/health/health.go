// internal/health/health.go
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tamzrod/mongo-watchdog/internal/watchdog"
)

const (
	goroutineThreshold = 1000
	shutdownTimeout    = 5 * time.Second
)

// LoopState is what the checks need to know about the watchdog loop.
type LoopState interface {
	State() string
	LastTick() time.Time
}

// NewHandler serves /live, /ready and /metrics.
// maxTickAge is the longest gap between ticks that still counts as alive.
func NewHandler(loop LoopState, gatherer prometheus.Gatherer, maxTickAge time.Duration) http.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineThreshold))
	h.AddLivenessCheck("tick-freshness", TickFreshness(loop, maxTickAge, time.Now))
	h.AddReadinessCheck("watchdog-running", Running(loop))

	mux := http.NewServeMux()
	mux.Handle("/live", h)
	mux.Handle("/ready", h)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Running passes only while the loop is in its running state.
func Running(loop LoopState) healthcheck.Check {
	return func() error {
		if s := loop.State(); s != watchdog.StateRunning {
			return fmt.Errorf("watchdog is %s", s)
		}
		return nil
	}
}

// TickFreshness fails when a running loop has not ticked for longer than maxAge.
// Before the first tick, and outside the running state, it passes.
func TickFreshness(loop LoopState, maxAge time.Duration, now func() time.Time) healthcheck.Check {
	return func() error {
		if loop.State() != watchdog.StateRunning {
			return nil
		}
		last := loop.LastTick()
		if last.IsZero() {
			return nil
		}
		if age := now().Sub(last); age > maxAge {
			return fmt.Errorf("last tick %s ago exceeds %s", age.Truncate(time.Second), maxAge)
		}
		return nil
	}
}

// Serve runs the HTTP listener until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.SugaredLogger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Infof("health and metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("health listener failed", "error", err)
	}
}
