// internal/watchdog/backoff.go
package watchdog

import (
	"errors"
	"fmt"
	"time"
)

// Policy bounds the poll interval: Ceiling >= Baseline > 0.
type Policy struct {
	Baseline time.Duration
	Ceiling  time.Duration
}

func (p Policy) Validate() error {
	var err error
	if p.Baseline <= 0 {
		err = errors.Join(err, fmt.Errorf("policy: baseline must be positive, got %s", p.Baseline))
	}
	if p.Ceiling < p.Baseline {
		err = errors.Join(err, fmt.Errorf("policy: ceiling %s must be >= baseline %s", p.Ceiling, p.Baseline))
	}
	return err
}

// NextInterval returns the interval to wait before the next poll.
// Progress resets straight to Baseline; a stall doubles current, pinned at Ceiling.
// The result never leaves [Baseline, Ceiling].
func NextInterval(v Verdict, current time.Duration, p Policy) time.Duration {
	if v != Stalled {
		return p.Baseline
	}

	// current > Ceiling/2 also guards the doubling against overflow.
	if current >= p.Ceiling || current > p.Ceiling/2 {
		return p.Ceiling
	}

	next := current * 2
	if next < p.Baseline {
		return p.Baseline
	}
	return next
}
