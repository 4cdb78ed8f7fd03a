// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client abstracts the database session the poller reads from.
type Client interface {
	Stats(ctx context.Context) (Snapshot, error)
	Close(ctx context.Context) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Database string
	Timeout  time.Duration
}

// Poller is a dumb stats reader. It owns the session it was built with.
type Poller struct {
	cfg    Config
	client Client
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Database == "" {
		return nil, errors.New("poller: database required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("poller: timeout must be > 0")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce performs exactly one poll cycle.
// The read is detached from ctx cancellation: a shutdown that arrives mid-probe
// lets the probe finish or time out on its own.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{At: time.Now()}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.Timeout)
	defer cancel()

	snap, err := p.client.Stats(pctx)
	if err != nil {
		res.Err = fmt.Errorf("poller: stats %s: %w", p.cfg.Database, err)
		return res
	}
	if snap.Objects < 0 {
		res.Err = fmt.Errorf("poller: stats %s: negative object count %d", p.cfg.Database, snap.Objects)
		return res
	}

	res.Snapshot = snap
	return res
}

// Database returns the name of the database being polled.
func (p *Poller) Database() string {
	return p.cfg.Database
}

// Close releases the underlying session.
func (p *Poller) Close(ctx context.Context) error {
	return p.client.Close(ctx)
}
