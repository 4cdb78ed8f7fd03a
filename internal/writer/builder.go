// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/mongo-watchdog/internal/config"
	wmodbus "github.com/tamzrod/mongo-watchdog/internal/writer/modbus"
)

// BuildMirror converts the status config into a connected Mirror.
// Returns (nil, nil, nil) when the mirror is not configured.
func BuildMirror(sc cfg.StatusConfig, log *zap.SugaredLogger) (*Mirror, func() error, error) {
	if sc.Endpoint == "" {
		return nil, nil, nil
	}
	if sc.UnitID == 0 {
		return nil, nil, errors.New("writer: status unit id required")
	}

	cli, err := wmodbus.Dial(wmodbus.Config{
		Endpoint: sc.Endpoint,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	bw, err := NewBlockWriter(StatusPlan{
		Endpoint:    sc.Endpoint,
		UnitID:      sc.UnitID,
		BaseAddress: sc.BaseAddress,
	}, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}

	return NewMirror(bw, log), cli.Close, nil
}
