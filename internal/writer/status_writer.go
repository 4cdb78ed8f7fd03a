// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tamzrod/mongo-watchdog/internal/status"
)

// StatusWriter is the delivery-only contract for the watchdog status block.
// Implementations write what they are given and keep no watchdog state.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// blockField is a contiguous run of slots that is always written together.
type blockField struct {
	name  string
	start int
	size  int
}

// Fields in block order. Slot 3 is reserved and only rewritten with the full block.
var blockFields = []blockField{
	{name: "health", start: status.SlotHealthCode, size: 1},
	{name: "consecutive_stalls", start: status.SlotConsecutiveStalls, size: 1},
	{name: "interval_seconds", start: status.SlotIntervalSeconds, size: 1},
	{name: "object_count", start: status.SlotObjectCountStart, size: status.SlotObjectCountSlots},
}

// BlockWriter keeps one status block in a Modbus holding-register memory in sync.
// The first write is the whole block; afterwards only changed fields go out.
// Any failed field write marks the memory as unknown and the next call
// rewrites the whole block.
type BlockWriter struct {
	plan StatusPlan
	cli  registerClient

	// written mirrors the device memory; nil while it is unknown.
	written []uint16
}

// NewBlockWriter validates the plan against the block geometry.
func NewBlockWriter(plan StatusPlan, cli registerClient) (*BlockWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if int(plan.BaseAddress)+status.SlotsPerBlock > 0x10000 {
		return nil, fmt.Errorf("status writer: base address %d out of range", plan.BaseAddress)
	}
	return &BlockWriter{plan: plan, cli: cli}, nil
}

func (sw *BlockWriter) WriteStatus(s status.Snapshot) error {
	regs := status.Encode(s)

	if sw.written == nil {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, sw.plan.BaseAddress, regs); err != nil {
			return fmt.Errorf("status writer: block write: %w", err)
		}
		sw.written = regs
		return nil
	}

	var err error
	for _, f := range blockFields {
		want := regs[f.start : f.start+f.size]
		if slices.Equal(sw.written[f.start:f.start+f.size], want) {
			continue
		}
		addr := sw.plan.BaseAddress + uint16(f.start)
		if werr := sw.cli.WriteRegisters(sw.plan.UnitID, addr, want); werr != nil {
			err = errors.Join(err, fmt.Errorf("status writer: %s at %d: %w", f.name, addr, werr))
			continue
		}
		copy(sw.written[f.start:], want)
	}

	if err != nil {
		sw.written = nil
	}
	return err
}
