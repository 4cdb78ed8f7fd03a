// internal/writer/types.go
package writer

// StatusPlan says where the watchdog status block lives.
type StatusPlan struct {
	Endpoint    string
	UnitID      uint8
	BaseAddress uint16
}

// registerClient is the exact contract the status writer uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
