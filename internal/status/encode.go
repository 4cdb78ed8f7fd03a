// internal/status/encode.go
package status

// Encode converts a Snapshot into a full watchdog status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotConsecutiveStalls] = s.ConsecutiveStalls
	regs[SlotIntervalSeconds] = s.IntervalSeconds

	copy(regs[SlotObjectCountStart:], EncodeObjectCount(s.ObjectCount))

	return regs
}

// EncodeObjectCount splits a 64-bit count into four big-endian words.
func EncodeObjectCount(n uint64) []uint16 {
	out := make([]uint16, SlotObjectCountSlots)
	for i := 0; i < SlotObjectCountSlots; i++ {
		shift := uint(16 * (SlotObjectCountSlots - 1 - i))
		out[i] = uint16(n >> shift)
	}
	return out
}

// Saturate clamps v into the uint16 register range.
func Saturate(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
