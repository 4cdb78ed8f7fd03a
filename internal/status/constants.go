// internal/status/constants.go
package status

// Watchdog Status Block layout constants.
// These values define the register protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of holding registers in the block.
const SlotsPerBlock = 8

// ---- SLOT INDICES ----

// SlotHealthCode holds the watchdog health state.
const SlotHealthCode = 0

// SlotConsecutiveStalls holds the number of stalled ticks in a row.
const SlotConsecutiveStalls = 1

// SlotIntervalSeconds holds the interval until the next check, in seconds.
const SlotIntervalSeconds = 2

// SlotReserved is reserved for future use and always written as zero.
const SlotReserved = 3

// SlotObjectCountStart is the first of four slots carrying the last known
// object count as a big-endian 64-bit value (most significant word first).
const SlotObjectCountStart = 4

// SlotObjectCountSlots is the number of slots used by the object count.
const SlotObjectCountSlots = 4

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before the first tick.
const HealthUnknown uint16 = 0

// HealthOK represents observed progress on the last tick.
const HealthOK uint16 = 1

// HealthStalled represents an unchanged object count on the last tick.
const HealthStalled uint16 = 2

// HealthProbeError represents a failed stats probe on the last tick.
const HealthProbeError uint16 = 3

// HealthStopped represents a watchdog that has shut down.
const HealthStopped uint16 = 4
