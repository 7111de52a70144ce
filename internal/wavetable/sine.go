package wavetable

import "fmt"

// SineSize selects how many samples LoadSineWave writes.
type SineSize uint8

// Sine wave sizes.
const (
	Sine64 SineSize = iota // Two slots
	Sine32                 // One slot
)

// quarterSine holds the first quarter of a sine cycle, peak included.
var quarterSine = [17]uint8{
	0x80, 0x8B, 0x98, 0xA4, 0xB0, 0xBB, 0xC6, 0xD0,
	0xD9, 0xE2, 0xE9, 0xEF, 0xF5, 0xF9, 0xFC, 0xFE, 0xFF,
}

// Samples returns the number of samples written for the size.
func (s SineSize) Samples() int {
	if s == Sine32 {
		return 32
	}
	return 64
}

// LoadSineWave writes one full sine cycle starting at slot.
//
// The cycle is built from the quarter-sine table: rising quarter, falling
// quarter, then both mirrored around 0x80. Sine32 takes every other entry of
// the table.
func (m *Memory) LoadSineWave(slot uint8, size SineSize) error {
	total := size.Samples()
	if int(slot)+total > len(m.data) {
		return fmt.Errorf("%w: %d-sample sine at 0x%02X", ErrSlotOutOfRange, total, slot)
	}

	step := 1
	if size == Sine32 {
		step = 2
	}
	quarter := total / 4
	base := int(slot)

	for i := range quarter {
		rise := quarterSine[i*step]
		fall := quarterSine[16-i*step]
		m.data[base+i] = rise
		m.data[base+i+quarter] = fall
		m.data[base+i+2*quarter] = uint8(0x100 - int(rise)) //nolint:gosec // rise >= 0x80
		m.data[base+i+3*quarter] = uint8(0x100 - int(fall)) //nolint:gosec // fall >= 0x80
	}
	return nil
}
