// Package wavetable implements the wave RAM shared by every synthesizer voice.
//
// The wave RAM is a fixed-size table of unsigned 8-bit samples split into
// slots of 32 samples each:
//   - 256 bytes: 8 slots (Slot0-Slot7)
//   - 128 bytes: 4 slots (Slot0-Slot3)
//
// Voices address the table with an 8-bit address, so adjacent slots can be
// combined into longer waveforms by widening the voice's wave mask.
package wavetable

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates the requested table size is not supported.
	ErrInvalidSize = errors.New("wave RAM size must be 128 or 256")

	// ErrSlotOutOfRange indicates a load would run past the end of the table.
	ErrSlotOutOfRange = errors.New("slot out of range")
)

// Table sizes.
const (
	FullSize = 256
	HalfSize = 128
)

// SlotSize is the number of samples in one slot.
const SlotSize = 32

// Slot base addresses.
const (
	Slot0 uint8 = 0
	Slot1 uint8 = 32
	Slot2 uint8 = 64
	Slot3 uint8 = 96
	Slot4 uint8 = 128
	Slot5 uint8 = 160
	Slot6 uint8 = 192
	Slot7 uint8 = 224
)

// Memory is the wave RAM.
type Memory struct {
	data []uint8
}

// New creates a zeroed wave RAM of the given size.
func New(size int) (*Memory, error) {
	if size != FullSize && size != HalfSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Memory{data: make([]uint8, size)}, nil
}

// Len returns the table size in bytes.
func (m *Memory) Len() int {
	return len(m.data)
}

// Slots returns the number of 32-sample slots.
func (m *Memory) Slots() int {
	return len(m.data) / SlotSize
}

// Read returns the sample at addr.
//
// Addresses past the end of a half-size table wrap back to the start of the
// table instead of reading whatever follows it, so oversized mask/select
// combinations still read neighbouring slots but never leave the buffer.
func (m *Memory) Read(addr uint8) uint8 {
	return m.data[int(addr)%len(m.data)]
}

// Write stores a sample at addr, wrapping the same way as Read.
func (m *Memory) Write(addr uint8, value uint8) {
	m.data[int(addr)%len(m.data)] = value
}

// Load copies samples into the table starting at slot.
func (m *Memory) Load(slot uint8, samples []uint8) error {
	if int(slot)+len(samples) > len(m.data) {
		return fmt.Errorf("%w: %d samples at 0x%02X", ErrSlotOutOfRange, len(samples), slot)
	}
	copy(m.data[slot:], samples)
	return nil
}

// Fill sets every sample of the slot starting at slot to value.
func (m *Memory) Fill(slot uint8, value uint8) error {
	if int(slot)+SlotSize > len(m.data) {
		return fmt.Errorf("%w: 0x%02X", ErrSlotOutOfRange, slot)
	}
	for i := range SlotSize {
		m.data[int(slot)+i] = value
	}
	return nil
}

// Slot returns a copy of the 32 samples starting at slot.
func (m *Memory) Slot(slot uint8) []uint8 {
	out := make([]uint8, SlotSize)
	for i := range out {
		out[i] = m.Read(slot + uint8(i)) //nolint:gosec // i < 32
	}
	return out
}

// Clear zeroes the whole table.
func (m *Memory) Clear() {
	clear(m.data)
}
