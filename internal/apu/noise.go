package apu

import "github.com/richardwooding/chipwave/internal/wavetable"

// Noise slots: a 15-bit and a 7-bit LFSR sequence.
const (
	noiseSlot15 = wavetable.Slot5
	noiseSlot7  = wavetable.Slot6
)

// noiseLevel is the sample value of a high LFSR output.
const noiseLevel = 80

// noiseVolumeShift keeps channel 4 below the pulse channels.
const noiseVolumeShift = 2

// buildNoiseSlots fills the noise slots from the LFSR.
func buildNoiseSlots(m *wavetable.Memory) {
	fillLFSR(m, noiseSlot15, false)
	fillLFSR(m, noiseSlot7, true)
}

func fillLFSR(m *wavetable.Memory, slot uint8, narrow bool) {
	lfsr := uint16(0x7FFF)
	for i := range wavetable.SlotSize {
		bit := (lfsr ^ (lfsr >> 1)) & 1
		lfsr = (lfsr >> 1) | (bit << 14)
		if narrow {
			lfsr = (lfsr &^ 0x40) | (bit << 6)
		}

		var v uint8
		if lfsr&1 == 0 {
			v = noiseLevel
		}
		m.Write(slot+uint8(i), v) //nolint:gosec // i < 32
	}
}

// NoiseChannel is channel 4.
type NoiseChannel struct {
	channel
	shift   uint8
	narrow  bool
	divisor uint8
}

func newNoiseChannel() *NoiseChannel {
	return &NoiseChannel{channel: newChannel(3, 64)}
}

func (n *NoiseChannel) base() *channel {
	return &n.channel
}

// lfsrRate returns the LFSR clock in Hz.
func (n *NoiseChannel) lfsrRate() float64 {
	r := float64(n.divisor)
	if n.divisor == 0 {
		r = 0.5
	}
	return 262144 / r / float64(uint32(1)<<n.shift)
}

// tune plays the 32-sample noise slot once per 32 LFSR clocks.
func (n *NoiseChannel) tune(fnumber func(float64) uint16) uint16 {
	return fnumber(n.lfsrRate() / wavetable.SlotSize)
}

func (n *NoiseChannel) waveSelect() uint8 {
	if n.narrow {
		return noiseSlot7
	}
	return noiseSlot15
}

// writeLength decodes NR41.
func (n *NoiseChannel) writeLength(value uint8) update {
	n.length.set(value & 0x3F)
	return update{}
}

// writeEnvelope decodes NR42.
func (n *NoiseChannel) writeEnvelope(value uint8) update {
	n.channel.writeEnvelope(value, noiseVolumeShift)
	return update{gain: true}
}

// writePolynomial decodes NR43.
func (n *NoiseChannel) writePolynomial(value uint8) update {
	n.shift = value >> 4
	n.narrow = value&0x08 != 0
	n.divisor = value & 0x07
	return update{retune: true, wave: true}
}

// writeControl decodes NR44.
func (n *NoiseChannel) writeControl(value uint8) update {
	n.length.Enabled = value&lengthEnableBit != 0

	if value&triggerBit == 0 {
		n.silence()
		return update{gain: true}
	}

	n.start(n.envelope.StartingVolume)
	return update{gain: true, restart: true, retune: true}
}
