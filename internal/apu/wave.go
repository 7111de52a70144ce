package apu

import "github.com/richardwooding/chipwave/internal/wavetable"

// patternSlot holds channel 3's pattern RAM.
const patternSlot = wavetable.Slot4

// waveLevels maps NR32 bits 5-6 to an amplitude.
var waveLevels = [4]uint8{0, 60, 30, 15}

// WaveChannel is channel 3, playing the pattern RAM.
type WaveChannel struct {
	channel
	outputLevel uint8 // Amplitude loaded on trigger
}

func newWaveChannel() *WaveChannel {
	return &WaveChannel{channel: newChannel(2, 256)}
}

func (w *WaveChannel) base() *channel {
	return &w.channel
}

func (w *WaveChannel) tune(fnumber func(float64) uint16) uint16 {
	return fnumber(waveDivisor(w.frequency))
}

func (w *WaveChannel) waveSelect() uint8 {
	return patternSlot
}

// writeDAC decodes NR30.
func (w *WaveChannel) writeDAC(value uint8) update {
	w.dac = value&0x80 != 0
	if !w.dac {
		w.silence()
		return update{gain: true}
	}
	return update{}
}

// writeLength decodes NR31.
func (w *WaveChannel) writeLength(value uint8) update {
	w.length.set(value)
	return update{}
}

// writeLevel decodes NR32. The new level applies from the next trigger.
func (w *WaveChannel) writeLevel(value uint8) update {
	w.outputLevel = waveLevels[(value>>5)&0x03]
	return update{}
}

// writeFrequencyLow decodes NR33.
func (w *WaveChannel) writeFrequencyLow(value uint8) update {
	w.setFrequencyLow(value)
	return update{}
}

// writeControl decodes NR34.
func (w *WaveChannel) writeControl(value uint8) update {
	w.setFrequencyHigh(value)
	w.length.Enabled = value&lengthEnableBit != 0

	if value&triggerBit == 0 {
		w.silence()
		return update{gain: true}
	}

	w.start(w.outputLevel)
	return update{gain: true, restart: true, retune: true}
}

// writePattern expands one pattern RAM byte into two samples, high nibble
// first, each kept in the top four bits.
func writePattern(m *wavetable.Memory, offset uint8, value uint8) {
	addr := patternSlot + (offset&0x0F)*2
	m.Write(addr, value&0xF0)
	m.Write(addr+1, value<<4)
}

// readPattern packs two pattern samples back into one byte.
func readPattern(m *wavetable.Memory, offset uint8) uint8 {
	addr := patternSlot + (offset&0x0F)*2
	return (m.Read(addr) & 0xF0) | (m.Read(addr+1) >> 4)
}
