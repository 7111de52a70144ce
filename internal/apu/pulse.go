package apu

import "github.com/richardwooding/chipwave/internal/wavetable"

// dutyPatterns are the 8-step pulse shapes, one bit per step.
var dutyPatterns = [4]uint8{
	0x40, // 12.5% _-______
	0xC0, // 25%   --______
	0xF0, // 50%   ----____
	0x3F, // 75%   __------
}

// dutyLevel is the sample value of a high pulse step.
const dutyLevel = 80

// buildDutySlots writes the four duty patterns into slots 0-3, four
// samples per step.
func buildDutySlots(m *wavetable.Memory) {
	for d, pattern := range dutyPatterns {
		base := uint8(d * wavetable.SlotSize) //nolint:gosec // d < 4
		for i := range wavetable.SlotSize {
			var v uint8
			if pattern&(0x80>>(i>>2)) != 0 {
				v = dutyLevel
			}
			m.Write(base+uint8(i), v) //nolint:gosec // i < 32
		}
	}
}

// PulseChannel is channel 1 (with sweep) or channel 2.
type PulseChannel struct {
	channel
	sweep *Sweep // nil on channel 2
	duty  uint8
}

func newPulseChannel(index int, hasSweep bool) *PulseChannel {
	p := &PulseChannel{channel: newChannel(index, 64)}
	if hasSweep {
		p.sweep = &Sweep{}
	}
	return p
}

func (p *PulseChannel) base() *channel {
	return &p.channel
}

func (p *PulseChannel) tune(fnumber func(float64) uint16) uint16 {
	return fnumber(pulseDivisor(p.frequency))
}

// waveSelect points the voice at the duty slot.
func (p *PulseChannel) waveSelect() uint8 {
	return p.duty << 5
}

// writeSweep decodes NR10.
func (p *PulseChannel) writeSweep(value uint8) update {
	if p.sweep != nil {
		p.sweep.write(value)
	}
	return update{}
}

// writeDutyLength decodes NR11/NR21.
func (p *PulseChannel) writeDutyLength(value uint8) update {
	p.duty = (value >> 6) & 0x03
	p.length.set(value & 0x3F)
	return update{wave: true}
}

// writeEnvelope decodes NR12/NR22.
func (p *PulseChannel) writeEnvelope(value uint8) update {
	p.channel.writeEnvelope(value, 0)
	return update{gain: true}
}

// writeFrequencyLow decodes NR13/NR23.
func (p *PulseChannel) writeFrequencyLow(value uint8) update {
	p.setFrequencyLow(value)
	return update{}
}

// writeControl decodes NR14/NR24. Without the trigger bit the write is a
// note-off.
func (p *PulseChannel) writeControl(value uint8) update {
	p.setFrequencyHigh(value)
	p.length.Enabled = value&lengthEnableBit != 0

	if value&triggerBit == 0 {
		p.silence()
		return update{gain: true}
	}

	p.start(p.envelope.StartingVolume)
	if p.sweep != nil {
		p.sweep.trigger(p.frequency)
		if p.sweep.Shift > 0 && p.sweep.next() > maxFrequency {
			p.silence()
		}
	}
	return update{gain: true, restart: true, retune: true}
}

// clockSweep runs one sweep step for channel 1.
func (p *PulseChannel) clockSweep() update {
	if p.sweep == nil {
		return update{}
	}

	freq, result := p.sweep.Clock()
	switch result {
	case SweepCommit:
		p.frequency = freq
		return update{retune: true}
	case SweepOverflow:
		p.silence()
		return update{gain: true}
	default:
		return update{}
	}
}
