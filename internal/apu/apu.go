// Package apu interprets Game Boy sound register writes and drives the
// wavetable synthesizer with them.
//
// The four channels are played by the first four engine voices:
//   - Channel 1: Pulse with frequency sweep (voice 0)
//   - Channel 2: Pulse (voice 1)
//   - Channel 3: Programmable pattern RAM (voice 2)
//   - Channel 4: Noise from a prebuilt LFSR slot (voice 3)
//
// Duty cycles are prebuilt 32-sample wave slots, so a duty write only moves
// the voice's wave select. Frequency writes are split across two
// registers; the second one commits a note when its trigger bit is set.
//
// The frame sequencer is clocked separately by Clock at 512 Hz and runs the
// length counters, sweep and envelopes. Write and Clock may be called from
// different goroutines.
package apu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/richardwooding/chipwave/internal/synth"
	"github.com/richardwooding/chipwave/internal/wavetable"
)

var (
	// ErrUnsupportedConfig indicates the engine cannot host the four channels.
	ErrUnsupportedConfig = errors.New("engine configuration cannot host the sound channels")
)

// channelCount is the number of sound channels.
const channelCount = 4

// defaultPanning routes every channel to both sides.
const defaultPanning = 0xFF

// APU is the sound register interpreter.
type APU struct {
	mu     sync.Mutex
	engine *synth.Engine
	stereo synth.StereoMode

	powered bool
	seq     Sequencer

	channel1 *PulseChannel // Pulse with sweep
	channel2 *PulseChannel // Pulse without sweep
	channel3 *WaveChannel  // Pattern RAM
	channel4 *NoiseChannel // Noise

	nr50    uint8
	panning uint8 // NR51

	regs [0x20]uint8 // Last value written to 0x10-0x2F
}

// New creates an interpreter for engine and initialises it with Begin.
// The engine needs at least four voices and a full 256-byte wave RAM.
func New(engine *synth.Engine) (*APU, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: no engine", ErrUnsupportedConfig)
	}
	cfg := engine.Config()
	if cfg.VoiceCount < channelCount {
		return nil, fmt.Errorf("%w: need %d voices, got %d", ErrUnsupportedConfig, channelCount, cfg.VoiceCount)
	}
	if cfg.WavetableSize != wavetable.FullSize {
		return nil, fmt.Errorf("%w: need a %d-byte wave RAM, got %d", ErrUnsupportedConfig, wavetable.FullSize, cfg.WavetableSize)
	}

	a := &APU{
		engine: engine,
		stereo: cfg.Stereo,
	}
	a.Begin()
	return a, nil
}

// Begin resets every channel, rebuilds the duty and noise slots and powers
// the APU on.
func (a *APU) Begin() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reset()
	a.powered = true

	a.engine.WithMemory(func(m *wavetable.Memory) {
		buildDutySlots(m)
		_ = m.Fill(patternSlot, 0)
		buildNoiseSlots(m)
	})

	a.engine.UpdateAll(func(voices []synth.Voice) {
		for _, sc := range a.channels() {
			c := sc.base()
			v := &voices[c.voice]
			v.WaveMask = wavetable.SlotSize - 1
			v.WaveSelect = sc.waveSelect()
			v.Phase = 0
			v.Tune = 0
			v.Gain.Set(0)
		}
	})
}

// reset clears channel and register state.
func (a *APU) reset() {
	a.channel1 = newPulseChannel(0, true)
	a.channel2 = newPulseChannel(1, false)
	a.channel3 = newWaveChannel()
	a.channel4 = newNoiseChannel()
	a.nr50 = 0
	a.panning = defaultPanning
	a.regs = [0x20]uint8{}
	a.regs[NR51-NR10] = defaultPanning
	a.seq.Reset()
}

func (a *APU) channels() [channelCount]soundChannel {
	return [channelCount]soundChannel{a.channel1, a.channel2, a.channel3, a.channel4}
}

// Engine returns the driven engine.
func (a *APU) Engine() *synth.Engine {
	return a.engine
}

// WriteOffset writes a register given as an offset from NR10, the form
// used by command streams.
func (a *APU) WriteOffset(offset uint8, data uint16) {
	a.Write(offset+registerBase, data)
}

// Write writes a sound register. Only the low byte of data is used.
// Unknown registers are ignored.
func (a *APU) Write(reg uint8, data uint16) {
	value := uint8(data) //nolint:gosec // registers are 8 bits wide

	a.mu.Lock()
	defer a.mu.Unlock()

	// Pattern RAM is writable even while powered off
	if reg >= WaveRAMStart && reg <= WaveRAMEnd {
		a.engine.WithMemory(func(m *wavetable.Memory) {
			writePattern(m, reg-WaveRAMStart, value)
		})
		return
	}

	if reg == NR52 {
		a.writePower(value)
		return
	}

	if !a.powered {
		return
	}

	if reg >= NR10 && reg < NR52 {
		a.regs[reg-NR10] = value
	}

	switch reg {
	// Channel 1
	case NR10:
		a.apply(a.channel1, a.channel1.writeSweep(value))
	case NR11:
		a.apply(a.channel1, a.channel1.writeDutyLength(value))
	case NR12:
		a.apply(a.channel1, a.channel1.writeEnvelope(value))
	case NR13:
		a.apply(a.channel1, a.channel1.writeFrequencyLow(value))
	case NR14:
		a.apply(a.channel1, a.channel1.writeControl(value))

	// Channel 2
	case NR21:
		a.apply(a.channel2, a.channel2.writeDutyLength(value))
	case NR22:
		a.apply(a.channel2, a.channel2.writeEnvelope(value))
	case NR23:
		a.apply(a.channel2, a.channel2.writeFrequencyLow(value))
	case NR24:
		a.apply(a.channel2, a.channel2.writeControl(value))

	// Channel 3
	case NR30:
		a.apply(a.channel3, a.channel3.writeDAC(value))
	case NR31:
		a.apply(a.channel3, a.channel3.writeLength(value))
	case NR32:
		a.apply(a.channel3, a.channel3.writeLevel(value))
	case NR33:
		a.apply(a.channel3, a.channel3.writeFrequencyLow(value))
	case NR34:
		a.apply(a.channel3, a.channel3.writeControl(value))

	// Channel 4
	case NR41:
		a.apply(a.channel4, a.channel4.writeLength(value))
	case NR42:
		a.apply(a.channel4, a.channel4.writeEnvelope(value))
	case NR43:
		a.apply(a.channel4, a.channel4.writePolynomial(value))
	case NR44:
		a.apply(a.channel4, a.channel4.writeControl(value))

	// Master control
	case NR50:
		a.nr50 = value
	case NR51:
		a.panning = value
		for _, sc := range a.channels() {
			a.apply(sc, update{gain: true})
		}
	}
}

// writePower handles NR52. Powering off silences every channel and clears
// the registers.
func (a *APU) writePower(value uint8) {
	on := value&0x80 != 0
	if on == a.powered {
		return
	}

	if !on {
		a.reset()
		for _, sc := range a.channels() {
			a.apply(sc, update{gain: true})
		}
	} else {
		a.seq.Reset()
	}
	a.powered = on
}

// Read returns a register as the hardware would: the last written value
// with write-only and unused bits set. Pattern RAM reads back packed.
func (a *APU) Read(reg uint8) uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case reg >= WaveRAMStart && reg <= WaveRAMEnd:
		var v uint8
		a.engine.WithMemory(func(m *wavetable.Memory) {
			v = readPattern(m, reg-WaveRAMStart)
		})
		return v
	case reg == NR52:
		return a.readStatus()
	case reg >= NR10 && reg < WaveRAMStart:
		if !a.powered {
			return readMask[reg-NR10]
		}
		return a.regs[reg-NR10] | readMask[reg-NR10]
	default:
		return 0xFF
	}
}

// readStatus builds NR52.
func (a *APU) readStatus() uint8 {
	value := readMask[NR52-NR10]
	if a.powered {
		value |= 0x80
	}
	for i, sc := range a.channels() {
		if sc.base().active {
			value |= 1 << i
		}
	}
	return value
}

// Clock advances the frame sequencer one step. It must be called at
// synth.SequencerRate.
func (a *APU) Clock() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.powered {
		return
	}

	units := a.seq.Advance()

	if units.Has(ClockLength) {
		for _, sc := range a.channels() {
			c := sc.base()
			if c.length.Clock() {
				c.silence()
				a.apply(sc, update{gain: true})
			}
		}
	}

	if units.Has(ClockSweep) {
		a.apply(a.channel1, a.channel1.clockSweep())
	}

	if units.Has(ClockEnvelope) {
		for _, sc := range []soundChannel{a.channel1, a.channel2, a.channel4} {
			c := sc.base()
			level := c.envelope.Clock(c.level)
			if level != c.level {
				c.level = level
				a.apply(sc, update{gain: true})
			}
		}
	}
}

// apply pushes a channel's changes to its voice in one critical section.
func (a *APU) apply(sc soundChannel, u update) {
	if u == (update{}) {
		return
	}

	c := sc.base()
	var tune uint16
	if u.retune {
		tune = sc.tune(a.engine.Fnumber)
	}
	sel := sc.waveSelect()
	left, right := a.pan(c)

	a.engine.Update(c.voice, func(v *synth.Voice) {
		if u.gain {
			a.route(c.voice, &v.Gain, left, right)
		}
		if u.restart {
			v.Phase = 0
		}
		if u.retune {
			v.Tune = tune
		}
		if u.wave {
			v.WaveSelect = sel
		}
	})
}

// pan returns the channel level gated by NR51 for each side.
func (a *APU) pan(c *channel) (uint8, uint8) {
	left, right := c.level, c.level
	if a.panning&(0x10<<c.index) == 0 {
		left = 0
	}
	if a.panning&(0x01<<c.index) == 0 {
		right = 0
	}
	return left, right
}

// route writes the panned levels to a voice gain for the engine's stereo
// mode. With a fixed assignment the voice only listens to its own side.
func (a *APU) route(voice int, g *synth.Gain, left, right uint8) {
	switch a.stereo {
	case synth.Independent:
		g.SetLeft(left)
		g.SetRight(right)
	case synth.FixedAssignment:
		if voice&1 == 0 {
			g.Set(left)
		} else {
			g.Set(right)
		}
	default:
		g.Set(left)
	}
}

// Powered reports whether the APU is on (NR52 bit 7).
func (a *APU) Powered() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.powered
}

// Step returns the frame sequencer step the next Clock will run.
func (a *APU) Step() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq.Step()
}

// Channel returns a snapshot of channel i (0-3).
func (a *APU) Channel(i int) ChannelState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.channels()[i].base().state()
}

// Sweep returns a snapshot of channel 1's sweep unit.
func (a *APU) Sweep() Sweep {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.channel1.sweep
}

// Frequency returns the 11-bit frequency register of channel i.
func (a *APU) Frequency(i int) uint16 {
	return a.Channel(i).Frequency
}
