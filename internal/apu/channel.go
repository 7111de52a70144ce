package apu

// channel is the state shared by all four sound channels.
type channel struct {
	index int // 0-3, also the panning bit
	voice int // Engine voice driven by this channel

	active bool  // Reported in NR52
	dac    bool  // Output enabled
	level  uint8 // Current amplitude before panning

	frequency uint16 // 11-bit frequency register
	length    LengthCounter
	envelope  Envelope
}

func newChannel(index int, lengthFull uint16) channel {
	return channel{
		index:    index,
		voice:    index,
		dac:      true,
		length:   newLengthCounter(lengthFull),
		envelope: newEnvelope(),
	}
}

// setFrequencyLow writes the low 8 bits of the frequency.
func (c *channel) setFrequencyLow(value uint8) {
	c.frequency = (c.frequency & 0x0700) | uint16(value)
}

// setFrequencyHigh writes the high 3 bits of the frequency.
func (c *channel) setFrequencyHigh(value uint8) {
	c.frequency = (c.frequency & 0x00FF) | (uint16(value&freqHighMask) << 8)
}

// writeEnvelope decodes an NRx2 value. volumeShift scales the starting
// volume down (channel 4 is quieter).
func (c *channel) writeEnvelope(value uint8, volumeShift uint8) {
	c.envelope.StartingVolume = (value & 0xF0) >> volumeShift
	c.envelope.Period = value & 0x07
	c.envelope.Increase = value&0x08 != 0

	c.dac = dacEnabled(value)
	if !c.dac {
		c.silence()
	}
}

// silence mutes the channel and marks it inactive.
func (c *channel) silence() {
	c.active = false
	c.level = 0
}

// start prepares a trigger: length, envelope and the starting amplitude.
func (c *channel) start(amplitude uint8) {
	c.length.trigger()
	c.envelope.reload()
	c.active = c.dac
	if c.dac {
		c.level = amplitude
	} else {
		c.level = 0
	}
}

// pulseDivisor returns the frequency fed to Fnumber for a pulse
// channel frequency register.
func pulseDivisor(frequency uint16) float64 {
	return float64(32768 / (2048 - int(frequency)))
}

// waveDivisor returns the frequency fed to Fnumber for the wave channel.
func waveDivisor(frequency uint16) float64 {
	return float64(8190 / (2048 - int(frequency)))
}

// update lists the voice fields a register write changed.
type update struct {
	gain    bool // Push the channel level through panning
	restart bool // Reset the phase accumulator
	retune  bool // Recompute the phase increment
	wave    bool // Reload the wave select
}

// soundChannel is implemented by the four channel types.
type soundChannel interface {
	base() *channel
	tune(fnumber func(float64) uint16) uint16
	waveSelect() uint8
}

// ChannelState is a snapshot of one channel.
type ChannelState struct {
	Active    bool
	Level     uint8
	Frequency uint16
	Length    LengthCounter
	Envelope  Envelope
}

func (c *channel) state() ChannelState {
	return ChannelState{
		Active:    c.active,
		Level:     c.level,
		Frequency: c.frequency,
		Length:    c.length,
		Envelope:  c.envelope,
	}
}
