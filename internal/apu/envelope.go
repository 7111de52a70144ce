package apu

// Envelope is a channel's volume envelope unit.
type Envelope struct {
	StartingVolume uint8 // Amplitude loaded on trigger
	Period         uint8 // Clocks between steps, 0 disables
	Increase       bool  // Step direction
	Counter        uint8 // Clocks until the next step
}

// defaultStartingVolume is used until an envelope register is written.
const defaultStartingVolume = 64

func newEnvelope() Envelope {
	return Envelope{StartingVolume: defaultStartingVolume}
}

// reload restarts the countdown (on trigger).
func (e *Envelope) reload() {
	e.Counter = e.Period
}

// Clock advances the envelope and returns the new amplitude.
//
// A silent channel stays silent. The amplitude saturates at 0 and 255
// instead of wrapping.
func (e *Envelope) Clock(amplitude uint8) uint8 {
	if e.Period == 0 {
		return amplitude
	}

	if e.Counter > 0 {
		e.Counter--
	}
	if e.Counter != 0 {
		return amplitude
	}
	e.Counter = e.Period

	if amplitude == 0 {
		return 0
	}
	if e.Increase {
		if amplitude < 0xFF {
			amplitude++
		}
	} else {
		amplitude--
	}
	return amplitude
}

// dacEnabled reports whether an envelope register value leaves the DAC on
// (the top five bits are not all zero).
func dacEnabled(value uint8) bool {
	return value&0xF8 != 0
}
