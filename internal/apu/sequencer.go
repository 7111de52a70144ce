package apu

// Units is a set of units clocked by one sequencer step.
type Units uint8

// Sequencer units.
const (
	ClockLength Units = 1 << iota
	ClockSweep
	ClockEnvelope
)

// Has reports whether u includes unit.
func (u Units) Has(unit Units) bool {
	return u&unit != 0
}

// Sequencer is the 8-step frame sequencer. At 512 Hz:
//   - length counters run at 256 Hz (steps 0, 2, 4, 6)
//   - sweep runs at 128 Hz (steps 2, 6)
//   - envelopes run at 64 Hz (step 7)
type Sequencer struct {
	step uint8
}

// Step returns the step the next Advance will run.
func (s *Sequencer) Step() uint8 {
	return s.step
}

// Advance returns the units for the current step and moves to the next.
func (s *Sequencer) Advance() Units {
	units := unitsAt(s.step)
	s.step = (s.step + 1) & 0x07
	return units
}

// Reset returns to step 0.
func (s *Sequencer) Reset() {
	s.step = 0
}

func unitsAt(step uint8) Units {
	var u Units
	if step%2 == 0 {
		u |= ClockLength
	}
	if step == 2 || step == 6 {
		u |= ClockSweep
	}
	if step == 7 {
		u |= ClockEnvelope
	}
	return u
}
