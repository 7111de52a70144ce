package apu

// maxFrequency is the largest 11-bit frequency value.
const maxFrequency = 2047

// SweepResult is the outcome of one sweep clock.
type SweepResult uint8

// Sweep results.
const (
	SweepIdle     SweepResult = iota // Nothing happened
	SweepCommit                      // Shadow frequency updated
	SweepOverflow                    // New frequency exceeded 11 bits, channel must mute
)

// Sweep is channel 1's frequency sweep unit.
type Sweep struct {
	Period  uint8  // Clocks between updates, 0 disables
	Negate  bool   // Subtract instead of add
	Shift   uint8  // Delta = Shadow >> Shift
	Shadow  uint16 // Working frequency
	Counter uint8
	Enabled bool
}

// write decodes NR10.
func (s *Sweep) write(value uint8) {
	s.Period = (value >> 4) & 0x07
	s.Negate = value&0x08 != 0
	s.Shift = value & 0x07
}

// trigger loads the shadow frequency and restarts the countdown.
func (s *Sweep) trigger(frequency uint16) {
	s.Shadow = frequency
	s.Counter = s.Period
	s.Enabled = s.Period > 0 || s.Shift > 0
}

// next computes the swept frequency without committing it.
func (s *Sweep) next() uint16 {
	delta := s.Shadow >> s.Shift
	if s.Negate {
		return s.Shadow - delta
	}
	return s.Shadow + delta
}

// Clock advances the sweep. On SweepCommit the returned value is the new
// shadow frequency; on SweepOverflow it is the rejected value.
func (s *Sweep) Clock() (uint16, SweepResult) {
	if !s.Enabled || s.Period == 0 {
		return s.Shadow, SweepIdle
	}

	if s.Counter > 0 {
		s.Counter--
	}
	if s.Counter != 0 {
		return s.Shadow, SweepIdle
	}
	s.Counter = s.Period

	freq := s.next()
	if freq > maxFrequency {
		return freq, SweepOverflow
	}
	s.Shadow = freq
	return freq, SweepCommit
}
