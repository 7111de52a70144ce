package apu

// LengthCounter silences a channel after a programmed number of clocks.
type LengthCounter struct {
	Enabled bool   // NRx4 bit 6
	Load    uint8  // Last length value written
	Counter uint16 // Clocks until the channel is muted
	full    uint16 // Counter value for a load of zero (64 or 256)
}

func newLengthCounter(full uint16) LengthCounter {
	return LengthCounter{full: full}
}

// set loads the counter from a register length field.
func (l *LengthCounter) set(load uint8) {
	l.Load = load
	l.Counter = l.full - uint16(load)
}

// trigger reloads an expired counter.
func (l *LengthCounter) trigger() {
	if l.Counter == 0 {
		l.Counter = l.full
	}
}

// Clock decrements an enabled counter and reports whether it just reached
// zero. A disabled counter is left untouched.
func (l *LengthCounter) Clock() bool {
	if !l.Enabled || l.Counter == 0 {
		return false
	}
	l.Counter--
	return l.Counter == 0
}
