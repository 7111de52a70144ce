package synth

// Mixer accumulates weighted samples for one round of voices.
// uint32 holds 10 voices at full gain (10 * 255 * 255) with room to spare.
type Mixer struct {
	Left  uint32
	Right uint32
}

// output returns the high byte of each 16-bit sum.
func (m Mixer) output() (uint8, uint8) {
	return uint8(m.Left >> 8), uint8(m.Right >> 8) //nolint:gosec // only the low 8 bits after the shift are kept
}

func (m *Mixer) reset() {
	m.Left = 0
	m.Right = 0
}

// mixFunc adds one voice's sample to the mixer.
type mixFunc func(m *Mixer, index int, sample uint8, g Gain)

// mixIndependent feeds both channels from separate gains.
func mixIndependent(m *Mixer, _ int, sample uint8, g Gain) {
	m.Left += uint32(sample) * uint32(g.left)
	m.Right += uint32(sample) * uint32(g.right)
}

// mixFixed sends even voices left and odd voices right.
func mixFixed(m *Mixer, index int, sample uint8, g Gain) {
	if index&1 == 0 {
		m.Left += uint32(sample) * uint32(g.left)
	} else {
		m.Right += uint32(sample) * uint32(g.left)
	}
}

// mixMono sends every voice left.
func mixMono(m *Mixer, _ int, sample uint8, g Gain) {
	m.Left += uint32(sample) * uint32(g.left)
}

func mixerFor(mode StereoMode) mixFunc {
	switch mode {
	case Independent:
		return mixIndependent
	case Disabled:
		return mixMono
	default:
		return mixFixed
	}
}
