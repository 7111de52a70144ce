package synth

// Voice is one phase-accumulator oscillator.
type Voice struct {
	Phase      uint16 // Phase accumulator
	Tune       uint16 // Added to Phase on every advance
	WaveSelect uint8  // Base address, OR'ed into the folded phase
	WaveMask   uint8  // Applied to the top byte of Phase
	Gain       Gain
}

// defaultWaveMask covers 64 samples.
const defaultWaveMask = 0x3F

func newVoice(independent bool) Voice {
	return Voice{
		WaveMask: defaultWaveMask,
		Gain:     Gain{independent: independent},
	}
}

// advance steps the phase accumulator. The 16-bit wraparound is what
// makes the oscillator periodic.
func (v *Voice) advance() {
	v.Phase += v.Tune
}

// Address returns the wave RAM address for the current phase.
//
// WaveSelect is OR'ed, not added, so select bits inside the mask are
// forced on.
func (v *Voice) Address() uint8 {
	return uint8(v.Phase>>8)&v.WaveMask | v.WaveSelect
}

// Gain holds a voice's output amplitude.
//
// With independent gains the left and right values are separate. Otherwise
// there is one amplitude and every accessor reads or writes it.
//
// The mode is fixed by the engine's stereo configuration. The zero Gain is
// shared, so assigning Gain{} to an independent voice changes its mode; use
// Clear to silence a voice instead.
type Gain struct {
	independent bool
	left        uint8
	right       uint8
}

// Independent reports whether left and right are separate values.
func (g Gain) Independent() bool {
	return g.independent
}

// Amplitude returns the left (or only) gain.
func (g Gain) Amplitude() uint8 {
	return g.left
}

// Left returns the left gain.
func (g Gain) Left() uint8 {
	return g.left
}

// Right returns the right gain.
func (g Gain) Right() uint8 {
	if g.independent {
		return g.right
	}
	return g.left
}

// Set writes both gains.
func (g *Gain) Set(amplitude uint8) {
	g.left = amplitude
	g.right = amplitude
}

// Clear silences both sides and keeps the mode.
func (g *Gain) Clear() {
	g.left = 0
	g.right = 0
}

// SetLeft writes the left gain. With a shared gain this is the amplitude.
func (g *Gain) SetLeft(amplitude uint8) {
	g.left = amplitude
	if !g.independent {
		g.right = amplitude
	}
}

// SetRight writes the right gain. With a shared gain this is the amplitude.
func (g *Gain) SetRight(amplitude uint8) {
	g.right = amplitude
	if !g.independent {
		g.left = amplitude
	}
}
