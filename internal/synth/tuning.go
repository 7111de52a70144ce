package synth

import "math"

// semitone is the equal-tempered ratio between adjacent pitches.
const semitone = 1.059463

// referenceFrequency is pitch 0 (A4).
const referenceFrequency = 440.0

// Frequency returns the frequency in Hz of a pitch in semitones from A4.
func Frequency(pitch float64) float64 {
	return referenceFrequency * math.Pow(semitone, pitch)
}

// Fnumber returns the phase increment that plays freq on one voice.
//
// The divisor uses integer division of the reference clock by the voice
// count. Results outside the 16-bit range are clamped.
func (c Config) Fnumber(freq float64) uint16 {
	step := float64(c.TimerBase()/c.VoiceCount) / (1 << 14)
	f := freq / step
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(f)
}

// PitchToFnumber converts a pitch straight to a phase increment.
func (c Config) PitchToFnumber(pitch float64) uint16 {
	return c.Fnumber(Frequency(pitch))
}
