package synth

import "github.com/richardwooding/chipwave/internal/wavetable"

// Voice returns a snapshot of voice i.
func (e *Engine) Voice(i int) Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voices[i]
}

// Voices returns a snapshot of every voice.
func (e *Engine) Voices() []Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// Update runs fn on voice i with ticking held off, so several fields can be
// changed together.
func (e *Engine) Update(i int, fn func(v *Voice)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.voices[i])
}

// UpdateAll runs fn on every voice inside one critical section.
func (e *Engine) UpdateAll(fn func(voices []Voice)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.voices)
}

// SetPhase sets voice i's phase accumulator.
func (e *Engine) SetPhase(i int, phase uint16) {
	e.Update(i, func(v *Voice) { v.Phase = phase })
}

// SetTune sets voice i's phase increment.
func (e *Engine) SetTune(i int, tune uint16) {
	e.Update(i, func(v *Voice) { v.Tune = tune })
}

// SetWaveSelect sets voice i's wave RAM base address.
func (e *Engine) SetWaveSelect(i int, sel uint8) {
	e.Update(i, func(v *Voice) { v.WaveSelect = sel })
}

// SetWaveMask sets voice i's phase mask.
func (e *Engine) SetWaveMask(i int, mask uint8) {
	e.Update(i, func(v *Voice) { v.WaveMask = mask })
}

// SetAmplitude sets both gains of voice i.
func (e *Engine) SetAmplitude(i int, amplitude uint8) {
	e.Update(i, func(v *Voice) { v.Gain.Set(amplitude) })
}

// SetAmplitudeLeft sets voice i's left gain.
func (e *Engine) SetAmplitudeLeft(i int, amplitude uint8) {
	e.Update(i, func(v *Voice) { v.Gain.SetLeft(amplitude) })
}

// SetAmplitudeRight sets voice i's right gain.
func (e *Engine) SetAmplitudeRight(i int, amplitude uint8) {
	e.Update(i, func(v *Voice) { v.Gain.SetRight(amplitude) })
}

// SetGain sets voice i's left and right gains. With a shared gain the
// right value wins, matching a SetLeft followed by SetRight.
func (e *Engine) SetGain(i int, left, right uint8) {
	e.Update(i, func(v *Voice) {
		v.Gain.SetLeft(left)
		v.Gain.SetRight(right)
	})
}

// Wave returns the wave RAM sample at addr.
func (e *Engine) Wave(addr uint8) uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.Read(addr)
}

// WriteWave stores one wave RAM sample.
func (e *Engine) WriteWave(addr, value uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memory.Write(addr, value)
}

// LoadWave copies samples into wave RAM starting at slot.
func (e *Engine) LoadWave(slot uint8, samples []uint8) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.Load(slot, samples)
}

// LoadSineWave writes a sine cycle into wave RAM.
func (e *Engine) LoadSineWave(slot uint8, size wavetable.SineSize) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.LoadSineWave(slot, size)
}

// WithMemory runs fn on the wave RAM with ticking held off.
func (e *Engine) WithMemory(fn func(m *wavetable.Memory)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.memory)
}
