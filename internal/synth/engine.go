// Package synth implements the multi-voice wavetable synthesis engine.
//
// Every voice is a 16-bit phase accumulator reading an 8-bit wave RAM:
//   - phase += tune on every advance (wrapping at 65536)
//   - address = (phase >> 8) & mask | select
//   - sample * gain is summed into the mixer
//
// Tick advances one voice, or a pair of voices when stereo is enabled,
// in round-robin order. When every voice has been advanced once the high
// byte of each mixer sum is latched as the 8-bit output and the sums are
// cleared.
//
// Tick is meant to be called by a real-time driver at Config.TickRate.
// It takes the engine lock and does no allocation. Foreground code may
// change voices and wave RAM at any time through the Engine methods, which
// take the same lock, so a tick never observes a half-written voice.
package synth

import (
	"fmt"
	"sync"

	"github.com/richardwooding/chipwave/internal/wavetable"
)

// Engine is the synthesizer state: wave RAM, voices, mixer and the
// round-robin position.
type Engine struct {
	cfg Config
	mix mixFunc

	mu       sync.Mutex
	memory   *wavetable.Memory
	voices   []Voice
	mixer    Mixer
	current  int   // Next voice to advance
	outLeft  uint8 // Latched output
	outRight uint8
	rounds   uint64
}

// New creates an engine for cfg. Slot 0 is loaded with a 64-sample sine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mem, err := wavetable.New(cfg.WavetableSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create wave RAM: %w", err)
	}
	if err := mem.LoadSineWave(wavetable.Slot0, wavetable.Sine64); err != nil {
		return nil, fmt.Errorf("failed to load default sine: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		mix:    mixerFor(cfg.Stereo),
		memory: mem,
		voices: make([]Voice, cfg.VoiceCount),
	}
	for i := range e.voices {
		e.voices[i] = newVoice(cfg.Stereo == Independent)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// VoiceCount returns the number of voices.
func (e *Engine) VoiceCount() int {
	return e.cfg.VoiceCount
}

// Tick advances the next voice (or pair) and returns the latched output.
// The output changes only when a round completes. With stereo disabled
// the right output is always zero.
func (e *Engine) Tick() (uint8, uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for range e.cfg.VoicesPerTick() {
		v := &e.voices[e.current]
		v.advance()
		e.mix(&e.mixer, e.current, e.memory.Read(v.Address()), v.Gain)
		e.current++
	}

	if e.current == len(e.voices) {
		e.current = 0
		e.outLeft, e.outRight = e.mixer.output()
		e.mixer.reset()
		e.rounds++
	}

	return e.outLeft, e.outRight
}

// Output returns the latched output without advancing.
func (e *Engine) Output() (uint8, uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outLeft, e.outRight
}

// Rounds returns the number of completed voice rounds.
func (e *Engine) Rounds() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rounds
}

// Mixer returns the current, unfinished round sums.
func (e *Engine) Mixer() Mixer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixer
}

// Reset clears voice phases, the mixer and the round-robin position.
// Voice parameters and wave RAM are kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		e.voices[i].Phase = 0
	}
	e.mixer.reset()
	e.current = 0
	e.outLeft, e.outRight = 0, 0
}

// Frequency returns the frequency of a pitch (see Frequency).
func (e *Engine) Frequency(pitch float64) float64 {
	return Frequency(pitch)
}

// Fnumber returns the phase increment for freq on this engine.
func (e *Engine) Fnumber(freq float64) uint16 {
	return e.cfg.Fnumber(freq)
}

// PitchToFnumber returns the phase increment for a pitch on this engine.
func (e *Engine) PitchToFnumber(pitch float64) uint16 {
	return e.cfg.PitchToFnumber(pitch)
}
