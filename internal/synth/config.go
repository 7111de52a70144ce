package synth

import (
	"errors"
	"fmt"

	"github.com/richardwooding/chipwave/internal/wavetable"
)

// ErrInvalidConfig indicates the engine configuration cannot be built.
var ErrInvalidConfig = errors.New("invalid synth configuration")

// StereoMode selects how voices reach the two output channels.
type StereoMode uint8

// Stereo modes.
const (
	// FixedAssignment sends even voices to the left channel and odd voices
	// to the right channel.
	FixedAssignment StereoMode = iota
	// Independent gives every voice its own left and right gain.
	Independent
	// Disabled mixes every voice into the left channel only.
	Disabled
)

// String returns the mode name.
func (m StereoMode) String() string {
	switch m {
	case FixedAssignment:
		return "fixed"
	case Independent:
		return "independent"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("StereoMode(%d)", uint8(m))
	}
}

// RateDivider selects the reference clock.
type RateDivider uint8

// Rate dividers.
const (
	FullRate RateDivider = iota
	HalfRate
)

// Reference clocks (Hz) used by the tuning formula.
const (
	fullTimerBase = 31250
	halfTimerBase = 15625
)

// SequencerRate is the frame sequencer clock (Hz).
const SequencerRate = 512

// Config holds the construction-time engine settings.
// A Config is never changed after New.
type Config struct {
	VoiceCount    int
	Stereo        StereoMode
	Rate          RateDivider
	WavetableSize int
}

// DefaultConfig returns six voices with alternating stereo at full rate.
func DefaultConfig() Config {
	return Config{
		VoiceCount:    6,
		Stereo:        FixedAssignment,
		Rate:          FullRate,
		WavetableSize: wavetable.FullSize,
	}
}

// Validate reports whether the configuration can be built.
func (c Config) Validate() error {
	switch c.VoiceCount {
	case 2, 4, 6, 8, 10:
	default:
		return fmt.Errorf("%w: voice count must be 2, 4, 6, 8 or 10, got %d", ErrInvalidConfig, c.VoiceCount)
	}

	switch c.Stereo {
	case FixedAssignment, Independent, Disabled:
	default:
		return fmt.Errorf("%w: unknown stereo mode %d", ErrInvalidConfig, c.Stereo)
	}

	switch c.Rate {
	case FullRate, HalfRate:
	default:
		return fmt.Errorf("%w: unknown rate divider %d", ErrInvalidConfig, c.Rate)
	}

	if c.WavetableSize != wavetable.FullSize && c.WavetableSize != wavetable.HalfSize {
		return fmt.Errorf("%w: wavetable size must be 128 or 256, got %d", ErrInvalidConfig, c.WavetableSize)
	}

	return nil
}

// TimerBase returns the reference clock in Hz.
func (c Config) TimerBase() int {
	if c.Rate == HalfRate {
		return halfTimerBase
	}
	return fullTimerBase
}

// VoicesPerTick returns how many voices one Tick advances.
func (c Config) VoicesPerTick() int {
	if c.Stereo == Disabled {
		return 1
	}
	return 2
}

// VoiceRate returns how often each voice is advanced (Hz).
// This is also the output sample rate, one sample per full round.
func (c Config) VoiceRate() float64 {
	return 4 * float64(c.TimerBase()) / float64(c.VoiceCount)
}

// TickRate returns the rate at which Tick must be called (Hz).
func (c Config) TickRate() int {
	return 4 * c.TimerBase() / c.VoicesPerTick()
}

// TicksPerRound returns the number of ticks in one full voice round.
func (c Config) TicksPerRound() int {
	return c.VoiceCount / c.VoicesPerTick()
}
