package main

import (
	"fmt"

	"github.com/richardwooding/chipwave/internal/apu"
	"github.com/richardwooding/chipwave/internal/driver"
	"github.com/richardwooding/chipwave/internal/script"
	"github.com/richardwooding/chipwave/internal/synth"
	"github.com/richardwooding/chipwave/internal/wavetable"
)

// Globals are the engine flags shared by every command.
type Globals struct {
	Voices   int    `help:"Number of synthesizer voices." default:"4"`
	Stereo   string `help:"Stereo mode." enum:"fixed,independent,disabled" default:"fixed"`
	HalfRate bool   `help:"Run the timer at 15625 Hz instead of 31250 Hz."`
	HalfRAM  bool   `name:"half-ram" help:"Use a 128-byte wave RAM. Only info and tuning accept it; the sound registers need 256 bytes."`
	Profile  string `help:"Write a pprof profile to the current directory." enum:"none,cpu,mem" default:"none"`
}

// Config builds the engine configuration from the flags.
func (g *Globals) Config() (synth.Config, error) {
	cfg := synth.Config{
		VoiceCount:    g.Voices,
		Rate:          synth.FullRate,
		WavetableSize: wavetable.FullSize,
	}

	switch g.Stereo {
	case "fixed":
		cfg.Stereo = synth.FixedAssignment
	case "independent":
		cfg.Stereo = synth.Independent
	case "disabled":
		cfg.Stereo = synth.Disabled
	default:
		return cfg, fmt.Errorf("%w: stereo mode %q", synth.ErrInvalidConfig, g.Stereo)
	}
	if g.HalfRate {
		cfg.Rate = synth.HalfRate
	}
	if g.HalfRAM {
		cfg.WavetableSize = wavetable.HalfSize
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newDriver builds the engine, the register interpreter and a driver.
func (g *Globals) newDriver(hostRate int) (*driver.Driver, error) {
	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}

	engine, err := synth.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	a, err := apu.New(engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create sound registers: %w", err)
	}

	d, err := driver.New(engine, a, hostRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return d, nil
}

// loadEvents runs the script at path, or the demo when path is empty.
func loadEvents(path string) ([]script.Event, error) {
	if path == "" {
		return script.Demo()
	}
	return script.RunFile(path)
}
