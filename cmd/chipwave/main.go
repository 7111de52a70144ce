// Package main provides the chipwave CLI application.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"
)

var (
	// ErrUnknownBackend indicates an unsupported audio backend.
	ErrUnknownBackend = errors.New("unknown audio backend")

	// ErrInvalidDuration indicates a non-positive render length.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrNotTerminal indicates --keys was used without a terminal on stdin.
	ErrNotTerminal = errors.New("stdin is not a terminal")
)

// CLI represents the command-line interface structure.
type CLI struct {
	Globals

	Info   InfoCmd   `cmd:"" help:"Display engine timing for the configuration."`
	Tuning TuningCmd `cmd:"" help:"Print a pitch to phase increment table."`
	Render RenderCmd `cmd:"" help:"Render a register script to a WAV file."`
	Play   PlayCmd   `cmd:"" help:"Play a register script or the keyboard in real time."`
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("chipwave: ")

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("chipwave"),
		kong.Description("A wavetable synthesizer driven by Game Boy sound registers."),
		kong.UsageOnError(),
	)

	if err := run(ctx, &cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context, g *Globals) error {
	switch g.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}
	return ctx.Run(g)
}
