package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/richardwooding/chipwave/internal/apu"
	"github.com/richardwooding/chipwave/internal/input"
	"github.com/richardwooding/chipwave/internal/script"
)

// bufferLatency is the audio buffer length of both backends.
const bufferLatency = 50 * time.Millisecond

// PlayCmd plays in real time.
type PlayCmd struct {
	Script  string  `help:"Lua register script (default: built-in demo, or nothing with --keys)." type:"existingfile"`
	Backend string  `help:"Audio backend." enum:"ebiten,oto" default:"ebiten"`
	Keys    bool    `help:"Play notes from the keyboard (asdfghjk, z/x octave, 1-4 channel)."`
	Tail    float64 `help:"Seconds to keep playing after the last event (oto backend)." default:"0.5"`
	Scale   int     `help:"Window scale factor (1-4)." default:"2"`

	// Audio filter flags for debugging audio quality issues
	NoLowPass  bool `help:"Disable low-pass filter (anti-aliasing)."`
	NoHighPass bool `help:"Disable high-pass filter (DC offset removal)."`
	NoSoftClip bool `help:"Disable soft clipping (use hard clipping instead)."`
	NoDither   bool `help:"Disable triangular dithering."`
}

func (c *PlayCmd) audioOptions() AudioOptions {
	return AudioOptions{
		EnableLowPass:  !c.NoLowPass,
		EnableHighPass: !c.NoHighPass,
		EnableSoftClip: !c.NoSoftClip,
		EnableDither:   !c.NoDither,
	}
}

// Run executes the play command.
func (c *PlayCmd) Run(g *Globals) error {
	var events []script.Event
	if c.Script != "" || !c.Keys {
		var err error
		if events, err = loadEvents(c.Script); err != nil {
			return err
		}
	}

	d, err := g.newDriver(sampleRate)
	if err != nil {
		return err
	}
	d.Schedule(events)

	kb := input.New(liveNotes(d.APU()))
	stream := NewAudioStream(d, c.audioOptions())

	switch c.Backend {
	case "ebiten":
		return c.runEbiten(kb, stream)
	case "oto":
		return c.runOto(kb, stream, events)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

func (c *PlayCmd) runEbiten(kb *input.Keyboard, stream *AudioStream) error {
	if c.Scale < 1 || c.Scale > 4 {
		c.Scale = 2
	}

	display := NewDisplay(stream.driver, kb, stream)
	defer display.Close()

	ebiten.SetWindowTitle("chipwave")
	ebiten.SetWindowSize(screenWidth*c.Scale, screenHeight*c.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(display); err != nil {
		return fmt.Errorf("display error: %w", err)
	}
	return nil
}

func (c *PlayCmd) runOto(kb *input.Keyboard, stream *AudioStream, events []script.Event) error {
	player, err := newOtoPlayer(sampleRate, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.Keys {
		return playKeys(ctx, kb)
	}

	end := time.Duration(c.Tail * float64(time.Second))
	if len(events) > 0 {
		end += events[len(events)-1].At
	}

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if stream.driver.Done() && stream.driver.Elapsed() >= end {
				return nil
			}
		}
	}
}

func playKeys(ctx context.Context, kb *input.Keyboard) error {
	keys, err := startTerminalKeys()
	if err != nil {
		return err
	}
	defer keys.Restore()

	fmt.Print("Playing: asdfghjk and wetyu for notes, z/x octave, 1-4 channel, space stops, q quits\r\n")
	defer kb.ReleaseAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys.Keys():
			if !ok || !handleTerminalKey(kb, b) {
				return nil
			}
		}
	}
}

// liveNotes turns keyboard notes into register writes.
func liveNotes(a *apu.APU) input.NoteFunc {
	return func(ch int, pitch float64, on bool) {
		if !on {
			ev := script.NoteOff(ch)
			a.Write(ev.Reg, ev.Data)
			return
		}
		for _, ev := range script.NoteOn(ch, pitch) {
			a.Write(ev.Reg, ev.Data)
		}
	}
}
