package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/richardwooding/chipwave/internal/driver"
)

// renderChunk is the number of frames rendered per encoder write.
const renderChunk = 4096

// RenderCmd renders a script to a WAV file.
type RenderCmd struct {
	Out     string  `arg:"" help:"Output WAV file."`
	Script  string  `help:"Lua register script (default: built-in demo)." type:"existingfile"`
	Seconds float64 `help:"Length in seconds (default: until the script ends)."`
	Tail    float64 `help:"Seconds to keep rendering after the last event." default:"0.5"`
	Rate    int     `help:"Output sample rate." default:"44100"`
}

// Run executes the render command.
func (c *RenderCmd) Run(g *Globals) error {
	events, err := loadEvents(c.Script)
	if err != nil {
		return err
	}

	d, err := g.newDriver(c.Rate)
	if err != nil {
		return err
	}
	d.Schedule(events)

	length := time.Duration(c.Seconds * float64(time.Second))
	if c.Seconds == 0 {
		length = time.Duration(c.Tail * float64(time.Second))
		if len(events) > 0 {
			length += events[len(events)-1].At
		}
	}
	if length <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, length)
	}

	// #nosec G304 - output path is provided by the user via CLI argument
	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	frames, err := renderWAV(f, d, length)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d frames, %v at %d Hz\n", c.Out, frames, d.Elapsed().Round(time.Millisecond), c.Rate)
	return nil
}

// renderWAV renders length of audio through d into a 16-bit stereo WAV.
func renderWAV(w io.WriteSeeker, d *driver.Driver, length time.Duration) (int, error) {
	rate := d.HostRate()
	total := int(length.Seconds() * float64(rate))

	enc := wav.NewEncoder(w, rate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		SourceBitDepth: 16,
		Data:           make([]int, 0, renderChunk*2),
	}
	frames := make([]driver.Frame, renderChunk)

	for done := 0; done < total; {
		n := min(renderChunk, total-done)
		d.Render(frames[:n])

		buf.Data = buf.Data[:0]
		for _, fr := range frames[:n] {
			l, r := fr.Int16()
			buf.Data = append(buf.Data, int(l), int(r))
		}
		if err := enc.Write(buf); err != nil {
			return done, fmt.Errorf("failed to write WAV: %w", err)
		}
		done += n
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("failed to finish WAV: %w", err)
	}
	return total, nil
}
