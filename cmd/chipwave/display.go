package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/richardwooding/chipwave/internal/driver"
	"github.com/richardwooding/chipwave/internal/input"
)

const (
	screenWidth    = 512
	screenHeight   = 256
	ticksPerSecond = 60
)

// Scope colours, in the classic green tones.
var (
	scopeBackground = color.RGBA{0x08, 0x18, 0x20, 0xFF}
	scopeGrid       = color.RGBA{0x34, 0x68, 0x56, 0xFF}
	scopeLeft       = color.RGBA{0xE0, 0xF8, 0xD0, 0xFF}
	scopeRight      = color.RGBA{0x88, 0xC0, 0x70, 0xFF}
)

// keyMap maps ebiten keys to keyboard key names.
var keyMap = map[ebiten.Key]string{
	ebiten.KeyA: "a", ebiten.KeyW: "w", ebiten.KeyS: "s", ebiten.KeyE: "e",
	ebiten.KeyD: "d", ebiten.KeyF: "f", ebiten.KeyT: "t", ebiten.KeyG: "g",
	ebiten.KeyY: "y", ebiten.KeyH: "h", ebiten.KeyU: "u", ebiten.KeyJ: "j",
	ebiten.KeyK: "k", ebiten.KeyZ: "z", ebiten.KeyX: "x",
	ebiten.KeyDigit1: "1", ebiten.KeyDigit2: "2", ebiten.KeyDigit3: "3", ebiten.KeyDigit4: "4",
}

// Display implements the Ebiten game interface: an oscilloscope of the
// output plus keyboard notes.
type Display struct {
	driver      *driver.Driver
	keyboard    *input.Keyboard
	audioPlayer *audio.Player
	silent      []driver.Frame // Render target when audio is unavailable
	scope       []driver.Frame
	keys        []ebiten.Key
}

// NewDisplay creates a display and starts audio playback.
func NewDisplay(d *driver.Driver, kb *input.Keyboard, stream *AudioStream) *Display {
	display := &Display{
		driver:   d,
		keyboard: kb,
		scope:    make([]driver.Frame, screenWidth),
	}

	ctx := audio.NewContext(d.HostRate())
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		// Audio is optional - keep the scope running without it
		log.Printf("audio disabled: %v", err)
		display.silent = make([]driver.Frame, d.HostRate()/ticksPerSecond)
		return display
	}
	player.SetBufferSize(bufferLatency)
	player.Play()
	display.audioPlayer = player

	return display
}

// Update handles keyboard input. Audio is rendered by the player, or
// here when there is none.
func (d *Display) Update() error {
	if d.audioPlayer == nil {
		d.driver.Render(d.silent)
	}

	d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		if name, ok := keyMap[k]; ok {
			d.keyboard.Press(name)
		}
	}

	d.keys = inpututil.AppendJustReleasedKeys(d.keys[:0])
	for _, k := range d.keys {
		if name, ok := keyMap[k]; ok {
			d.keyboard.Release(name)
		}
	}
	return nil
}

// Draw draws the oscilloscope.
func (d *Display) Draw(screen *ebiten.Image) {
	screen.Fill(scopeBackground)

	mid := float32(screenHeight) / 2
	vector.StrokeLine(screen, 0, mid, screenWidth, mid, 1, scopeGrid, false)

	n := d.driver.Snapshot(d.scope)
	samples := d.scope[:n]
	for i := 1; i < len(samples); i++ {
		x0, x1 := float32(i-1), float32(i)
		vector.StrokeLine(screen, x0, sampleY(samples[i-1].Right), x1, sampleY(samples[i].Right), 1, scopeRight, true)
		vector.StrokeLine(screen, x0, sampleY(samples[i-1].Left), x1, sampleY(samples[i].Left), 1, scopeLeft, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("ch %d  octave %+d  %v",
		d.keyboard.Channel(), d.keyboard.Octave(), d.driver.Elapsed().Truncate(100_000_000)))
}

// sampleY maps an 8-bit sample to a screen row, 255 at the top.
func sampleY(v uint8) float32 {
	return float32(screenHeight-1) - float32(v)*float32(screenHeight-1)/255
}

// Layout returns the screen size.
func (d *Display) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// Close stops audio playback.
func (d *Display) Close() error {
	if d.audioPlayer == nil {
		return nil
	}
	return d.audioPlayer.Close()
}
