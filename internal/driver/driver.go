// Package driver runs the synthesizer in time: it paces engine ticks
// against a host sample rate, clocks the frame sequencer, plays scheduled
// register writes and produces host-rate stereo frames.
package driver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/richardwooding/chipwave/internal/apu"
	"github.com/richardwooding/chipwave/internal/script"
	"github.com/richardwooding/chipwave/internal/synth"
	"github.com/richardwooding/chipwave/internal/timer"
)

var (
	// ErrNoEngine indicates New was called without an engine.
	ErrNoEngine = errors.New("driver needs an engine")
)

// historySize is the number of recent frames kept for Snapshot.
const historySize = 2048

// Frame is one host-rate stereo sample.
type Frame struct {
	Left  uint8
	Right uint8
}

// Int16 converts the unsigned 8-bit samples to centred signed 16-bit.
func (f Frame) Int16() (int16, int16) {
	return (int16(f.Left) - 128) << 8, (int16(f.Right) - 128) << 8
}

// Driver owns the render loop. Render is meant to be called from one
// goroutine (the audio callback); Schedule, Snapshot and the APU may be
// used from others.
type Driver struct {
	engine   *synth.Engine
	apu      *apu.APU
	hostRate int

	mu        sync.Mutex
	pacing    *timer.Divider // Host frames to engine ticks
	sequencer *timer.Divider // Engine ticks to 512 Hz
	events    []script.Event
	next      int
	frames    uint64
	last      Frame

	history [historySize]Frame
	head    int
}

// New creates a driver rendering engine at hostRate frames per second.
// a may be nil to drive a bare engine without a frame sequencer.
func New(engine *synth.Engine, a *apu.APU, hostRate int) (*Driver, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}

	tickRate := engine.Config().TickRate()
	pacing, err := timer.New(hostRate, tickRate, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create host pacing: %w", err)
	}

	var clock timer.Callback
	if a != nil {
		clock = a.Clock
	}
	sequencer, err := timer.New(tickRate, synth.SequencerRate, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create sequencer clock: %w", err)
	}

	return &Driver{
		engine:    engine,
		apu:       a,
		hostRate:  hostRate,
		pacing:    pacing,
		sequencer: sequencer,
	}, nil
}

// Engine returns the driven engine.
func (d *Driver) Engine() *synth.Engine {
	return d.engine
}

// APU returns the register interpreter, or nil.
func (d *Driver) APU() *apu.APU {
	return d.apu
}

// HostRate returns the output frame rate.
func (d *Driver) HostRate() int {
	return d.hostRate
}

// Schedule replaces the pending events. Event times are measured from
// the start of rendering, so events already in the past run on the next
// frame.
func (d *Driver) Schedule(events []script.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = events
	d.next = 0
}

// Done reports whether every scheduled event has been applied.
func (d *Driver) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next >= len(d.events)
}

// Elapsed returns the rendered duration.
func (d *Driver) Elapsed() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elapsed()
}

func (d *Driver) elapsed() time.Duration {
	return time.Duration(d.frames) * time.Second / time.Duration(d.hostRate)
}

// Render fills frames with the next host-rate output. Between engine
// rounds the last latched output is held.
func (d *Driver) Render(frames []Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range frames {
		d.dispatch()

		ticks := d.pacing.Update(1)
		for range ticks {
			d.tick()
		}

		frames[i] = d.last
		d.history[d.head] = d.last
		d.head = (d.head + 1) % historySize
		d.frames++
	}
}

// RunTicks advances the engine and sequencer by n ticks without
// producing frames or playing events.
func (d *Driver) RunTicks(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for range n {
		d.tick()
	}
}

func (d *Driver) tick() {
	left, right := d.engine.Tick()
	d.last = Frame{Left: left, Right: right}
	d.sequencer.Update(1)
}

// dispatch applies the events due at the current frame.
func (d *Driver) dispatch() {
	if d.apu == nil || d.next >= len(d.events) {
		return
	}
	now := d.elapsed()
	for d.next < len(d.events) && d.events[d.next].At <= now {
		ev := d.events[d.next]
		d.apu.Write(ev.Reg, ev.Data)
		d.next++
	}
}

// Snapshot copies the most recent frames into dst, oldest first, and
// returns how many were copied.
func (d *Driver) Snapshot(dst []Frame) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := min(len(dst), historySize)
	start := (d.head - n + historySize) % historySize
	for i := range n {
		dst[i] = d.history[(start+i)%historySize]
	}
	return n
}

// Reset rewinds the clocks and the event schedule. Engine and APU state
// is kept.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pacing.Reset()
	d.sequencer.Reset()
	d.next = 0
	d.frames = 0
	d.last = Frame{}
	d.history = [historySize]Frame{}
	d.head = 0
}
