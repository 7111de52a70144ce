// Package script turns Lua register scripts into timed register writes.
//
// A script runs once, up front, and builds a list of events. The Lua side
// sees a clock that only moves when it calls wait:
//
//	note(1, 0)      -- A4 on channel 1
//	wait(0.5)
//	off(1)
//
// Available functions:
//   - write(reg, data): raw register write (low byte address, 0x10-0x3F)
//   - wait(seconds): advance the script clock
//   - note(ch, pitch): trigger channel 1-3 at a semitone offset from A4,
//     or channel 4 (pitch ignored)
//   - off(ch): note-off for a channel
//   - volume(ch, level): set a channel's envelope volume (0-15)
//   - now(): current script time in seconds
//
// Only the base, table, string and math libraries are loaded.
package script

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/richardwooding/chipwave/internal/apu"
	"github.com/richardwooding/chipwave/internal/synth"
)

var (
	// ErrScript indicates the Lua script failed to load or run.
	ErrScript = errors.New("script error")
)

// Event is one register write at a point in time.
type Event struct {
	At   time.Duration
	Reg  uint8
	Data uint16
}

// channelRegs are the envelope/level, frequency low and control registers
// of each channel. Channel 4 has no frequency register.
var channelRegs = [4][3]uint8{
	{apu.NR12, apu.NR13, apu.NR14},
	{apu.NR22, apu.NR23, apu.NR24},
	{apu.NR32, apu.NR33, apu.NR34},
	{apu.NR42, 0, apu.NR44},
}

// recorder collects events while a script runs.
type recorder struct {
	now    time.Duration
	events []Event
}

func (r *recorder) write(reg uint8, data uint16) {
	r.events = append(r.events, Event{At: r.now, Reg: reg, Data: data})
}

// Run executes a script and returns its events sorted by time.
func Run(src string) ([]Event, error) {
	return RunContext(context.Background(), src)
}

// RunContext is Run with a context that can stop a runaway script.
func RunContext(ctx context.Context, src string) ([]Event, error) {
	return run(ctx, func(L *lua.LState) error {
		return L.DoString(src)
	})
}

// RunFile executes the script at path.
func RunFile(path string) ([]Event, error) {
	// #nosec G304 - path is provided by the user via CLI argument
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Run(string(src))
}

func run(ctx context.Context, exec func(L *lua.LState) error) ([]Event, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openLibs(L); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	L.SetContext(ctx)

	rec := &recorder{}
	register(L, rec)

	if err := exec(L); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	slices.SortStableFunc(rec.events, func(a, b Event) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		default:
			return 0
		}
	})
	return rec.events, nil
}

func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return err
		}
	}
	return nil
}

func register(L *lua.LState, rec *recorder) {
	L.SetGlobal("write", L.NewFunction(func(L *lua.LState) int {
		reg := L.CheckInt(1)
		data := L.CheckInt(2)
		if reg < 0 || reg > 0xFF {
			L.ArgError(1, "register out of range")
		}
		if data < 0 || data > 0xFFFF {
			L.ArgError(2, "data out of range")
		}
		rec.write(uint8(reg), uint16(data)) //nolint:gosec // range checked
		return 0
	}))

	L.SetGlobal("wait", L.NewFunction(func(L *lua.LState) int {
		seconds := float64(L.CheckNumber(1))
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			L.ArgError(1, "wait needs a non-negative number of seconds")
		}
		rec.now += time.Duration(seconds * float64(time.Second))
		return 0
	}))

	L.SetGlobal("now", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(rec.now.Seconds()))
		return 1
	}))

	L.SetGlobal("note", L.NewFunction(func(L *lua.LState) int {
		ch := checkChannel(L, 1)
		var pitch float64
		if ch != 4 {
			pitch = float64(L.CheckNumber(2))
		}
		for _, ev := range NoteOn(ch, pitch) {
			rec.write(ev.Reg, ev.Data)
		}
		return 0
	}))

	L.SetGlobal("off", L.NewFunction(func(L *lua.LState) int {
		ev := NoteOff(checkChannel(L, 1))
		rec.write(ev.Reg, ev.Data)
		return 0
	}))

	L.SetGlobal("volume", L.NewFunction(func(L *lua.LState) int {
		ch := checkChannel(L, 1)
		level := L.CheckInt(2)
		if level < 0 || level > 15 {
			L.ArgError(2, "volume must be 0-15")
		}
		if ch == 3 {
			// Channel 3 only has four output levels
			rec.write(apu.NR32, uint16(waveLevel(level))<<5)
			return 0
		}
		rec.write(channelRegs[ch-1][0], uint16(level)<<4) //nolint:gosec // range checked
		return 0
	}))
}

func checkChannel(L *lua.LState, n int) int {
	ch := L.CheckInt(n)
	if ch < 1 || ch > 4 {
		L.ArgError(n, "channel must be 1-4")
	}
	return ch
}

// waveLevel maps a 0-15 volume to the NR32 output level code.
func waveLevel(level int) uint8 {
	switch {
	case level == 0:
		return 0 // mute
	case level < 6:
		return 3 // 25%
	case level < 11:
		return 2 // 50%
	default:
		return 1 // 100%
	}
}

// NoteOn returns the writes that trigger channel ch (1-4) at a semitone
// offset from A4. Channel 4 ignores pitch.
func NoteOn(ch int, pitch float64) []Event {
	if ch == 4 {
		return []Event{{Reg: apu.NR44, Data: 0x80}}
	}
	fnum := FrequencyRegister(ch, synth.Frequency(pitch))
	regs := channelRegs[ch-1]
	return []Event{
		{Reg: regs[1], Data: fnum & 0xFF},
		{Reg: regs[2], Data: 0x80 | fnum>>8},
	}
}

// NoteOff returns the write that releases channel ch (1-4).
func NoteOff(ch int) Event {
	return Event{Reg: channelRegs[ch-1][2]}
}

// FrequencyRegister returns the 11-bit frequency register value that plays
// hz on channel ch (1-3), clamped to the register range.
func FrequencyRegister(ch int, hz float64) uint16 {
	if hz <= 0 || math.IsNaN(hz) {
		return 0
	}

	clock := 131072.0 // Pulse channels
	if ch == 3 {
		clock = 65536.0
	}

	x := 2048 - clock/hz
	switch {
	case x < 0:
		return 0
	case x > 2047:
		return 2047
	default:
		return uint16(math.Round(x))
	}
}
