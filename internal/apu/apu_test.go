package apu

import (
	"errors"
	"testing"

	"github.com/richardwooding/chipwave/internal/synth"
	"github.com/richardwooding/chipwave/internal/wavetable"
)

// gbConfig is four voices, alternating stereo, half rate.
var gbConfig = synth.Config{
	VoiceCount:    4,
	Stereo:        synth.FixedAssignment,
	Rate:          synth.HalfRate,
	WavetableSize: wavetable.FullSize,
}

func newTestAPU(t *testing.T, cfg synth.Config) *APU {
	t.Helper()
	e, err := synth.New(cfg)
	if err != nil {
		t.Fatalf("synth.New: %v", err)
	}
	a, err := New(e)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNew_RejectsSmallEngines(t *testing.T) {
	tests := []struct {
		name string
		cfg  synth.Config
	}{
		{"two voices", synth.Config{VoiceCount: 2, Stereo: synth.FixedAssignment, WavetableSize: 256}},
		{"half wave RAM", synth.Config{VoiceCount: 4, Stereo: synth.FixedAssignment, WavetableSize: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := synth.New(tt.cfg)
			if err != nil {
				t.Fatalf("synth.New: %v", err)
			}
			if _, err := New(e); !errors.Is(err, ErrUnsupportedConfig) {
				t.Errorf("New() error = %v, want ErrUnsupportedConfig", err)
			}
		})
	}
}

func TestBegin_WaveRAM(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	// Each duty slot has 1, 2, 4 and 6 high steps of 4 samples
	wantHigh := []int{4, 8, 16, 24}
	for d, want := range wantHigh {
		high := 0
		for i := range wavetable.SlotSize {
			switch e.Wave(uint8(d*32 + i)) {
			case dutyLevel:
				high++
			case 0:
			default:
				t.Fatalf("duty %d sample %d has unexpected value", d, i)
			}
		}
		if high != want {
			t.Errorf("duty %d: %d high samples, want %d", d, high, want)
		}
	}

	// 12.5%: only the second step (samples 4-7) is high
	for i := range 8 {
		want := uint8(0)
		if i >= 4 {
			want = dutyLevel
		}
		if got := e.Wave(wavetable.Slot0 + uint8(i)); got != want {
			t.Errorf("12.5%% sample %d = %d, want %d", i, got, want)
		}
	}

	// Noise slots are not silent
	for _, slot := range []uint8{noiseSlot15, noiseSlot7} {
		high := 0
		for i := range wavetable.SlotSize {
			if e.Wave(slot+uint8(i)) == noiseLevel {
				high++
			}
		}
		if high == 0 || high == wavetable.SlotSize {
			t.Errorf("noise slot 0x%02X has %d high samples", slot, high)
		}
	}
}

func TestBegin_Voices(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	wantSelect := []uint8{wavetable.Slot0, wavetable.Slot0, wavetable.Slot4, wavetable.Slot5}
	for i, want := range wantSelect {
		v := e.Voice(i)
		if v.WaveMask != 31 {
			t.Errorf("voice %d WaveMask = %d, want 31", i, v.WaveMask)
		}
		if v.WaveSelect != want {
			t.Errorf("voice %d WaveSelect = 0x%02X, want 0x%02X", i, v.WaveSelect, want)
		}
	}
}

func TestWrite_Trigger(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR13, 0x23)
	e.SetPhase(0, 0x1234)
	a.Write(NR14, 0x87)

	fnum := uint16(0x723)
	if got := a.Frequency(0); got != fnum {
		t.Fatalf("frequency = 0x%03X, want 0x%03X", got, fnum)
	}

	v := e.Voice(0)
	if v.Gain.Amplitude() != a.Channel(0).Envelope.StartingVolume {
		t.Errorf("amplitude = %d, want starting volume %d", v.Gain.Amplitude(), a.Channel(0).Envelope.StartingVolume)
	}
	if v.Phase != 0 {
		t.Errorf("phase = 0x%04X, want 0", v.Phase)
	}
	want := e.Fnumber(float64(32768 / (2048 - int(fnum))))
	if v.Tune != want {
		t.Errorf("tune = %d, want %d", v.Tune, want)
	}
}

func TestWrite_TriggerUsesEnvelopeVolume(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR12, 0xA3) // volume 0xA0, decrease, period 3
	a.Write(NR14, 0x80)

	if got := e.Voice(0).Gain.Amplitude(); got != 0xA0 {
		t.Errorf("amplitude = 0x%02X, want 0xA0", got)
	}
	env := a.Channel(0).Envelope
	if env.Period != 3 || env.Increase || env.Counter != 3 {
		t.Errorf("envelope = %+v, want period 3, decreasing, counter 3", env)
	}
}

func TestWrite_NoteOff(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR24, 0x80)
	if e.Voice(1).Gain.Amplitude() == 0 {
		t.Fatal("channel 2 should sound after trigger")
	}

	a.Write(NR24, 0x05)
	if got := e.Voice(1).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d after write without trigger, want 0", got)
	}
	if a.Channel(1).Active {
		t.Error("channel 2 should be inactive after note-off")
	}
}

func TestWrite_DutySelectsSlot(t *testing.T) {
	tests := []struct {
		value uint8
		want  uint8
	}{
		{0x00, wavetable.Slot0},
		{0x40, wavetable.Slot1},
		{0x80, wavetable.Slot2},
		{0xC0, wavetable.Slot3},
		{0xFF, wavetable.Slot3},
	}

	a := newTestAPU(t, gbConfig)
	for _, tt := range tests {
		a.Write(NR11, uint16(tt.value))
		if got := a.Engine().Voice(0).WaveSelect; got != tt.want {
			t.Errorf("NR11=0x%02X: WaveSelect = 0x%02X, want 0x%02X", tt.value, got, tt.want)
		}
		if got := uint8((tt.value >> 1) & 0x60); got != tt.want {
			t.Errorf("NR11=0x%02X: (data>>1)&0x60 = 0x%02X, want 0x%02X", tt.value, got, tt.want)
		}
		a.Write(NR21, uint16(tt.value))
		if got := a.Engine().Voice(1).WaveSelect; got != tt.want {
			t.Errorf("NR21=0x%02X: WaveSelect = 0x%02X, want 0x%02X", tt.value, got, tt.want)
		}
	}
}

func TestWrite_PatternRAM(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(WaveRAMStart, 0xA5)
	a.Write(WaveRAMEnd, 0x3C)

	if got := e.Wave(wavetable.Slot4); got != 0xA0 {
		t.Errorf("sample 0 = 0x%02X, want 0xA0", got)
	}
	if got := e.Wave(wavetable.Slot4 + 1); got != 0x50 {
		t.Errorf("sample 1 = 0x%02X, want 0x50", got)
	}
	if got := e.Wave(wavetable.Slot4 + 30); got != 0x30 {
		t.Errorf("sample 30 = 0x%02X, want 0x30", got)
	}
	if got := e.Wave(wavetable.Slot4 + 31); got != 0xC0 {
		t.Errorf("sample 31 = 0x%02X, want 0xC0", got)
	}

	if got := a.Read(WaveRAMStart); got != 0xA5 {
		t.Errorf("Read(0x30) = 0x%02X, want 0xA5", got)
	}
}

func TestWrite_WaveChannel(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	levels := []struct {
		nr32 uint8
		want uint8
	}{
		{0x00, 0},
		{0x20, 60},
		{0x40, 30},
		{0x60, 15},
	}

	for _, tt := range levels {
		a.Write(NR32, uint16(tt.nr32))
		a.Write(NR33, 0x00)
		a.Write(NR34, 0x86)
		if got := e.Voice(2).Gain.Amplitude(); got != tt.want {
			t.Errorf("NR32=0x%02X: amplitude = %d, want %d", tt.nr32, got, tt.want)
		}
	}

	want := e.Fnumber(float64(8190 / (2048 - 0x600)))
	if got := e.Voice(2).Tune; got != want {
		t.Errorf("tune = %d, want %d", got, want)
	}

	// DAC off mutes the channel
	a.Write(NR30, 0x00)
	if got := e.Voice(2).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d after DAC off, want 0", got)
	}
	a.Write(NR34, 0x86)
	if a.Channel(2).Active {
		t.Error("trigger with DAC off should leave the channel inactive")
	}
}

func TestWrite_NoiseChannel(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR42, 0xF0)
	a.Write(NR43, 0x08) // 7-bit, shift 0, divisor 0.5
	a.Write(NR44, 0x80)

	v := e.Voice(3)
	if v.Gain.Amplitude() != 0xF0>>2 {
		t.Errorf("amplitude = %d, want %d", v.Gain.Amplitude(), 0xF0>>2)
	}
	if v.WaveSelect != noiseSlot7 {
		t.Errorf("WaveSelect = 0x%02X, want 7-bit noise slot", v.WaveSelect)
	}
	want := e.Fnumber(262144 / 0.5 / 32)
	if v.Tune != want {
		t.Errorf("tune = %d, want %d", v.Tune, want)
	}

	a.Write(NR43, 0x53) // 15-bit, shift 5, divisor 3
	v = e.Voice(3)
	if v.WaveSelect != noiseSlot15 {
		t.Errorf("WaveSelect = 0x%02X, want 15-bit noise slot", v.WaveSelect)
	}
	if want := e.Fnumber(262144.0 / 3 / 32 / 32); v.Tune != want {
		t.Errorf("tune = %d, want %d", v.Tune, want)
	}
}

func TestWrite_EnvelopeDACOff(t *testing.T) {
	a := newTestAPU(t, gbConfig)

	a.Write(NR12, 0xF0)
	a.Write(NR14, 0x80)
	if !a.Channel(0).Active {
		t.Fatal("channel 1 should be active")
	}

	a.Write(NR12, 0x07) // volume 0, decrease: DAC off
	if a.Channel(0).Active {
		t.Error("channel 1 should be disabled when its DAC is turned off")
	}
	if got := a.Engine().Voice(0).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d, want 0", got)
	}
}

func TestWrite_UnknownRegisterIgnored(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	before := a.Engine().Voices()

	for _, reg := range []uint8{0x00, 0x0F, 0x15, 0x1F, 0x27, 0x2F, 0x40, 0xFF} {
		a.Write(reg, 0xFF)
	}

	after := a.Engine().Voices()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("voice %d changed after unknown register writes", i)
		}
	}
}

func TestWriteOffset(t *testing.T) {
	a := newTestAPU(t, gbConfig)

	a.WriteOffset(0x03, 0x44) // NR13
	a.WriteOffset(0x04, 0x81) // NR14
	if got := a.Frequency(0); got != 0x144 {
		t.Errorf("frequency = 0x%03X, want 0x144", got)
	}
	if !a.Channel(0).Active {
		t.Error("offset 0x04 should reach NR14")
	}
}

func TestRead_Masks(t *testing.T) {
	a := newTestAPU(t, gbConfig)

	a.Write(NR10, 0x7F)
	a.Write(NR11, 0x80)
	a.Write(NR13, 0x12)
	a.Write(NR50, 0x77)
	a.Write(NR51, 0xF3)

	tests := []struct {
		reg  uint8
		want uint8
	}{
		{NR10, 0xFF},
		{NR11, 0xBF},
		{NR13, 0xFF}, // write-only
		{NR50, 0x77},
		{NR51, 0xF3},
		{0x15, 0xFF},
		{0x27, 0xFF},
	}

	for _, tt := range tests {
		if got := a.Read(tt.reg); got != tt.want {
			t.Errorf("Read(0x%02X) = 0x%02X, want 0x%02X", tt.reg, got, tt.want)
		}
	}
}

func TestRead_Status(t *testing.T) {
	a := newTestAPU(t, gbConfig)

	if got := a.Read(NR52); got != 0xF0 {
		t.Errorf("NR52 = 0x%02X, want 0xF0 with no active channels", got)
	}

	a.Write(NR14, 0x80)
	a.Write(NR44, 0x80)
	if got := a.Read(NR52); got != 0xF9 {
		t.Errorf("NR52 = 0x%02X, want 0xF9", got)
	}
}

func TestRead_DefaultPanning(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	if got := a.Read(NR51); got != defaultPanning {
		t.Errorf("NR51 = 0x%02X after New, want 0x%02X", got, defaultPanning)
	}

	a.Write(NR51, 0x00)
	a.Write(NR52, 0x00)
	a.Write(NR52, 0x80)
	if got := a.Read(NR51); got != defaultPanning {
		t.Errorf("NR51 = 0x%02X after a power cycle, want 0x%02X", got, defaultPanning)
	}

	// Read-modify-write keeps the other channels routed
	a.Write(NR51, uint16(a.Read(NR51)|0x11))
	a.Write(NR22, 0xF0)
	a.Write(NR24, 0x80)
	if got := a.Engine().Voice(1).Gain.Amplitude(); got != 0xF0 {
		t.Errorf("voice 1 amplitude = %d, want 0xF0", got)
	}
}

func TestNew_NilEngine(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrUnsupportedConfig) {
		t.Errorf("New(nil) error = %v, want ErrUnsupportedConfig", err)
	}
}

func TestPower(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR14, 0x80)
	a.Write(NR52, 0x00)

	if a.Powered() {
		t.Fatal("APU should be off")
	}
	if got := e.Voice(0).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d after power off, want 0", got)
	}
	if got := a.Read(NR52); got != 0x70 {
		t.Errorf("NR52 = 0x%02X, want 0x70", got)
	}

	// Writes are ignored while off, except pattern RAM
	a.Write(NR14, 0x80)
	if a.Channel(0).Active {
		t.Error("trigger should be ignored while powered off")
	}
	a.Write(WaveRAMStart, 0xF0)
	if e.Wave(wavetable.Slot4) != 0xF0 {
		t.Error("pattern RAM should be writable while powered off")
	}

	// Clock is a no-op while off
	a.Clock()
	if a.Step() != 0 {
		t.Errorf("Step() = %d, want 0 while off", a.Step())
	}

	a.Write(NR52, 0x80)
	a.Write(NR14, 0x80)
	if !a.Channel(0).Active {
		t.Error("trigger should work after power on")
	}
}

func TestPanning_FixedAssignment(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR12, 0xF0)
	a.Write(NR22, 0xF0)
	a.Write(NR14, 0x80)
	a.Write(NR24, 0x80)

	// Voice 0 is on the left, voice 1 on the right
	a.Write(NR51, 0x0F) // everything right only
	if got := e.Voice(0).Gain.Amplitude(); got != 0 {
		t.Errorf("voice 0 amplitude = %d with left panning off, want 0", got)
	}
	if got := e.Voice(1).Gain.Amplitude(); got != 0xF0 {
		t.Errorf("voice 1 amplitude = %d, want 0xF0", got)
	}

	a.Write(NR51, 0xF0) // everything left only
	if got := e.Voice(0).Gain.Amplitude(); got != 0xF0 {
		t.Errorf("voice 0 amplitude = %d, want 0xF0", got)
	}
	if got := e.Voice(1).Gain.Amplitude(); got != 0 {
		t.Errorf("voice 1 amplitude = %d with right panning off, want 0", got)
	}
}

func TestPanning_Independent(t *testing.T) {
	cfg := gbConfig
	cfg.Stereo = synth.Independent
	a := newTestAPU(t, cfg)
	e := a.Engine()

	a.Write(NR51, 0x10) // channel 1 left only
	a.Write(NR12, 0xF0)
	a.Write(NR14, 0x80)

	g := e.Voice(0).Gain
	if g.Left() != 0xF0 || g.Right() != 0 {
		t.Errorf("gain = (%d, %d), want (240, 0)", g.Left(), g.Right())
	}

	a.Write(NR51, 0x01) // channel 1 right only
	g = e.Voice(0).Gain
	if g.Left() != 0 || g.Right() != 0xF0 {
		t.Errorf("gain = (%d, %d), want (0, 240)", g.Left(), g.Right())
	}
}

func TestSweep_TriggerOverflowMutes(t *testing.T) {
	a := newTestAPU(t, gbConfig)

	a.Write(NR10, 0x11) // period 1, add, shift 1
	a.Write(NR13, 0xFF)
	a.Write(NR14, 0x87) // 0x7FF + 0x3FF overflows immediately

	if a.Channel(0).Active {
		t.Error("trigger whose first sweep overflows should leave the channel muted")
	}
	if got := a.Engine().Voice(0).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d, want 0", got)
	}
}
