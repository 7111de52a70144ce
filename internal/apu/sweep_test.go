package apu

import "testing"

func TestSweep_Write(t *testing.T) {
	var s Sweep
	s.write(0x7B)
	if s.Period != 7 || !s.Negate || s.Shift != 3 {
		t.Errorf("write(0x7B) = %+v, want period 7, negate, shift 3", s)
	}
}

func TestSweep_Clock(t *testing.T) {
	tests := []struct {
		name       string
		nr10       uint8
		frequency  uint16
		wantFreq   uint16
		wantResult SweepResult
	}{
		{"add", 0x11, 0x400, 0x600, SweepCommit},
		{"subtract", 0x19, 0x400, 0x200, SweepCommit},
		{"shift two", 0x12, 0x400, 0x500, SweepCommit},
		{"overflow", 0x11, 0x600, 0x900, SweepOverflow},
		{"period zero idle", 0x01, 0x400, 0x400, SweepIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Sweep
			s.write(tt.nr10)
			s.trigger(tt.frequency)

			freq, result := s.Clock()
			if result != tt.wantResult {
				t.Errorf("result = %d, want %d", result, tt.wantResult)
			}
			if freq != tt.wantFreq {
				t.Errorf("freq = 0x%03X, want 0x%03X", freq, tt.wantFreq)
			}
		})
	}
}

func TestSweep_OverflowDoesNotCommit(t *testing.T) {
	var s Sweep
	s.write(0x11)
	s.trigger(0x600)

	if _, result := s.Clock(); result != SweepOverflow {
		t.Fatalf("result = %d, want SweepOverflow", result)
	}
	if s.Shadow != 0x600 {
		t.Errorf("Shadow = 0x%03X after overflow, want 0x600", s.Shadow)
	}
}

func TestSweep_Period(t *testing.T) {
	var s Sweep
	s.write(0x31) // period 3, shift 1
	s.trigger(0x100)

	for i := range 2 {
		if _, result := s.Clock(); result != SweepIdle {
			t.Fatalf("clock %d: result = %d, want SweepIdle", i, result)
		}
	}
	if freq, result := s.Clock(); result != SweepCommit || freq != 0x180 {
		t.Errorf("third clock = (0x%03X, %d), want (0x180, SweepCommit)", freq, result)
	}
}

func TestAPU_SweepRetunes(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR10, 0x11) // period 1, add, shift 1
	a.Write(NR13, 0x00)
	a.Write(NR14, 0x82) // frequency 0x200

	a.Clock() // step 0
	a.Clock() // step 1
	a.Clock() // step 2: sweep

	if got := a.Frequency(0); got != 0x300 {
		t.Fatalf("frequency = 0x%03X, want 0x300", got)
	}
	want := e.Fnumber(float64(32768 / (2048 - 0x300)))
	if got := e.Voice(0).Tune; got != want {
		t.Errorf("tune = %d, want %d", got, want)
	}
}

func TestAPU_SweepOverflowMutes(t *testing.T) {
	a := newTestAPU(t, gbConfig)
	e := a.Engine()

	a.Write(NR10, 0x12) // period 1, add, shift 2
	a.Write(NR13, 0x00)
	a.Write(NR14, 0x86) // 0x600 + 0x180 = 0x780 on trigger check

	if !a.Channel(0).Active {
		t.Fatal("channel 1 should pass the trigger overflow check")
	}

	// Step 2 commits 0x780, step 6 tries 0x960
	for range 7 {
		a.Clock()
	}

	if a.Channel(0).Active {
		t.Error("channel 1 should be muted after the sweep overflows")
	}
	if got := e.Voice(0).Gain.Amplitude(); got != 0 {
		t.Errorf("amplitude = %d, want 0", got)
	}
	if got := a.Frequency(0); got != 0x780 {
		t.Errorf("frequency = 0x%03X, the overflowed value must not be committed", got)
	}
}
