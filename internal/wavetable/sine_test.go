package wavetable

import (
	"errors"
	"testing"
)

func TestLoadSineWave64_Mirror(t *testing.T) {
	m, _ := New(FullSize)
	if err := m.LoadSineWave(Slot0, Sine64); err != nil {
		t.Fatalf("LoadSineWave: %v", err)
	}

	for i := range 32 {
		a := int(m.Read(uint8(i)))
		b := int(m.Read(uint8(i + 32)))
		if b != (256-a)&0xFF {
			t.Errorf("sample[%d] = 0x%02X, sample[%d] = 0x%02X; want 256 - sample[%d]", i, a, i+32, b, i)
		}
	}
}

func TestLoadSineWave64_Shape(t *testing.T) {
	m, _ := New(FullSize)
	_ = m.LoadSineWave(Slot0, Sine64)

	// Rising to the peak at 16, then falling
	for i := 1; i <= 16; i++ {
		if m.Read(uint8(i)) <= m.Read(uint8(i-1)) {
			t.Errorf("sample[%d] = 0x%02X should be above sample[%d] = 0x%02X", i, m.Read(uint8(i)), i-1, m.Read(uint8(i-1)))
		}
	}
	for i := 17; i < 32; i++ {
		if m.Read(uint8(i)) >= m.Read(uint8(i-1)) {
			t.Errorf("sample[%d] = 0x%02X should be below sample[%d] = 0x%02X", i, m.Read(uint8(i)), i-1, m.Read(uint8(i-1)))
		}
	}

	if got := m.Read(0); got != 0x80 {
		t.Errorf("sample[0] = 0x%02X, want 0x80", got)
	}
	if got := m.Read(16); got != 0xFF {
		t.Errorf("sample[16] = 0x%02X, want 0xFF", got)
	}
	if got := m.Read(48); got != 0x01 {
		t.Errorf("sample[48] = 0x%02X, want 0x01", got)
	}
}

func TestLoadSineWave32(t *testing.T) {
	m, _ := New(FullSize)
	if err := m.LoadSineWave(Slot2, Sine32); err != nil {
		t.Fatalf("LoadSineWave: %v", err)
	}

	want := []uint8{0x80, 0x98, 0xB0, 0xC6, 0xD9, 0xE9, 0xF5, 0xFC}
	for i, w := range want {
		if got := m.Read(Slot2 + uint8(i)); got != w {
			t.Errorf("sample[%d] = 0x%02X, want 0x%02X", i, got, w)
		}
	}
	if got := m.Read(Slot2 + 8); got != 0xFF {
		t.Errorf("sample[8] = 0x%02X, want peak 0xFF", got)
	}
	for i := range 16 {
		a := int(m.Read(Slot2 + uint8(i)))
		b := int(m.Read(Slot2 + uint8(i+16)))
		if b != (256-a)&0xFF {
			t.Errorf("sample[%d] = 0x%02X, sample[%d] = 0x%02X; want mirror", i, a, i+16, b)
		}
	}

	// The next slot is untouched
	if m.Read(Slot3) != 0 {
		t.Error("Sine32 should fill exactly one slot")
	}
}

func TestLoadSineWave_OutOfRange(t *testing.T) {
	m, _ := New(HalfSize)
	if err := m.LoadSineWave(Slot3, Sine64); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("LoadSineWave(Slot3, Sine64) on half table error = %v, want ErrSlotOutOfRange", err)
	}
	if err := m.LoadSineWave(Slot3, Sine32); err != nil {
		t.Errorf("LoadSineWave(Slot3, Sine32) on half table: %v", err)
	}
}
