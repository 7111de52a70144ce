package main

import (
	"math/rand/v2"
	"sync"

	"github.com/richardwooding/chipwave/internal/driver"
)

const (
	// Audio output sample rate (Hz).
	sampleRate = 48000

	// Frames rendered per Read call at most.
	maxReadFrames = 4096
)

// AudioOptions configures which audio filters are enabled.
type AudioOptions struct {
	EnableLowPass  bool // Low-pass filter for anti-aliasing
	EnableHighPass bool // High-pass filter for DC offset removal
	EnableSoftClip bool // Soft clipping (vs hard clipping)
	EnableDither   bool // Triangular dithering
}

// filter is the single-pole filter state of one side.
type filter struct {
	lp float32
	hp float32
}

// process runs one sample in [-1, 1] through the enabled filters.
func (f *filter) process(x float32, opts AudioOptions) float32 {
	const hpFilterFactor = 0.9999 // High-pass filter coefficient (removes DC offset)
	const lpFilterFactor = 0.90   // Low-pass filter coefficient (removes aliasing/harshness)

	if opts.EnableLowPass {
		f.lp = f.lp*lpFilterFactor + x*(1.0-lpFilterFactor)
		x = f.lp
	}

	if opts.EnableHighPass {
		out := x - f.hp
		f.hp = f.hp*hpFilterFactor + x*(1.0-hpFilterFactor)
		x = out
	}

	if opts.EnableSoftClip {
		// Soft clipping using tanh-like approximation (smoother than hard clipping)
		switch {
		case x > 0.9:
			x = 0.9 + (x-0.9)*0.1
		case x < -0.9:
			x = -0.9 + (x+0.9)*0.1
		}
	} else {
		x = min(max(x, -1.0), 1.0)
	}

	if opts.EnableDither {
		x += (rand.Float32() + rand.Float32() - 1.0) / 32768.0 //nolint:gosec // Weak random is fine for audio dithering
	}
	return x
}

// AudioStream renders the driver on demand as 16-bit little-endian stereo
// PCM. Both audio backends pull from it.
type AudioStream struct {
	mu      sync.Mutex
	driver  *driver.Driver
	options AudioOptions
	frames  []driver.Frame
	left    filter
	right   filter
}

// NewAudioStream creates a stream for d.
func NewAudioStream(d *driver.Driver, opts AudioOptions) *AudioStream {
	return &AudioStream{
		driver:  d,
		options: opts,
		frames:  make([]driver.Frame, maxReadFrames),
	}
}

// Read fills buf with whole stereo frames (implements io.Reader).
func (s *AudioStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(len(buf)/4, maxReadFrames)
	frames := s.frames[:n]
	s.driver.Render(frames)

	for i, fr := range frames {
		l, r := fr.Int16()
		left := s.left.process(float32(l)/32768.0, s.options)
		right := s.right.process(float32(r)/32768.0, s.options)

		putSample(buf[i*4:], left)
		putSample(buf[i*4+2:], right)
	}
	return n * 4, nil
}

func putSample(buf []byte, x float32) {
	v := int16(min(max(x, -1.0), 1.0) * 32767.0)
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}
