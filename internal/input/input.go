// Package input maps a computer keyboard onto notes.
//
// The home row plays white keys and the row above plays black keys, one
// octave from C:
//
//	 w e   t y u
//	a s d f g h j k
//
// z and x shift the octave down and up, 1-4 pick the sound channel.
// Each channel is monophonic: a new key retriggers it and releasing a key
// only stops the channel if that key is the one sounding.
package input

import "sync"

// NoteFunc receives note events. pitch is in semitones from A4.
type NoteFunc func(ch int, pitch float64, on bool)

// pianoKeys maps keys to semitones above C.
var pianoKeys = map[string]int{
	"a": 0, "w": 1, "s": 2, "e": 3, "d": 4, "f": 5, "t": 6,
	"g": 7, "y": 8, "h": 9, "u": 10, "j": 11, "k": 12,
}

// Keys lists the piano keys in pitch order.
var Keys = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k"}

// Octave limits relative to the C below A4.
const (
	minOctave = -3
	maxOctave = 3
)

// c4 is middle C in semitones from A4.
const c4 = -9

// Keyboard tracks the octave, channel and sounding key.
type Keyboard struct {
	mu      sync.Mutex
	octave  int
	channel int
	current map[int]string // Sounding key per channel
	onNote  NoteFunc
}

// New creates a keyboard playing channel 1 at the middle octave.
func New(onNote NoteFunc) *Keyboard {
	return &Keyboard{
		channel: 1,
		current: make(map[int]string),
		onNote:  onNote,
	}
}

// Press handles a key going down. It returns false for keys it does not
// use.
func (k *Keyboard) Press(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch key {
	case "z":
		if k.octave > minOctave {
			k.octave--
		}
		return true
	case "x":
		if k.octave < maxOctave {
			k.octave++
		}
		return true
	case "1", "2", "3", "4":
		k.channel = int(key[0] - '0')
		return true
	}

	semitone, ok := pianoKeys[key]
	if !ok {
		return false
	}

	k.current[k.channel] = key
	if k.onNote != nil {
		k.onNote(k.channel, k.pitch(semitone), true)
	}
	return true
}

// Release handles a key going up.
func (k *Keyboard) Release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for ch, held := range k.current {
		if held != key {
			continue
		}
		delete(k.current, ch)
		if k.onNote != nil {
			k.onNote(ch, k.pitch(pianoKeys[key]), false)
		}
	}
}

// ReleaseAll stops every sounding channel.
func (k *Keyboard) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for ch, key := range k.current {
		delete(k.current, ch)
		if k.onNote != nil {
			k.onNote(ch, k.pitch(pianoKeys[key]), false)
		}
	}
}

func (k *Keyboard) pitch(semitone int) float64 {
	return float64(c4 + 12*k.octave + semitone)
}

// Octave returns the octave shift.
func (k *Keyboard) Octave() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.octave
}

// Channel returns the channel new notes are played on.
func (k *Keyboard) Channel() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.channel
}

// Sounding returns the key held on channel ch, or "".
func (k *Keyboard) Sounding(ch int) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current[ch]
}
