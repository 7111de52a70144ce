package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/richardwooding/chipwave/internal/input"
)

// Control bytes in raw mode.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1B
)

// terminalKeys reads single key presses from a raw-mode terminal. The
// terminal reports no key releases, so space releases every note.
type terminalKeys struct {
	fd       int
	oldState *term.State
	keys     chan byte
}

// startTerminalKeys puts stdin in raw mode and starts reading it.
func startTerminalKeys() (*terminalKeys, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	t := &terminalKeys{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan byte, 16),
	}
	go t.read()
	return t, nil
}

func (t *terminalKeys) read() {
	defer close(t.keys)
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 1 {
			t.keys <- buf[0]
		}
	}
}

// Keys returns the pressed bytes. The channel closes when stdin does.
func (t *terminalKeys) Keys() <-chan byte {
	return t.keys
}

// Restore returns the terminal to its previous mode.
func (t *terminalKeys) Restore() {
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// handleTerminalKey forwards one byte to the keyboard. It returns false
// when the user asked to quit.
func handleTerminalKey(kb *input.Keyboard, b byte) bool {
	switch b {
	case 'q', keyCtrlC, keyEscape:
		return false
	case ' ':
		kb.ReleaseAll()
		return true
	}
	kb.Press(string(rune(b)))
	return true
}
