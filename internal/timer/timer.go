// Package timer derives one clock from another.
//
// A Divider counts input ticks and reports how many output periods have
// elapsed, using an exact rational accumulator so no drift builds up.
// The driver uses one to clock the 512 Hz frame sequencer from engine
// ticks and another to pace engine ticks against the host sample rate.
//
// The output rate may be higher than the input rate, in which case a
// single input tick can produce several output periods.
package timer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRate indicates a non-positive clock rate.
	ErrInvalidRate = errors.New("clock rate must be positive")
)

// Callback is called once per elapsed output period.
type Callback func()

// Divider converts ticks at inputHz into periods at outputHz.
type Divider struct {
	inputHz  uint64
	outputHz uint64
	acc      uint64 // Fractional progress, in units of 1/inputHz output periods
	total    uint64 // Output periods since Reset

	callback Callback
}

// New creates a Divider. callback may be nil when only the counts
// returned by Update are needed.
func New(inputHz, outputHz int, callback Callback) (*Divider, error) {
	if inputHz <= 0 || outputHz <= 0 {
		return nil, fmt.Errorf("%w: %d Hz to %d Hz", ErrInvalidRate, inputHz, outputHz)
	}
	return &Divider{
		inputHz:  uint64(inputHz),
		outputHz: uint64(outputHz),
		callback: callback,
	}, nil
}

// Update advances the divider by ticks input ticks, calls the callback
// for every output period that elapsed and returns how many did.
func (d *Divider) Update(ticks uint32) int {
	d.acc += uint64(ticks) * d.outputHz
	if d.acc < d.inputHz {
		return 0
	}

	periods := d.acc / d.inputHz
	d.acc -= periods * d.inputHz
	d.total += periods

	if d.callback != nil {
		for range periods {
			d.callback()
		}
	}
	return int(periods) //nolint:gosec // bounded by ticks*outputHz/inputHz
}

// Total returns the number of output periods since the last Reset.
func (d *Divider) Total() uint64 {
	return d.total
}

// InputHz returns the input clock rate.
func (d *Divider) InputHz() int {
	return int(d.inputHz) //nolint:gosec // set from an int
}

// OutputHz returns the output clock rate.
func (d *Divider) OutputHz() int {
	return int(d.outputHz) //nolint:gosec // set from an int
}

// Reset clears the accumulated phase and the period count.
func (d *Divider) Reset() {
	d.acc = 0
	d.total = 0
}
