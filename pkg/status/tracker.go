// Package status tracks the measurement currently shown on the display.
package status

import "github.com/0x53A/H2-CAN/pkg/telemetry"

// Tracker holds the last rendered measurement. The zero value holds none.
//
// Accept must be called only after a successful render so the tracker always
// mirrors what is on screen.
type Tracker struct {
	last telemetry.Measurement
	set  bool
}

// ShouldUpdate reports whether m differs from the last rendered value.
// Comparison is exact; there is no tolerance band.
func (t *Tracker) ShouldUpdate(m telemetry.Measurement) bool {
	return !t.set || t.last != m
}

// Accept records m as rendered.
func (t *Tracker) Accept(m telemetry.Measurement) {
	t.last = m
	t.set = true
}

// Last returns the last rendered value, if any.
func (t *Tracker) Last() (telemetry.Measurement, bool) {
	return t.last, t.set
}

// Reset forgets the rendered value, forcing the next update.
func (t *Tracker) Reset() {
	*t = Tracker{}
}
