// Package monitor runs the receive, decode, render loop.
//
// The loop has one state: polling. Each iteration polls the bus once without
// blocking, decodes family frames and redraws the display only when the
// decoded value differs from the one on screen.
package monitor

import (
	"errors"
	"log/slog"

	"github.com/0x53A/H2-CAN/pkg/canbus"
	"github.com/0x53A/H2-CAN/pkg/status"
	"github.com/0x53A/H2-CAN/pkg/telemetry"
)

// Renderer draws one full status screen.
type Renderer interface {
	Render(text string) error
}

// Options tunes a Monitor. The zero value is the reference behavior.
type Options struct {
	// Family recognises telemetry frames; nil means telemetry.DefaultFamily.
	Family *telemetry.Family
	// Label and Precision shape the status text; zero values select "H2"
	// and 4 decimals.
	Label     string
	Precision int
	Logger    *slog.Logger
	// Idle runs after a poll found nothing. nil busy-polls, which is right on
	// bare metal; a hosted build can pass runtime.Gosched.
	Idle func()
}

// Stats counts loop activity since start.
type Stats struct {
	Polls      uint32
	Frames     uint32 // received, any ID
	Ignored    uint32 // not telemetry, or too short to decode
	Suppressed uint32 // decoded but unchanged
	BusErrors  uint32
	Renders    uint32
}

// Monitor owns the tracker and drives the receiver and display.
type Monitor struct {
	rx      canbus.Receiver
	screen  Renderer
	family  *telemetry.Family
	label   string
	prec    int
	idle    func()
	log     *slog.Logger
	tracker status.Tracker
	stats   Stats
	text    [32]byte
}

// New wires a monitor. Both rx and screen must be initialized.
func New(rx canbus.Receiver, screen Renderer, opts Options) *Monitor {
	m := &Monitor{
		rx:     rx,
		screen: screen,
		family: opts.Family,
		label:  opts.Label,
		prec:   opts.Precision,
		idle:   opts.Idle,
		log:    opts.Logger,
	}
	if m.family == nil {
		m.family = &telemetry.DefaultFamily
	}
	if m.label == "" {
		m.label = "H2"
	}
	if m.prec <= 0 {
		m.prec = 4
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	return m
}

// Run polls forever. It returns only when the display fails, which the
// caller treats as fatal.
func (m *Monitor) Run() error {
	for {
		if err := m.Step(); err != nil {
			return err
		}
	}
}

// Step performs one loop iteration. The only error it returns is a render
// failure; bus faults are logged and the frame is dropped.
func (m *Monitor) Step() error {
	m.stats.Polls++

	frame, err := m.rx.TryReceive()
	if err != nil {
		if errors.Is(err, canbus.ErrNoFrame) {
			if m.idle != nil {
				m.idle()
			}
			return nil
		}
		m.stats.BusErrors++
		kind := canbus.KindOther
		var be *canbus.BusError
		if errors.As(err, &be) {
			kind = be.Kind
		}
		m.log.Warn("bus error, frame dropped", "kind", kind.String(), "err", err)
		return nil
	}
	m.stats.Frames++

	if !m.family.Classify(frame) {
		m.stats.Ignored++
		return nil
	}
	value, ok := m.family.Decode(frame)
	if !ok {
		m.stats.Ignored++
		m.log.Debug("short telemetry frame", "frame", frame.String())
		return nil
	}
	if !m.tracker.ShouldUpdate(value) {
		m.stats.Suppressed++
		return nil
	}

	text := string(telemetry.AppendStatus(m.text[:0], m.label, value, m.prec))
	if err := m.screen.Render(text); err != nil {
		m.log.Error("render failed", "text", text, "err", err)
		return err
	}
	m.tracker.Accept(value)
	m.stats.Renders++

	if ch, ok := m.family.Source(frame); ok {
		m.log.Info(text, "device", ch.Device.Name, "channel", ch.Index)
	}
	return nil
}

// Stats returns a copy of the counters.
func (m *Monitor) Stats() Stats { return m.stats }

// Shown returns the measurement currently on screen, if any.
func (m *Monitor) Shown() (telemetry.Measurement, bool) { return m.tracker.Last() }
