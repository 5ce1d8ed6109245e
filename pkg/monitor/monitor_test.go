package monitor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/0x53A/H2-CAN/pkg/canbus"
	"github.com/0x53A/H2-CAN/pkg/telemetry"
)

type fakeScreen struct {
	texts []string
	err   error
}

func (f *fakeScreen) Render(text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func frame(id uint16, data ...byte) canbus.Frame {
	return canbus.MustFrame(canbus.StandardID(id), data...)
}

// drain steps until the script is exhausted.
func drain(t *testing.T, m *Monitor, s *canbus.Script) {
	t.Helper()
	for !s.Done() {
		if err := m.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
}

func TestDuplicateSuppressed(t *testing.T) {
	script := canbus.NewScript()
	script.Push(
		frame(0x300, 0x00, 0x14),
		frame(0x300, 0x00, 0x14),
		frame(0x300, 0x00, 0x46),
	)
	screen := &fakeScreen{}
	m := New(script, screen, Options{})

	drain(t, m, script)

	want := []string{"H2: 0.0000%", "H2: 0.5000%"}
	if len(screen.texts) != len(want) {
		t.Fatalf("expected renders %q, got %q", want, screen.texts)
	}
	for i := range want {
		if screen.texts[i] != want[i] {
			t.Errorf("render %d: expected %q, got %q", i, want[i], screen.texts[i])
		}
	}

	st := m.Stats()
	if st.Frames != 3 || st.Renders != 2 || st.Suppressed != 1 {
		t.Errorf("stats: expected 3 frames / 2 renders / 1 suppressed, got %+v", st)
	}
	if v, ok := m.Shown(); !ok || v != 0.5 {
		t.Errorf("Shown: expected 0.5, got %v (%v)", v, ok)
	}
}

func TestNonFamilyFrameIgnored(t *testing.T) {
	script := canbus.NewScript()
	for _, data := range [][]byte{{0x00, 0x14}, {0x00, 0x46}, {0xFF, 0xFF, 0x01}, nil} {
		script.Push(frame(0x301, data...))
	}
	script.Push(canbus.MustFrame(canbus.ExtendedID(0x300), 0x00, 0x46))

	screen := &fakeScreen{}
	m := New(script, screen, Options{})
	drain(t, m, script)

	if len(screen.texts) != 0 {
		t.Errorf("expected no renders, got %q", screen.texts)
	}
	if _, ok := m.Shown(); ok {
		t.Error("tracker should still be empty")
	}
	if st := m.Stats(); st.Ignored != 5 {
		t.Errorf("Ignored: expected 5, got %d", st.Ignored)
	}
}

func TestShortFrameIgnored(t *testing.T) {
	script := canbus.NewScript()
	script.Push(frame(0x300, 0x14), frame(0x300))
	screen := &fakeScreen{}
	m := New(script, screen, Options{})
	drain(t, m, script)

	if len(screen.texts) != 0 {
		t.Errorf("expected no renders, got %q", screen.texts)
	}
}

func TestBusErrorLeavesStateAlone(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	script := canbus.NewScript()
	script.Push(frame(0x300, 0x00, 0x46))
	script.PushError(canbus.KindBit, errors.New("bit error"))
	script.PushError(canbus.KindOverrun, nil)

	screen := &fakeScreen{}
	m := New(script, screen, Options{Logger: logger})
	drain(t, m, script)

	if len(screen.texts) != 1 {
		t.Fatalf("expected exactly one render, got %q", screen.texts)
	}
	if v, ok := m.Shown(); !ok || v != 0.5 {
		t.Errorf("Shown: expected 0.5, got %v", v)
	}
	if st := m.Stats(); st.BusErrors != 2 {
		t.Errorf("BusErrors: expected 2, got %d", st.BusErrors)
	}
	if !strings.Contains(logBuf.String(), "kind=bit") || !strings.Contains(logBuf.String(), "kind=overrun") {
		t.Errorf("bus errors should be logged with their kind:\n%s", logBuf.String())
	}
}

func TestRenderErrorIsFatalAndNotAccepted(t *testing.T) {
	script := canbus.NewScript()
	script.Push(frame(0x300, 0x00, 0x46), frame(0x300, 0x00, 0x46))
	renderErr := errors.New("i2c nack")
	screen := &fakeScreen{err: renderErr}
	m := New(script, screen, Options{})

	if err := m.Run(); !errors.Is(err, renderErr) {
		t.Fatalf("Run: expected render error, got %v", err)
	}
	if _, ok := m.Shown(); ok {
		t.Error("a failed render must not be recorded as shown")
	}
	if script.Remaining() != 1 {
		t.Errorf("Run should stop at the first failure, %d events left", script.Remaining())
	}
}

func TestIdleOnlyWhenNothingPending(t *testing.T) {
	script := canbus.NewScript()
	script.Push(frame(0x300, 0x00, 0x14))
	idles := 0
	m := New(script, &fakeScreen{}, Options{Idle: func() { idles++ }})

	for i := 0; i < 4; i++ {
		if err := m.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if idles != 3 {
		t.Errorf("expected 3 idle calls, got %d", idles)
	}
	if st := m.Stats(); st.Polls != 4 {
		t.Errorf("Polls: expected 4, got %d", st.Polls)
	}
}

func TestOptionsShapeText(t *testing.T) {
	fam := telemetry.NewFamily(telemetry.Device{Name: "bench", Base: 0x100})
	script := canbus.NewScript()
	script.Push(frame(0x300, 0x00, 0x46), frame(0x108, 0x00, 0x46))
	screen := &fakeScreen{}
	m := New(script, screen, Options{Family: &fam, Label: "H", Precision: 2})
	drain(t, m, script)

	if len(screen.texts) != 1 || screen.texts[0] != "H: 0.50%" {
		t.Errorf("expected [\"H: 0.50%%\"], got %q", screen.texts)
	}
}

func TestStartupError(t *testing.T) {
	cause := errors.New("no ack")
	err := error(&StartupError{Stage: "display", Err: cause})
	if err.Error() != "startup: display: no ack" {
		t.Errorf("Error: got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("StartupError should unwrap to its cause")
	}
}
