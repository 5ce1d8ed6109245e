package canbus

import (
	"errors"
	"testing"
)

func TestScriptReplaysInOrder(t *testing.T) {
	s := NewScript()
	s.Push(MustFrame(StandardID(0x300), 0x00, 0x14))
	s.PushError(KindBit, nil)
	s.Push(MustFrame(StandardID(0x308), 0x00, 0x46))

	f, err := s.TryReceive()
	if err != nil || f.ID != StandardID(0x300) {
		t.Fatalf("first: expected 0x300 frame, got %v / %v", f, err)
	}

	_, err = s.TryReceive()
	var be *BusError
	if !errors.As(err, &be) || be.Kind != KindBit {
		t.Fatalf("second: expected bit BusError, got %v", err)
	}

	f, err = s.TryReceive()
	if err != nil || f.ID != StandardID(0x308) {
		t.Fatalf("third: expected 0x308 frame, got %v / %v", f, err)
	}

	if !s.Done() {
		t.Error("script should be done")
	}
	for i := 0; i < 3; i++ {
		if _, err := s.TryReceive(); !errors.Is(err, ErrNoFrame) {
			t.Errorf("exhausted script: expected ErrNoFrame, got %v", err)
		}
	}
}

func TestFilteredReceiver(t *testing.T) {
	s := NewScript()
	s.Push(
		MustFrame(ExtendedID(0x300), 0x00, 0x14),
		MustFrame(StandardID(0x300), 0x00, 0x14),
	)
	s.PushError(KindCRC, errors.New("crc"))

	rx := NewFilteredReceiver(s, AcceptAllStandard)

	if _, err := rx.TryReceive(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("extended frame should be filtered, got %v", err)
	}
	if f, err := rx.TryReceive(); err != nil || f.ID != StandardID(0x300) {
		t.Errorf("standard frame should pass, got %v / %v", f, err)
	}
	_, err := rx.TryReceive()
	var be *BusError
	if !errors.As(err, &be) || be.Kind != KindCRC {
		t.Errorf("bus errors should pass through, got %v", err)
	}
}

func TestErrorKindNames(t *testing.T) {
	for k := KindOther; k <= KindAcknowledge; k++ {
		got, ok := ParseErrorKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseErrorKind(%q): expected %v, got %v (%v)", k.String(), k, got, ok)
		}
	}
	if _, ok := ParseErrorKind("bogus"); ok {
		t.Error("ParseErrorKind should reject unknown names")
	}
	if k, ok := ParseErrorKind(" Acknowledge "); !ok || k != KindAcknowledge {
		t.Errorf("ParseErrorKind should accept long ack name, got %v", k)
	}
}

func TestBusErrorMessage(t *testing.T) {
	e := &BusError{Kind: KindStuff, Err: errors.New("boom")}
	if e.Error() != "canbus: stuff error: boom" {
		t.Errorf("Error: got %q", e.Error())
	}
	if !errors.Is(e, e.Err) {
		t.Error("BusError should unwrap to its cause")
	}
}
