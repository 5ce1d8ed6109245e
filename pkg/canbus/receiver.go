package canbus

import (
	"errors"
	"strings"
)

// ErrNoFrame is returned by TryReceive when nothing is pending.
var ErrNoFrame = errors.New("canbus: no frame available")

// Receiver is the non-blocking receive side of a bus peripheral.
//
// TryReceive must return immediately with exactly one of:
//   - a Frame and nil error,
//   - ErrNoFrame,
//   - a *BusError describing a bus-level fault.
type Receiver interface {
	TryReceive() (Frame, error)
}

// ErrorKind classifies bus-level faults.
type ErrorKind uint8

const (
	KindOther ErrorKind = iota
	KindOverrun
	KindBit
	KindStuff
	KindCRC
	KindForm
	KindAcknowledge
)

var kindNames = [...]string{
	KindOther:       "other",
	KindOverrun:     "overrun",
	KindBit:         "bit",
	KindStuff:       "stuff",
	KindCRC:         "crc",
	KindForm:        "form",
	KindAcknowledge: "ack",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// ParseErrorKind maps a kind name back to its ErrorKind.
func ParseErrorKind(s string) (ErrorKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return ErrorKind(i), true
		}
	}
	if s == "acknowledge" {
		return KindAcknowledge, true
	}
	return KindOther, false
}

// BusError is a fault reported by the peripheral. The frame, if any, is lost.
type BusError struct {
	Kind ErrorKind
	Err  error
}

func (e *BusError) Error() string {
	if e.Err != nil {
		return "canbus: " + e.Kind.String() + " error: " + e.Err.Error()
	}
	return "canbus: " + e.Kind.String() + " error"
}

func (e *BusError) Unwrap() error { return e.Err }

// FilteredReceiver drops frames that do not pass its filter. Rejected frames
// are reported as ErrNoFrame, the same as a hardware filter would.
type FilteredReceiver struct {
	rx     Receiver
	filter Filter
}

// NewFilteredReceiver wraps rx with f.
func NewFilteredReceiver(rx Receiver, f Filter) *FilteredReceiver {
	return &FilteredReceiver{rx: rx, filter: f}
}

func (r *FilteredReceiver) TryReceive() (Frame, error) {
	f, err := r.rx.TryReceive()
	if err != nil {
		return Frame{}, err
	}
	if !r.filter.Match(f.ID) {
		return Frame{}, ErrNoFrame
	}
	return f, nil
}
