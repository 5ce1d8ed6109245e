// Package canbus models classical CAN frames and the non-blocking receive
// contract the monitor loop polls.
//
// Identifiers are a closed sum type: StandardID (11-bit) or ExtendedID
// (29-bit). Consumers switch on the concrete type, never on numeric range.
package canbus

import (
	"errors"
	"fmt"
)

const (
	MaxStandardID = 0x7FF
	MaxExtendedID = 0x1FFFFFFF

	// MaxDataLen is the payload limit of a classical CAN frame.
	MaxDataLen = 8
)

var (
	ErrInvalidID  = errors.New("canbus: invalid identifier")
	ErrInvalidLen = errors.New("canbus: invalid data length")
)

// ID is either a StandardID or an ExtendedID.
type ID interface {
	// Raw returns the numeric identifier without any format flags.
	Raw() uint32
	String() string

	isID()
}

// StandardID is an 11-bit identifier.
type StandardID uint16

// ExtendedID is a 29-bit identifier.
type ExtendedID uint32

func (id StandardID) Raw() uint32    { return uint32(id) }
func (id StandardID) String() string { return fmt.Sprintf("0x%03X", uint32(id)) }
func (StandardID) isID()             {}

func (id ExtendedID) Raw() uint32    { return uint32(id) }
func (id ExtendedID) String() string { return fmt.Sprintf("0x%08X", uint32(id)) }
func (ExtendedID) isID()             {}

// NewStandardID validates raw against the 11-bit range.
func NewStandardID(raw uint32) (StandardID, error) {
	if raw > MaxStandardID {
		return 0, ErrInvalidID
	}
	return StandardID(raw), nil
}

// NewExtendedID validates raw against the 29-bit range.
func NewExtendedID(raw uint32) (ExtendedID, error) {
	if raw > MaxExtendedID {
		return 0, ErrInvalidID
	}
	return ExtendedID(raw), nil
}

// Frame is one received CAN frame. It is a value type: the payload lives in
// a fixed array so a Frame never aliases a driver buffer.
type Frame struct {
	ID     ID
	Remote bool // remote transmission request, carries no payload
	len    uint8
	data   [MaxDataLen]byte
}

// NewFrame builds a data frame. data is copied.
func NewFrame(id ID, data []byte) (Frame, error) {
	if id == nil {
		return Frame{}, ErrInvalidID
	}
	if len(data) > MaxDataLen {
		return Frame{}, ErrInvalidLen
	}
	f := Frame{ID: id, len: uint8(len(data))}
	copy(f.data[:], data)
	return f, nil
}

// NewRemoteFrame builds a remote (RTR) frame.
func NewRemoteFrame(id ID) (Frame, error) {
	if id == nil {
		return Frame{}, ErrInvalidID
	}
	return Frame{ID: id, Remote: true}, nil
}

// FromRaw converts the loose fields a controller driver reports into a Frame.
// Identifier range is validated against the flagged format.
func FromRaw(raw uint32, extended, remote bool, data []byte) (Frame, error) {
	var id ID
	if extended {
		ext, err := NewExtendedID(raw)
		if err != nil {
			return Frame{}, err
		}
		id = ext
	} else {
		std, err := NewStandardID(raw)
		if err != nil {
			return Frame{}, err
		}
		id = std
	}
	if remote {
		return NewRemoteFrame(id)
	}
	return NewFrame(id, data)
}

// MustFrame is NewFrame for fixtures; it panics on invalid input.
func MustFrame(id ID, data ...byte) Frame {
	f, err := NewFrame(id, data)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the payload length (0-8).
func (f Frame) Len() int { return int(f.len) }

// Data returns a copy of the payload.
func (f Frame) Data() []byte { return f.data[:f.len:f.len] }

func (f Frame) String() string {
	if f.ID == nil {
		return "<nil>"
	}
	if f.Remote {
		return f.ID.String() + " RTR"
	}
	return fmt.Sprintf("%s [%d] % X", f.ID, f.len, f.data[:f.len])
}
