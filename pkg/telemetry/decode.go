package telemetry

import (
	"encoding/binary"
	"strconv"

	"github.com/0x53A/H2-CAN/pkg/canbus"
)

// Measurement is a hydrogen concentration in percent.
type Measurement float32

const (
	rawOffset = 20
	rawScale  = 100
)

// Classify reports whether f is a standard-ID frame from the family.
// Extended IDs never match, whatever their numeric value.
func (fam Family) Classify(f canbus.Frame) bool {
	_, ok := fam.channel(f)
	return ok
}

// Decode extracts the measurement from a family frame. The first two payload
// bytes are a big-endian raw count; percent = (raw - 20) / 100. The result is
// not range checked.
func (fam Family) Decode(f canbus.Frame) (Measurement, bool) {
	if !fam.Classify(f) || f.Remote || f.Len() < 2 {
		return 0, false
	}
	raw := binary.BigEndian.Uint16(f.Data())
	return Measurement((float32(raw) - rawOffset) / rawScale), true
}

// Source returns the sensor channel a family frame came from.
func (fam Family) Source(f canbus.Frame) (Channel, bool) {
	return fam.channel(f)
}

func (fam Family) channel(f canbus.Frame) (Channel, bool) {
	switch id := f.ID.(type) {
	case canbus.StandardID:
		return fam.Lookup(id)
	case canbus.ExtendedID:
		return Channel{}, false
	default:
		return Channel{}, false
	}
}

// Classify and Decode against DefaultFamily.
func Classify(f canbus.Frame) bool              { return DefaultFamily.Classify(f) }
func Decode(f canbus.Frame) (Measurement, bool) { return DefaultFamily.Decode(f) }

// AppendStatus appends "<label>: <value>%" to dst with prec decimals,
// e.g. "H2: 0.5000%". It does not allocate when dst has room.
func AppendStatus(dst []byte, label string, m Measurement, prec int) []byte {
	dst = append(dst, label...)
	dst = append(dst, ": "...)
	dst = strconv.AppendFloat(dst, float64(m), 'f', prec, 32)
	return append(dst, '%')
}
