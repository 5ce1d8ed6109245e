// Package telemetry recognises the hydrogen sensor frames on the bus and
// decodes the concentration they carry.
package telemetry

import "github.com/0x53A/H2-CAN/pkg/canbus"

// Sub-channel layout: each sensor occupies four standard IDs starting at its
// base, eight apart.
const (
	SubChannels    = 4
	ChannelStride  = 0x08
	deviceIDWindow = SubChannels * ChannelStride
)

// Device is one sensor on the bus.
type Device struct {
	Name string
	Base canbus.StandardID
}

// Channel identifies the sensor and sub-channel an ID belongs to.
type Channel struct {
	Device Device
	Index  int
}

// Family is the fixed set of standard IDs carrying hydrogen readings.
type Family struct {
	devices []Device
}

// DefaultFamily is the reference deployment: three NEO sensors.
var DefaultFamily = NewFamily(
	Device{Name: "NEO974A", Base: 0x300},
	Device{Name: "NEO983A", Base: 0x320},
	Device{Name: "NEO986A", Base: 0x340},
)

// NewFamily builds a family from device base IDs.
func NewFamily(devices ...Device) Family {
	return Family{devices: devices}
}

// IDs lists every member ID, device by device.
func (f Family) IDs() []canbus.StandardID {
	ids := make([]canbus.StandardID, 0, len(f.devices)*SubChannels)
	for _, d := range f.devices {
		for i := 0; i < SubChannels; i++ {
			ids = append(ids, d.Base+canbus.StandardID(i*ChannelStride))
		}
	}
	return ids
}

// Lookup returns the channel id belongs to.
func (f Family) Lookup(id canbus.StandardID) (Channel, bool) {
	for _, d := range f.devices {
		if id < d.Base || id >= d.Base+deviceIDWindow {
			continue
		}
		off := int(id - d.Base)
		if off%ChannelStride != 0 {
			return Channel{}, false
		}
		return Channel{Device: d, Index: off / ChannelStride}, true
	}
	return Channel{}, false
}
