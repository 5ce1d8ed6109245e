//go:build tinygo

package canbus

import (
	"errors"

	"tinygo.org/x/drivers/mcp2515"
)

var errUnsupportedRate = errors.New("canbus: unsupported bit rate or crystal")

// MCP2515 adapts the SPI CAN controller driver to Receiver.
type MCP2515 struct {
	dev *mcp2515.Device
}

// StartMCP2515 configures the controller's chip select, runs the driver's
// reset/bit-timing sequence and puts the controller in normal mode.
// bitRate is in bit/s, crystalHz is the controller's oscillator frequency.
func StartMCP2515(dev *mcp2515.Device, bitRate, crystalHz uint32) (*MCP2515, error) {
	speed, ok := mcpSpeed(bitRate)
	if !ok {
		return nil, errUnsupportedRate
	}
	var clock byte
	switch crystalHz {
	case 8_000_000:
		clock = mcp2515.Clock8MHz
	case 16_000_000:
		clock = mcp2515.Clock16MHz
	default:
		return nil, errUnsupportedRate
	}
	dev.Configure()
	if err := dev.Begin(speed, clock); err != nil {
		return nil, err
	}
	return &MCP2515{dev: dev}, nil
}

// TryReceive reads one pending frame. Bus errors cover failed SPI reads and
// malformed IDs only; the driver does not expose the controller's error
// flags, so overflows and error-passive states go unreported.
func (r *MCP2515) TryReceive() (Frame, error) {
	if !r.dev.Received() {
		return Frame{}, ErrNoFrame
	}
	msg, err := r.dev.Rx()
	if err != nil {
		return Frame{}, &BusError{Kind: KindOther, Err: err}
	}
	n := int(msg.Dlc)
	if n > len(msg.Data) {
		n = len(msg.Data)
	}
	// msg.Data aliases the driver's receive buffer; FromRaw copies it.
	f, err := FromRaw(msg.ID, msg.Ext, msg.Rtr, msg.Data[:n])
	if err != nil {
		return Frame{}, &BusError{Kind: KindForm, Err: err}
	}
	return f, nil
}

func mcpSpeed(bitRate uint32) (byte, bool) {
	switch bitRate {
	case 125_000:
		return mcp2515.CAN125kBps, true
	case 250_000:
		return mcp2515.CAN250kBps, true
	case 500_000:
		return mcp2515.CAN500kBps, true
	case 1_000_000:
		return mcp2515.CAN1000kBps, true
	}
	return 0, false
}
