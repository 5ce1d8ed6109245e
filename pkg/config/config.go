// Package config holds the compiled-in configuration of the monitor.
// There is no runtime configuration channel and nothing is persisted; a
// build carries exactly one Config, normally Default().
package config

import (
	"errors"
	"time"

	"github.com/0x53A/H2-CAN/pkg/canbus"
)

// Pin is a GPIO number on the board.
type Pin uint8

// Bus configures the CAN controller.
type Bus struct {
	BitRate   uint32 // bit/s
	CrystalHz uint32 // MCP2515 oscillator
	// Acceptance filter. Mask bits set to 1 must match Value.
	// Mask 0 with Extended false accepts every standard-ID frame.
	FilterMask     uint32
	FilterValue    uint32
	FilterExtended bool
}

// Filter returns the acceptance filter the receiver applies.
func (b Bus) Filter() canbus.Filter {
	return canbus.Filter{Mask: b.FilterMask, Value: b.FilterValue, Extended: b.FilterExtended}
}

// Display configures the SSD1306 panel.
// Reset timing follows the panel datasheet: hold high, pulse low, release.
type Display struct {
	Address       uint16 // 7-bit I2C address
	I2CFrequency  uint32 // Hz
	Width         int16
	Height        int16
	ResetHighHold time.Duration
	ResetLowHold  time.Duration
	TextInset     int16 // left margin of the status text
	StrokeWidth   int16 // frame border
	Inverted      bool  // dark text on a lit panel
}

// Status configures the rendered status line, e.g. "H2: 0.5000%".
type Status struct {
	Label     string
	Precision int // decimals
}

// Pins assigns the RP2040 GPIOs.
//
// Default layout:
//
//	GP0/GP1   diagnostic UART0 TX/RX
//	GP2..GP5  SPI0 SCK/SDO/SDI/CS to the MCP2515
//	GP8/GP9   I2C0 SDA/SCL to the SSD1306
//	GP10      SSD1306 RST
type Pins struct {
	UARTTX Pin
	UARTRX Pin
	SPISCK Pin
	SPISDO Pin
	SPISDI Pin
	CANCS  Pin
	I2CSDA Pin
	I2CSCL Pin
	Reset  Pin
}

// Config is the whole firmware configuration.
type Config struct {
	Bus      Bus
	Display  Display
	Status   Status
	Pins     Pins
	SPIFreq  uint32 // Hz
	UARTBaud uint32
}

const (
	// Datasheet minimums for the reset pulse.
	MinResetHighHold = time.Millisecond
	MinResetLowHold  = 10 * time.Millisecond

	MaxPrecision = 8
	maxLabelLen  = 8
)

// Errors
var (
	ErrBitRate   = errors.New("config: unsupported CAN bit rate")
	ErrCrystal   = errors.New("config: unsupported CAN crystal")
	ErrGeometry  = errors.New("config: invalid display geometry")
	ErrAddress   = errors.New("config: invalid I2C address")
	ErrResetTime = errors.New("config: reset hold shorter than datasheet minimum")
	ErrPrecision = errors.New("config: precision out of range")
	ErrLabel     = errors.New("config: status label too long")
	ErrPins      = errors.New("config: pin assigned twice")
)

// Default returns the reference deployment: 500 kbit/s bus on a 16 MHz
// MCP2515, 128x64 SSD1306 at 0x3C.
func Default() Config {
	return Config{
		Bus: Bus{
			BitRate:   500_000,
			CrystalHz: 16_000_000,
		},
		Display: Display{
			Address:       0x3C,
			I2CFrequency:  400_000,
			Width:         128,
			Height:        64,
			ResetHighHold: MinResetHighHold,
			ResetLowHold:  MinResetLowHold,
			TextInset:     4,
			StrokeWidth:   1,
		},
		Status: Status{
			Label:     "H2",
			Precision: 4,
		},
		Pins: Pins{
			UARTTX: 0,
			UARTRX: 1,
			SPISCK: 2,
			SPISDO: 3,
			SPISDI: 4,
			CANCS:  5,
			I2CSDA: 8,
			I2CSCL: 9,
			Reset:  10,
		},
		SPIFreq:  1_000_000,
		UARTBaud: 115200,
	}
}

// Validate checks c for values the hardware cannot use.
func (c *Config) Validate() error {
	switch c.Bus.BitRate {
	case 125_000, 250_000, 500_000, 1_000_000:
	default:
		return ErrBitRate
	}
	if c.Bus.CrystalHz != 8_000_000 && c.Bus.CrystalHz != 16_000_000 {
		return ErrCrystal
	}

	d := &c.Display
	if d.Width <= 0 || d.Height <= 0 || d.Height%8 != 0 {
		return ErrGeometry
	}
	if d.TextInset < 0 || d.TextInset >= d.Width || d.StrokeWidth < 0 || 2*d.StrokeWidth >= d.Height {
		return ErrGeometry
	}
	if d.Address == 0 || d.Address > 0x7F {
		return ErrAddress
	}
	if d.ResetHighHold < MinResetHighHold || d.ResetLowHold < MinResetLowHold {
		return ErrResetTime
	}

	if c.Status.Precision < 1 || c.Status.Precision > MaxPrecision {
		return ErrPrecision
	}
	if len(c.Status.Label) > maxLabelLen {
		return ErrLabel
	}

	return c.Pins.validate()
}

func (p *Pins) validate() error {
	all := [...]Pin{p.UARTTX, p.UARTRX, p.SPISCK, p.SPISDO, p.SPISDI, p.CANCS, p.I2CSDA, p.I2CSCL, p.Reset}
	var seen uint64
	for _, pin := range all {
		bit := uint64(1) << (pin % 64)
		if seen&bit != 0 {
			return ErrPins
		}
		seen |= bit
	}
	return nil
}
