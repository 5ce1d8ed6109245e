//go:build rp2040

// Package board configures the RP2040 peripherals the monitor uses:
// SPI0 to the MCP2515, I2C0 to the SSD1306, the panel reset GPIO and the
// diagnostic UART.
package board

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/0x53A/H2-CAN/pkg/config"
)

// Console configures UART0 for diagnostics.
func Console(cfg *config.Config) (io.Writer, error) {
	hw := uartx.UART0
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.UARTBaud,
		TX:       machine.Pin(cfg.Pins.UARTTX),
		RX:       machine.Pin(cfg.Pins.UARTRX),
	}); err != nil {
		return nil, err
	}
	return hw, nil
}

// I2C configures I2C0 for the display.
func I2C(cfg *config.Config) (*machine.I2C, error) {
	sda := machine.Pin(cfg.Pins.I2CSDA)
	scl := machine.Pin(cfg.Pins.I2CSCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: cfg.Display.I2CFrequency,
		SCL:       scl,
		SDA:       sda,
	}); err != nil {
		return nil, err
	}
	return i2c, nil
}

// SPI configures SPI0 for the CAN controller, mode 0.
func SPI(cfg *config.Config) (*machine.SPI, error) {
	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: cfg.SPIFreq,
		SCK:       machine.Pin(cfg.Pins.SPISCK),
		SDO:       machine.Pin(cfg.Pins.SPISDO),
		SDI:       machine.Pin(cfg.Pins.SPISDI),
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	return spi, nil
}

// ResetPin returns the display reset line configured as an output.
// The caller owns it for the life of the program.
func ResetPin(cfg *config.Config) machine.Pin {
	pin := machine.Pin(cfg.Pins.Reset)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return pin
}

// CANChipSelect returns the MCP2515 chip select; the driver configures it.
func CANChipSelect(cfg *config.Config) machine.Pin {
	return machine.Pin(cfg.Pins.CANCS)
}
