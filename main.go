//go:build rp2040

package main

import (
	"log/slog"
	"time"

	"tinygo.org/x/drivers/mcp2515"

	"github.com/0x53A/H2-CAN/pkg/board"
	"github.com/0x53A/H2-CAN/pkg/canbus"
	"github.com/0x53A/H2-CAN/pkg/config"
	"github.com/0x53A/H2-CAN/pkg/display"
	"github.com/0x53A/H2-CAN/pkg/monitor"
	"github.com/0x53A/H2-CAN/serial"
)

// MAIN THREAD DUTIES
//
// Bring up the display and the CAN controller, then poll forever. Startup
// failures and display failures halt; bus faults only drop a frame.

func main() {
	cfg := config.Default()

	logger := slog.New(slog.DiscardHandler)
	if out, err := board.Console(&cfg); err == nil {
		logger = slog.New(slog.NewTextHandler(serial.NewConsole(out), nil))
	}

	err := run(&cfg, logger)
	logger.Error("halted", "err", err)
	halt()
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return &monitor.StartupError{Stage: "config", Err: err}
	}

	i2c, err := board.I2C(cfg)
	if err != nil {
		return &monitor.StartupError{Stage: "i2c", Err: err}
	}
	surface := display.New(i2c, board.ResetPin(cfg), cfg.Display, nil)
	if err := surface.ResetAndInit(); err != nil {
		return &monitor.StartupError{Stage: "display", Err: err}
	}
	if err := surface.Render("Hello H2!"); err != nil {
		return &monitor.StartupError{Stage: "display", Err: err}
	}
	logger.Info("display ready")

	spi, err := board.SPI(cfg)
	if err != nil {
		return &monitor.StartupError{Stage: "spi", Err: err}
	}
	rx, err := canbus.StartMCP2515(mcp2515.New(spi, board.CANChipSelect(cfg)), cfg.Bus.BitRate, cfg.Bus.CrystalHz)
	if err != nil {
		return &monitor.StartupError{Stage: "can", Err: err}
	}
	if err := surface.Render("CAN ready"); err != nil {
		return &monitor.StartupError{Stage: "display", Err: err}
	}
	logger.Info("can started", "bitrate", cfg.Bus.BitRate)

	m := monitor.New(canbus.NewFilteredReceiver(rx, cfg.Bus.Filter()), surface, monitor.Options{
		Label:     cfg.Status.Label,
		Precision: cfg.Status.Precision,
		Logger:    logger,
	})
	return m.Run()
}

// halt idles forever; the watchdog is not armed, so this is final.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
