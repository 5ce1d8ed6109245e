// Command h2sim replays a YAML frame script through the monitor loop on the
// host. The display is the real SSD1306 driver on an in-memory I2C bus; every
// render is printed as ASCII art.
//
//	tinygo run ./cmd/h2sim -script frames.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/0x53A/H2-CAN/pkg/canbus"
	"github.com/0x53A/H2-CAN/pkg/config"
	"github.com/0x53A/H2-CAN/pkg/display"
	"github.com/0x53A/H2-CAN/pkg/monitor"
	"github.com/0x53A/H2-CAN/pkg/replay"
	"github.com/0x53A/H2-CAN/serial"
)

// memBus accepts every I2C transaction.
type memBus struct{}

func (memBus) Tx(addr uint16, w, r []byte) error { return nil }

// memPin is a reset line nobody is wired to.
type memPin struct{}

func (memPin) High() {}
func (memPin) Low()  {}

// printer renders to the surface, then dumps it.
type printer struct {
	surface *display.Surface
	ascii   bool
}

func (p *printer) Render(text string) error {
	if err := p.surface.Render(text); err != nil {
		return err
	}
	fmt.Printf("render %q\n", text)
	if p.ascii {
		return p.surface.WriteASCII(os.Stdout)
	}
	return nil
}

func main() {
	scriptPath := flag.String("script", "", "YAML frame script")
	ascii := flag.Bool("ascii", true, "print the framebuffer after each render")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: h2sim -script frames.yaml")
		os.Exit(2)
	}

	console := serial.NewConsole(os.Stderr)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))

	if err := run(*scriptPath, *ascii, logger); err != nil {
		logger.Error("h2sim failed", "err", err)
		console.Flush()
		os.Exit(1)
	}
	console.Flush()
}

func run(path string, ascii bool, logger *slog.Logger) error {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return &monitor.StartupError{Stage: "config", Err: err}
	}

	script, err := replay.Load(path)
	if err != nil {
		return &monitor.StartupError{Stage: "script", Err: err}
	}

	surface := display.New(memBus{}, memPin{}, cfg.Display, func(time.Duration) {})
	if err := surface.ResetAndInit(); err != nil {
		return &monitor.StartupError{Stage: "display", Err: err}
	}

	m := monitor.New(canbus.NewFilteredReceiver(script, cfg.Bus.Filter()), &printer{surface: surface, ascii: ascii}, monitor.Options{
		Label:     cfg.Status.Label,
		Precision: cfg.Status.Precision,
		Logger:    logger,
	})

	for !script.Done() {
		if err := m.Step(); err != nil {
			return err
		}
	}

	st := m.Stats()
	logger.Info("script done",
		"frames", st.Frames,
		"ignored", st.Ignored,
		"suppressed", st.Suppressed,
		"bus_errors", st.BusErrors,
		"renders", st.Renders)
	return nil
}
