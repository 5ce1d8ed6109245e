// Package display drives the SSD1306 OLED that shows the current status
// line. The panel is 128x64 monochrome on I2C with a dedicated reset GPIO.
//
// Every Render is a full redraw: clear the buffer, draw the framed
// background, draw the text, flush the whole buffer to the panel.
package display

import (
	"errors"
	"image/color"
	"io"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"

	"github.com/0x53A/H2-CAN/pkg/config"
)

// Colors for monochrome display
var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// palette holds the colors of a render. The buffer clears to black; fill
// covers the whole panel under the border.
type palette struct {
	fill   color.RGBA
	stroke color.RGBA
	text   color.RGBA
}

var (
	normal   = palette{fill: black, stroke: white, text: white}
	inverted = palette{fill: white, stroke: black, text: black}
)

// ResetPin is the panel's active-low reset line. machine.Pin satisfies it.
type ResetPin interface {
	High()
	Low()
}

var ErrNotReady = errors.New("display: not initialized")

// Error is a communication failure with the panel.
type Error struct {
	Op  string // "init", "draw" or "flush"
	Err error
}

func (e *Error) Error() string { return "display: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Surface owns the panel and its reset line for the life of the program.
// The reset line is driven high by ResetAndInit and never touched again;
// releasing it would put the panel back in reset and blank the screen.
type Surface struct {
	device  *ssd1306.Device
	reset   ResetPin
	cfg     config.Display
	palette palette
	sleep   func(time.Duration)
	ready   bool
}

// New creates a surface on an already configured I2C bus. sleep is used for
// reset timing; nil means time.Sleep.
func New(bus drivers.I2C, reset ResetPin, cfg config.Display, sleep func(time.Duration)) *Surface {
	if sleep == nil {
		sleep = time.Sleep
	}
	s := &Surface{
		device:  ssd1306.NewI2C(bus),
		reset:   reset,
		cfg:     cfg,
		palette: normal,
		sleep:   sleep,
	}
	if cfg.Inverted {
		s.palette = inverted
	}
	return s
}

// ResetAndInit pulses the reset line and sends the panel init sequence.
//
//	RST high, hold >= 1 ms
//	RST low,  hold >= 10 ms
//	RST high (stays high)
func (s *Surface) ResetAndInit() error {
	s.reset.High()
	s.sleep(s.cfg.ResetHighHold)
	s.reset.Low()
	s.sleep(s.cfg.ResetLowHold)
	s.reset.High()

	s.device.Configure(ssd1306.Config{
		Address: s.cfg.Address,
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
	})

	// Configure drops bus errors, so confirm the panel acknowledges us.
	if err := s.device.Tx([]byte{ssd1306.DISPLAYON}, true); err != nil {
		return &Error{Op: "init", Err: err}
	}

	s.ready = true
	return nil
}

// Render redraws the whole screen with text and flushes it to the panel.
// Long text switches to a smaller face; text too long for any face is
// shortened.
func (s *Surface) Render(text string) error {
	if !s.ready {
		return ErrNotReady
	}

	s.device.ClearBuffer()
	w, h := s.device.Size()
	if s.palette.fill != black {
		if err := tinydraw.FilledRectangle(s.device, 0, 0, w, h, s.palette.fill); err != nil {
			return &Error{Op: "draw", Err: err}
		}
	}
	sw := s.cfg.StrokeWidth
	for i := int16(0); i < sw; i++ {
		if err := tinydraw.Rectangle(s.device, i, i, w-2*i, h-2*i, s.palette.stroke); err != nil {
			return &Error{Op: "draw", Err: err}
		}
	}

	x := s.cfg.TextInset
	if x < sw {
		x = sw
	}
	face, line := layout(text, w-x-sw)
	baseline := (h + capHeight(face)) / 2
	tinyfont.WriteLine(s.device, face, x, baseline, line, s.palette.text)

	if err := s.device.Display(); err != nil {
		return &Error{Op: "flush", Err: err}
	}
	return nil
}

// Pixel reports whether the buffered pixel at x, y is lit.
func (s *Surface) Pixel(x, y int16) bool {
	return s.device.GetPixel(x, y)
}

// Size returns the panel geometry.
func (s *Surface) Size() (w, h int16) {
	return s.cfg.Width, s.cfg.Height
}

// WriteASCII dumps the buffer as text, '#' for lit pixels.
func (s *Surface) WriteASCII(w io.Writer) error {
	if !s.ready {
		return ErrNotReady
	}
	width, height := s.device.Size()
	line := make([]byte, width+1)
	line[width] = '\n'
	for y := int16(0); y < height; y++ {
		for x := int16(0); x < width; x++ {
			if s.device.GetPixel(x, y) {
				line[x] = '#'
			} else {
				line[x] = '.'
			}
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
