// Package serial is the diagnostic console. It turns log output into
// CRLF-terminated lines for a serial terminal, one write per line.
package serial

import (
	"io"
)

// Console line-buffers writes to a UART or USB CDC port.
type Console struct {
	out      io.Writer
	outIndex int
	outBuf   [128]byte
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:      out,
		outIndex: 0,
	}
}

// Write buffers p and emits every complete line. A line longer than the
// buffer is sent in pieces.
func (c *Console) Write(p []byte) (int, error) {
	for i, b := range p {
		if b == '\n' {
			if err := c.put('\r'); err != nil {
				return i, err
			}
			if err := c.put('\n'); err != nil {
				return i, err
			}
			if err := c.Flush(); err != nil {
				return i, err
			}
			continue
		}
		if b == '\r' {
			continue
		}
		if err := c.put(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Flush sends any partial line.
func (c *Console) Flush() error {
	if c.outIndex == 0 {
		return nil
	}
	_, err := c.out.Write(c.outBuf[:c.outIndex])
	c.outIndex = 0
	return err
}

func (c *Console) put(b byte) error {
	if c.outIndex == len(c.outBuf) {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	c.outBuf[c.outIndex] = b
	c.outIndex = c.outIndex + 1
	return nil
}
