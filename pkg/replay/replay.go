// Package replay loads frame scripts for the host simulator.
//
// A script is YAML:
//
//	frames:
//	  - id: 0x300
//	    data: [0x00, 0x14]
//	  - id: 0x18FF0001
//	    extended: true
//	    data: [1, 2]
//	  - id: 0x300
//	    rtr: true
//	  - error: bit
//	    repeat: 3
//
// Each entry is either a frame or a bus error; repeat replays it.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/0x53A/H2-CAN/pkg/canbus"
)

const maxRepeat = 10000

// Entry is one line of a script.
type Entry struct {
	ID       *uint32 `yaml:"id"`
	Extended bool    `yaml:"extended"`
	RTR      bool    `yaml:"rtr"`
	Data     []int   `yaml:"data"`
	Error    string  `yaml:"error"`
	Repeat   int     `yaml:"repeat"`
}

// File is the top-level document.
type File struct {
	Frames []Entry `yaml:"frames"`
}

var ErrEmpty = errors.New("replay: script has no frames")

// Load reads a script from path.
func Load(path string) (*canbus.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a script and converts it to a scripted receiver.
func Decode(r io.Reader) (*canbus.Script, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("replay: %w", err)
	}
	if len(doc.Frames) == 0 {
		return nil, ErrEmpty
	}

	var events []canbus.Event
	for i, e := range doc.Frames {
		ev, err := e.event()
		if err != nil {
			return nil, fmt.Errorf("replay: entry %d: %w", i, err)
		}
		n := e.Repeat
		if n == 0 {
			n = 1
		}
		if n < 0 || n > maxRepeat {
			return nil, fmt.Errorf("replay: entry %d: repeat %d out of range", i, e.Repeat)
		}
		for j := 0; j < n; j++ {
			events = append(events, ev)
		}
	}
	return canbus.NewScript(events...), nil
}

func (e Entry) event() (canbus.Event, error) {
	if e.Error != "" {
		if e.ID != nil || len(e.Data) > 0 {
			return canbus.Event{}, errors.New("error entries carry no frame")
		}
		kind, ok := canbus.ParseErrorKind(e.Error)
		if !ok {
			return canbus.Event{}, fmt.Errorf("unknown error kind %q", e.Error)
		}
		return canbus.Event{Err: &canbus.BusError{Kind: kind, Err: errors.New("scripted")}}, nil
	}

	if e.ID == nil {
		return canbus.Event{}, errors.New("missing id")
	}
	data := make([]byte, len(e.Data))
	for i, v := range e.Data {
		if v < 0 || v > 0xFF {
			return canbus.Event{}, fmt.Errorf("data[%d] = %d is not a byte", i, v)
		}
		data[i] = byte(v)
	}
	f, err := canbus.FromRaw(*e.ID, e.Extended, e.RTR, data)
	if err != nil {
		return canbus.Event{}, err
	}
	return canbus.Event{Frame: f}, nil
}
