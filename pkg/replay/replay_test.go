package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x53A/H2-CAN/pkg/canbus"
)

const sample = `
frames:
  - id: 0x300
    data: [0x00, 0x14]
    repeat: 2
  - error: bit
  - id: 0x18FF0001
    extended: true
    data: [1, 2]
  - id: 0x308
    rtr: true
`

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Remaining() != 5 {
		t.Fatalf("expected 5 events, got %d", s.Remaining())
	}

	for i := 0; i < 2; i++ {
		f, err := s.TryReceive()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if f.ID != canbus.StandardID(0x300) {
			t.Errorf("frame %d: expected 0x300, got %v", i, f.ID)
		}
		if d := f.Data(); len(d) != 2 || d[1] != 0x14 {
			t.Errorf("frame %d: unexpected payload % X", i, d)
		}
	}

	_, err = s.TryReceive()
	var be *canbus.BusError
	if !errors.As(err, &be) || be.Kind != canbus.KindBit {
		t.Errorf("expected bit error, got %v", err)
	}

	f, err := s.TryReceive()
	if err != nil || f.ID != canbus.ExtendedID(0x18FF0001) {
		t.Errorf("expected extended frame, got %v / %v", f, err)
	}

	f, err = s.TryReceive()
	if err != nil || !f.Remote {
		t.Errorf("expected remote frame, got %v / %v", f, err)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"no frames", "frames: []\n"},
		{"missing id", "frames:\n  - data: [1]\n"},
		{"standard id too large", "frames:\n  - id: 0x800\n"},
		{"data not a byte", "frames:\n  - id: 0x300\n    data: [256]\n"},
		{"too much data", "frames:\n  - id: 0x300\n    data: [1,2,3,4,5,6,7,8,9]\n"},
		{"unknown error kind", "frames:\n  - error: gremlins\n"},
		{"error with id", "frames:\n  - error: bit\n    id: 0x300\n"},
		{"negative repeat", "frames:\n  - id: 0x300\n    repeat: -1\n"},
		{"unknown field", "frames:\n  - id: 0x300\n    dlc: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Remaining() != 5 {
		t.Errorf("expected 5 events, got %d", s.Remaining())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
