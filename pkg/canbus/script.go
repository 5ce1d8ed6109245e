package canbus

// Event is one scripted receive result: a frame, or a bus fault when Err is
// set.
type Event struct {
	Frame Frame
	Err   *BusError
}

// Script is an in-memory Receiver that replays events in order and then
// reports ErrNoFrame forever. It backs the host simulator and tests.
type Script struct {
	events []Event
	next   int
}

// NewScript returns a Script over events. The slice is not copied.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

// Push appends frames to the end of the script.
func (s *Script) Push(frames ...Frame) {
	for _, f := range frames {
		s.events = append(s.events, Event{Frame: f})
	}
}

// PushError appends a bus fault.
func (s *Script) PushError(kind ErrorKind, err error) {
	s.events = append(s.events, Event{Err: &BusError{Kind: kind, Err: err}})
}

// Done reports whether every event has been delivered.
func (s *Script) Done() bool { return s.next >= len(s.events) }

// Remaining returns the number of undelivered events.
func (s *Script) Remaining() int { return len(s.events) - s.next }

func (s *Script) TryReceive() (Frame, error) {
	if s.next >= len(s.events) {
		return Frame{}, ErrNoFrame
	}
	ev := s.events[s.next]
	s.next++
	if ev.Err != nil {
		return Frame{}, ev.Err
	}
	return ev.Frame, nil
}
