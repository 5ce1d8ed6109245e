package monitor

// StartupError is a bring-up failure of a peripheral. Nothing can run
// without its peripherals, so the firmware halts on it.
type StartupError struct {
	Stage string // "config", "can", "display", ...
	Err   error
}

func (e *StartupError) Error() string {
	return "startup: " + e.Stage + ": " + e.Err.Error()
}

func (e *StartupError) Unwrap() error { return e.Err }
