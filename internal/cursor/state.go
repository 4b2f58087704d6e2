package cursor

// Phase represents the engine lifecycle phase.
type Phase int

const (
	// PhaseUninitialized means the engine was constructed but not started.
	PhaseUninitialized Phase = iota
	// PhaseStarted means the engine is observing and positioning the cursor.
	PhaseStarted
	// PhaseStopped is terminal; the overlay is detached and observation is
	// disconnected.
	PhaseStopped
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseStarted:
		return "started"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
