package markers

// Phase is the surface-readiness lifecycle. Ready and Failed are terminal.
type Phase int

const (
	Uninitialized Phase = iota
	Polling
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Polling:
		return "polling"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Readiness is the state of the bounded fixed-interval poll for an
// externally loaded rendering surface.
type Readiness struct {
	Phase   Phase
	Attempt int
}

// NextReadiness is the pure transition function for one poll step.
// maxAttempts bounds the poll; once exhausted the machine parks in Failed
// and never retries again.
func NextReadiness(r Readiness, surfaceReady bool, maxAttempts int) Readiness {
	switch r.Phase {
	case Ready, Failed:
		return r
	}
	if surfaceReady {
		return Readiness{Phase: Ready, Attempt: r.Attempt}
	}
	attempt := r.Attempt + 1
	if attempt >= maxAttempts {
		return Readiness{Phase: Failed, Attempt: attempt}
	}
	return Readiness{Phase: Polling, Attempt: attempt}
}
