package upload

import "github.com/janekbaraniewski/chatwrapped/internal/core"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProbing
	PhaseUploading
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProbing:
		return "probing"
	case PhaseUploading:
		return "uploading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// InFlight reports whether an upload sequence is waiting on the network.
func (p Phase) InFlight() bool {
	return p == PhaseProbing || p == PhaseUploading
}

// State is the controller's current variant. Only the fields relevant to
// Phase are set: File while probing or uploading, Message on error, Payload
// when ready. A State is always replaced as a whole.
type State struct {
	Phase   Phase
	File    core.Transcript
	Message string
	Payload *core.AnalyticsPayload
}

func idle() State { return State{Phase: PhaseIdle} }

func probing(f core.Transcript) State { return State{Phase: PhaseProbing, File: f} }

func uploading(f core.Transcript) State { return State{Phase: PhaseUploading, File: f} }

func failed(msg string) State { return State{Phase: PhaseError, Message: msg} }

func ready(p core.AnalyticsPayload) State {
	p = p.Clone()
	return State{Phase: PhaseReady, Payload: &p}
}
