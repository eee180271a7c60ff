package client

import "fmt"

// ProbeError reports that the analysis service did not answer its health
// check in time or answered with a non-2xx status.
type ProbeError struct {
	Address string
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("Backend unreachable at %s. Check your tunnel/port-forward and ensure backend is running.", e.Address)
}

func (e *ProbeError) Unwrap() error { return e.Err }

type TransportErrorKind int

const (
	KindUnknown TransportErrorKind = iota
	KindServer
	KindTimeout
	KindNetwork
	KindInvalidResponse
)

func (k TransportErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

const (
	timeoutMessage = "Upload timed out. Try again or check your connection."
	unknownMessage = "Failed to upload file"
)

// TransportError is a classified upload failure. Error returns the text shown
// to the user.
type TransportError struct {
	Kind   TransportErrorKind
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindServer, KindNetwork:
		return e.Detail
	case KindTimeout:
		return timeoutMessage
	case KindInvalidResponse:
		if e.Detail == "" {
			return "Unexpected response from backend"
		}
		return "Unexpected response from backend: " + e.Detail
	default:
		return unknownMessage
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
