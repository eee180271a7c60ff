package upload

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/chatwrapped/internal/core"
)

var ErrBusy = errors.New("an upload is already in progress")

// Backend is the analysis service as seen by the controller.
type Backend interface {
	Probe(ctx context.Context) error
	Send(ctx context.Context, t core.Transcript) (core.AnalyticsPayload, error)
}

// Ticket identifies one submit sequence. Completions carrying an older
// ticket than the controller's current generation are discarded.
type Ticket uint64

// Controller owns the upload state machine. It is not safe for concurrent
// use: all transitions must happen on the goroutine that owns it, while the
// Probe and Transfer calls may run elsewhere and report back through
// ApplyProbe and ApplyTransfer.
type Controller struct {
	backend Backend
	log     zerolog.Logger

	state State
	gen   Ticket
}

func NewController(backend Backend, log zerolog.Logger) *Controller {
	return &Controller{backend: backend, log: log, state: idle()}
}

func (c *Controller) State() State { return c.state }

// Submit starts a new sequence for f. It fails with ErrBusy while a previous
// sequence is still probing or uploading.
func (c *Controller) Submit(f core.Transcript) (Ticket, error) {
	if c.state.Phase.InFlight() {
		c.log.Debug().Str("file", f.Name).Stringer("phase", c.state.Phase).Msg("submit rejected")
		return 0, ErrBusy
	}
	c.gen++
	c.transition(probing(f))
	return c.gen, nil
}

// ApplyProbe records the probe outcome for ticket t and reports whether it was
// accepted. On success the controller moves to uploading and the caller is
// expected to start Transfer with State().File.
func (c *Controller) ApplyProbe(t Ticket, err error) bool {
	if !c.current(t, PhaseProbing) {
		return false
	}
	if err != nil {
		c.transition(failed(errorMessage(err)))
		return true
	}
	c.transition(uploading(c.state.File))
	return true
}

// ApplyTransfer records the transfer outcome for ticket t.
func (c *Controller) ApplyTransfer(t Ticket, payload core.AnalyticsPayload, err error) bool {
	if !c.current(t, PhaseUploading) {
		return false
	}
	if err != nil {
		c.transition(failed(errorMessage(err)))
		return true
	}
	c.transition(ready(payload))
	return true
}

// Reset discards the current result or pending sequence and returns to idle.
// Operations still in flight finish on their own; their results are ignored.
func (c *Controller) Reset() {
	c.gen++
	c.transition(idle())
}

// Probe runs the reachability check. It reads no controller state and may be
// called from any goroutine.
func (c *Controller) Probe(ctx context.Context) error {
	return c.backend.Probe(ctx)
}

// Transfer uploads f. Like Probe it may be called from any goroutine.
func (c *Controller) Transfer(ctx context.Context, f core.Transcript) (core.AnalyticsPayload, error) {
	return c.backend.Send(ctx, f)
}

// Run drives one full sequence on the calling goroutine and returns the final
// state. It is used where there is no event loop.
func (c *Controller) Run(ctx context.Context, f core.Transcript) (State, error) {
	t, err := c.Submit(f)
	if err != nil {
		return c.state, err
	}
	if !c.ApplyProbe(t, c.Probe(ctx)) || c.state.Phase != PhaseUploading {
		return c.state, nil
	}
	payload, err := c.Transfer(ctx, c.state.File)
	c.ApplyTransfer(t, payload, err)
	return c.state, nil
}

func (c *Controller) current(t Ticket, want Phase) bool {
	if t != c.gen || c.state.Phase != want {
		c.log.Debug().
			Uint64("ticket", uint64(t)).
			Uint64("generation", uint64(c.gen)).
			Stringer("phase", c.state.Phase).
			Msg("stale completion ignored")
		return false
	}
	return true
}

func (c *Controller) transition(next State) {
	ev := c.log.Debug().
		Stringer("from", c.state.Phase).
		Stringer("to", next.Phase).
		Uint64("generation", uint64(c.gen))
	if next.File.Name != "" {
		ev = ev.Str("file", next.File.Name)
	}
	if next.Message != "" {
		ev = ev.Str("message", next.Message)
	}
	ev.Msg("upload state")
	c.state = next
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to upload file"
}
