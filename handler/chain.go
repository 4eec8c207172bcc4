package handler

import (
	"time"

	"roastercore/roastererr"
	"roastercore/roasterstate"
)

// Handler is one link in the priority chain: CanHandle gates dispatch,
// Handle mutates status in place.
type Handler interface {
	CanHandle(cmd Command) bool
	Handle(cmd Command, now time.Time, status *roasterstate.SystemStatus) error
}

// Chain holds the four handlers in fixed priority order: Safety,
// Temperature, Manual, System. The first handler whose CanHandle returns
// true claims the command; if none do, the result is InvalidState (§4.5).
type Chain struct {
	handlers []Handler
}

// NewChain returns a chain that consults handlers in the order given.
// Callers pass Safety, Temperature, Manual, System in that order (see
// roaster.New); NewChain itself neither checks nor reorders them.
func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Dispatch runs cmd through the chain and renormalizes status afterward,
// so every cross-cutting invariant in roasterstate.SystemStatus.Normalize
// holds regardless of which handler (or none) claimed the command.
func (c *Chain) Dispatch(cmd Command, now time.Time, status *roasterstate.SystemStatus) error {
	for _, h := range c.handlers {
		if h.CanHandle(cmd) {
			err := h.Handle(cmd, now, status)
			status.Normalize()
			return err
		}
	}
	status.Normalize()
	return roastererr.InvalidState
}
