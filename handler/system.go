package handler

import (
	"time"

	"roastercore/internal/bus"
	"roastercore/roastererr"
	"roastercore/roasterstate"
)

// SystemHandler claims Reset, the only way out of a terminal state
// (§4.5 #4, §4.10).
type SystemHandler struct {
	diag *bus.Bus
}

// NewSystemHandler returns the system handler. diag may be nil.
func NewSystemHandler(diag *bus.Bus) *SystemHandler { return &SystemHandler{diag: diag} }

func (*SystemHandler) CanHandle(cmd Command) bool {
	_, ok := cmd.(Reset)
	return ok
}

func (h *SystemHandler) Handle(cmd Command, now time.Time, status *roasterstate.SystemStatus) error {
	if _, ok := cmd.(Reset); !ok {
		return roastererr.InvalidState
	}
	wasLatched := status.FaultCondition
	status.ResetToDefault()
	if wasLatched && h.diag != nil {
		h.diag.Publish(&bus.Message{Topic: bus.TopicFault, Payload: bus.FaultEvent{Latched: false, Reason: "system reset"}})
	}
	return nil
}
