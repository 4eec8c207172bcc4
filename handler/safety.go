package handler

import (
	"time"

	"roastercore/internal/bus"
	"roastercore/roastererr"
	"roastercore/roasterstate"
)

// SafetyHandler claims EmergencyStop and ArtisanEmergencyStop and latches
// the fault condition (§4.5 #1). The latch is status.FaultCondition
// itself — there is no separate emergency_flag to keep in sync, unlike a
// design where Safety tracks its own bit and the core mirrors it back.
type SafetyHandler struct {
	diag *bus.Bus
}

// NewSafetyHandler returns the safety handler. diag may be nil; when set,
// the trigger reason ("Manual emergency stop" vs "Artisan+ emergency
// stop") is published on bus.TopicFault for diagnostics, never on the
// wire (SPEC_FULL.md §4).
func NewSafetyHandler(diag *bus.Bus) *SafetyHandler { return &SafetyHandler{diag: diag} }

func (*SafetyHandler) CanHandle(cmd Command) bool {
	switch cmd.(type) {
	case EmergencyStop, ArtisanEmergencyStop:
		return true
	}
	return false
}

// Handle always returns a terminal error; the caller propagates it as
// fatal (§4.5). The emergency latch is cleared only by an explicit Reset.
func (h *SafetyHandler) Handle(cmd Command, now time.Time, status *roasterstate.SystemStatus) error {
	status.FaultCondition = true
	status.SSROutput = 0
	status.PidEnabled = false
	status.SSRHardwareStatus = roasterstate.HardwareErrorStatus
	status.State = roasterstate.EmergencyStop
	status.Streaming = false

	reason := "Manual emergency stop"
	if _, ok := cmd.(ArtisanEmergencyStop); ok {
		reason = "Artisan+ emergency stop"
	}
	if h.diag != nil {
		h.diag.Publish(&bus.Message{Topic: bus.TopicFault, Payload: bus.FaultEvent{Latched: true, Reason: reason}})
	}
	return roastererr.EmergencyShutdown
}
