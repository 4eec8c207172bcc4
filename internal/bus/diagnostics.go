package bus

import "roastercore/roasterstate"

// Diagnostic topics the Roaster core publishes on. Nothing downstream of
// these (a host-side logger, a test harness) ever feeds back into the
// control path — this is observation only.
var (
	TopicState = T("roaster", "state")
	TopicFault = T("roaster", "fault")
)

// StateEvent is published by the Roaster core when its overtemp/sensor-
// timeout shutdown enters EmergencyStop, with only To set. Other state
// changes are not published.
type StateEvent struct {
	From, To roasterstate.RoasterState
}

// FaultEvent is published when the emergency latch is set or cleared.
type FaultEvent struct {
	Latched bool
	Reason  string
}
