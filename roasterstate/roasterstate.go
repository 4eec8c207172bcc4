// Package roasterstate holds the Roaster core's mutable singleton,
// SystemStatus, and the small state machine it drives, as the one type
// shared by the handler chain, the PID loop, and the core itself without
// an import cycle.
package roasterstate

import "roastercore/internal/mathx"

// RoasterState is the top-level machine in §4.10.
type RoasterState uint8

const (
	Idle RoasterState = iota
	Heating
	Stable
	Cooling
	Fault
	EmergencyStop
	ErrorState
)

func (s RoasterState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Heating:
		return "heating"
	case Stable:
		return "stable"
	case Cooling:
		return "cooling"
	case Fault:
		return "fault"
	case EmergencyStop:
		return "emergency_stop"
	case ErrorState:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state only leaves via an explicit Reset.
func (s RoasterState) Terminal() bool {
	return s == EmergencyStop || s == Fault || s == ErrorState
}

// SsrHardwareStatus is derived by polling the heat-presence input (§3).
type SsrHardwareStatus uint8

const (
	Available SsrHardwareStatus = iota
	NotDetected
	HardwareErrorStatus
)

func (s SsrHardwareStatus) String() string {
	switch s {
	case Available:
		return "available"
	case NotDetected:
		return "not_detected"
	case HardwareErrorStatus:
		return "error"
	default:
		return "unknown"
	}
}

// SystemStatus is the Roaster core's mutable singleton (§3). Field mutation
// goes through the setter methods below (or Normalize, for handler-chain
// writes) so the cross-cutting invariants always hold afterward.
type SystemStatus struct {
	State             RoasterState
	BeanTemp          float32
	EnvTemp           float32
	TargetTemp        float32
	SSROutput         float32
	FanOutput         float32
	PidEnabled        bool
	ArtisanControl    bool
	FaultCondition    bool
	SSRHardwareStatus SsrHardwareStatus

	// Streaming is not named in spec.md's §3 field list but is required by
	// §4.5/§4.7/§4.10's repeated "enable/disable streaming" language; it
	// lives here because it is exactly as singleton and core-owned as the
	// rest of SystemStatus (see SPEC_FULL.md §4).
	Streaming bool
}

const DefaultTargetTemp float32 = 225.0

// New returns a fresh default SystemStatus: Idle, zero outputs, default
// target, no fault, hardware presumed available.
func New() *SystemStatus {
	return &SystemStatus{
		State:             Idle,
		TargetTemp:        DefaultTargetTemp,
		SSRHardwareStatus: Available,
	}
}

// ResetToDefault reassigns every field to its power-on default in place,
// so callers holding a *SystemStatus see the reset (§4.5 System handler).
func (s *SystemStatus) ResetToDefault() {
	*s = *New()
}

// EnablePID turns on closed-loop control and disables manual/Artisan
// control, honouring the mutual-exclusion invariant.
func (s *SystemStatus) EnablePID() {
	s.PidEnabled = true
	s.ArtisanControl = false
}

// EnableArtisanControl turns on manual control and disables PID.
func (s *SystemStatus) EnableArtisanControl() {
	s.ArtisanControl = true
	s.PidEnabled = false
}

// SetFault latches or clears the emergency condition.
func (s *SystemStatus) SetFault(v bool) { s.FaultCondition = v }

// Normalize re-establishes every invariant in §3. It is idempotent and
// cheap enough to call after every handler dispatch and every Cycle.
func (s *SystemStatus) Normalize() {
	s.SSROutput = mathx.Clamp(s.SSROutput, 0, 100)
	s.FanOutput = mathx.Clamp(s.FanOutput, 0, 100)
	if s.PidEnabled && s.ArtisanControl {
		s.ArtisanControl = false
	}
	if s.FaultCondition {
		s.SSROutput = 0
		s.PidEnabled = false
	}
	if s.State.Terminal() {
		s.SSROutput = 0
	}
}
