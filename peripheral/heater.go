package peripheral

import (
	"roastercore/internal/mathx"
	"roastercore/roasterstate"
)

// PWMChannel is a write-only PWM endpoint. The fan PWM channel and the SSR
// PWM channel are configured separately (rp2xxx.go gives them different
// PWM slices and periods); the core (and this package) treat them as two
// independent write-only endpoints (§4.9/§5).
type PWMChannel interface {
	// SetDutyPermille sets duty cycle in thousandths (0..1000).
	SetDutyPermille(duty uint16)
}

// PresenceInput polls the heat-source presence GPIO.
type PresenceInput interface {
	Present() bool
}

// SSRHeater drives the SSR-switched heating element via slow PWM (~1 Hz)
// and derives its hardware-availability status from a presence GPIO.
type SSRHeater struct {
	pwm      PWMChannel
	presence PresenceInput
	pwmFault bool
}

// NewSSRHeater wires a heater to its PWM channel and presence input.
func NewSSRHeater(pwm PWMChannel, presence PresenceInput) *SSRHeater {
	return &SSRHeater{pwm: pwm, presence: presence}
}

func (h *SSRHeater) SetPower(percent float32) error {
	percent = mathx.Clamp(percent, 0, 100)
	h.pwm.SetDutyPermille(uint16(percent * 10))
	return nil
}

// MarkPWMFault lets the platform wiring layer report a PWM-subsystem
// error (distinct from presence) that Status folds in (§4.9: "Status
// reflects the heat-presence sensor *and* any PWM-subsystem error").
func (h *SSRHeater) MarkPWMFault(v bool) { h.pwmFault = v }

func (h *SSRHeater) Status() roasterstate.SsrHardwareStatus {
	if h.pwmFault {
		return roasterstate.HardwareErrorStatus
	}
	if h.presence == nil || !h.presence.Present() {
		return roasterstate.NotDetected
	}
	return roasterstate.Available
}
