// Package pidctl implements the roaster's fixed-rate setpoint-tracking
// controller (§4.6): proportional-integral-derivative with anti-windup,
// output clamp, and a hard safety cap.
package pidctl

import "roastercore/internal/mathx"

// Gains are the PID coefficients. All non-negative.
type Gains struct {
	Kp, Ki, Kd float32
}

// DefaultGains are the design defaults from §4.6.
var DefaultGains = Gains{Kp: 2.0, Ki: 0.01, Kd: 0.5}

const (
	// NominalSamplePeriodMs is the controller's design sample period (10 Hz).
	NominalSamplePeriodMs uint32 = 100
	// MaxDtMultiple caps the dt used in the integral/derivative terms at
	// this multiple of the nominal period, so a long suspension can't
	// inject an integral spike (§9).
	MaxDtMultiple = 2
	// DefaultMaxSafeTemp is the PID's own hard cutoff, independent of the
	// Roaster core's overtemp shutdown threshold (§4.6 vs §4.7).
	DefaultMaxSafeTemp float32 = 250.0
	// OutputMax is the controller's output ceiling.
	OutputMax float32 = 100.0
)

// Controller is a single PID loop instance. Zero value is not usable; call
// New.
type Controller struct {
	gains       Gains
	maxSafeTemp float32

	target float32

	integral float32
	lastErr  float32
	lastOut  float32

	lastTimeMs uint32
	hasLast    bool
	enabled    bool
}

// New returns a disabled controller with the given gains and safety cap.
func New(gains Gains, maxSafeTemp float32) *Controller {
	return &Controller{gains: gains, maxSafeTemp: maxSafeTemp}
}

// SetTarget updates the setpoint without touching integrator state.
func (c *Controller) SetTarget(target float32) { c.target = target }

// Target returns the current setpoint.
func (c *Controller) Target() float32 { return c.target }

// Enabled reports whether the controller is currently active.
func (c *Controller) Enabled() bool { return c.enabled }

// Enable resets the integrator and last-error state and arms the
// controller for the next Compute call.
func (c *Controller) Enable() {
	c.enabled = true
	c.integral = 0
	c.lastErr = 0
	c.hasLast = false
}

// Disable stops the controller; subsequent Compute calls return 0.
func (c *Controller) Disable() {
	c.enabled = false
	c.integral = 0
	c.lastErr = 0
	c.hasLast = false
	c.lastOut = 0
}

// Compute advances the controller to nowMs and returns the new output in
// [0, OutputMax]. It is idempotent when nowMs has not advanced since the
// last call (returns the previous output without touching state), and
// forces 0 whenever currentTemp is at or above the safety cap or the
// controller is disabled.
func (c *Controller) Compute(currentTemp float32, nowMs uint32) float32 {
	if !c.enabled {
		c.lastOut = 0
		return 0
	}
	if currentTemp >= c.maxSafeTemp {
		c.lastOut = 0
		return 0
	}

	var dtMs uint32
	if !c.hasLast {
		dtMs = NominalSamplePeriodMs
	} else if nowMs == c.lastTimeMs {
		return c.lastOut
	} else {
		dtMs = nowMs - c.lastTimeMs
		if cap := NominalSamplePeriodMs * MaxDtMultiple; dtMs > cap {
			dtMs = cap
		}
	}
	dt := float32(dtMs) / 1000.0

	errVal := c.target - currentTemp

	c.integral += errVal * dt
	c.integral = mathx.Clamp(c.integral, -OutputMax, OutputMax)

	var deriv float32
	if c.hasLast && dt > 0 {
		deriv = (errVal - c.lastErr) / dt
	}

	out := c.gains.Kp*errVal + c.gains.Ki*c.integral + c.gains.Kd*deriv
	out = mathx.Clamp(out, 0, OutputMax)

	c.lastErr = errVal
	c.lastTimeMs = nowMs
	c.hasLast = true
	c.lastOut = out
	return out
}
