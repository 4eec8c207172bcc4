package peripheral

import "roastercore/internal/mathx"

// PWMFan drives the DC cooling fan via fast PWM (~25 kHz).
type PWMFan struct {
	pwm PWMChannel
}

// NewPWMFan wires a fan to its PWM channel.
func NewPWMFan(pwm PWMChannel) *PWMFan { return &PWMFan{pwm: pwm} }

func (f *PWMFan) SetSpeed(percent float32) error {
	percent = mathx.Clamp(percent, 0, 100)
	f.pwm.SetDutyPermille(uint16(percent * 10))
	return nil
}
