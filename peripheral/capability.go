// Package peripheral abstracts the roaster's three hardware capability
// sets (§4.9) behind small interfaces, so the Roaster core depends only on
// behaviour, never on a concrete SPI thermocouple or PWM driver. Concrete
// drivers — the specific MAX31856 register map, the LEDC/PWM peripheral —
// are external collaborators (spec.md §1); this package only owns the
// interface and the retry/clamp discipline around them.
package peripheral

import "roastercore/roasterstate"

// Thermometer reads one temperature probe. Conversion/self-test
// responsibilities belong to the concrete driver.
type Thermometer interface {
	ReadTemperature() (float32, error)
}

// Heater drives the SSR-switched heating element.
type Heater interface {
	// SetPower clamps percent to 0..100 internally.
	SetPower(percent float32) error
	// Status reflects the heat-presence sensor and any PWM-subsystem error.
	Status() roasterstate.SsrHardwareStatus
}

// Fan drives the PWM-controlled cooling/cooling-assist fan.
type Fan interface {
	// SetSpeed clamps percent to 0..100 internally.
	SetSpeed(percent float32) error
}
