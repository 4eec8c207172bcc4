// Package config holds the roaster's compile-time ambient constants —
// safety thresholds, control cadence, baud rate, READ reply form — the way
// the teacher keeps board wiring as Go values rather than something
// parsed at every boot, plus a small set of tunable overrides (PID gains,
// safety ceiling, telemetry period) loadable from an embedded JSON blob
// (SPEC_FULL.md §2.3).
package config

import (
	"errors"

	"github.com/andreyvit/tinyjson"

	"roastercore/pidctl"
)

const (
	// BaudRate is the fixed rate for both serial channels (§6).
	BaudRate = 115200

	// MinValidTemp and MaxValidTemp bound a plausible thermocouple
	// reading (§4.7); outside this range the Roaster core discards the
	// sample and keeps the previous value. No TemperatureOutOfRange error
	// is raised for it.
	MinValidTemp float32 = -20.0
	MaxValidTemp float32 = 300.0

	// OvertempThreshold triggers emergency shutdown independent of the
	// PID's own (lower) safety cap (§4.6 vs §4.7).
	OvertempThreshold float32 = 260.0

	// TempValidityTimeoutMs bounds how stale a sensor reading may get
	// before the core treats it as a sensor timeout (§4.7).
	TempValidityTimeoutMs int64 = 1000

	// CycleIntervalMs is the control task's cadence (§4.7, §5).
	CycleIntervalMs uint32 = 100

	// CooldownFanSpeed is written to the fan during an emergency
	// shutdown to assist cool-down (§4.7).
	CooldownFanSpeed float32 = 100.0

	// HeatingToStableBand is the |bean_temp-target_temp| threshold for
	// the Heating→Stable transition (§4.10).
	HeatingToStableBand float32 = 2.0

	// ReadFormatLong resolves spec.md §9's open question: short form is
	// the default. It is a plain compile-time constant: it is not part of
	// Tunables, the embedded JSON config does not set it, and no build tag
	// selects it, so switching to the long form means editing this line.
	ReadFormatLong = false
)

// Tunables are the subset of configuration allowed to vary per device
// without a firmware rebuild.
type Tunables struct {
	PidGains          pidctl.Gains
	MaxSafeTemp       float32
	TelemetryPeriodMs uint32
}

// DefaultTunables mirrors the §4.6/§4.8 design defaults.
func DefaultTunables() Tunables {
	return Tunables{
		PidGains:          pidctl.DefaultGains,
		MaxSafeTemp:       pidctl.DefaultMaxSafeTemp,
		TelemetryPeriodMs: 1000,
	}
}

// EmbeddedConfigLookup allows tests and the host bridge to override how a
// device's embedded tunables are resolved, the same seam the teacher
// exposes for its own embedded config (services/config/config.go).
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// LoadTunables decodes device's embedded JSON blob with tinyjson (kept off
// the MCU build's encoding/json reflection path) and overlays it onto
// DefaultTunables; an unknown device or absent field keeps the default.
func LoadTunables(device string) (Tunables, error) {
	t := DefaultTunables()

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return t, nil
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	if err := r.EnsureEOF(); err != nil {
		return t, err
	}

	m, ok := val.(map[string]any)
	if !ok {
		return t, errors.New("embedded config is not a JSON object")
	}

	if pid, ok := m["pid"].(map[string]any); ok {
		if v, ok := pid["kp"].(float64); ok {
			t.PidGains.Kp = float32(v)
		}
		if v, ok := pid["ki"].(float64); ok {
			t.PidGains.Ki = float32(v)
		}
		if v, ok := pid["kd"].(float64); ok {
			t.PidGains.Kd = float32(v)
		}
	}
	if v, ok := m["max_safe_temp"].(float64); ok {
		t.MaxSafeTemp = float32(v)
	}
	if v, ok := m["telemetry_period_ms"].(float64); ok {
		t.TelemetryPeriodMs = uint32(v)
	}

	return t, nil
}
