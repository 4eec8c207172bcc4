package config

// Embedded tunable overrides, keyed by device ID. Populate at build time
// (code generation) or by hand during development, the way the teacher's
// embeddedConfigs map works (services/config/defaultconfigs.go).

const cfgPico = `{
  "pid": {
    "kp": 2.0,
    "ki": 0.01,
    "kd": 0.5
  },
  "max_safe_temp": 250.0,
  "telemetry_period_ms": 1000
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
}
