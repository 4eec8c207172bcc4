package main

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"roastercore/config"
)

// bridgeConfig is the host bridge's own configuration: which real OS
// serial port to open and how the simulated sensors should start out,
// loaded the way nasa-jpl-golaborate's cmd/multiserver loads its config —
// defaults via koanf's confmap provider, overridden by the environment
// (SPEC_FULL.md §2.3: the host tool uses koanf, the device uses the
// embedded-JSON tinyjson path).
type bridgeConfig struct {
	SerialPort     string `koanf:"serial_port"`
	BaudRate       int    `koanf:"baud_rate"`
	BeanStartTempC int    `koanf:"bean_start_temp_c"`
	EnvStartTempC  int    `koanf:"env_start_temp_c"`
	NoColor        bool   `koanf:"no_color"`
}

func defaultBridgeConfig() bridgeConfig {
	return bridgeConfig{
		SerialPort:     "/dev/ttyACM0",
		BaudRate:       config.BaudRate,
		BeanStartTempC: 20,
		EnvStartTempC:  20,
	}
}

// loadBridgeConfig layers environment overrides (ROASTER_SERIAL_PORT,
// ROASTER_BAUD_RATE, ...) onto the defaults.
func loadBridgeConfig() (bridgeConfig, error) {
	k := koanf.New(".")
	def := defaultBridgeConfig()

	defaults := map[string]interface{}{
		"serial_port":       def.SerialPort,
		"baud_rate":         def.BaudRate,
		"bean_start_temp_c": def.BeanStartTempC,
		"env_start_temp_c":  def.EnvStartTempC,
		"no_color":          def.NoColor,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return def, err
	}

	err := k.Load(env.Provider("ROASTER_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ROASTER_"))
	}), nil)
	if err != nil {
		return def, err
	}

	var cfg bridgeConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return def, err
	}
	return cfg, nil
}
