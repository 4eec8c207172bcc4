package config

import "testing"

func TestLoadTunablesOverridesDefaults(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "test-device" {
			return nil, false
		}
		return []byte(`{"pid": {"kp": 3.5}, "max_safe_temp": 240.0}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	tn, err := LoadTunables("test-device")
	if err != nil {
		t.Fatalf("LoadTunables: %v", err)
	}
	if tn.PidGains.Kp != 3.5 {
		t.Fatalf("Kp = %v, want 3.5", tn.PidGains.Kp)
	}
	if tn.PidGains.Ki != DefaultTunables().PidGains.Ki {
		t.Fatalf("Ki = %v, want default %v (untouched by override)", tn.PidGains.Ki, DefaultTunables().PidGains.Ki)
	}
	if tn.MaxSafeTemp != 240.0 {
		t.Fatalf("MaxSafeTemp = %v, want 240.0", tn.MaxSafeTemp)
	}
}

func TestLoadTunablesUnknownDeviceKeepsDefaults(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	tn, err := LoadTunables("nonexistent")
	if err != nil {
		t.Fatalf("LoadTunables: %v", err)
	}
	want := DefaultTunables()
	if tn != want {
		t.Fatalf("tn = %+v, want default %+v", tn, want)
	}
}

func TestLoadTunablesPicoEmbedded(t *testing.T) {
	tn, err := LoadTunables("pico")
	if err != nil {
		t.Fatalf("LoadTunables: %v", err)
	}
	if tn.PidGains.Kp != 2.0 || tn.PidGains.Ki != 0.01 || tn.PidGains.Kd != 0.5 {
		t.Fatalf("pid gains = %+v, want design defaults", tn.PidGains)
	}
	if tn.MaxSafeTemp != 250.0 {
		t.Fatalf("MaxSafeTemp = %v, want 250.0", tn.MaxSafeTemp)
	}
}
