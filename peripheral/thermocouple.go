package peripheral

import (
	"time"

	"github.com/cenkalti/backoff"

	"roastercore/roastererr"
)

// SPIBus is the minimal contract a shared SPI bus transaction needs. The
// thermocouples share one physical bus; per-device chip-select guarding
// and bus mutual exclusion are the caller's responsibility, not this
// driver's (§4.9) — each Thermocouple is handed a bus value already
// scoped to its own chip-select.
type SPIBus interface {
	Tx(w, r []byte) error
}

// thermocoupleBackoff bounds the retry window for a single read: a
// transient SPI/cold-junction fault is retried a handful of times within
// one control cycle, never carried across cycles.
func thermocoupleBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Millisecond
	b.MaxInterval = 10 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Millisecond
	return b
}

// Thermocouple reads a thermocouple amplifier over SPI and applies a
// fixed per-probe calibration offset. The register-level conversion is a
// stand-in — the concrete chip's register map is out of scope here
// (spec.md §1) — but the retry and unit-conversion shape is real.
type Thermocouple struct {
	bus       SPIBus
	calOffset float32
	last      float32
	haveLast  bool
}

// NewThermocouple wires a Thermocouple to an SPI bus value already scoped
// to this probe's chip-select, with a fixed calibration offset in °C.
func NewThermocouple(bus SPIBus, calibrationOffsetC float32) *Thermocouple {
	return &Thermocouple{bus: bus, calOffset: calibrationOffsetC}
}

// ReadTemperature retries a single transient SPI failure per §7 ("transient
// sensor read errors... not fatal"); repeated failure surfaces
// roastererr.SensorFault and the caller falls back to the last good
// reading per §4.7 ("on read error, warn and proceed with stale values").
func (t *Thermocouple) ReadTemperature() (float32, error) {
	var raw [3]byte
	op := func() error { return t.bus.Tx([]byte{0x00}, raw[:]) }

	if err := backoff.Retry(op, thermocoupleBackoff()); err != nil {
		return t.last, roastererr.SensorFault
	}

	temp := decodeTemperature(raw) + t.calOffset
	t.last = temp
	t.haveLast = true
	return temp, nil
}

// decodeTemperature turns a big-endian two's-complement sample (8.8
// fixed-point, the conventional thermocouple-amplifier shape) into °C.
func decodeTemperature(raw [3]byte) float32 {
	v := int32(raw[1])<<8 | int32(raw[2])
	if raw[1]&0x80 != 0 {
		v -= 1 << 16
	}
	return float32(v) / 256.0
}
