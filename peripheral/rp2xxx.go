//go:build rp2040 || rp2350

package peripheral

import (
	"machine"

	"tinygo.org/x/drivers"
)

// spiDevice scopes a shared machine.SPI bus to one chip-select pin, the
// "per-device chip-select guard" §4.9 calls for: the shared bus itself is
// a single machine.SPI value; each device wraps it with its own CS pin
// and holds that pin low only for the duration of one Tx.
type spiDevice struct {
	bus machine.SPI
	cs  machine.Pin
}

func (d spiDevice) Tx(w, r []byte) error {
	d.cs.Low()
	defer d.cs.High()
	return d.bus.Tx(w, r)
}

// NewSharedSPIBus configures SPI0 at a thermocouple-amplifier-friendly
// clock and returns the bus value both thermocouple chip-select wrappers
// share.
func NewSharedSPIBus(sck, sdo, sdi machine.Pin) machine.SPI {
	bus := machine.SPI0
	bus.Configure(machine.SPIConfig{
		Frequency: 5_000_000,
		SCK:       sck,
		SDO:       sdo,
		SDI:       sdi,
		Mode:      1,
	})
	return bus
}

// NewSPIThermocouple scopes the shared bus to csPin and wraps it in a
// Thermocouple with the given calibration offset.
func NewSPIThermocouple(bus machine.SPI, csPin machine.Pin, calibrationOffsetC float32) *Thermocouple {
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	csPin.High()
	return NewThermocouple(spiDevice{bus: bus, cs: csPin}, calibrationOffsetC)
}

// pwmChannel adapts a machine.PWM + its configured channel index to the
// PWMChannel contract.
type pwmChannel struct {
	pwm machine.PWM
	ch  uint8
	top uint32
}

func (p pwmChannel) SetDutyPermille(duty uint16) {
	if duty > 1000 {
		duty = 1000
	}
	p.pwm.Set(p.ch, p.top*uint32(duty)/1000)
}

// NewSlowPWM configures pin on a ~1 Hz PWM suitable for the SSR heater
// channel and returns the endpoint plus the underlying machine.PWM so the
// fan channel on the same timer can share it.
func NewSlowPWM(pin machine.Pin) (PWMChannel, machine.PWM) {
	pwm := machine.PWM2 // RP2040/RP2350 PWM slice for the heater GPIO
	pwm.Configure(machine.PWMConfig{Period: 1_000_000_000}) // ~1 Hz
	ch, _ := pwm.Channel(pin)
	return pwmChannel{pwm: pwm, ch: ch, top: pwm.Top()}, pwm
}

// NewFastPWM configures pin on a ~25 kHz PWM suitable for the DC fan.
func NewFastPWM(pin machine.Pin) PWMChannel {
	pwm := machine.PWM1
	pwm.Configure(machine.PWMConfig{Period: 40_000}) // 25 kHz
	ch, _ := pwm.Channel(pin)
	return pwmChannel{pwm: pwm, ch: ch, top: pwm.Top()}
}

// gpioPresence adapts a machine.Pin configured as input to PresenceInput,
// for boards that wire the heat-presence sensor directly to a GPIO.
type gpioPresence struct{ pin machine.Pin }

func (g gpioPresence) Present() bool { return g.pin.Get() }

// NewPresenceInput configures pin as a pulled-up input for the
// heat-source presence sensor.
func NewPresenceInput(pin machine.Pin) PresenceInput {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return gpioPresence{pin: pin}
}

// NewSharedI2CBus configures I2C0 for boards that read the heat-presence
// sensor off an I2C GPIO expander instead of a direct GPIO, and returns
// it typed against the drivers.I2C contract so callers depend on that
// interface rather than on machine.I2C directly.
func NewSharedI2CBus(scl, sda machine.Pin) drivers.I2C {
	bus := machine.I2C0
	bus.Configure(machine.I2CConfig{
		Frequency: machine.TWI_FREQ_400KHZ,
		SCL:       scl,
		SDA:       sda,
	})
	return bus
}

// i2cPresence reads a single status byte from an I2C GPIO expander and
// treats one bit of it as the heat-presence flag.
type i2cPresence struct {
	bus  drivers.I2C
	addr uint16
	bit  uint8
}

func (p i2cPresence) Present() bool {
	var status [1]byte
	if err := p.bus.Tx(p.addr, nil, status[:]); err != nil {
		return false
	}
	return status[0]&(1<<p.bit) != 0
}

// NewI2CPresenceInput wires the heat-presence sensor to one bit of a
// status register exposed by an I2C GPIO expander at addr.
func NewI2CPresenceInput(bus drivers.I2C, addr uint16, bit uint8) PresenceInput {
	return i2cPresence{bus: bus, addr: addr, bit: bit}
}
