//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx"

	"roastercore/config"
	"roastercore/internal/fwloop"
	"roastercore/peripheral"
	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/roaster"
	"roastercore/transport"
)

// Board wiring, kept as Go values the way the teacher's
// services/hal/internal/platform/setups/*.go does rather than parsed at
// boot.
const (
	spiSCK = machine.GPIO18
	spiSDO = machine.GPIO19
	spiSDI = machine.GPIO16

	beanCS = machine.GPIO17
	envCS  = machine.GPIO20

	heaterPWMPin = machine.GPIO14
	fanPWMPin    = machine.GPIO15

	// Heat-presence sensor reads off an I2C GPIO expander rather than a
	// direct GPIO on this board revision — frees GPIO21 and lets one I2C
	// bus carry other expander-backed status bits later.
	i2cSCL = machine.GPIO5
	i2cSDA = machine.GPIO4

	presenceExpanderAddr uint16 = 0x20
	presenceExpanderBit  uint8  = 0

	beanCalibrationOffsetC float32 = 0
	envCalibrationOffsetC  float32 = 0
)

func main() {
	// Allow board to settle (USB, clocks) before touching peripherals,
	// matching the teacher's pico-hal-main bring-up.
	time.Sleep(3 * time.Second)
	println("[roaster] bootstrapping")

	spiBus := peripheral.NewSharedSPIBus(spiSCK, spiSDO, spiSDI)
	bean := peripheral.NewSPIThermocouple(spiBus, beanCS, beanCalibrationOffsetC)
	env := peripheral.NewSPIThermocouple(spiBus, envCS, envCalibrationOffsetC)

	heaterPWM, _ := peripheral.NewSlowPWM(heaterPWMPin)
	fanPWM := peripheral.NewFastPWM(fanPWMPin)
	i2cBus := peripheral.NewSharedI2CBus(i2cSCL, i2cSDA)
	presence := peripheral.NewI2CPresenceInput(i2cBus, presenceExpanderAddr, presenceExpanderBit)

	heater := peripheral.NewSSRHeater(heaterPWM, presence)
	fan := peripheral.NewPWMFan(fanPWM)

	tunables, err := config.LoadTunables("pico")
	if err != nil {
		println("[config] embedded tunables decode failed, using defaults:", err.Error())
	}

	cmdQueue := queue.New[protocol.Command](queue.CommandQueueCapacity)
	outQueue := queue.New[string](queue.OutputQueueCapacity)

	r := roaster.New(time.Now(), tunables, roaster.Peripherals{
		BeanThermometer: bean,
		EnvThermometer:  env,
		Heater:          heater,
		Fan:             fan,
	}, cmdQueue, outQueue, nil)

	uart0 := uartx.UART0
	_ = uart0.Configure(uartx.UARTConfig{})
	uart0.SetBaudRate(config.BaudRate)

	usb := machine.Serial

	mux := transport.NewMultiplexer()

	tasks := []*fwloop.ChannelTask{
		{ID: transport.Uart, Port: uart0, Assembler: transport.NewLineAssembler(), Mux: mux, CmdQueue: cmdQueue},
		{ID: transport.Usb, Port: usb, Assembler: transport.NewLineAssembler(), Mux: mux, CmdQueue: cmdQueue},
	}
	for _, t := range tasks {
		go t.Rx()
	}

	println("[roaster] entering control loop")
	fwloop.RunControlLoop(r, outQueue, tasks, nil)
}
