// Command roaster-hostbridge runs the same control core as roaster-fw
// against fake peripherals, but exposes it over a real OS serial port
// (via github.com/tarm/serial) instead of board hardware — so Artisan, or
// any other real Artisan-protocol client, can be pointed at an actual
// serial device (a USB-serial adapter looped to a second port, a virtual
// tty pair) for integration testing without a Pico attached.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"roastercore/config"
	"roastercore/internal/fwloop"
	"roastercore/peripheral"
	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/roaster"
	"roastercore/transport"
)

func main() {
	cfg, err := loadBridgeConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "load bridge config"))
		os.Exit(1)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	banner := color.New(color.FgCyan, color.Bold)
	banner.Printf("roaster-hostbridge: %s @ %d baud\n", cfg.SerialPort, cfg.BaudRate)

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.SerialPort,
		Baud:        cfg.BaudRate,
		ReadTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrapf(err, "open serial port %s", cfg.SerialPort))
		os.Exit(1)
	}
	defer port.Close()

	bean := peripheral.NewFakeThermometer(float32(cfg.BeanStartTempC))
	env := peripheral.NewFakeThermometer(float32(cfg.EnvStartTempC))
	heaterPWM := &peripheral.FakePWMChannel{}
	fanPWM := &peripheral.FakePWMChannel{}
	presence := peripheral.NewFakePresenceInput(true)

	heater := peripheral.NewSSRHeater(heaterPWM, presence)
	fan := peripheral.NewPWMFan(fanPWM)

	cmdQueue := queue.New[protocol.Command](queue.CommandQueueCapacity)
	outQueue := queue.New[string](queue.OutputQueueCapacity)

	r := roaster.New(time.Now(), config.DefaultTunables(), roaster.Peripherals{
		BeanThermometer: bean,
		EnvThermometer:  env,
		Heater:          heater,
		Fan:             fan,
	}, cmdQueue, outQueue, nil)

	mux := transport.NewMultiplexer()
	task := &fwloop.ChannelTask{
		ID:        transport.Uart,
		Port:      port,
		Assembler: transport.NewLineAssembler(),
		Mux:       mux,
		CmdQueue:  cmdQueue,
	}
	go task.Rx()

	status := color.New(color.FgGreen)
	errC := color.New(color.FgRed)

	fwloop.RunControlLoop(r, outQueue, []*fwloop.ChannelTask{task}, func(now time.Time) {
		s := r.Status()
		if s.FaultCondition {
			errC.Printf("[%s] FAULT state=%s bean=%.1f\n", now.Format(time.TimeOnly), s.State, s.BeanTemp)
			return
		}
		if s.Streaming {
			status.Printf("[%s] state=%s bean=%.1f env=%.1f ssr=%.0f fan=%.0f\n",
				now.Format(time.TimeOnly), s.State, s.BeanTemp, s.EnvTemp, s.SSROutput, s.FanOutput)
		}
	})
}
