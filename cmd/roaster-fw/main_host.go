//go:build !(rp2040 || rp2350)

package main

import (
	"os"
	"time"

	"roastercore/config"
	"roastercore/internal/fwloop"
	"roastercore/peripheral"
	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/roaster"
	"roastercore/transport"
)

// stdioPort stands in for the USB-CDC channel on a host build: stdin/
// stdout wired to one io.ReadWriter, for manual testing and CI without a
// board attached. The host bridge (cmd/roaster-hostbridge) is the real
// integration path against an actual OS serial port; this is a quick
// local loop.
type stdioPort struct{}

func (stdioPort) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioPort) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func main() {
	println("[roaster] bootstrapping (host build, fake peripherals)")

	bean := peripheral.NewFakeThermometer(20)
	env := peripheral.NewFakeThermometer(20)
	heaterPWM := &peripheral.FakePWMChannel{}
	fanPWM := &peripheral.FakePWMChannel{}
	presence := peripheral.NewFakePresenceInput(true)

	heater := peripheral.NewSSRHeater(heaterPWM, presence)
	fan := peripheral.NewPWMFan(fanPWM)

	tunables, err := config.LoadTunables("host")
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

	mux := transport.NewMultiplexer()
	tasks := []*fwloop.ChannelTask{
		{ID: transport.Usb, Port: stdioPort{}, Assembler: transport.NewLineAssembler(), Mux: mux, CmdQueue: cmdQueue},
	}
	for _, t := range tasks {
		go t.Rx()
	}

	println("[roaster] entering control loop")
	fwloop.RunControlLoop(r, outQueue, tasks, nil)
}
