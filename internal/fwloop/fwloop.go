// Package fwloop runs the serial RX/TX tasks and the control-loop ticker
// shared by both the MCU firmware entrypoint and the host bridge tool: one
// ChannelTask per physical port feeding a shared command queue, arbitrated
// by transport.Multiplexer, and one ticker driving roaster.Roaster.Cycle
// and fanning its output queue back out to whichever channel currently
// holds the write slot (§4.7, §5).
package fwloop

import (
	"io"
	"time"

	"roastercore/config"
	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/roaster"
	"roastercore/telemetry"
	"roastercore/transport"
)

// SerialPort is the minimal contract every channel implementation (a
// hardware UART, machine.Serial, a host os.File, or a tarm/serial port)
// satisfies: a plain io.ReadWriter, so no shim type is needed over any of
// them.
type SerialPort io.ReadWriter

// ChannelTask owns one physical serial channel's RX assembly, arbitration,
// and TX fan-out. Run Rx as its own goroutine; the ticker calls WriteLine.
type ChannelTask struct {
	ID        transport.Channel
	Port      SerialPort
	Assembler *transport.LineAssembler
	Mux       *transport.Multiplexer
	CmdQueue  *queue.Queue[protocol.Command]
}

// Rx reads bytes off the port as they arrive, feeding each chunk to
// IngestAndRoute, forever. A zero-byte read (nothing buffered yet) is not
// an error on these ports; it just means spin back around after a short
// rest.
func (c *ChannelTask) Rx() {
	var buf [32]byte
	for {
		n, err := c.Port.Read(buf[:])
		if err != nil || n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		c.IngestAndRoute(buf[:n], time.Now())
	}
}

// IngestAndRoute feeds p to the line assembler and, for each line it
// completes, parses and arbitrates it onto the command queue. Per §4.3,
// only the active channel ever sees an ERR line back — a parse error or a
// full command queue on the losing channel is dropped silently, exactly
// as a lost-arbitration command is. Split out from Rx so the routing
// logic is testable without a live, blocking port.
func (c *ChannelTask) IngestAndRoute(p []byte, now time.Time) {
	c.Assembler.Ingest(p)
	for _, line := range c.Assembler.Drain() {
		cmd, perr := protocol.Parse(line)
		if perr != nil {
			pe := perr.(protocol.ParseError)
			c.WriteLine(telemetry.ErrLine(pe.Code(), pe.Message()))
			continue
		}
		if !c.Mux.CommandReceived(c.ID, now) {
			continue // lost arbitration, drop silently per §4.3
		}
		if !c.CmdQueue.Push(cmd) {
			c.WriteLine(telemetry.ErrLine("invalid_value", "invalid_value"))
		}
	}
}

// rawWrite sends line plus the wire terminator unconditionally.
func (c *ChannelTask) rawWrite(line string) {
	io.WriteString(c.Port, line+"\r\n")
}

// WriteLine writes line plus the wire terminator to the port if this
// channel currently holds the arbiter's write slot.
func (c *ChannelTask) WriteLine(line string) {
	if !c.Mux.ShouldWriteTo(c.ID) {
		return
	}
	c.rawWrite(line)
}

// RunControlLoop ticks the Roaster core at config.CycleIntervalMs and fans
// whatever it queues for output out to every channel currently entitled
// to write (the arbiter enforces there is ever at most one). onTick, if
// non-nil, runs after every Cycle — the host bridge uses it to log.
func RunControlLoop(r *roaster.Roaster, outQueue *queue.Queue[string], tasks []*ChannelTask, onTick func(now time.Time)) {
	tick := time.NewTicker(time.Duration(config.CycleIntervalMs) * time.Millisecond)
	defer tick.Stop()
	for now := range tick.C {
		r.Cycle(now)
		for {
			line, ok := outQueue.Pop()
			if !ok {
				break
			}
			for _, t := range tasks {
				t.WriteLine(line)
			}
		}
		if onTick != nil {
			onTick(now)
		}
	}
}
