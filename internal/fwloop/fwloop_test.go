package fwloop

import (
	"bytes"
	"testing"
	"time"

	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/transport"
)

type fakePort struct {
	out bytes.Buffer
}

func (*fakePort) Read([]byte) (int, error) { return 0, nil }
func (p *fakePort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func newTask(id transport.Channel, mux *transport.Multiplexer) (*ChannelTask, *fakePort, *queue.Queue[protocol.Command]) {
	port := &fakePort{}
	cmdQueue := queue.New[protocol.Command](queue.CommandQueueCapacity)
	task := &ChannelTask{
		ID:        id,
		Port:      port,
		Assembler: transport.NewLineAssembler(),
		Mux:       mux,
		CmdQueue:  cmdQueue,
	}
	return task, port, cmdQueue
}

func TestIngestAndRouteValidCommand(t *testing.T) {
	mux := transport.NewMultiplexer()
	task, _, cmdQueue := newTask(transport.Uart, mux)

	task.IngestAndRoute([]byte("READ\r"), time.Now())

	cmd, ok := cmdQueue.Pop()
	if !ok {
		t.Fatal("expected a routed command")
	}
	if _, ok := cmd.(protocol.ReadStatus); !ok {
		t.Fatalf("routed command = %T, want protocol.ReadStatus", cmd)
	}
}

func TestIngestAndRouteParseErrorOnActiveChannel(t *testing.T) {
	mux := transport.NewMultiplexer()
	active, activePort, activeQueue := newTask(transport.Usb, mux)
	active.IngestAndRoute([]byte("READ\r"), time.Now())
	activePort.out.Reset()

	active.IngestAndRoute([]byte("BOGUS\r"), time.Now())

	if _, ok := activeQueue.Pop(); ok {
		t.Fatal("a parse error must never reach the command queue")
	}
	if activePort.out.Len() == 0 {
		t.Fatal("a parse error on the active channel must be written back")
	}
}

// §4.3: only the active channel ever sees an ERR line; a parse error on a
// channel that has lost arbitration is dropped silently, just like a
// lost-arbitration command.
func TestIngestAndRouteParseErrorOnLosingChannelIsSilent(t *testing.T) {
	mux := transport.NewMultiplexer()
	winner, _, _ := newTask(transport.Usb, mux)
	winner.IngestAndRoute([]byte("READ\r"), time.Now())

	loser, loserPort, loserQueue := newTask(transport.Uart, mux)
	loser.IngestAndRoute([]byte("BOGUS\r"), time.Now())

	if _, ok := loserQueue.Pop(); ok {
		t.Fatal("a parse error must never reach the command queue")
	}
	if loserPort.out.Len() != 0 {
		t.Fatal("a parse error on a channel that lost arbitration must not be written back")
	}
}

func TestIngestAndRouteQueueFullEmitsErrOnActiveChannel(t *testing.T) {
	mux := transport.NewMultiplexer()
	task, port, cmdQueue := newTask(transport.Usb, mux)
	for cmdQueue.Push(protocol.ReadStatus{}) {
	}
	port.out.Reset()

	task.IngestAndRoute([]byte("READ\r"), time.Now())

	if port.out.Len() == 0 {
		t.Fatal("a full command queue must emit an ERR line on the active channel")
	}
	want := "ERR invalid_value invalid_value\r\n"
	if got := port.out.String(); got != want {
		t.Fatalf("queue-full ERR line = %q, want %q", got, want)
	}
}

func TestIngestAndRouteLosingChannelDropsCommand(t *testing.T) {
	mux := transport.NewMultiplexer()
	winner, _, _ := newTask(transport.Usb, mux)
	winner.IngestAndRoute([]byte("READ\r"), time.Now())

	loser, _, loserQueue := newTask(transport.Uart, mux)
	loser.IngestAndRoute([]byte("READ\r"), time.Now())

	if _, ok := loserQueue.Pop(); ok {
		t.Fatal("a command from a channel that lost arbitration must be dropped")
	}
}

func TestWriteLineOnlyToActiveChannel(t *testing.T) {
	mux := transport.NewMultiplexer()
	active, activePort, _ := newTask(transport.Usb, mux)
	inactive, inactivePort, _ := newTask(transport.Uart, mux)
	active.IngestAndRoute([]byte("READ\r"), time.Now())

	active.WriteLine("120.0,150.0,0.0,0.0")
	inactive.WriteLine("120.0,150.0,0.0,0.0")

	if activePort.out.Len() == 0 {
		t.Fatal("active channel should have received the line")
	}
	if inactivePort.out.Len() != 0 {
		t.Fatal("inactive channel must not receive output")
	}
}
