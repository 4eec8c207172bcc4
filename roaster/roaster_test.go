package roaster

import (
	"testing"
	"time"

	"roastercore/config"
	"roastercore/peripheral"
	"roastercore/protocol"
	"roastercore/queue"
)

type testRig struct {
	r        *Roaster
	bean     *peripheral.FakeThermometer
	env      *peripheral.FakeThermometer
	heaterPWM *peripheral.FakePWMChannel
	fanPWM   *peripheral.FakePWMChannel
	presence *peripheral.FakePresenceInput
	cmdQ     *queue.Queue[protocol.Command]
	outQ     *queue.Queue[string]
}

func newTestRig(now time.Time) *testRig {
	bean := peripheral.NewFakeThermometer(20)
	env := peripheral.NewFakeThermometer(20)
	heaterPWM := &peripheral.FakePWMChannel{}
	fanPWM := &peripheral.FakePWMChannel{}
	presence := peripheral.NewFakePresenceInput(true)

	heater := peripheral.NewSSRHeater(heaterPWM, presence)
	fan := peripheral.NewPWMFan(fanPWM)

	cmdQ := queue.New[protocol.Command](queue.CommandQueueCapacity)
	outQ := queue.New[string](queue.OutputQueueCapacity)

	r := New(now, config.DefaultTunables(), Peripherals{
		BeanThermometer: bean,
		EnvThermometer:  env,
		Heater:          heater,
		Fan:             fan,
	}, cmdQ, outQ, nil)

	return &testRig{r: r, bean: bean, env: env, heaterPWM: heaterPWM, fanPWM: fanPWM, presence: presence, cmdQ: cmdQ, outQ: outQ}
}

func (rig *testRig) send(cmd protocol.Command) {
	rig.cmdQ.Push(cmd)
}

func (rig *testRig) popOutput(t *testing.T) string {
	t.Helper()
	line, ok := rig.outQ.Pop()
	if !ok {
		t.Fatal("expected an output-queue line, got none")
	}
	return line
}

func TestReadReply(t *testing.T) {
	now := time.Unix(0, 0)
	rig := newTestRig(now)
	s := rig.r.Status()
	s.EnvTemp, s.BeanTemp, s.SSROutput, s.FanOutput = 120.3, 150.5, 75.0, 25.0

	rig.send(protocol.ReadStatus{})
	rig.r.Cycle(now)

	// Cycle drains the command queue before it re-reads the sensors (the
	// fakes report 20.0), so the READ line reflects the status set just
	// above.
	got := rig.popOutput(t)
	if got != "120.3,150.5,75.0,25.0" {
		t.Fatalf("READ reply = %q, want %q", got, "120.3,150.5,75.0,25.0")
	}
}

func TestStartStopIdempotence(t *testing.T) {
	now := time.Unix(0, 0)
	rig := newTestRig(now)

	rig.send(protocol.StartRoast{})
	rig.r.Cycle(now)
	s := rig.r.Status()
	if s.State.String() != "heating" || !s.Streaming {
		t.Fatalf("after START: state=%v streaming=%v", s.State, s.Streaming)
	}

	rig.send(protocol.StartRoast{})
	rig.r.Cycle(now.Add(100 * time.Millisecond))
	if s.TargetTemp != 225.0 {
		t.Fatalf("second START changed target to %v", s.TargetTemp)
	}

	for rig.outQ.Len() > 0 {
		rig.outQ.Pop()
	}
	rig.send(protocol.EmergencyStop{})
	rig.r.Cycle(now.Add(200 * time.Millisecond))
	if !s.FaultCondition || s.State.String() != "emergency_stop" {
		t.Fatalf("after STOP(emergency): fault=%v state=%v", s.FaultCondition, s.State)
	}
}

func TestOvertempEmergencyShutdown(t *testing.T) {
	now := time.Unix(0, 0)
	rig := newTestRig(now)
	rig.bean.Set(265.0)
	rig.env.Set(0.0)

	rig.r.Cycle(now)

	s := rig.r.Status()
	if s.State.String() != "emergency_stop" {
		t.Fatalf("state = %v, want emergency_stop", s.State)
	}
	if s.SSROutput != 0 {
		t.Fatalf("ssr_output = %v, want 0", s.SSROutput)
	}
	if s.FanOutput != 100.0 {
		t.Fatalf("fan_output = %v, want 100 (cool-down)", s.FanOutput)
	}

	rig.send(protocol.SetHeater{Value: 50})
	rig.r.Cycle(now.Add(100 * time.Millisecond))
	if s.SSROutput != 0 {
		t.Fatalf("ssr_output = %v after OT1 50 while latched, want 0", s.SSROutput)
	}

	rig.send(protocol.ReadStatus{})
	rig.r.Cycle(now.Add(200 * time.Millisecond))
	got := rig.popOutput(t)
	want := "0.0,265.0,0.0,100.0"
	if got != want {
		t.Fatalf("READ during fault = %q, want %q", got, want)
	}
}

func TestSensorTimeoutTriggersShutdown(t *testing.T) {
	now := time.Unix(0, 0)
	rig := newTestRig(now)
	rig.r.Cycle(now)

	rig.bean.SetError(errBeanStuck{})
	rig.r.Cycle(now.Add(1500 * time.Millisecond))

	s := rig.r.Status()
	if s.State.String() != "emergency_stop" {
		t.Fatalf("state = %v, want emergency_stop after stale read", s.State)
	}
}

type errBeanStuck struct{}

func (errBeanStuck) Error() string { return "bean thermocouple stuck" }

func TestParseErrorTokensFromScenario6(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"OT1 150", "out_of_range"},
		{"BOGUS", "unknown_command"},
		{"", "invalid_value"},
	}
	for _, c := range cases {
		cmd, err := protocol.Parse(c.line)
		_ = cmd
		pe, ok := err.(protocol.ParseError)
		if !ok {
			t.Fatalf("Parse(%q) err = %v, want ParseError", c.line, err)
		}
		if pe.Code() != c.want {
			t.Fatalf("Parse(%q) code = %q, want %q", c.line, pe.Code(), c.want)
		}
	}
}
