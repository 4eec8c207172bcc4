// Package roaster implements the Roaster core (C7, §4.7): the singleton
// that owns SystemStatus, runs the 10 Hz cycle, drains the command queue
// through the handler chain, reads sensors, enforces the overtemp/sensor-
// timeout safety net, drives the PID loop, and applies output to the
// peripheral capabilities.
package roaster

import (
	"time"

	"roastercore/config"
	"roastercore/handler"
	"roastercore/internal/bus"
	"roastercore/internal/mathx"
	"roastercore/peripheral"
	"roastercore/pidctl"
	"roastercore/protocol"
	"roastercore/queue"
	"roastercore/roastererr"
	"roastercore/roasterstate"
	"roastercore/telemetry"
	"roastercore/transport"
)

// maxDrainPerCycle bounds how many queued commands one Cycle call drains,
// so a burst of traffic can't starve the rest of the cycle; the command
// queue's own capacity (§4.4) already makes this generous.
const maxDrainPerCycle = queue.CommandQueueCapacity

// Roaster wires the handler chain, PID loop, telemetry formatter/
// scheduler, and peripheral capabilities into the one cycle described by
// §4.7.
type Roaster struct {
	status *roasterstate.SystemStatus
	chain  *handler.Chain
	pid    *pidctl.Controller

	formatter *telemetry.Formatter
	scheduler *telemetry.Scheduler

	beanThermometer peripheral.Thermometer
	envThermometer  peripheral.Thermometer
	heater          peripheral.Heater
	fan             peripheral.Fan

	cmdQueue *queue.Queue[protocol.Command]
	outQueue *queue.Queue[string]

	diag *bus.Bus

	lastTempRead     time.Time
	haveLastTempRead bool
	lastPIDUpdate    time.Time
	havePIDUpdate    bool
	wasStreaming     bool

	// Recorded-only preferences (§4.1, §9): never affect internal units
	// or control behaviour.
	recordedChan   uint16
	recordedUnitsF bool
	recordedFilt   uint8
	handshake      transport.Handshake
}

// Peripherals groups the four capability-set dependencies the core needs
// from hardware (§4.9).
type Peripherals struct {
	BeanThermometer peripheral.Thermometer
	EnvThermometer  peripheral.Thermometer
	Heater          peripheral.Heater
	Fan             peripheral.Fan
}

// New builds a Roaster with a fresh default SystemStatus, the standard
// Safety→Temperature→Manual→System handler chain, and the given
// peripherals and queues. diag may be nil.
func New(now time.Time, tn config.Tunables, p Peripherals, cmdQueue *queue.Queue[protocol.Command], outQueue *queue.Queue[string], diag *bus.Bus) *Roaster {
	status := roasterstate.New()
	pid := pidctl.New(tn.PidGains, tn.MaxSafeTemp)
	formatter := telemetry.NewFormatter(now)
	scheduler := telemetry.NewScheduler(time.Duration(tn.TelemetryPeriodMs) * time.Millisecond)

	chain := handler.NewChain(
		handler.NewSafetyHandler(diag),
		handler.NewTemperatureHandler(pid, formatter),
		handler.NewManualHandler(),
		handler.NewSystemHandler(diag),
	)

	return &Roaster{
		status:          status,
		chain:           chain,
		pid:             pid,
		formatter:       formatter,
		scheduler:       scheduler,
		beanThermometer: p.BeanThermometer,
		envThermometer:  p.EnvThermometer,
		heater:          p.Heater,
		fan:             p.Fan,
		cmdQueue:        cmdQueue,
		outQueue:        outQueue,
		diag:            diag,
	}
}

// Status returns the live SystemStatus; callers must not retain it past
// the next Cycle without re-reading fields they care about.
func (r *Roaster) Status() *roasterstate.SystemStatus { return r.status }

// HandshakeComplete reports whether Artisan's CHAN/UNITS/FILT init trio has
// all been seen at least once. Diagnostics only (SPEC_FULL.md §4) — it
// never gates READ/START processing.
func (r *Roaster) HandshakeComplete() bool { return r.handshake.Complete() }

// ProcessCommand runs an internal RoasterCommand straight through the
// handler chain ("process_command", §4.7 step 1).
func (r *Roaster) ProcessCommand(cmd handler.Command, now time.Time) error {
	return r.chain.Dispatch(cmd, now, r.status)
}

// ProcessArtisanCommand adapts one wire Command ("process_artisan_command",
// §4.7) into the handler chain, or handles the record-only/READ-response
// commands that never reach the chain at all.
func (r *Roaster) ProcessArtisanCommand(cmd protocol.Command, now time.Time) error {
	switch c := cmd.(type) {
	case protocol.ReadStatus:
		r.enqueueReadResponse()
		return nil

	case protocol.StartRoast:
		return r.ProcessCommand(handler.StartRoast{Target: roasterstate.DefaultTargetTemp}, now)

	case protocol.EmergencyStop:
		return r.ProcessCommand(handler.EmergencyStop{}, now)

	case protocol.IncreaseHeater:
		return r.ProcessCommand(handler.IncreaseHeater{}, now)

	case protocol.DecreaseHeater:
		return r.ProcessCommand(handler.DecreaseHeater{}, now)

	case protocol.SetHeater:
		return r.ProcessCommand(handler.SetHeaterManual{Value: c.Value}, now)

	case protocol.SetFan:
		return r.ProcessCommand(handler.SetFanManual{Value: c.Value}, now)

	case protocol.SetFanSpeed:
		return r.ProcessCommand(handler.SetFanSpeed{Value: c.Value, WasClamped: c.WasClamped}, now)

	case protocol.Chan:
		r.recordedChan = c.Value
		r.handshake.SawChan = true
		r.outQueue.Push(r.formatter.ChanAck(c.Value))
		return nil

	case protocol.Units:
		// Recorded only; internal units stay Celsius (§9).
		r.recordedUnitsF = c.Fahrenheit
		r.handshake.SawUnits = true
		return nil

	case protocol.Filt:
		r.recordedFilt = c.Value
		r.handshake.SawFilt = true
		return nil
	}
	return roastererr.InvalidState
}

func (r *Roaster) enqueueReadResponse() {
	s := r.status
	if config.ReadFormatLong {
		r.outQueue.Push(r.formatter.ReadResponseLong(s.EnvTemp, s.BeanTemp, s.FanOutput, s.SSROutput))
		return
	}
	r.outQueue.Push(r.formatter.ReadResponseShort(s.EnvTemp, s.BeanTemp, s.SSROutput, s.FanOutput))
}

// Cycle runs one iteration of the 10 Hz control loop (§4.7 steps 1-7).
func (r *Roaster) Cycle(now time.Time) {
	r.drainCommands(now)
	r.readSensors(now)
	if r.safetyShutdownNeeded(now) {
		r.emergencyShutdown(now)
		return
	}
	heaterOut := r.computeOutput(now)
	r.apply(heaterOut)
	r.advanceState()
	r.emitTelemetry(now)
}

// step 1: drain commands.
func (r *Roaster) drainCommands(now time.Time) {
	for i := 0; i < maxDrainPerCycle; i++ {
		cmd, ok := r.cmdQueue.Pop()
		if !ok {
			return
		}
		if err := r.ProcessArtisanCommand(cmd, now); err != nil {
			r.outQueue.Push(telemetry.HandlerErrLine(err.Error()))
		}
	}
}

// step 2: read sensors. Calibration offsets are applied by the
// thermometer driver itself (peripheral.Thermocouple); a failed or
// out-of-range read is logged and the stale value is kept, matching
// §4.7's "proceed with stale values" for both I/O and validity failures.
// last_temp_read only advances on a good bean-temperature sample: a
// sensor that is merely slow (single transient failures, already retried
// inside the driver) doesn't trip the validity timeout, but one that
// stops producing good samples altogether eventually does.
func (r *Roaster) readSensors(now time.Time) {
	if bt, err := r.beanThermometer.ReadTemperature(); err == nil && validTemp(bt) {
		r.status.BeanTemp = bt
		r.lastTempRead = now
		r.haveLastTempRead = true
	} else {
		println("[roaster] bean temperature read failed or out of range; keeping stale value")
	}
	if et, err := r.envThermometer.ReadTemperature(); err == nil && validTemp(et) {
		r.status.EnvTemp = et
	} else {
		println("[roaster] env temperature read failed or out of range; keeping stale value")
	}
}

func validTemp(t float32) bool {
	return t == t && // not NaN
		t >= config.MinValidTemp && t <= config.MaxValidTemp
}

// step 3: safety checks.
func (r *Roaster) safetyShutdownNeeded(now time.Time) bool {
	overtemp := r.status.BeanTemp >= config.OvertempThreshold
	stale := r.haveLastTempRead &&
		now.Sub(r.lastTempRead) >= time.Duration(config.TempValidityTimeoutMs)*time.Millisecond
	return overtemp || stale
}

func (r *Roaster) emergencyShutdown(now time.Time) {
	r.status.State = roasterstate.EmergencyStop
	r.status.FaultCondition = true
	r.status.PidEnabled = false
	r.status.Streaming = false
	r.pid.Disable()

	_ = r.heater.SetPower(0)
	_ = r.fan.SetSpeed(config.CooldownFanSpeed)
	r.status.SSROutput = 0
	r.status.FanOutput = config.CooldownFanSpeed
	r.status.SSRHardwareStatus = r.heater.Status()

	if r.diag != nil {
		r.diag.Publish(&bus.Message{Topic: bus.TopicState, Payload: bus.StateEvent{To: roasterstate.EmergencyStop}})
		r.diag.Publish(&bus.Message{Topic: bus.TopicFault, Payload: bus.FaultEvent{Latched: true, Reason: "overtemp or sensor timeout"}})
	}
}

// step 4: compute the heater output to apply this cycle.
func (r *Roaster) computeOutput(now time.Time) float32 {
	s := r.status
	switch {
	case s.FaultCondition:
		return 0
	case s.ArtisanControl:
		return s.SSROutput
	case s.PidEnabled && s.SSRHardwareStatus == roasterstate.Available:
		due := !r.havePIDUpdate ||
			now.Sub(r.lastPIDUpdate) >= time.Duration(pidctl.NominalSamplePeriodMs)*time.Millisecond
		if !due {
			return s.SSROutput
		}
		out := r.pid.Compute(s.BeanTemp, uint32(now.UnixMilli()))
		r.lastPIDUpdate = now
		r.havePIDUpdate = true
		return out
	default:
		return 0
	}
}

// step 5: apply output to hardware and mirror hardware status back.
func (r *Roaster) apply(heaterOut float32) {
	heaterOut = mathx.Clamp(heaterOut, 0, 100)
	_ = r.heater.SetPower(heaterOut)
	r.status.SSROutput = heaterOut
	r.status.SSRHardwareStatus = r.heater.Status()

	fanOut := mathx.Clamp(r.status.FanOutput, 0, 100)
	_ = r.fan.SetSpeed(fanOut)
	r.status.FanOutput = fanOut
}

// step 6: heating-target tracking and the Cooling→Idle transition
// (§4.10; the Heating→Stable half of the table).
func (r *Roaster) advanceState() {
	s := r.status
	switch s.State {
	case roasterstate.Heating:
		if absF32(s.BeanTemp-s.TargetTemp) < config.HeatingToStableBand {
			s.State = roasterstate.Stable
		}
	case roasterstate.Cooling:
		if s.SSROutput == 0 {
			s.State = roasterstate.Idle
		}
	}
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// step 7: telemetry. The scheduler is armed/disarmed on the Streaming
// edge rather than every cycle, so a re-enable always gets a fresh
// interval instead of firing immediately on stale state.
func (r *Roaster) emitTelemetry(now time.Time) {
	streaming := r.status.Streaming
	if streaming != r.wasStreaming {
		if streaming {
			r.scheduler.Enable(now)
		} else {
			r.scheduler.Disable()
		}
		r.wasStreaming = streaming
	}
	if !streaming || !r.scheduler.ShouldEmit(now) {
		return
	}
	line := r.formatter.TelemetryLine(now, r.status.EnvTemp, r.status.BeanTemp, r.status.SSROutput)
	r.outQueue.Push(line)
}
