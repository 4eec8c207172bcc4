package handler

import (
	"time"

	"roastercore/pidctl"
	"roastercore/roastererr"
	"roastercore/roasterstate"
	"roastercore/telemetry"
)

// TemperatureHandler owns PID target/enable/disable and claims the
// roast-lifecycle commands (§4.5 #2). StartRoast is idempotent: a second
// call while already streaming or PID-enabled preserves the running
// session instead of resetting the target.
type TemperatureHandler struct {
	pid       *pidctl.Controller
	formatter *telemetry.Formatter
}

// NewTemperatureHandler wires the handler to the shared PID controller
// and telemetry formatter it drives on StartRoast.
func NewTemperatureHandler(pid *pidctl.Controller, formatter *telemetry.Formatter) *TemperatureHandler {
	return &TemperatureHandler{pid: pid, formatter: formatter}
}

func (*TemperatureHandler) CanHandle(cmd Command) bool {
	switch cmd.(type) {
	case StartRoast, StopRoast, SetTemperature, SetHeaterManual:
		return true
	}
	return false
}

func (h *TemperatureHandler) Handle(cmd Command, now time.Time, status *roasterstate.SystemStatus) error {
	switch c := cmd.(type) {
	case StartRoast:
		if status.Streaming || status.PidEnabled {
			return nil
		}
		h.pid.SetTarget(c.Target)
		h.pid.Enable()
		status.TargetTemp = c.Target
		status.EnablePID()
		status.Streaming = true
		status.State = roasterstate.Heating
		h.formatter.Reset(now)
		return nil

	case StopRoast:
		h.pid.Disable()
		status.SSROutput = 0
		status.PidEnabled = false
		status.ArtisanControl = false
		status.Streaming = false
		if !status.State.Terminal() {
			status.State = roasterstate.Cooling
		}
		return nil

	case SetTemperature:
		h.pid.SetTarget(c.Target)
		status.TargetTemp = c.Target
		return nil

	case SetHeaterManual:
		if c.Value > 100 {
			return roastererr.InvalidState
		}
		h.pid.Disable()
		status.EnableArtisanControl()
		status.SSROutput = float32(c.Value)
		return nil
	}
	return roastererr.InvalidState
}
