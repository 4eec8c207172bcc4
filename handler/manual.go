package handler

import (
	"time"

	"roastercore/internal/mathx"
	"roastercore/roasterstate"
)

// manualStep is the UP/DOWN increment, 5 percentage points (§4.5 #3).
const manualStep = 5

// ManualHandler claims the fan/increment commands (§4.5 #3). It does not
// claim SetHeaterManual: Temperature already handles that command and
// wins by priority, so a second branch here would be dead code — spec.md
// §4.5's note on the overlap explicitly allows collapsing to one handler.
type ManualHandler struct{}

// NewManualHandler returns the manual/Artisan handler.
func NewManualHandler() *ManualHandler { return &ManualHandler{} }

func (*ManualHandler) CanHandle(cmd Command) bool {
	switch cmd.(type) {
	case SetFanManual, SetFanSpeed, IncreaseHeater, DecreaseHeater:
		return true
	}
	return false
}

func (*ManualHandler) Handle(cmd Command, now time.Time, status *roasterstate.SystemStatus) error {
	switch c := cmd.(type) {
	case SetFanManual:
		status.FanOutput = float32(c.Value)
		return nil

	case SetFanSpeed:
		status.FanOutput = float32(c.Value)
		if c.WasClamped {
			// §4.1: an out-of-range OT2 argument stops the heater.
			status.SSROutput = 0
		}
		return nil

	case IncreaseHeater:
		status.EnableArtisanControl()
		status.SSROutput = mathx.Clamp(status.SSROutput+manualStep, 0, 100)
		return nil

	case DecreaseHeater:
		status.EnableArtisanControl()
		status.SSROutput = mathx.Clamp(status.SSROutput-manualStep, 0, 100)
		return nil
	}
	return nil
}
