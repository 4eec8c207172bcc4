// Package telemetry renders the Artisan-facing output lines and paces
// their emission: the response/telemetry formatter (§4.2) and the
// fixed-interval scheduler (§4.8) share this package, as they share one
// concern — what to emit and when.
package telemetry

import (
	"time"

	"roastercore/internal/fmtx"
)

// rorHistoryLen is the bounded ROR ring length, N=5 (§3).
const rorHistoryLen = 5

// Formatter holds the monotonic start time (reset on roast start) and the
// bean-temperature history used to compute rate-of-rise.
type Formatter struct {
	startTime time.Time

	rorHistory []float32 // FIFO, oldest first, bounded to rorHistoryLen

	lastBT     float32
	haveLastBT bool
	lastDeltaBT float32
}

// NewFormatter returns a Formatter with its clock started at now.
func NewFormatter(now time.Time) *Formatter {
	f := &Formatter{}
	f.Reset(now)
	return f
}

// Reset restarts the elapsed-time clock and clears ROR/delta-BT history.
// Called by StartRoast's non-idempotent path (SPEC_FULL.md §4).
func (f *Formatter) Reset(now time.Time) {
	f.startTime = now
	f.rorHistory = f.rorHistory[:0]
	f.haveLastBT = false
	f.lastBT = 0
	f.lastDeltaBT = 0
}

// LastDeltaBT returns the most recent bean-temperature delta recorded by
// TelemetryLine (current sample minus previous sample). Diagnostics only
// — not part of the 5-field wire format (SPEC_FULL.md §4).
func (f *Formatter) LastDeltaBT() float32 { return f.lastDeltaBT }

// ROR returns the current rate-of-rise without recording a new sample:
// (newest-oldest)/(n-1) over the bounded history, or 0 when fewer than 2
// samples have been recorded.
func (f *Formatter) ROR() float32 {
	n := len(f.rorHistory)
	if n < 2 {
		return 0
	}
	return (f.rorHistory[n-1] - f.rorHistory[0]) / float32(n-1)
}

func (f *Formatter) recordBT(bt float32) {
	if f.haveLastBT {
		f.lastDeltaBT = bt - f.lastBT
	} else {
		f.lastDeltaBT = 0
	}
	f.lastBT = bt
	f.haveLastBT = true

	f.rorHistory = append(f.rorHistory, bt)
	if len(f.rorHistory) > rorHistoryLen {
		f.rorHistory = f.rorHistory[1:]
	}
}

// elapsed formats seconds-since-start as "<secs>.<hundredths>".
func (f *Formatter) elapsed(now time.Time) string {
	ms := now.Sub(f.startTime).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	hundredths := (ms % 1000) / 10
	return fmtx.Sprintf("%d.%02d", secs, hundredths)
}

// TelemetryLine renders one streamed sample and records bt into the ROR
// history — call exactly once per emitted sample (§4.2).
func (f *Formatter) TelemetryLine(now time.Time, et, bt, gas float32) string {
	f.recordBT(bt)
	return fmtx.Sprintf("%s,%s,%s,%s,%s",
		f.elapsed(now),
		fmtx.FormatFixed(et, 1),
		fmtx.FormatFixed(bt, 1),
		fmtx.FormatFixed(f.ROR(), 2),
		fmtx.FormatFixed(gas, 1),
	)
}

// ReadResponseShort renders the four-field READ reply.
func (f *Formatter) ReadResponseShort(et, bt, power, fan float32) string {
	return fmtx.Sprintf("%s,%s,%s,%s",
		fmtx.FormatFixed(et, 1),
		fmtx.FormatFixed(bt, 1),
		fmtx.FormatFixed(power, 1),
		fmtx.FormatFixed(fan, 1),
	)
}

// ReadResponseLong renders the seven-field READ reply; positions 3..5 are
// literal "-1" placeholders for a future ET2/BT2/ambient channel (§4.2).
func (f *Formatter) ReadResponseLong(et, bt, fan, heater float32) string {
	return fmtx.Sprintf("%s,%s,-1,-1,-1,%s,%s",
		fmtx.FormatFixed(et, 1),
		fmtx.FormatFixed(bt, 1),
		fmtx.FormatFixed(fan, 1),
		fmtx.FormatFixed(heater, 1),
	)
}

// ChanAck renders the "#<u16>" acknowledgement for CHAN;<v>.
func (f *Formatter) ChanAck(v uint16) string {
	return fmtx.Sprintf("#%d", v)
}

// ErrLine renders "ERR <code> <message>" for a parse failure.
func ErrLine(code, message string) string {
	return fmtx.Sprintf("ERR %s %s", code, message)
}

// HandlerErrLine renders "ERR handler_failed <token>" for a handler-chain
// failure (§6, §7).
func HandlerErrLine(token string) string {
	return fmtx.Sprintf("ERR handler_failed %s", token)
}
