package protocol

import (
	"strings"
	"testing"
)

func mustParseErr(t *testing.T, line string) ParseError {
	t.Helper()
	_, err := Parse(line)
	pe, ok := err.(ParseError)
	if !ok {
		t.Fatalf("Parse(%q) returned non-ParseError %v (err=%v)", line, err, err)
	}
	return pe
}

func TestWhitespaceForm(t *testing.T) {
	cases := []struct {
		in   string
		want Command
	}{
		{"READ", ReadStatus{}},
		{"  READ  ", ReadStatus{}},
		{"START", StartRoast{}},
		{"STOP", EmergencyStop{}},
		{"UP", IncreaseHeater{}},
		{"up", IncreaseHeater{}},
		{"DOWN", DecreaseHeater{}},
		{"OT1 0", SetHeater{Value: 0}},
		{"OT1 100", SetHeater{Value: 100}},
		{"IO3 42", SetFan{Value: 42}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestOT1Boundaries(t *testing.T) {
	if got, err := Parse("OT1 101"); err == nil || mustParseErr(t, "OT1 101").Kind != OutOfRange {
		t.Fatalf("OT1 101 = %v, %v; want OutOfRange", got, err)
	}
	if mustParseErr(t, "OT1 abc").Kind != InvalidValue {
		t.Fatalf("OT1 abc: want InvalidValue")
	}
	if mustParseErr(t, "OT1").Kind != InvalidValue {
		t.Fatalf("OT1 (no arg): want InvalidValue")
	}
}

func TestIO3Boundaries(t *testing.T) {
	if mustParseErr(t, "IO3 101").Kind != OutOfRange {
		t.Fatalf("IO3 101: want OutOfRange")
	}
	if mustParseErr(t, "IO3 abc").Kind != InvalidValue {
		t.Fatalf("IO3 abc: want InvalidValue")
	}
	if mustParseErr(t, "IO3").Kind != InvalidValue {
		t.Fatalf("IO3 (no arg): want InvalidValue")
	}
}

func TestOT2RoundingAndClamp(t *testing.T) {
	cases := []struct {
		in   string
		want SetFanSpeed
	}{
		{"OT2", SetFanSpeed{0, false}},
		{"OT2 -5", SetFanSpeed{0, true}},
		{"OT2 150", SetFanSpeed{100, true}},
		{"OT2 50.5", SetFanSpeed{51, false}},
		{"OT2 50.4", SetFanSpeed{50, false}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", c.in, err)
		}
		sfs, ok := got.(SetFanSpeed)
		if !ok {
			t.Fatalf("Parse(%q) = %#v, want SetFanSpeed", c.in, got)
		}
		if sfs != c.want {
			t.Fatalf("Parse(%q) = %#v, want %#v", c.in, sfs, c.want)
		}
	}
}

func TestSemicolonForm(t *testing.T) {
	if got, err := Parse("CHAN;2"); err != nil || got != (Chan{Value: 2}) {
		t.Fatalf("CHAN;2 = %v, %v", got, err)
	}
	if got, err := Parse("UNITS;C"); err != nil || got != (Units{Fahrenheit: false}) {
		t.Fatalf("UNITS;C = %v, %v", got, err)
	}
	if got, err := Parse("UNITS;f"); err != nil || got != (Units{Fahrenheit: true}) {
		t.Fatalf("UNITS;f = %v, %v", got, err)
	}
	if mustParseErr(t, "UNITS;X").Kind != InvalidValue {
		t.Fatalf("UNITS;X: want InvalidValue")
	}
	if got, err := Parse("FILT;7"); err != nil || got != (Filt{Value: 7}) {
		t.Fatalf("FILT;7 = %v, %v", got, err)
	}
	if mustParseErr(t, "BOGUS;1").Kind != UnknownCommand {
		t.Fatalf("BOGUS;1: want UnknownCommand")
	}
}

func TestUnknownAndEmpty(t *testing.T) {
	if mustParseErr(t, "BOGUS").Kind != UnknownCommand {
		t.Fatalf("BOGUS: want UnknownCommand")
	}
	if mustParseErr(t, "").Kind != EmptyCommand {
		t.Fatalf("empty: want EmptyCommand")
	}
	if mustParseErr(t, "   ").Kind != EmptyCommand {
		t.Fatalf("whitespace-only: want EmptyCommand")
	}
}

// Scenario 6 from spec.md §8: literal wire-level error surfaces.
func TestScenario6ErrorSurfaces(t *testing.T) {
	cases := []struct {
		in       string
		wantCode string
		wantMsg  string
	}{
		{"OT1 150", "out_of_range", "out_of_range"},
		{"BOGUS", "unknown_command", "unknown_command"},
		{"", "invalid_value", "empty_command"},
	}
	for _, c := range cases {
		pe := mustParseErr(t, c.in)
		if pe.Code() != c.wantCode || pe.Message() != c.wantMsg {
			t.Fatalf("Parse(%q) code/message = %q/%q, want %q/%q", c.in, pe.Code(), pe.Message(), c.wantCode, c.wantMsg)
		}
	}
}

func TestParseIsPureAndTrimInvariant(t *testing.T) {
	inputs := []string{"READ", "  READ  ", "OT1 55", "oT2 12.3", "CHAN;9", ""}
	for _, in := range inputs {
		a, errA := Parse(in)
		b, errB := Parse(strings.TrimSpace(in))
		if a != b || (errA == nil) != (errB == nil) {
			t.Fatalf("Parse not invariant under trim for %q: (%v,%v) vs (%v,%v)", in, a, errA, b, errB)
		}
		// determinism
		c, errC := Parse(in)
		if a != c || (errA == nil) != (errC == nil) {
			t.Fatalf("Parse not deterministic for %q", in)
		}
	}
}
