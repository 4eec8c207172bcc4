package transport

import (
	"testing"
	"time"
)

func TestArbitrationBasic(t *testing.T) {
	m := NewMultiplexer()
	now := time.Now()

	if !m.CommandReceived(Usb, now) {
		t.Fatal("first command on USB should be accepted")
	}
	if !m.ShouldWriteTo(Usb) {
		t.Fatal("USB should be active")
	}
	if m.CommandReceived(Uart, now.Add(time.Second)) {
		t.Fatal("UART should be rejected while USB is active and not idle")
	}
	if !m.ShouldWriteTo(Usb) {
		t.Fatal("USB should remain active after a rejected UART command")
	}
}

func TestArbitrationAfterIdleTimeout(t *testing.T) {
	m := NewMultiplexer()
	now := time.Now()
	m.CommandReceived(Usb, now)

	later := now.Add(IdleTimeout)
	if !m.CommandReceived(Uart, later) {
		t.Fatal("UART should be accepted once idle timeout has elapsed")
	}
	if !m.ShouldWriteTo(Uart) {
		t.Fatal("UART should now be active")
	}
}

func TestResetReturnsToNoneAndIdle(t *testing.T) {
	m := NewMultiplexer()
	now := time.Now()
	m.CommandReceived(Usb, now)
	m.Reset()
	if m.Active() != None {
		t.Fatalf("after Reset active = %v, want None", m.Active())
	}
	if !m.IsIdle(now) {
		t.Fatal("after Reset, IsIdle should be true")
	}
}

func TestIsIdleBeforeAnyActivity(t *testing.T) {
	m := NewMultiplexer()
	if !m.IsIdle(time.Now()) {
		t.Fatal("a fresh Multiplexer with no activity should be idle")
	}
}
