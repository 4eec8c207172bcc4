package telemetry

import (
	"testing"
	"time"
)

func TestSchedulerEdgeTriggered(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(time.Second)
	s.Enable(now)

	if s.ShouldEmit(now) {
		t.Fatal("should not fire immediately after Enable")
	}
	if s.ShouldEmit(now.Add(500 * time.Millisecond)) {
		t.Fatal("should not fire before one period has elapsed")
	}
	if !s.ShouldEmit(now.Add(1000 * time.Millisecond)) {
		t.Fatal("should fire exactly at one period")
	}
	if s.ShouldEmit(now.Add(1000 * time.Millisecond)) {
		t.Fatal("should not fire twice for the same instant")
	}
	if !s.ShouldEmit(now.Add(2000 * time.Millisecond)) {
		t.Fatal("should fire again after a second period")
	}
}

func TestSchedulerDisabled(t *testing.T) {
	s := NewScheduler(time.Second)
	if s.ShouldEmit(time.Now().Add(time.Hour)) {
		t.Fatal("a never-enabled scheduler should never fire")
	}
}

func TestSchedulerResyncsAfterLongStall(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(time.Second)
	s.Enable(now)

	farFuture := now.Add(time.Hour)
	if !s.ShouldEmit(farFuture) {
		t.Fatal("should fire once after a long stall")
	}
	if s.ShouldEmit(farFuture.Add(10 * time.Millisecond)) {
		t.Fatal("should not immediately fire again after resync")
	}
}
