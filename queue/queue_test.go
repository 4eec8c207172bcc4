package queue

import "testing"

func TestPushPopOrder(t *testing.T) {
	q := New[int](CommandQueueCapacity)
	for i := 0; i < 3; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%d) should succeed", i)
		}
	}
	for i := 0; i < 3; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %v, %v; want %v, true", v, ok, i)
		}
	}
}

func TestPushDropsNewWhenFull(t *testing.T) {
	q := New[int](2)
	if !q.Push(1) || !q.Push(2) {
		t.Fatal("first two pushes should succeed")
	}
	if q.Push(3) {
		t.Fatal("push into a full queue should be dropped (return false)")
	}
	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("queue should still have its original items after a dropped push: %v, %v", v, ok)
	}
}

func TestPopOnEmptyQueue(t *testing.T) {
	q := New[string](4)
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue should return ok=false")
	}
}
