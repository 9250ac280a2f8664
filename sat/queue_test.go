package sat

import (
	"reflect"
	"testing"
)

func TestQueuePushWithResizeAndRotation(t *testing.T) {
	q := &Queue[int]{
		ring:  []int{3, 4, 1, 2},
		start: 2,
		end:   2,
		size:  4,
		mask:  0b11,
	}
	want := &Queue[int]{
		ring:  []int{1, 2, 3, 4, 5, 0, 0, 0},
		start: 0,
		end:   5,
		size:  5,
		mask:  0b111,
	}

	q.Push(5)

	if !reflect.DeepEqual(want, q) {
		t.Errorf("Mismatch: want %#v, got %#v", want, q)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int](2)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	for want := 1; want <= 5; want++ {
		if got := q.Pop(); got != want {
			t.Fatalf("Pop(): got %d, want %d", got, want)
		}
	}
	if !q.IsEmpty() {
		t.Error("queue not empty after popping every element")
	}
}
