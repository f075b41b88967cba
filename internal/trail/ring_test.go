package trail

import (
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/threebody/internal/dynamo"
)

func TestRingRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := New[int](c); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("capacity %d: got %v", c, err)
		}
	}
}

func TestRingEvictsOldest(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes int
		want   []int
	}{
		{"empty", 3, 0, []int{}},
		{"partial", 3, 2, []int{0, 1}},
		{"exactly full", 3, 3, []int{0, 1, 2}},
		{"wrapped once", 3, 4, []int{1, 2, 3}},
		{"wrapped many", 3, 10, []int{7, 8, 9}},
		{"capacity one", 1, 5, []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New[int](tt.cap)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < tt.pushes; i++ {
				r.Push(i)
			}
			if got := r.Points(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Points() = %v, want %v", got, tt.want)
			}
			if r.Len() != len(tt.want) || r.Cap() != tt.cap {
				t.Errorf("Len/Cap = %d/%d", r.Len(), r.Cap())
			}
		})
	}
}

func TestRingAccessors(t *testing.T) {
	r, _ := New[string](2)
	if _, ok := r.Last(); ok {
		t.Error("Last on empty ring should report false")
	}

	r.Push("a")
	r.Push("b")
	r.Push("c")

	if r.At(0) != "b" || r.At(1) != "c" {
		t.Errorf("At: %q %q", r.At(0), r.At(1))
	}
	if last, _ := r.Last(); last != "c" {
		t.Errorf("Last = %q", last)
	}

	var seen []string
	r.Do(func(i int, v string) { seen = append(seen, v) })
	if !reflect.DeepEqual(seen, []string{"b", "c"}) {
		t.Errorf("Do visited %v", seen)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset did not empty the ring")
	}
	r.Push("d")
	if r.At(0) != "d" {
		t.Error("ring unusable after Reset")
	}
}

func TestRingAtOutOfRangePanics(t *testing.T) {
	r, _ := New[int](2)
	r.Push(1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.At(1)
}
