// Package trail keeps the most recent positions of a body for path
// rendering. Storage is a fixed-capacity ring: pushing onto a full ring
// overwrites the oldest entry, so memory never grows after construction.
package trail

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

func New[T any](capacity int) (*Ring[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("trail capacity %d: %w", capacity, dynamo.ErrParameterBounds)
	}
	return &Ring[T]{buf: make([]T, capacity)}, nil
}

// Push appends v, evicting the oldest entry when full.
func (r *Ring[T]) Push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring[T]) Len() int { return r.size }
func (r *Ring[T]) Cap() int { return len(r.buf) }

// At returns the i-th entry, 0 being the oldest.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("trail: index %d out of range [0,%d)", i, r.size))
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

// Last returns the newest entry.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.At(r.size - 1), true
}

// Points copies the contents out, oldest first.
func (r *Ring[T]) Points() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Do calls fn for each entry, oldest first, without copying.
func (r *Ring[T]) Do(fn func(i int, v T)) {
	for i := 0; i < r.size; i++ {
		fn(i, r.buf[(r.start+i)%len(r.buf)])
	}
}

func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start, r.size = 0, 0
}
