package memilio

import "fmt"

// Range is a non-owning view over positions [first, last) of an indexed
// sequence. The accessor indexes the underlying storage, so mutations of
// the owner remain visible through the view, but the window is fixed at
// creation and the view must not outlive a reallocation of the owner.
type Range[T any] struct {
	first, last int
	at          func(i int) T
	reversed    bool
}

// MakeRange builds a view over positions [first, last) served by at. An
// inverted window yields an empty view.
func MakeRange[T any](first, last int, at func(i int) T) Range[T] {
	if last < first {
		last = first
	}
	return Range[T]{first: first, last: last, at: at}
}

// Len returns the number of positions in the view.
func (r Range[T]) Len() int { return r.last - r.first }

// At returns the element at offset i of the view.
func (r Range[T]) At(i int) T {
	if i < 0 || i >= r.Len() {
		panic(fmt.Errorf("%w: view offset %d of %d", ErrIndexOutOfRange, i, r.Len()))
	}
	if r.reversed {
		return r.at(r.last - 1 - i)
	}
	return r.at(r.first + i)
}

// Backward returns the same view walked in reverse order.
func (r Range[T]) Backward() Range[T] {
	r.reversed = !r.reversed
	return r
}

// Slice copies the viewed elements into a fresh slice.
func (r Range[T]) Slice() []T {
	out := make([]T, r.Len())
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}
