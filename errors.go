package memilio

import "errors"

// Sentinel errors of the trajectory and damping types. Functions whose
// failure depends on runtime data return them wrapped; index and shape
// misuse panics with the wrapped value instead.
var (
	ErrNegativeLength  = errors.New("memilio: negative element count")
	ErrVectorLength    = errors.New("memilio: value length does not match element count")
	ErrIndexOutOfRange = errors.New("memilio: index out of range")
	ErrEmptySeries     = errors.New("memilio: time series is empty")
	ErrBadDimension    = errors.New("memilio: nonpositive matrix dimension")
	ErrShapeMismatch   = errors.New("memilio: matrix dimensions do not match model shape")
	ErrNilMatrix       = errors.New("memilio: nil matrix")
	ErrEmptyGroup      = errors.New("memilio: contact matrix group needs at least one matrix")
	ErrNilArgument     = errors.New("memilio: nil argument")
	ErrInvalidSpan     = errors.New("memilio: invalid simulation span")
)
