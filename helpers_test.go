package memilio

import (
	"errors"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// assertPanicIs checks that f panics with an error wrapping want.
func assertPanicIs(t *testing.T, want error, f func()) {
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("code did not panic")
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Errorf("panicked with %v, expected %v", r, want)
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], 1e-12) {
			return false
		}
	}
	return true
}

func matricesEqual(t *testing.T, name string, got, want mat64.Matrix, tol float64) {
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("%s: got %dx%d, expected %dx%d", name, gr, gc, wr, wc)
	}
	if !mat64.EqualApprox(got, want, tol) {
		t.Fatalf("%s:\ngot\n%v\nexpected\n%v", name, mat64.Formatted(got), mat64.Formatted(want))
	}
}

func dense(r, c int, v ...float64) *mat64.Dense {
	if len(v) == 0 {
		return mat64.NewDense(r, c, nil)
	}
	return mat64.NewDense(r, c, v)
}
