package memilio

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// SmootherCosine returns the cosine interpolation between (xLeft, yLeft)
// and (xRight, yRight) evaluated at x. Outside the window the nearer
// boundary value is returned.
func SmootherCosine(x, xLeft, xRight, yLeft, yRight float64) float64 {
	if x <= xLeft {
		return yLeft
	}
	if x >= xRight {
		return yRight
	}
	return 0.5*(yLeft-yRight)*math.Cos(math.Pi/(xRight-xLeft)*(x-xLeft)) + 0.5*(yLeft+yRight)
}

// smootherCosineMatrix writes the elementwise cosine interpolation between
// the equally sized matrices yLeft and yRight into dst. dst may alias
// either operand.
func smootherCosineMatrix(dst *mat64.Dense, x, xLeft, xRight float64, yLeft, yRight *mat64.Dense) {
	rows, cols := yLeft.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst.Set(i, j, SmootherCosine(x, xLeft, xRight, yLeft.At(i, j), yRight.At(i, j)))
		}
	}
}

// nextPow2 returns the smallest power of two at or above n, or zero for
// nonpositive n.
func nextPow2(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
