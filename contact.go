package memilio

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// MatrixEvaluator yields the effective matrix of a time-dependent model.
// Dampings, ContactMatrix and ContactMatrixGroup all satisfy it.
type MatrixEvaluator interface {
	MatrixAt(t float64) *mat64.Dense
}

// ContactMatrix modulates a baseline contact pattern B by the damping
// D(t) of its damping model, never dropping below a minimum pattern M:
// the effective pattern is B - D(t)*(B - M) elementwise.
type ContactMatrix struct {
	baseline *mat64.Dense
	minimum  *mat64.Dense
	dampings *Dampings
}

// NewContactMatrix returns a contact matrix with a copy of baseline and a
// zero minimum.
func NewContactMatrix(baseline *mat64.Dense) (*ContactMatrix, error) {
	if baseline == nil {
		return nil, fmt.Errorf("%w: baseline", ErrNilMatrix)
	}
	r, c := baseline.Dims()
	return NewContactMatrixWithMinimum(baseline, mat64.NewDense(r, c, nil))
}

// NewContactMatrixWithMinimum returns a contact matrix with copies of the
// given baseline and minimum patterns, which must have equal dimensions.
func NewContactMatrixWithMinimum(baseline, minimum *mat64.Dense) (*ContactMatrix, error) {
	if baseline == nil || minimum == nil {
		return nil, fmt.Errorf("%w: baseline and minimum", ErrNilMatrix)
	}
	br, bc := baseline.Dims()
	mr, mc := minimum.Dims()
	if br != mr || bc != mc {
		return nil, fmt.Errorf("%w: baseline %dx%d, minimum %dx%d", ErrShapeMismatch, br, bc, mr, mc)
	}
	return &ContactMatrix{
		baseline: mat64.DenseCopyOf(baseline),
		minimum:  mat64.DenseCopyOf(minimum),
		dampings: NewDampings(RectShape(br, bc)),
	}, nil
}

// Shape returns the dimensions of the contact pattern.
func (c *ContactMatrix) Shape() Shape { return c.dampings.Shape() }

// Baseline returns the undamped contact pattern.
func (c *ContactMatrix) Baseline() *mat64.Dense { return c.baseline }

// Minimum returns the pattern remaining under full damping.
func (c *ContactMatrix) Minimum() *mat64.Dense { return c.minimum }

// Dampings returns the damping model modulating this contact matrix.
func (c *ContactMatrix) Dampings() *Dampings { return c.dampings }

// AddDamping inserts a matrix change point into the damping model.
func (c *ContactMatrix) AddDamping(value *mat64.Dense, level DampingLevel, typ DampingType, t float64) error {
	return c.dampings.Add(value, level, typ, t)
}

// AddScalarDamping broadcasts v to the pattern shape and inserts it as a
// change point.
func (c *ContactMatrix) AddScalarDamping(v float64, level DampingLevel, typ DampingType, t float64) {
	c.dampings.AddScalar(v, level, typ, t)
}

// MatrixAt returns the effective contact pattern at time t.
func (c *ContactMatrix) MatrixAt(t float64) *mat64.Dense {
	out := c.Shape().zeroDense()
	out.Sub(c.baseline, c.minimum)
	out.MulElem(c.dampings.MatrixAt(t), out)
	out.Sub(c.baseline, out)
	return out
}

// ContactMatrixGroup sums several contact matrices of one shape, one per
// contact location such as homes, schools or workplaces.
type ContactMatrixGroup struct {
	matrices []*ContactMatrix
}

// NewContactMatrixGroup returns a group over the given matrices, which
// must all share one shape.
func NewContactMatrixGroup(matrices ...*ContactMatrix) (*ContactMatrixGroup, error) {
	if len(matrices) == 0 {
		return nil, ErrEmptyGroup
	}
	shape := matrices[0].Shape()
	for i, m := range matrices[1:] {
		if m.Shape() != shape {
			return nil, fmt.Errorf("%w: matrix 0 is %v, matrix %d is %v", ErrShapeMismatch, shape, i+1, m.Shape())
		}
	}
	return &ContactMatrixGroup{matrices: matrices}, nil
}

// Len returns the number of matrices in the group.
func (g *ContactMatrixGroup) Len() int { return len(g.matrices) }

// At returns the i-th contact matrix of the group.
func (g *ContactMatrixGroup) At(i int) *ContactMatrix {
	if i < 0 || i >= len(g.matrices) {
		panic(fmt.Errorf("%w: group matrix %d of %d", ErrIndexOutOfRange, i, len(g.matrices)))
	}
	return g.matrices[i]
}

// Shape returns the common shape of the grouped matrices.
func (g *ContactMatrixGroup) Shape() Shape { return g.matrices[0].Shape() }

// MatrixAt returns the elementwise sum of the effective patterns of all
// grouped matrices at time t.
func (g *ContactMatrixGroup) MatrixAt(t float64) *mat64.Dense {
	out := g.matrices[0].MatrixAt(t)
	for _, m := range g.matrices[1:] {
		out.Add(out, m.MatrixAt(t))
	}
	return out
}
