package memilio

import (
	"fmt"
	"sort"

	"github.com/gonum/matrix/mat64"
)

// DampingLevel separates independent groups of dampings. Levels combine
// multiplicatively into each other, so a fully damping level saturates the
// result no matter what the other levels contribute.
type DampingLevel int

// DampingType tags the cause of a damping. Within one level the values of
// all types add up.
type DampingType int

// Shape fixes the matrix dimensions a damping model accepts.
type Shape struct {
	rows, cols int
}

// RectShape returns the shape of r by c matrices.
func RectShape(r, c int) Shape {
	if r <= 0 || c <= 0 {
		panic(fmt.Errorf("%w: %dx%d", ErrBadDimension, r, c))
	}
	return Shape{rows: r, cols: c}
}

// SquareShape returns the shape of n by n matrices.
func SquareShape(n int) Shape { return RectShape(n, n) }

// VectorShape returns the shape of column vectors of n elements.
func VectorShape(n int) Shape { return RectShape(n, 1) }

// Rows returns the row count of the shape.
func (s Shape) Rows() int { return s.rows }

// Cols returns the column count of the shape.
func (s Shape) Cols() int { return s.cols }

// Matches reports whether m has exactly this shape.
func (s Shape) Matches(m mat64.Matrix) bool {
	r, c := m.Dims()
	return r == s.rows && c == s.cols
}

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.rows, s.cols) }

// zeroDense returns a zero matrix of the shape.
func (s Shape) zeroDense() *mat64.Dense { return mat64.NewDense(s.rows, s.cols, nil) }

// constDense returns a matrix of the shape with every element set to v.
func (s Shape) constDense(v float64) *mat64.Dense {
	m := s.zeroDense()
	if v != 0 {
		for i := 0; i < s.rows; i++ {
			for j := 0; j < s.cols; j++ {
				m.Set(i, j, v)
			}
		}
	}
	return m
}

// Damping is one matrix change point of a damping model.
type Damping struct {
	Value *mat64.Dense
	Level DampingLevel
	Type  DampingType
	Time  float64
}

// dampingKeyLess orders change points by (time, type, level).
func dampingKeyLess(a, b Damping) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Level < b.Level
}

type trackKey struct {
	level DampingLevel
	typ   DampingType
}

// accumPoint caches the combined damping of all tracks in effect at and
// after time, until the next accumPoint.
type accumPoint struct {
	time  float64
	value *mat64.Dense
}

// Dampings holds the time-dependent damping factors of one model as a
// sorted sequence of matrix change points and evaluates their combined
// effect over time. The zero effect before any change point is the zero
// matrix. Mutations rebuild an accumulated cache so that MatrixAt only
// reads, which keeps concurrent queries safe as long as nobody mutates.
type Dampings struct {
	shape   Shape
	entries []Damping
	accum   []accumPoint
}

// NewDampings returns an empty damping model accepting matrices of the
// given shape.
func NewDampings(shape Shape) *Dampings {
	return &Dampings{shape: shape}
}

// Shape returns the matrix shape this model accepts.
func (d *Dampings) Shape() Shape { return d.shape }

// Len returns the number of change points.
func (d *Dampings) Len() int { return len(d.entries) }

// Entries returns the change points ordered by (time, type, level). The
// matrix values alias the model storage and must be treated as read-only.
func (d *Dampings) Entries() Range[Damping] {
	return MakeRange(0, len(d.entries), func(i int) Damping { return d.entries[i] })
}

// Add inserts a copy of value as a change point taking effect at time t on
// the given level and type. Adding with an existing (time, level, type)
// replaces the previous value.
func (d *Dampings) Add(value *mat64.Dense, level DampingLevel, typ DampingType, t float64) error {
	if value == nil {
		return fmt.Errorf("%w: damping value", ErrNilMatrix)
	}
	if !d.shape.Matches(value) {
		r, c := value.Dims()
		return fmt.Errorf("%w: got %dx%d, want %v", ErrShapeMismatch, r, c, d.shape)
	}
	d.insert(Damping{Value: mat64.DenseCopyOf(value), Level: level, Type: typ, Time: t})
	d.rebuild()
	return nil
}

// AddScalar broadcasts v to the model shape and inserts it like Add.
func (d *Dampings) AddScalar(v float64, level DampingLevel, typ DampingType, t float64) {
	d.insert(Damping{Value: d.shape.constDense(v), Level: level, Type: typ, Time: t})
	d.rebuild()
}

// Clear removes every change point.
func (d *Dampings) Clear() {
	d.entries = d.entries[:0]
	d.accum = d.accum[:0]
}

// insert keeps entries sorted by (time, type, level) and replaces an entry
// with an identical key.
func (d *Dampings) insert(e Damping) {
	i := sort.Search(len(d.entries), func(i int) bool {
		return !dampingKeyLess(d.entries[i], e)
	})
	if i < len(d.entries) && !dampingKeyLess(e, d.entries[i]) {
		d.entries[i] = e
		return
	}
	d.entries = append(d.entries, Damping{})
	copy(d.entries[i+1:], d.entries[i:])
	d.entries[i] = e
}

// rebuild recomputes the accumulated change points, one per distinct time,
// each holding the combination of the latest value of every (level, type)
// track up to that time.
func (d *Dampings) rebuild() {
	d.accum = d.accum[:0]
	if len(d.entries) == 0 {
		return
	}
	active := make(map[trackKey]*mat64.Dense, len(d.entries))
	for i := 0; i < len(d.entries); {
		t := d.entries[i].Time
		for ; i < len(d.entries) && d.entries[i].Time == t; i++ {
			e := d.entries[i]
			active[trackKey{level: e.Level, typ: e.Type}] = e.Value
		}
		d.accum = append(d.accum, accumPoint{time: t, value: combineTracks(d.shape, active)})
	}
}

// combineTracks sums the active tracks within each level and folds the
// level sums L into the result R as R + L - R*L elementwise. Tracks are
// walked in ascending (level, type) order, which pins the floating-point
// combination.
func combineTracks(shape Shape, active map[trackKey]*mat64.Dense) *mat64.Dense {
	keys := make([]trackKey, 0, len(active))
	for k := range active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].level != keys[j].level {
			return keys[i].level < keys[j].level
		}
		return keys[i].typ < keys[j].typ
	})
	res := shape.zeroDense()
	sum := shape.zeroDense()
	for i := 0; i < len(keys); {
		lv := keys[i].level
		sum.Copy(active[keys[i]])
		for i++; i < len(keys) && keys[i].level == lv; i++ {
			sum.Add(sum, active[keys[i]])
		}
		for r := 0; r < shape.rows; r++ {
			for c := 0; c < shape.cols; c++ {
				x, l := res.At(r, c), sum.At(r, c)
				res.Set(r, c, x+l-x*l)
			}
		}
	}
	return res
}

// MatrixAt returns the combined damping matrix in effect at time t. The
// transition to a change point at time tc is smoothed over the window
// (tc-1, tc]; outside any window the value is the one of the latest change
// point at or before t. Before all change points, and for an empty model,
// the damping is zero.
func (d *Dampings) MatrixAt(t float64) *mat64.Dense {
	res := d.shape.zeroDense()
	if len(d.accum) == 0 {
		return res
	}
	i := sort.Search(len(d.accum), func(i int) bool { return d.accum[i].time > t })
	if i == len(d.accum) {
		res.Copy(d.accum[i-1].value)
		return res
	}
	prev := res
	if i > 0 {
		prev = d.accum[i-1].value
	}
	next := d.accum[i]
	smootherCosineMatrix(res, t, next.time-1, next.time, prev, next.value)
	return res
}
