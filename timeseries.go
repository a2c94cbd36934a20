package memilio

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// TimeSeries stores the (time, state) history of a simulation in a single
// contiguous row-major block. Each row holds the time stamp followed by
// NumElements state values. Appending amortizes by doubling the backing
// capacity, so slices handed out earlier are invalidated whenever the
// series reallocates.
type TimeSeries struct {
	data        []float64
	numElements int
	count       int
}

// NewTimeSeries returns an empty series for state vectors of numElements
// values. No storage is allocated until the first point is added.
func NewTimeSeries(numElements int) (*TimeSeries, error) {
	if numElements < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, numElements)
	}
	return &TimeSeries{numElements: numElements}, nil
}

// NewTimeSeriesFromVector returns a series holding the single point
// (t0, value), with the element count taken from value.
func NewTimeSeriesFromVector(t0 float64, value []float64) *TimeSeries {
	ts := &TimeSeries{numElements: len(value)}
	ts.AddTimePointWithValue(t0, value)
	return ts
}

// NumElements returns the dimension of the stored state vectors.
func (ts *TimeSeries) NumElements() int { return ts.numElements }

// NumRows returns the number of values per time point, the time stamp
// included.
func (ts *TimeSeries) NumRows() int { return ts.numElements + 1 }

// Len returns the number of stored time points.
func (ts *TimeSeries) Len() int { return ts.count }

// Capacity returns the number of time points the series can hold before
// the next reallocation. It is always zero or a power of two.
func (ts *TimeSeries) Capacity() int { return len(ts.data) / ts.stride() }

func (ts *TimeSeries) stride() int { return ts.numElements + 1 }

// ensure grows the backing block to hold at least n points. Capacity never
// shrinks and always lands on a power of two.
func (ts *TimeSeries) ensure(n int) {
	if n <= ts.Capacity() {
		return
	}
	grown := make([]float64, nextPow2(n)*ts.stride())
	copy(grown, ts.data[:ts.count*ts.stride()])
	ts.data = grown
}

// Reserve grows the series to hold at least n time points without adding
// any.
func (ts *TimeSeries) Reserve(n int) { ts.ensure(n) }

// AddTimePoint appends a zero-initialized point at time t and returns the
// mutable state slice of the new row. The slice aliases the series storage
// and is invalidated by the next reallocation.
func (ts *TimeSeries) AddTimePoint(t float64) []float64 {
	ts.ensure(ts.count + 1)
	row := ts.count * ts.stride()
	end := row + ts.stride()
	clear(ts.data[row:end])
	ts.data[row] = t
	ts.count++
	return ts.data[row+1 : end : end]
}

// AddTimePointWithValue appends a point at time t holding a copy of value
// and returns the mutable state slice of the new row.
func (ts *TimeSeries) AddTimePointWithValue(t float64, value []float64) []float64 {
	if len(value) != ts.numElements {
		panic(fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(value), ts.numElements))
	}
	s := ts.AddTimePoint(t)
	copy(s, value)
	return s
}

func (ts *TimeSeries) checkIndex(i int) {
	if i < 0 || i >= ts.count {
		panic(fmt.Errorf("%w: time point %d of %d", ErrIndexOutOfRange, i, ts.count))
	}
}

// Time returns the time stamp of point i.
func (ts *TimeSeries) Time(i int) float64 {
	ts.checkIndex(i)
	return ts.data[i*ts.stride()]
}

// SetTime replaces the time stamp of point i.
func (ts *TimeSeries) SetTime(i int, t float64) {
	ts.checkIndex(i)
	ts.data[i*ts.stride()] = t
}

// Value returns the mutable state slice of point i. The slice aliases the
// series storage and is invalidated by the next reallocation.
func (ts *TimeSeries) Value(i int) []float64 {
	ts.checkIndex(i)
	row := i * ts.stride()
	end := row + ts.stride()
	return ts.data[row+1 : end : end]
}

// ValueVec returns the state of point i as a column vector sharing the
// series storage.
func (ts *TimeSeries) ValueVec(i int) *mat64.Vector {
	return mat64.NewVector(ts.numElements, ts.Value(i))
}

// LastTime returns the time stamp of the most recent point.
func (ts *TimeSeries) LastTime() float64 {
	if ts.count == 0 {
		panic(ErrEmptySeries)
	}
	return ts.Time(ts.count - 1)
}

// LastValue returns the mutable state slice of the most recent point.
func (ts *TimeSeries) LastValue() []float64 {
	if ts.count == 0 {
		panic(ErrEmptySeries)
	}
	return ts.Value(ts.count - 1)
}

// Data returns the stored rows as one row-major slice, each row a time
// stamp followed by the state values. The slice aliases the series storage
// and covers exactly Len()*NumRows() values.
func (ts *TimeSeries) Data() []float64 {
	n := ts.count * ts.stride()
	return ts.data[:n:n]
}

// Clone returns a deep copy of the stored points with the capacity reduced
// to the smallest power-of-two fit, or zero for an empty series.
func (ts *TimeSeries) Clone() *TimeSeries {
	c := &TimeSeries{numElements: ts.numElements, count: ts.count}
	if ts.count > 0 {
		c.data = make([]float64, nextPow2(ts.count)*ts.stride())
		copy(c.data, ts.data[:ts.count*ts.stride()])
	}
	return c
}

// Times returns a forward view over the stored time stamps. The window is
// fixed at the current length.
func (ts *TimeSeries) Times() Range[float64] {
	return MakeRange(0, ts.count, func(i int) float64 { return ts.data[i*ts.stride()] })
}

// Rows returns a forward view over the stored state slices. The window is
// fixed at the current length.
func (ts *TimeSeries) Rows() Range[[]float64] {
	return MakeRange(0, ts.count, ts.Value)
}

// Iter is a random-access cursor over the points of a TimeSeries. Cursors
// are values; the moving operations return the moved cursor.
type Iter struct {
	ts  *TimeSeries
	pos int
}

// Begin returns a cursor on the first point.
func (ts *TimeSeries) Begin() Iter { return Iter{ts: ts} }

// End returns the past-the-end cursor.
func (ts *TimeSeries) End() Iter { return Iter{ts: ts, pos: ts.count} }

// Pos returns the point index the cursor addresses.
func (it Iter) Pos() int { return it.pos }

// Done reports whether the cursor lies outside the stored points.
func (it Iter) Done() bool { return it.pos < 0 || it.pos >= it.ts.count }

// Next returns the cursor advanced by one point.
func (it Iter) Next() Iter { return it.Add(1) }

// Prev returns the cursor moved back by one point.
func (it Iter) Prev() Iter { return it.Add(-1) }

// Add returns the cursor moved by n points, n may be negative.
func (it Iter) Add(n int) Iter {
	it.pos += n
	return it
}

// Sub returns the signed number of points between two cursors.
func (it Iter) Sub(other Iter) int { return it.pos - other.pos }

// Equal reports whether both cursors address the same point of the same
// series.
func (it Iter) Equal(other Iter) bool { return it.ts == other.ts && it.pos == other.pos }

// Before reports whether the cursor addresses an earlier point than other.
func (it Iter) Before(other Iter) bool { return it.pos < other.pos }

// After reports whether the cursor addresses a later point than other.
func (it Iter) After(other Iter) bool { return it.pos > other.pos }

// Time returns the time stamp under the cursor.
func (it Iter) Time() float64 { return it.ts.Time(it.pos) }

// Value returns the mutable state slice under the cursor.
func (it Iter) Value() []float64 { return it.ts.Value(it.pos) }
