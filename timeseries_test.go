package memilio

import (
	"errors"
	"testing"
)

func TestTimeSeriesCreate(t *testing.T) {
	ts, err := NewTimeSeries(3)
	if err != nil {
		t.Fatalf("creating a series failed: %v", err)
	}
	if ts.NumElements() != 3 || ts.NumRows() != 4 {
		t.Fatalf("got %d elements and %d rows, expected 3 and 4", ts.NumElements(), ts.NumRows())
	}
	if ts.Len() != 0 || ts.Capacity() != 0 {
		t.Fatalf("new series not empty: len=%d cap=%d", ts.Len(), ts.Capacity())
	}
	if _, err = NewTimeSeries(0); err != nil {
		t.Fatalf("zero elements must be allowed: %v", err)
	}
	_, err = NewTimeSeries(-1)
	if !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("negative element count: got %v, expected ErrNegativeLength", err)
	}
}

func TestTimeSeriesFromVector(t *testing.T) {
	ts := NewTimeSeriesFromVector(0.5, []float64{1, 2, 3})
	if ts.Len() != 1 || ts.Capacity() != 1 {
		t.Fatalf("got len=%d cap=%d, expected 1 and 1", ts.Len(), ts.Capacity())
	}
	if ts.Time(0) != 0.5 {
		t.Fatalf("time of first point: got %f, expected 0.5", ts.Time(0))
	}
	if !vectorsEqual(ts.Value(0), []float64{1, 2, 3}) {
		t.Fatalf("value of first point: got %v", ts.Value(0))
	}
}

func TestTimeSeriesAddPoints(t *testing.T) {
	ts, _ := NewTimeSeries(2)
	expCap := []int{1, 2, 4, 4, 8, 8, 8, 8, 16}
	for i := 0; i < len(expCap); i++ {
		ts.AddTimePoint(float64(i))
		if ts.Len() != i+1 {
			t.Fatalf("after %d appends: len=%d", i+1, ts.Len())
		}
		if ts.Capacity() != expCap[i] {
			t.Fatalf("after %d appends: cap=%d, expected %d", i+1, ts.Capacity(), expCap[i])
		}
	}
	// The zero-initialized slot is handed out for writing.
	v := ts.AddTimePoint(100)
	if v[0] != 0 || v[1] != 0 {
		t.Fatalf("fresh slot not zero: %v", v)
	}
	v[0] = 7
	if ts.LastValue()[0] != 7 {
		t.Fatal("slot write not visible in the series")
	}
	for i := ts.Len(); i < 123456; i++ {
		ts.AddTimePoint(float64(i))
	}
	if ts.Len() != 123456 {
		t.Fatalf("after the big loop: len=%d", ts.Len())
	}
	if ts.Capacity() != 1<<17 {
		t.Fatalf("after the big loop: cap=%d, expected %d", ts.Capacity(), 1<<17)
	}
}

func TestTimeSeriesAssign(t *testing.T) {
	ts, _ := NewTimeSeries(2)
	ts.AddTimePointWithValue(0, []float64{1, 2})
	ts.AddTimePointWithValue(1, []float64{3, 4})
	// Value returns a writable window into the series.
	copy(ts.Value(0), []float64{10, 20})
	if !vectorsEqual(ts.Value(0), []float64{10, 20}) {
		t.Fatalf("assignment through Value: got %v", ts.Value(0))
	}
	ts.Value(1)[1] = 44
	if !vectorsEqual(ts.Value(1), []float64{3, 44}) {
		t.Fatalf("single element assignment: got %v", ts.Value(1))
	}
	ts.SetTime(1, 1.5)
	if ts.Time(1) != 1.5 {
		t.Fatalf("SetTime: got %f, expected 1.5", ts.Time(1))
	}
	if ts.LastTime() != 1.5 {
		t.Fatalf("LastTime: got %f, expected 1.5", ts.LastTime())
	}
	if !vectorsEqual(ts.LastValue(), []float64{3, 44}) {
		t.Fatalf("LastValue: got %v", ts.LastValue())
	}
	assertPanicIs(t, ErrVectorLength, func() { ts.AddTimePointWithValue(2, []float64{1, 2, 3}) })
}

func TestTimeSeriesReserve(t *testing.T) {
	ts, _ := NewTimeSeries(1)
	ts.Reserve(10)
	if ts.Capacity() != 16 {
		t.Fatalf("reserve rounds to the next power of two: cap=%d, expected 16", ts.Capacity())
	}
	if ts.Len() != 0 {
		t.Fatalf("reserve added points: len=%d", ts.Len())
	}
	// Reserving less never shrinks.
	ts.Reserve(4)
	if ts.Capacity() != 16 {
		t.Fatalf("reserve shrunk the series: cap=%d", ts.Capacity())
	}
	ts.AddTimePointWithValue(1, []float64{42})
	ts.Reserve(2)
	if !vectorsEqual(ts.Value(0), []float64{42}) {
		t.Fatal("reserve lost stored data")
	}
}

func TestTimeSeriesClone(t *testing.T) {
	ts, _ := NewTimeSeries(2)
	for i := 0; i < 5; i++ {
		ts.AddTimePointWithValue(float64(i), []float64{float64(i), float64(2 * i)})
	}
	if ts.Capacity() != 8 {
		t.Fatalf("precondition: cap=%d, expected 8", ts.Capacity())
	}
	c := ts.Clone()
	if c.Len() != 5 || c.NumElements() != 2 {
		t.Fatalf("clone got len=%d elements=%d", c.Len(), c.NumElements())
	}
	// Capacity resets to the minimal power-of-two fit.
	if c.Capacity() != 8 {
		t.Fatalf("clone cap=%d, expected 8", c.Capacity())
	}
	threeTs, _ := NewTimeSeries(1)
	threeTs.AddTimePoint(0)
	threeTs.AddTimePoint(1)
	threeTs.AddTimePoint(2)
	threeTs.Reserve(1000)
	if cl := threeTs.Clone(); cl.Capacity() != 4 {
		t.Fatalf("clone of reserved series: cap=%d, expected 4", cl.Capacity())
	}
	for i := 0; i < 5; i++ {
		if c.Time(i) != ts.Time(i) || !vectorsEqual(c.Value(i), ts.Value(i)) {
			t.Fatalf("clone differs at point %d", i)
		}
	}
	// Deep copy: mutating the clone leaves the original alone.
	c.Value(0)[0] = 99
	if ts.Value(0)[0] == 99 {
		t.Fatal("clone shares storage with the original")
	}
	empty, _ := NewTimeSeries(3)
	if cl := empty.Clone(); cl.Len() != 0 || cl.Capacity() != 0 {
		t.Fatalf("empty clone: len=%d cap=%d", cl.Len(), cl.Capacity())
	}
}

func TestTimeSeriesData(t *testing.T) {
	ts, _ := NewTimeSeries(2)
	ts.AddTimePointWithValue(0, []float64{1, 2})
	ts.AddTimePointWithValue(1, []float64{3, 4})
	ts.AddTimePointWithValue(2, []float64{5, 6})
	want := []float64{0, 1, 2, 1, 3, 4, 2, 5, 6}
	if !vectorsEqual(ts.Data(), want) {
		t.Fatalf("row-major data: got %v, expected %v", ts.Data(), want)
	}
	if len(ts.Data()) != ts.Len()*ts.NumRows() {
		t.Fatalf("data length: got %d, expected %d", len(ts.Data()), ts.Len()*ts.NumRows())
	}
	// The raw slice aliases the storage.
	ts.Data()[1] = 11
	if ts.Value(0)[0] != 11 {
		t.Fatal("raw data write not visible in the series")
	}
	vec := ts.ValueVec(1)
	if vec.Len() != 2 || vec.At(0, 0) != 3 || vec.At(1, 0) != 4 {
		t.Fatalf("vector view: got %v", vec.RawVector().Data)
	}
	vec.SetVec(0, 33)
	if ts.Value(1)[0] != 33 {
		t.Fatal("vector view write not visible in the series")
	}
}

func TestTimeSeriesAccessPanics(t *testing.T) {
	ts, _ := NewTimeSeries(1)
	assertPanicIs(t, ErrEmptySeries, func() { ts.LastTime() })
	assertPanicIs(t, ErrEmptySeries, func() { ts.LastValue() })
	ts.AddTimePoint(0)
	assertPanicIs(t, ErrIndexOutOfRange, func() { ts.Time(1) })
	assertPanicIs(t, ErrIndexOutOfRange, func() { ts.Value(-1) })
	assertPanicIs(t, ErrIndexOutOfRange, func() { ts.SetTime(1, 0) })
}

func TestTimeSeriesViews(t *testing.T) {
	ts, _ := NewTimeSeries(1)
	for i := 0; i < 4; i++ {
		ts.AddTimePointWithValue(float64(i), []float64{float64(10 * i)})
	}
	times := ts.Times()
	if times.Len() != 4 {
		t.Fatalf("times view length: got %d", times.Len())
	}
	if !vectorsEqual(times.Slice(), []float64{0, 1, 2, 3}) {
		t.Fatalf("times forward: got %v", times.Slice())
	}
	if !vectorsEqual(times.Backward().Slice(), []float64{3, 2, 1, 0}) {
		t.Fatalf("times backward: got %v", times.Backward().Slice())
	}
	rows := ts.Rows()
	for i := 0; i < 4; i++ {
		if rows.At(i)[0] != float64(10*i) {
			t.Fatalf("rows view at %d: got %v", i, rows.At(i))
		}
	}
	back := ts.Rows().Backward()
	if back.At(0)[0] != 30 {
		t.Fatalf("rows backward first: got %v", back.At(0))
	}
	// Views read through to the live storage.
	ts.Value(2)[0] = 222
	if rows.At(2)[0] != 222 {
		t.Fatal("row mutation not visible through the view")
	}
	// The window is pinned at creation.
	ts.AddTimePoint(4)
	if times.Len() != 4 {
		t.Fatalf("view window grew with the series: len=%d", times.Len())
	}
}

func TestTimeSeriesIterArithmetic(t *testing.T) {
	ts, _ := NewTimeSeries(1)
	for i := 0; i < 5; i++ {
		ts.AddTimePointWithValue(float64(i), []float64{float64(i * i)})
	}
	begin, end := ts.Begin(), ts.End()
	if end.Sub(begin) != 5 {
		t.Fatalf("end-begin: got %d, expected 5", end.Sub(begin))
	}
	if !begin.Add(5).Equal(end) {
		t.Fatal("begin+5 != end")
	}
	it := begin.Add(3)
	if it.Pos() != 3 || it.Time() != 3 || it.Value()[0] != 9 {
		t.Fatalf("begin+3: pos=%d t=%f v=%v", it.Pos(), it.Time(), it.Value())
	}
	if prev := it.Prev(); prev.Time() != 2 {
		t.Fatalf("(begin+3).Prev(): t=%f", prev.Time())
	}
	if back := end.Add(-1); back.Time() != 4 {
		t.Fatalf("end-1: t=%f", back.Time())
	}
	if d := end.Add(-2).Sub(begin.Add(1)); d != 2 {
		t.Fatalf("(end-2)-(begin+1): got %d, expected 2", d)
	}
	var total float64
	for it := ts.Begin(); !it.Equal(ts.End()); it = it.Next() {
		total += it.Time()
	}
	if total != 10 {
		t.Fatalf("sum of times via cursor: got %f, expected 10", total)
	}
	var rev []float64
	for it := ts.End().Prev(); !it.Done(); it = it.Prev() {
		rev = append(rev, it.Value()[0])
	}
	if !vectorsEqual(rev, []float64{16, 9, 4, 1, 0}) {
		t.Fatalf("reverse walk: got %v", rev)
	}
	if ts.Begin().Done() {
		t.Fatal("begin of a filled series reported done")
	}
	if !ts.End().Done() {
		t.Fatal("end cursor not reported done")
	}
	if !begin.Before(end) || end.Before(begin) {
		t.Fatal("begin must order before end")
	}
	if !end.After(begin) || it.After(it) {
		t.Fatal("wrong cursor ordering")
	}
}
