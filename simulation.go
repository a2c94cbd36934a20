package memilio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

var wg sync.WaitGroup

// RHSFunc computes the state derivative at time t from the state y and the
// effective contact pattern m, writing the result into dydt.
type RHSFunc func(t float64, y []float64, m *mat64.Dense, dydt []float64)

// Simulation integrates a caller supplied right hand side whose coupling
// matrix is modulated over time by a MatrixEvaluator, recording every step
// in a TimeSeries.
type Simulation struct {
	Contacts MatrixEvaluator
	RHS      RHSFunc
	Logger   kitlog.Logger

	t0, t1, dt float64
	t          float64 // current grid time, advanced by Stop
	state      []float64
	history    *TimeSeries
	stopChan   chan (bool)
	histChan   chan (TimePoint)
	steps      atomic.Uint64
	done       atomic.Bool
}

// NewSimulation returns a simulation of the span [t0, t1] on a fixed grid
// of step dt, starting from the state y0. If conf enables an export, every
// point is streamed to a CSV writer while the integration runs.
func NewSimulation(contacts MatrixEvaluator, rhs RHSFunc, t0, t1, dt float64, y0 []float64, conf ExportConfig) (*Simulation, error) {
	if contacts == nil || rhs == nil {
		return nil, fmt.Errorf("%w: contacts and rhs must be set", ErrNilArgument)
	}
	if dt <= 0 || t1 <= t0 {
		return nil, fmt.Errorf("%w: t0=%g t1=%g dt=%g", ErrInvalidSpan, t0, t1, dt)
	}
	if len(y0) == 0 {
		return nil, fmt.Errorf("%w: empty initial state", ErrVectorLength)
	}
	var histChan chan (TimePoint)
	if !conf.IsUseless() {
		histChan = make(chan (TimePoint), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamPoints(conf, histChan)
		}()
	}
	s := &Simulation{
		Contacts: contacts,
		RHS:      rhs,
		Logger:   kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout)), "subsys", "sim"),
		t0:       t0, t1: t1, dt: dt, t: t0,
		state:    append([]float64(nil), y0...),
		history:  NewTimeSeriesFromVector(t0, y0),
		stopChan: make(chan (bool), 1),
		histChan: histChan,
	}
	// Write the first data point.
	if histChan != nil {
		histChan <- TimePoint{T: t0, Y: append([]float64(nil), y0...)}
	}
	return s, nil
}

// History returns the recorded trajectory.
func (s *Simulation) History() *TimeSeries { return s.history }

// LogStatus logs the progress of the integration.
func (s *Simulation) LogStatus() {
	steps := s.steps.Load()
	pct := 100 * float64(steps) * s.dt / (s.t1 - s.t0)
	s.Logger.Log("level", "info", "steps", steps, "progress(%)", fmt.Sprintf("%.1f", pct))
}

// Run starts the integration and blocks until the span is exhausted or
// StopSimulation is called. It returns the recorded trajectory.
func (s *Simulation) Run() *TimeSeries {
	s.LogStatus()
	ticker := time.NewTicker(memilioConfig().statusEvery)
	go func() {
		for range ticker.C {
			if s.done.Load() {
				break
			}
			s.LogStatus()
		}
	}()
	ode.NewRK4(s.t0, s.dt, s).Solve() // Blocking.
	s.done.Store(true)
	ticker.Stop()
	s.Logger.Log("level", "notice", "status", "finished", "steps", s.steps.Load(), "points", s.history.Len(), "tEnd", s.history.LastTime())
	wg.Wait() // Don't return until the export finished writing.
	return s.history
}

// StopSimulation stops a running integration before the end of the span.
func (s *Simulation) StopSimulation() {
	s.stopChan <- true
}

// Stop implements the stop condition of the integrator. To interrupt a
// running simulation, call StopSimulation instead.
func (s *Simulation) Stop(t float64) bool {
	select {
	case <-s.stopChan:
		s.closeHist()
		return true
	default:
		s.t += s.dt
		if s.t > s.t1+1e-9*s.dt {
			// The last grid time within the span has been recorded.
			s.closeHist()
			return true
		}
	}
	return false
}

func (s *Simulation) closeHist() {
	if s.histChan != nil {
		close(s.histChan)
	}
}

// GetState returns a copy of the current state vector.
func (s *Simulation) GetState() []float64 {
	return append([]float64(nil), s.state...)
}

// SetState records the state integrated up to the current grid time.
func (s *Simulation) SetState(t float64, y []float64) {
	copy(s.state, y)
	s.steps.Add(1)
	s.history.AddTimePointWithValue(s.t, y)
	if s.histChan != nil {
		s.histChan <- TimePoint{T: s.t, Y: append([]float64(nil), y...)}
	}
}

// Func evaluates the state derivative by querying the contact pattern at t
// and delegating to the right hand side.
func (s *Simulation) Func(t float64, y []float64) []float64 {
	dydt := make([]float64, len(y))
	s.RHS(t, y, s.Contacts.MatrixAt(t), dydt)
	for i, v := range dydt {
		if math.IsNaN(v) {
			panic(fmt.Errorf("dydt[%d]=NaN @ t=%g y=%+v", i, t, y))
		}
	}
	return dydt
}

// TimePoint is one streamed trajectory sample.
type TimePoint struct {
	T float64
	Y []float64
}
