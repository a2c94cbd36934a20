package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/alexgit0/memilio"
)

// NOTE: This tool samples a damping model over a time window and plots one
// matrix element to the terminal. Handy to eyeball how levels and types
// combine before wiring the model into a scenario.

var (
	dampings dampingList
	size     int
	from     float64
	until    float64
	samples  int
	cell     string
	listing  bool
)

type dampingList []string

func (d *dampingList) String() string {
	return strings.Join(*d, "; ")
}

func (d *dampingList) Set(value string) error {
	*d = append(*d, value)
	return nil
}

func init() {
	flag.Var(&dampings, "damping", "damping as time:level:type:value (may be repeated)")
	flag.IntVar(&size, "size", 1, "dimension of the square damping model")
	flag.Float64Var(&from, "from", -1, "start of the sampled window")
	flag.Float64Var(&until, "until", 10, "end of the sampled window")
	flag.IntVar(&samples, "samples", 160, "number of samples over the window")
	flag.StringVar(&cell, "cell", "0,0", "matrix element to plot as row,col")
	flag.BoolVar(&listing, "list", false, "print the ordered damping entries before plotting")
}

func main() {
	flag.Parse()
	if len(dampings) == 0 {
		log.Fatal("no dampings provided")
	}
	if samples < 2 {
		log.Fatalf("cannot sample a window with %d samples", samples)
	}
	if until <= from {
		log.Fatalf("empty window [%v, %v]", from, until)
	}
	if size < 1 {
		log.Fatalf("cannot build a %dx%d damping model", size, size)
	}
	row, col := parseCell(cell)
	if row >= size || col >= size {
		log.Fatalf("cell %s exceeds a %dx%d matrix", cell, size, size)
	}

	model := memilio.NewDampings(memilio.SquareShape(size))
	for _, spec := range dampings {
		time, level, typ, value := parseDamping(spec)
		model.AddScalar(value, level, typ, time)
	}

	if listing {
		for _, entry := range model.Entries().Slice() {
			fmt.Printf("t=%-8v level=%-3d type=%-3d value[%d,%d]=%v\n", entry.Time, entry.Level, entry.Type, row, col, entry.Value.At(row, col))
		}
	}

	series := make([]float64, samples)
	step := (until - from) / float64(samples-1)
	for i := range series {
		series[i] = model.MatrixAt(from+float64(i)*step).At(row, col)
	}
	caption := fmt.Sprintf("damping [%d,%d] over [%v, %v]", row, col, from, until)
	fmt.Println(memilio.PlotSeries(series, caption))
}

func parseCell(spec string) (row, col int) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		log.Fatalf("cannot parse cell %s (expected row,col)", spec)
	}
	var err error
	if row, err = strconv.Atoi(parts[0]); err != nil || row < 0 {
		log.Fatalf("cannot parse cell row %s", parts[0])
	}
	if col, err = strconv.Atoi(parts[1]); err != nil || col < 0 {
		log.Fatalf("cannot parse cell col %s", parts[1])
	}
	return
}

func parseDamping(spec string) (time float64, level memilio.DampingLevel, typ memilio.DampingType, value float64) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		log.Fatalf("cannot parse damping %s (expected time:level:type:value)", spec)
	}
	time, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		log.Fatalf("cannot parse damping time %s", parts[0])
	}
	lvl, err := strconv.Atoi(parts[1])
	if err != nil {
		log.Fatalf("cannot parse damping level %s", parts[1])
	}
	tp, err := strconv.Atoi(parts[2])
	if err != nil {
		log.Fatalf("cannot parse damping type %s", parts[2])
	}
	value, err = strconv.ParseFloat(parts[3], 64)
	if err != nil {
		log.Fatalf("cannot parse damping value %s", parts[3])
	}
	return time, memilio.DampingLevel(lvl), memilio.DampingType(tp), value
}
