package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/alexgit0/memilio"
	"github.com/gonum/matrix/mat64"
	"github.com/spf13/viper"
)

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
	plot     bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "designate the scenario TOML file to run")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
	flag.BoolVar(&plot, "plot", false, "plot one group of the trajectory to the terminal after the run")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	t0 := viper.GetFloat64("simulation.start")
	t1 := viper.GetFloat64("simulation.end")
	dt := viper.GetFloat64("simulation.step")
	if dt == 0 {
		dt = 0.1
	}
	if verbose {
		log.Printf("[conf] simulation window [%v, %v] with step %v", t0, t1, dt)
	}

	names := viper.GetStringSlice("groups.names")
	numGroups := len(names)
	if numGroups == 0 {
		log.Fatal("no groups defined in scenario")
	}
	initial := floatSlice("groups.initial")
	recovery := floatSlice("groups.recovery")
	if len(initial) != numGroups || len(recovery) != numGroups {
		log.Fatalf("groups.initial and groups.recovery must each carry %d values", numGroups)
	}
	for i, rec := range recovery {
		if rec <= 0 {
			log.Fatalf("groups.recovery[%d] must be positive (got %v)", i, rec)
		}
	}
	if verbose {
		log.Printf("[conf] %d groups: %s", numGroups, strings.Join(names, ", "))
	}

	// Each key under [contacts.*] is one location with its own baseline
	// and minimum. Locations are sorted so runs are reproducible.
	var locations []string
	for loc := range viper.GetStringMap("contacts") {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	if len(locations) == 0 {
		log.Fatal("no contact locations defined in scenario")
	}
	matrices := make([]*memilio.ContactMatrix, len(locations))
	for k, loc := range locations {
		baseline := readMatrix(fmt.Sprintf("contacts.%s.baseline", loc), numGroups)
		if baseline == nil {
			log.Fatalf("contacts.%s.baseline is missing", loc)
		}
		var cm *memilio.ContactMatrix
		var err error
		if minimum := readMatrix(fmt.Sprintf("contacts.%s.minimum", loc), numGroups); minimum != nil {
			cm, err = memilio.NewContactMatrixWithMinimum(baseline, minimum)
		} else {
			cm, err = memilio.NewContactMatrix(baseline)
		}
		if err != nil {
			log.Fatalf("contacts.%s: %s", loc, err)
		}
		matrices[k] = cm
		if verbose {
			log.Printf("[conf] location %s: baseline %v", loc, mat64.Formatted(baseline, mat64.Prefix(strings.Repeat(" ", 22+len(loc)))))
		}
	}

	locIdx := func(loc string) int {
		for k, name := range locations {
			if name == loc {
				return k
			}
		}
		log.Fatalf("damping refers to unknown location %s", loc)
		return -1
	}
	for dampNo := 0; viper.IsSet(fmt.Sprintf("damping.%d", dampNo)); dampNo++ {
		key := fmt.Sprintf("damping.%d", dampNo)
		loc := viper.GetString(key + ".location")
		level := memilio.DampingLevel(viper.GetInt(key + ".level"))
		typ := memilio.DampingType(viper.GetInt(key + ".type"))
		time := viper.GetFloat64(key + ".time")
		cm := matrices[locIdx(loc)]
		if factors := readMatrix(key+".factors", numGroups); factors != nil {
			if err := cm.AddDamping(factors, level, typ, time); err != nil {
				log.Fatalf("%s: %s", key, err)
			}
		} else {
			cm.AddScalarDamping(viper.GetFloat64(key+".value"), level, typ, time)
		}
		if verbose {
			log.Printf("[conf] damping #%d on %s at t=%v (level %d, type %d)", dampNo, loc, time, level, typ)
		}
	}

	group, err := memilio.NewContactMatrixGroup(matrices...)
	if err != nil {
		log.Fatalf("contacts: %s", err)
	}

	total := 0.0
	for _, v := range initial {
		total += v
	}
	coupling := viper.GetFloat64("model.coupling")
	if coupling == 0 {
		coupling = 1
	}
	// Linear mixing model: each group relaxes at its own recovery rate and
	// picks up contributions from the others weighted by the damped contacts.
	rhs := func(t float64, y []float64, contacts *mat64.Dense, dydt []float64) {
		for i := range y {
			mixed := 0.0
			for j := range y {
				mixed += contacts.At(i, j) * y[j]
			}
			dydt[i] = coupling*mixed/total - y[i]/recovery[i]
		}
	}

	conf := memilio.ExportConfig{
		Filename:  viper.GetString("output.file"),
		AsCSV:     viper.GetString("output.file") != "",
		Timestamp: viper.GetBool("output.timestamp"),
		Labels:    names,
		Every:     viper.GetInt("output.every"),
	}
	if viper.GetBool("output.total") {
		conf.CSVAppendHdr = func() string { return "total" }
		conf.CSVAppend = func(pt memilio.TimePoint) string {
			sum := 0.0
			for _, v := range pt.Y {
				sum += v
			}
			return fmt.Sprintf("%g", sum)
		}
	}

	sim, err := memilio.NewSimulation(group, rhs, t0, t1, dt, initial, conf)
	if err != nil {
		log.Fatalf("simulation: %s", err)
	}

	// All scenario keys are read before the run starts.
	plotGroup := viper.GetString("output.plot_group")
	if plotGroup == "" {
		plotGroup = names[0]
	}
	grpNo := -1
	for i, name := range names {
		if name == plotGroup {
			grpNo = i
			break
		}
	}
	if plot && grpNo == -1 {
		log.Fatalf("output.plot_group %s is not a group", plotGroup)
	}

	sim.Run()

	if plot {
		fmt.Println(memilio.PlotColumn(sim.History(), grpNo, fmt.Sprintf("%s over [%v, %v]", plotGroup, t0, t1)))
	}
}

// floatSlice reads a TOML array of numbers. Viper hands integers back as
// int64, so GetFloat64 alone does not cut it for mixed arrays.
func floatSlice(key string) []float64 {
	raw := viper.Get(key)
	if raw == nil {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		log.Fatalf("%s must be an array", key)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = toFloat(key, item)
	}
	return out
}

// readMatrix reads a TOML array of arrays as an n by n matrix. Returns nil
// if the key is absent.
func readMatrix(key string, n int) *mat64.Dense {
	raw := viper.Get(key)
	if raw == nil {
		return nil
	}
	rows, ok := raw.([]interface{})
	if !ok || len(rows) != n {
		log.Fatalf("%s must be an array of %d rows", key, n)
	}
	m := mat64.NewDense(n, n, nil)
	for i, row := range rows {
		cols, ok := row.([]interface{})
		if !ok || len(cols) != n {
			log.Fatalf("%s row %d must carry %d values", key, i, n)
		}
		for j, col := range cols {
			m.Set(i, j, toFloat(key, col))
		}
	}
	return m
}

func toFloat(key string, v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		log.Fatalf("%s carries a non numeric value %v", key, v)
	}
	panic("unreachable")
}
