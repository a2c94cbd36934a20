package memilio

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders the values as a terminal plot sized by the plot
// section of the configuration.
func PlotSeries(values []float64, caption string) string {
	if len(values) == 0 {
		return ""
	}
	conf := memilioConfig()
	return asciigraph.Plot(values, asciigraph.Height(conf.plotHeight), asciigraph.Width(conf.plotWidth), asciigraph.Caption(caption))
}

// PlotColumn renders one state column of the series as a terminal plot.
func PlotColumn(ts *TimeSeries, col int, caption string) string {
	if col < 0 || col >= ts.NumElements() {
		panic(fmt.Errorf("%w: column %d of %d", ErrIndexOutOfRange, col, ts.NumElements()))
	}
	values := make([]float64, ts.Len())
	for i := range values {
		values[i] = ts.Value(i)[col]
	}
	return PlotSeries(values, caption)
}
