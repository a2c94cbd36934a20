package memilio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ExportConfig configures the CSV exporting of a simulation trajectory.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool
	OutputDir    string                    // overrides the configured output directory when set
	Labels       []string                  // state column names, generated when empty
	Every        int                       // write every n-th point only (0 and 1 write all)
	CSVAppend    func(pt TimePoint) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string             // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

func (c ExportConfig) outputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return memilioConfig().outputDir
}

// csvHeader returns the column header line for states of dim elements.
func csvHeader(labels []string, dim int) string {
	cols := make([]string, dim+1)
	cols[0] = "t"
	for i := 0; i < dim; i++ {
		if i < len(labels) && labels[i] != "" {
			cols[i+1] = labels[i]
		} else {
			cols[i+1] = fmt.Sprintf("y%d", i)
		}
	}
	return strings.Join(cols, ",")
}

// csvRow returns one CSV data row for the point (t, y).
func csvRow(t float64, y []float64) string {
	cols := make([]string, len(y)+1)
	cols[0] = strconv.FormatFloat(t, 'g', -1, 64)
	for i, v := range y {
		cols[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(cols, ",")
}

// createTrajectoryCSVFile returns a file which requires a defer close statement!
func createTrajectoryCSVFile(conf ExportConfig, dim int) *os.File {
	filename := fmt.Sprintf("%s/trajectory-%s.csv", conf.outputDir(), conf.Filename)
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/trajectory-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", conf.outputDir(), conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n", time.Now().UTC()))
	f.WriteString(csvHeader(conf.Labels, dim))
	if conf.CSVAppendHdr != nil {
		// Append the headers for the appended columns.
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamPoints streams the points of the channel to the configured CSV
// file. It returns when the channel is closed and is meant to run as a
// goroutine next to Simulation.Run.
func StreamPoints(conf ExportConfig, ch <-chan (TimePoint)) {
	if conf.IsUseless() {
		for range ch {
			// Drain so the producer never blocks.
		}
		return
	}
	every := conf.Every
	if every < 1 {
		every = 1
	}
	var f *os.File
	var count int
	for pt := range ch {
		if f == nil {
			f = createTrajectoryCSVFile(conf, len(pt.Y))
			defer f.Close()
		}
		if count%every == 0 {
			row := csvRow(pt.T, pt.Y)
			if conf.CSVAppend != nil {
				row += "," + conf.CSVAppend(pt)
			}
			if _, err := f.WriteString("\n" + row); err != nil {
				panic(err)
			}
		}
		count++
	}
}

// WriteTimeSeriesCSV writes the whole series to w as CSV, one row per time
// point, walking the raw row-major storage.
func WriteTimeSeriesCSV(w io.Writer, ts *TimeSeries, labels []string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader(labels, ts.NumElements())); err != nil {
		return err
	}
	data := ts.Data()
	stride := ts.NumRows()
	for row := 0; row < ts.Len(); row++ {
		line := csvRow(data[row*stride], data[row*stride+1:(row+1)*stride])
		if _, err := bw.WriteString("\n" + line); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}
