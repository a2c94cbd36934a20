package memilio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	config  = _memilioconfig{}
)

// _memilioconfig is a "hidden" struct, just use `memilioConfig`
type _memilioconfig struct {
	outputDir   string
	statusEvery time.Duration
	plotHeight  int
	plotWidth   int
}

// memilioConfig returns the memilio configuration, loaded once from the
// conf.toml in the directory named by the MEMILIO_CONFIG environment
// variable. Without the variable every knob keeps its default. The load
// runs on its own viper instance, so scenario state in the process-global
// viper stays untouched.
func memilioConfig() _memilioconfig {
	cfgOnce.Do(func() {
		config = _memilioconfig{outputDir: ".", statusEvery: 10 * time.Second, plotHeight: 15, plotWidth: 80}
		confPath := os.Getenv("MEMILIO_CONFIG")
		if confPath == "" {
			return
		}
		v := viper.New()
		v.SetConfigName("conf")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml not found", confPath))
		}
		if dir := v.GetString("general.output_path"); dir != "" {
			config.outputDir = dir
		}
		if every := v.GetDuration("sim.status_interval"); every > 0 {
			config.statusEvery = every
		}
		if h := v.GetInt("plot.height"); h > 0 {
			config.plotHeight = h
		}
		if w := v.GetInt("plot.width"); w > 0 {
			config.plotWidth = w
		}
	})
	return config
}
