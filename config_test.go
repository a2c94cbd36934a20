package memilio

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetConfig forces the next memilioConfig call to load again.
func resetConfig() {
	cfgOnce = sync.Once{}
	config = _memilioconfig{}
}

// setConfig injects a configuration, bypassing the file load.
func setConfig(c _memilioconfig) {
	cfgOnce = sync.Once{}
	cfgOnce.Do(func() {})
	config = c
}

func TestConfigDefaults(t *testing.T) {
	resetConfig()
	defer resetConfig()
	t.Setenv("MEMILIO_CONFIG", "")
	conf := memilioConfig()
	if conf.outputDir != "." {
		t.Fatalf("wrong default output dir %s", conf.outputDir)
	}
	if conf.statusEvery != 10*time.Second {
		t.Fatalf("wrong default status interval %s", conf.statusEvery)
	}
	if conf.plotHeight != 15 || conf.plotWidth != 80 {
		t.Fatalf("wrong default plot size %dx%d", conf.plotWidth, conf.plotHeight)
	}
	// The first load sticks, later environment changes are ignored.
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/conf.toml", []byte("[plot]\nheight = 99\n"), 0644); err != nil {
		t.Fatalf("cannot write conf.toml: %s", err)
	}
	t.Setenv("MEMILIO_CONFIG", dir)
	if again := memilioConfig(); again.plotHeight != 15 {
		t.Fatal("config must be cached after the first load")
	}
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	toml := `[general]
output_path = "/tmp/memilio-out"

[sim]
status_interval = "2s"

[plot]
height = 20
width = 120
`
	if err := os.WriteFile(dir+"/conf.toml", []byte(toml), 0644); err != nil {
		t.Fatalf("cannot write conf.toml: %s", err)
	}
	t.Setenv("MEMILIO_CONFIG", dir)
	resetConfig()
	defer resetConfig()
	conf := memilioConfig()
	if conf.outputDir != "/tmp/memilio-out" {
		t.Fatalf("wrong output dir %s", conf.outputDir)
	}
	if conf.statusEvery != 2*time.Second {
		t.Fatalf("wrong status interval %s", conf.statusEvery)
	}
	if conf.plotHeight != 20 || conf.plotWidth != 120 {
		t.Fatalf("wrong plot size %dx%d", conf.plotWidth, conf.plotHeight)
	}
}

func TestConfigLeavesGlobalViperAlone(t *testing.T) {
	dir := t.TempDir()
	scenario := `[output]
plot_group = "adults"
`
	if err := os.WriteFile(dir+"/scenario.toml", []byte(scenario), 0644); err != nil {
		t.Fatalf("cannot write scenario.toml: %s", err)
	}
	viper.Reset()
	defer viper.Reset()
	viper.SetConfigName("scenario")
	viper.AddConfigPath(dir)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("cannot load scenario: %s", err)
	}
	if viper.GetString("output.plot_group") != "adults" {
		t.Fatal("scenario did not load")
	}
	if err := os.WriteFile(dir+"/conf.toml", []byte("[general]\noutput_path = \"elsewhere\"\n"), 0644); err != nil {
		t.Fatalf("cannot write conf.toml: %s", err)
	}
	t.Setenv("MEMILIO_CONFIG", dir)
	resetConfig()
	defer resetConfig()
	if conf := memilioConfig(); conf.outputDir != "elsewhere" {
		t.Fatalf("wrong output dir %s", conf.outputDir)
	}
	if got := viper.GetString("output.plot_group"); got != "adults" {
		t.Fatalf("loading the library config clobbered the scenario: plot_group=%q", got)
	}
}
