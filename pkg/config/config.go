// Package config reads the dashboard's settings from AI_INSIGHTS_* environment
// variables. Unparseable values fall back to defaults; values that parse but
// are out of range are reported by Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Menatic/AI-insights/pkg/sim"
)

const prefix = "AI_INSIGHTS_"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	MaxEpochs   int
	TimeBudget  int
	Speed       int
	Seed        int64
	View        string
	LogLevel    string
	LogFile     string
	RunLogDir   string
	SysInterval time.Duration
	Animations  bool
	Accent      string
}

func Default() Config {
	return Config{
		MaxEpochs:   sim.DefaultMaxEpochs,
		TimeBudget:  sim.DefaultTimeBudget,
		Speed:       1,
		View:        "dashboard",
		LogLevel:    "info",
		SysInterval: time.Second,
		Animations:  true,
		Accent:      "81",
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv Getenv) (Config, error) {
	d := Default()
	cfg := Config{
		MaxEpochs:   getenv.envInt(prefix+"MAX_EPOCHS", d.MaxEpochs),
		TimeBudget:  getenv.envInt(prefix+"TIME_BUDGET", d.TimeBudget),
		Speed:       getenv.envInt(prefix+"SPEED", d.Speed),
		Seed:        getenv.envInt64(prefix+"SEED", d.Seed),
		View:        strings.ToLower(getenv.str(prefix+"VIEW", d.View)),
		LogLevel:    strings.ToLower(getenv.str(prefix+"LOG_LEVEL", d.LogLevel)),
		LogFile:     getenv.str(prefix+"LOG_FILE", ""),
		RunLogDir:   getenv.str(prefix+"RUN_LOG_DIR", ""),
		SysInterval: time.Duration(getenv.envInt(prefix+"SYS_INTERVAL_MS", int(d.SysInterval/time.Millisecond))) * time.Millisecond,
		Animations:  getenv.envBool(prefix+"ANIMATIONS", d.Animations),
		Accent:      getenv.str(prefix+"ACCENT", d.Accent),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxEpochs < 1 {
		return fmt.Errorf("%w: %sMAX_EPOCHS must be >=1, got %d", ErrInvalid, prefix, c.MaxEpochs)
	}
	if c.TimeBudget < 1 {
		return fmt.Errorf("%w: %sTIME_BUDGET must be >=1, got %d", ErrInvalid, prefix, c.TimeBudget)
	}
	ok := false
	for _, s := range sim.Speeds() {
		if s == c.Speed {
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%w: %sSPEED must be one of 1, 2, 4, got %d", ErrInvalid, prefix, c.Speed)
	}
	if c.LogLevel != "info" && c.LogLevel != "debug" {
		return fmt.Errorf("%w: %sLOG_LEVEL must be info or debug, got %q", ErrInvalid, prefix, c.LogLevel)
	}
	if c.SysInterval < 100*time.Millisecond {
		return fmt.Errorf("%w: %sSYS_INTERVAL_MS must be >=100, got %d", ErrInvalid, prefix, c.SysInterval/time.Millisecond)
	}
	return nil
}

func (c Config) Debug() bool { return c.LogLevel == "debug" }

// Sim is the subset of the configuration the simulator needs.
func (c Config) Sim() sim.Config {
	return sim.Config{MaxEpochs: c.MaxEpochs, TimeBudget: c.TimeBudget, Speed: c.Speed}
}
