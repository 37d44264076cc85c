package config

import (
	"fmt"

	"github.com/Emasoft/process-killer/internal/model"
)

// Config holds the static, user-supplied parameters described in the
// spec's CLI surface (§6). Flag parsing itself lives in cmd/memwatchd and
// is plumbing around this struct; Config is what the core subsystems
// actually consume.
//
// For History, GrowthMB, SlopeMBPerMin, HighPct and LowPct, internal/tuner
// uses the field only when the matching Set bit is true and otherwise
// falls back to the RAM-tier default, whatever value the field holds.
type Config struct {
	IntervalSeconds int
	History         int
	GrowthMB        int
	SlopeMBPerMin   int
	Conf            int
	GraceSeconds    int
	CoolSeconds     int
	HighPct         int
	LowPct          int
	RecentSeconds   int
	ChildWeight     float64
	NotifyThreshold int
	NotifyWindowSec int
	ItermOnly       bool
	Docker          bool
	Mode            model.Mode
	LeakThresholdPct int

	Set SetFields
}

// SetFields records which Config fields were explicitly supplied, on the
// command line or in ~/.memwatchd.yaml, as opposed to left at their
// defaults. internal/tuner only
// overrides a tier default when the corresponding bit is set.
type SetFields struct {
	History       bool
	GrowthMB      bool
	SlopeMBPerMin bool
	HighPct       bool
	LowPct        bool
}

// Default returns the spec's out-of-the-box defaults (§6).
func Default() Config {
	return Config{
		IntervalSeconds:  5,
		History:          6,
		GrowthMB:         50,
		SlopeMBPerMin:    20,
		Conf:             2,
		GraceSeconds:     60,
		CoolSeconds:      300,
		HighPct:          90,
		LowPct:           85,
		RecentSeconds:    180,
		ChildWeight:      1,
		NotifyThreshold:  3,
		NotifyWindowSec:  600,
		ItermOnly:        false,
		Docker:           false,
		Mode:             model.ModeProtection,
		LeakThresholdPct: 85,
	}
}

// Validate enforces the invariants the outer CLI is expected to check
// before starting the scheduler loop (exit code 3 on violation, per §6).
func (c Config) Validate() error {
	if c.HighPct <= c.LowPct {
		return fmt.Errorf("--high (%d) must be greater than --low (%d)", c.HighPct, c.LowPct)
	}
	if c.IntervalSeconds < 1 {
		return fmt.Errorf("--interval must be at least 1 second")
	}
	if c.History < 2 {
		return fmt.Errorf("--history must be at least 2 samples")
	}
	if c.SlopeMBPerMin < 0 || c.GrowthMB < 0 {
		return fmt.Errorf("--slope and --growth must be non-negative")
	}
	if c.LeakThresholdPct < 0 || c.LeakThresholdPct > 100 {
		return fmt.Errorf("--leak-threshold must be between 0 and 100")
	}
	if c.Conf < 1 {
		return fmt.Errorf("--conf must be at least 1")
	}
	return nil
}
