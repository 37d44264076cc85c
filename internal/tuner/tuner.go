// Package tuner implements the Adaptive Tuner (component E): base
// thresholds by RAM tier, user overrides, and per-tick pressure
// tightening.
//
// Grounded in original_source/process_killer.py's
// SystemInfo.optimize_params() (tier table) and
// DynamicParams.adjust_for_pressure() (tightening multipliers).
package tuner

import (
	"github.com/Emasoft/process-killer/internal/config"
	"github.com/Emasoft/process-killer/internal/model"
)

const gib = 1024 * 1024 * 1024

type tier struct {
	slope, growth     float64
	history           int
	high, low         float64
}

func tierFor(totalBytes uint64) tier {
	switch {
	case totalBytes <= 8*gib:
		return tier{slope: 10, growth: 20, history: 8, high: 85, low: 80}
	case totalBytes <= 16*gib:
		return tier{slope: 20, growth: 50, history: 6, high: 90, low: 85}
	case totalBytes <= 32*gib:
		return tier{slope: 30, growth: 100, history: 6, high: 92, low: 87}
	default:
		return tier{slope: 40, growth: 200, history: 6, high: 94, low: 89}
	}
}

// Compute returns this tick's effective thresholds given the static
// config, total RAM, and current used%.
func Compute(cfg config.Config, totalRAMBytes uint64, usedPct float64) model.EffectiveThresholds {
	t := tierFor(totalRAMBytes)

	slope := t.slope
	if cfg.Set.SlopeMBPerMin {
		slope = float64(cfg.SlopeMBPerMin)
	}
	growth := t.growth
	if cfg.Set.GrowthMB {
		growth = float64(cfg.GrowthMB)
	}
	history := t.history
	if cfg.Set.History {
		history = cfg.History
	}
	high := t.high
	if cfg.Set.HighPct {
		high = float64(cfg.HighPct)
	}
	low := t.low
	if cfg.Set.LowPct {
		low = float64(cfg.LowPct)
	}

	// Pressure tightening: shortens time-to-KILLABLE under a stressed host.
	switch {
	case usedPct > high:
		slope *= 0.5
		growth *= 0.5
	case usedPct > high-5:
		slope *= 0.7
		growth *= 0.7
	}

	return model.EffectiveThresholds{
		SlopeMBPerMin: float64(int(slope + 0.5)),
		GrowthMB:      float64(int(growth + 0.5)),
		HistoryLen:    history,
		GraceSeconds:  float64(cfg.GraceSeconds),
		CoolSeconds:   float64(cfg.CoolSeconds),
		HighPct:       high,
		LowPct:        low,
		LeakPct:       float64(cfg.LeakThresholdPct),
		ConfCount:     cfg.Conf,
	}
}
