package model

// EffectiveThresholds is what internal/tuner recomputes every tick from the
// static config, the host's RAM tier, and the current pressure reading. It
// is passed by value into the detector and the scheduler's pressure-relief
// pass; nothing here is mutable
// module-level state.
type EffectiveThresholds struct {
	SlopeMBPerMin float64
	GrowthMB      float64
	HistoryLen    int
	GraceSeconds  float64
	CoolSeconds   float64
	HighPct       float64
	LowPct        float64
	LeakPct       float64
	ConfCount     int
}

// Mode selects whether confirmed leaks are killed unconditionally (HUNTING)
// or only once aggregate memory pressure crosses LeakPct (PROTECTION).
type Mode int

const (
	ModeProtection Mode = iota
	ModeHunting
)

func (m Mode) String() string {
	if m == ModeHunting {
		return "hunting"
	}
	return "protection"
}

// GlobalState is the scheduler's singleton, mutated only by the scheduler
// goroutine between ticks.
type GlobalState struct {
	TotalRAMBytes  uint64
	UsedPct        float64
	Mode           Mode
	ItermOnly      bool
	ContainersOn   bool
}
