// Package detector implements the Leak Detector (component D): OLS
// classification over a record's history window and the pure FSM
// transition function spec §4.D specifies.
package detector

import (
	"github.com/Emasoft/process-killer/internal/history"
	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/regression"
)

// Classify runs the regression fit and the leaking predicate: slope AND
// growth must both clear their thresholds (spec §4.D; no r² floor is
// required by design, "monotone positive drift with magnitude is the
// intent").
func Classify(samples []model.Sample, th model.EffectiveThresholds) model.Classification {
	if len(samples) < th.HistoryLen {
		return model.Classification{}
	}
	r := regression.Fit(samples)
	leaking := r.SlopeMBPerMin >= th.SlopeMBPerMin && r.NetGrowthMB >= th.GrowthMB
	return model.Classification{
		SlopeMBPerMin: r.SlopeMBPerMin,
		NetGrowthMB:   r.NetGrowthMB,
		RSquared:      r.RSquared,
		WindowFull:    true,
		Leaking:       leaking,
	}
}

// PredictedExceedsCeiling implements the predictive shortcut: under the
// current slope, would projected RSS at now+2*interval exceed
// (totalRAM - 5% safety margin)? lastRSSBytes is the record's most
// recent sample.
func PredictedExceedsCeiling(slopeMBPerMin float64, lastRSSBytes uint64, intervalSeconds float64, totalRAMBytes uint64) bool {
	if slopeMBPerMin <= 0 {
		return false
	}
	const bytesPerMB = 1024 * 1024
	projectedBytes := float64(lastRSSBytes) + slopeMBPerMin*bytesPerMB/60*2*intervalSeconds
	ceiling := float64(totalRAMBytes) * 0.95
	return projectedBytes > ceiling
}

// Advance applies spec §4.D's transition table to one record given a
// fresh classification, corrupt-sample detection, and the predictive
// shortcut. now and th are the current tick's monotonic time and
// effective thresholds. whitelisted suppresses the CONFIRMING->KILLABLE
// edge per spec §4.D ("classification runs for observability but the
// KILLABLE transition is suppressed").
func Advance(rec *model.ProcessRecord, now float64, th model.EffectiveThresholds, whitelisted, predictiveHit bool) {
	if negativeSlopeCorruption(rec) {
		history.ResetToWatch(rec)
		return
	}

	switch rec.State {
	case model.StateGrace:
		if now >= rec.NotBefore {
			rec.State = model.StateWatch
		}
		return

	case model.StateWatch:
		cls := Classify(rec.History, th)
		rec.LastClassification = cls
		if cls.Leaking {
			rec.State = model.StateConfirming
			rec.ConsecutiveConfirms = 1
			if !whitelisted && predictiveHit {
				rec.State = model.StateKillable
			}
		} else if plateaued(rec, th) {
			rec.State = model.StatePlateau
		}

	case model.StateConfirming:
		cls := Classify(rec.History, th)
		rec.LastClassification = cls
		if cls.Leaking {
			rec.ConsecutiveConfirms++
			if !whitelisted && (rec.ConsecutiveConfirms >= th.ConfCount || predictiveHit) {
				rec.State = model.StateKillable
			}
		} else {
			rec.ConsecutiveConfirms = 0
			rec.State = model.StateWatch
		}

	case model.StatePlateau:
		rec.State = model.StateCooling
		rec.NotBefore = now + th.CoolSeconds

	case model.StateCooling:
		if now >= rec.NotBefore {
			rec.State = model.StateWatch
			rec.ConsecutiveConfirms = 0
		}

	case model.StateKillable:
		// terminal for this tick; the scheduler either kills (record is
		// removed entirely) or, on a failed kill, moves it to COOLING.
	}
}

// OnKillFailed transitions a KILLABLE record to COOLING, per spec §4.D's
// "if kill failed -> COOLING".
func OnKillFailed(rec *model.ProcessRecord, now float64, th model.EffectiveThresholds) {
	rec.State = model.StateCooling
	rec.NotBefore = now + th.CoolSeconds
	rec.ConsecutiveConfirms = 0
}

func negativeSlopeCorruption(rec *model.ProcessRecord) bool {
	if len(rec.History) < 2 {
		return false
	}
	for i := 1; i < len(rec.History); i++ {
		if rec.History[i].AtSeconds < rec.History[i-1].AtSeconds {
			return true // timestamps must be monotonically non-decreasing
		}
	}
	return false
}

// plateaued reports whether the window is full, slope is ~0, and rss is
// not decreasing — spec §4.D's WATCH->PLATEAU edge, checked only after a
// full window to avoid flapping (spec §9 open question, resolved this
// way).
func plateaued(rec *model.ProcessRecord, th model.EffectiveThresholds) bool {
	if len(rec.History) < th.HistoryLen {
		return false
	}
	cls := rec.LastClassification
	const epsilon = 0.5 // MB/min, "slope ≈ 0"
	if cls.SlopeMBPerMin > epsilon || cls.SlopeMBPerMin < -epsilon {
		return false
	}
	first := rec.History[0].RSSBytes
	last := rec.History[len(rec.History)-1].RSSBytes
	return last >= first
}
