// Package scorer implements the Pressure Relief Scorer (component F): a
// weighted, min-max-normalized ranking of kill candidates, with
// hysteresis between the high and low watermarks.
//
// Default weights come from spec §9's open-question resolution: "a
// faithful but not bit-identical choice" to
// original_source/process_killer.py's pressure_relief() scoring
// formula, which this port does not copy verbatim (see DESIGN.md).
package scorer

import (
	"sort"

	"github.com/Emasoft/process-killer/internal/model"
)

const (
	w1 = 3.0 // state weight
	w2 = 2.0 // normalized slope
	w3 = 2.0 // normalized rss
	w5 = 1.0 // inverse age
)

// Candidate is one scoreable process, already filtered for whitelist,
// self, PID 1, and (in iterm-only mode) non-terminal descent.
type Candidate struct {
	PID        int32
	State      model.State
	SlopeMBMin float64
	RSSBytes   uint64
	ChildCount int
	AgeSeconds float64
}

// scored pairs a Candidate with its computed score for ranking.
type scored struct {
	Candidate
	score float64
}

// Rank orders candidates by descending score (PID ascending as a
// tie-break, per spec §5's determinism requirement), using min-max
// normalization over this tick's candidate set. childWeight is the only
// scorer weight exposed as a tunable (spec §9); all other weights are
// fixed.
func Rank(candidates []Candidate, childWeight float64) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	minSlope, maxSlope := minMaxSlope(candidates)
	minRSS, maxRSS := minMaxRSS(candidates)
	minChild, maxChild := minMaxChild(candidates)

	out := make([]scored, len(candidates))
	for i, c := range candidates {
		stateScore := 0.0
		switch c.State {
		case model.StateKillable:
			stateScore = 1
		case model.StateConfirming:
			stateScore = 0.5
		}
		age := c.AgeSeconds
		if age < 1 {
			age = 1
		}
		score := w1*stateScore +
			w2*normalize(c.SlopeMBMin, minSlope, maxSlope) +
			w3*normalize(float64(c.RSSBytes), minRSS, maxRSS) +
			childWeight*normalize(float64(c.ChildCount), minChild, maxChild) +
			w5*(1/age)
		out[i] = scored{Candidate: c, score: score}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].PID < out[j].PID
	})

	ranked := make([]Candidate, len(out))
	for i, s := range out {
		ranked[i] = s.Candidate
	}
	return ranked
}

// MaxKills bounds a single tick to at most one third of the candidate
// set, per spec §4.F / property 4.
func MaxKills(candidateCount int) int {
	return candidateCount / 3
}

func normalize(v, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (v - min) / (max - min)
}

func minMaxSlope(cs []Candidate) (float64, float64) {
	min, max := cs[0].SlopeMBMin, cs[0].SlopeMBMin
	for _, c := range cs[1:] {
		if c.SlopeMBMin < min {
			min = c.SlopeMBMin
		}
		if c.SlopeMBMin > max {
			max = c.SlopeMBMin
		}
	}
	return min, max
}

func minMaxRSS(cs []Candidate) (float64, float64) {
	min, max := float64(cs[0].RSSBytes), float64(cs[0].RSSBytes)
	for _, c := range cs[1:] {
		v := float64(c.RSSBytes)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func minMaxChild(cs []Candidate) (float64, float64) {
	min, max := float64(cs[0].ChildCount), float64(cs[0].ChildCount)
	for _, c := range cs[1:] {
		v := float64(c.ChildCount)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
