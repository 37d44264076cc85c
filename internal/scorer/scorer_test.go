package scorer

import (
	"testing"

	"github.com/Emasoft/process-killer/internal/model"
)

// S4 — five non-leaking processes ranked by RSS, one killed per tick
// (floor(5/3) = 1).
func TestS4RankOrdersByRSSWhenOtherwiseEqual(t *testing.T) {
	cs := []Candidate{
		{PID: 1, RSSBytes: 500 * 1024 * 1024, AgeSeconds: 10},
		{PID: 2, RSSBytes: 400 * 1024 * 1024, AgeSeconds: 10},
		{PID: 3, RSSBytes: 300 * 1024 * 1024, AgeSeconds: 10},
		{PID: 4, RSSBytes: 200 * 1024 * 1024, AgeSeconds: 10},
		{PID: 5, RSSBytes: 100 * 1024 * 1024, AgeSeconds: 10},
	}
	ranked := Rank(cs, 1)
	if ranked[0].PID != 1 {
		t.Fatalf("expected highest-RSS candidate first, got pid=%d", ranked[0].PID)
	}
	if got := MaxKills(len(cs)); got != 1 {
		t.Fatalf("expected floor(5/3)=1 max kills, got %d", got)
	}
}

func TestRankKillableBeatsConfirmingAtEqualMetrics(t *testing.T) {
	cs := []Candidate{
		{PID: 1, State: model.StateConfirming, AgeSeconds: 10},
		{PID: 2, State: model.StateKillable, AgeSeconds: 10},
	}
	ranked := Rank(cs, 1)
	if ranked[0].PID != 2 {
		t.Fatalf("expected KILLABLE state to outrank CONFIRMING, got pid=%d first", ranked[0].PID)
	}
}

func TestRankTiesBreakByPIDAscending(t *testing.T) {
	cs := []Candidate{
		{PID: 20, AgeSeconds: 10},
		{PID: 10, AgeSeconds: 10},
	}
	ranked := Rank(cs, 1)
	if ranked[0].PID != 10 {
		t.Fatalf("expected PID-ascending tie break, got %d first", ranked[0].PID)
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	if Rank(nil, 1) != nil {
		t.Fatalf("expected nil for empty candidate set")
	}
}

func TestMaxKillsFloorsDown(t *testing.T) {
	if MaxKills(2) != 0 {
		t.Fatalf("expected floor(2/3)=0")
	}
	if MaxKills(9) != 3 {
		t.Fatalf("expected floor(9/3)=3")
	}
}
