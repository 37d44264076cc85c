package history

import (
	"testing"

	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/sampler"
)

func TestObserveProcessesCreatesInGrace(t *testing.T) {
	s := New()
	s.ObserveProcesses([]sampler.ProcessObservation{{PID: 10, Name: "hog"}}, 100, 60, 4)
	recs := s.Processes()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].State != model.StateGrace {
		t.Fatalf("expected new record in GRACE, got %v", recs[0].State)
	}
	if recs[0].NotBefore != 160 {
		t.Fatalf("expected not_before = now+grace = 160, got %v", recs[0].NotBefore)
	}
}

func TestObserveProcessesBoundsHistory(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.ObserveProcesses([]sampler.ProcessObservation{{PID: 1, RSSBytes: uint64(i)}}, float64(i), 0, 4)
	}
	recs := s.Processes()
	if len(recs[0].History) != 4 {
		t.Fatalf("expected history capped at 4, got %d", len(recs[0].History))
	}
	if recs[0].History[0].AtSeconds != 6 {
		t.Fatalf("expected oldest retained sample at t=6, got %v", recs[0].History[0].AtSeconds)
	}
}

func TestGCDropsStaleRecordsPastHorizon(t *testing.T) {
	s := New()
	s.ObserveProcesses([]sampler.ProcessObservation{{PID: 1}}, 0, 0, 4)
	s.GC(1000, map[int32]bool{}, map[string]bool{}, 60)
	if len(s.Processes()) != 0 {
		t.Fatalf("expected stale record to be GC'd")
	}
}

func TestGCKeepsLiveRecords(t *testing.T) {
	s := New()
	s.ObserveProcesses([]sampler.ProcessObservation{{PID: 1}}, 0, 0, 4)
	s.GC(1000, map[int32]bool{1: true}, map[string]bool{}, 60)
	if len(s.Processes()) != 1 {
		t.Fatalf("expected live record to survive GC")
	}
}

func TestProcessesDeterministicPIDOrder(t *testing.T) {
	s := New()
	s.ObserveProcesses([]sampler.ProcessObservation{{PID: 30}, {PID: 10}, {PID: 20}}, 0, 0, 4)
	recs := s.Processes()
	for i := 1; i < len(recs); i++ {
		if recs[i-1].PID > recs[i].PID {
			t.Fatalf("expected PID-ascending order, got %v", recs)
		}
	}
}

func TestResetToWatchClearsHistory(t *testing.T) {
	rec := &model.ProcessRecord{
		History:             []model.Sample{{AtSeconds: 1}},
		State:               model.StateConfirming,
		ConsecutiveConfirms: 2,
	}
	ResetToWatch(rec)
	if len(rec.History) != 0 || rec.State != model.StateWatch || rec.ConsecutiveConfirms != 0 {
		t.Fatalf("expected record reset to WATCH with empty history, got %+v", rec)
	}
}
