// Package history implements the History Store (component C): a
// single-writer map of pid -> model.ProcessRecord, appended to once per
// tick and garbage-collected at the end of every pass.
//
// Grounded in spec.md §9's design note ("best modeled as a hash map from
// pid -> record with explicit garbage collection, not as long-lived
// objects with hidden ownership") and original_source/process_killer.py's
// ProcTracker dict keyed by pid.
package history

import (
	"sort"

	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/sampler"
)

// Store owns every tracked ProcessRecord and ContainerRecord. It is not
// safe for concurrent use; the scheduler loop is the sole caller.
type Store struct {
	processes  map[int32]*model.ProcessRecord
	containers map[string]*model.ContainerRecord
}

func New() *Store {
	return &Store{
		processes:  make(map[int32]*model.ProcessRecord),
		containers: make(map[string]*model.ContainerRecord),
	}
}

// ObserveProcesses folds a fresh sampler snapshot into the store: new
// PIDs get a record in StateGrace, existing PIDs get a new Sample
// appended (evicting the oldest once the ring exceeds historyLen), and
// seen PIDs are marked live for this tick via LastSeenAtSeconds.
func (s *Store) ObserveProcesses(obs []sampler.ProcessObservation, now float64, graceSeconds float64, historyLen int) {
	for _, o := range obs {
		rec, ok := s.processes[o.PID]
		if !ok {
			rec = &model.ProcessRecord{
				PID:        o.PID,
				PPID:       o.PPID,
				Name:       o.Name,
				Cmdline:    o.Cmdline,
				CreatedAt:  o.CreateTime,
				State:      model.StateGrace,
				NotBefore:  now + graceSeconds,
			}
			s.processes[o.PID] = rec
		}
		rec.ChildCount = o.ChildCount
		rec.History = appendSample(rec.History, model.Sample{AtSeconds: now, RSSBytes: o.RSSBytes}, historyLen)
		rec.LastSeenAtSeconds = now
	}
}

// ObserveContainers mirrors ObserveProcesses for container records.
func (s *Store) ObserveContainers(obs []sampler.ContainerObservation, now float64, graceSeconds float64, historyLen int) {
	for _, o := range obs {
		rec, ok := s.containers[o.ID]
		if !ok {
			rec = &model.ContainerRecord{
				ID:        o.ID,
				Name:      o.Name,
				Image:     o.Image,
				CreatedAt: o.CreatedAt,
				State:     model.StateGrace,
				NotBefore: now + graceSeconds,
			}
			s.containers[o.ID] = rec
		}
		rec.History = appendSample(rec.History, model.Sample{AtSeconds: now, RSSBytes: o.RSSBytes}, historyLen)
		rec.LastSeenAtSeconds = now
	}
}

func appendSample(ring []model.Sample, s model.Sample, historyLen int) []model.Sample {
	ring = append(ring, s)
	if len(ring) > historyLen {
		ring = ring[len(ring)-historyLen:]
	}
	return ring
}

// GC drops records whose pid/id was absent from this tick's snapshot
// and whose last sample is older than coolSeconds + historyLen*interval
// (the gc horizon), per spec §3's ProcessRecord lifecycle.
func (s *Store) GC(now float64, liveProcessPIDs map[int32]bool, liveContainerIDs map[string]bool, horizonSeconds float64) {
	for pid, rec := range s.processes {
		if liveProcessPIDs[pid] {
			continue
		}
		if now-rec.LastSeenAtSeconds > horizonSeconds {
			delete(s.processes, pid)
		}
	}
	for id, rec := range s.containers {
		if liveContainerIDs[id] {
			continue
		}
		if now-rec.LastSeenAtSeconds > horizonSeconds {
			delete(s.containers, id)
		}
	}
}

// Remove deletes a process record immediately, used after a successful
// kill so a reused PID does not inherit stale FSM state.
func (s *Store) Remove(pid int32) {
	delete(s.processes, pid)
}

func (s *Store) RemoveContainer(id string) {
	delete(s.containers, id)
}

// Processes returns the live records in PID order, for deterministic
// classification per spec §5.
func (s *Store) Processes() []*model.ProcessRecord {
	out := make([]*model.ProcessRecord, 0, len(s.processes))
	for _, r := range s.processes {
		out = append(out, r)
	}
	sortProcessRecords(out)
	return out
}

func (s *Store) Containers() []*model.ContainerRecord {
	out := make([]*model.ContainerRecord, 0, len(s.containers))
	for _, r := range s.containers {
		out = append(out, r)
	}
	sortContainerRecords(out)
	return out
}

func sortProcessRecords(recs []*model.ProcessRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].PID < recs[j].PID })
}

func sortContainerRecords(recs []*model.ContainerRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
}

// ResetToWatch discards a record's history and returns it to WATCH, used
// by the detector when a corrupt sample (a negative slope from a
// clock/ordering anomaly) is caught — spec §7 tier (iii).
func ResetToWatch(rec *model.ProcessRecord) {
	rec.History = nil
	rec.State = model.StateWatch
	rec.ConsecutiveConfirms = 0
}
