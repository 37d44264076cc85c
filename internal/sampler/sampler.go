// Package sampler implements the Process Sampler (component A): one
// snapshot() operation enumerating every process, and a parallel
// container_snapshot() for the optional Docker integration.
//
// Grounded in CodeMonkeyCybersecurity-eos__resource_watchdog.go's use of
// gopsutil/v3/process for enumeration; this replaces the teacher's raw
// /proc parsing (internal/proc/process_linux.go, all_processes_linux.go)
// for everything gopsutil can supply cross-platform.
package sampler

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessObservation is one process's reading for this tick. It is the
// Sampler's output type; internal/history turns it into a
// model.ProcessRecord entry.
type ProcessObservation struct {
	PID         int32
	PPID        int32
	Name        string
	Cmdline     string
	CreateTime  time.Time
	ChildCount  int
	RSSBytes    uint64
}

// Sampler enumerates OS processes. The zero value is ready to use.
type Sampler struct{}

func New() Sampler { return Sampler{} }

// Snapshot enumerates every process currently visible to this process.
// Per spec §4.A, a process that disappears mid-iteration (ESRCH-style
// races) is skipped silently rather than surfaced as an error — gopsutil
// itself returns process.ErrorProcessNotRunning or similar in that case,
// which this loop treats identically to "unreadable, skip".
func (Sampler) Snapshot(ctx context.Context) ([]ProcessObservation, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, err
	}

	// Pre-compute child counts in one pass so a vanished parent does not
	// require a second enumeration.
	childCount := make(map[int32]int, len(pids))

	type partial struct {
		proc *process.Process
		ppid int32
	}
	partials := make([]partial, 0, len(pids))

	for _, pid := range pids {
		p, err := process.NewProcess(pid)
		if err != nil {
			continue // vanished between Pids() and NewProcess(); skip silently
		}
		ppid, err := p.PpidWithContext(ctx)
		if err != nil {
			continue
		}
		childCount[ppid]++
		partials = append(partials, partial{proc: p, ppid: ppid})
	}

	out := make([]ProcessObservation, 0, len(partials))
	for _, part := range partials {
		p := part.proc
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil {
			cmdline = name // degrade gracefully: some kernel threads have no cmdline
		}
		memInfo, err := p.MemoryInfoWithContext(ctx)
		if err != nil || memInfo == nil {
			continue
		}
		createMs, err := p.CreateTimeWithContext(ctx)
		if err != nil {
			createMs = 0
		}

		out = append(out, ProcessObservation{
			PID:        p.Pid,
			PPID:       part.ppid,
			Name:       name,
			Cmdline:    cmdline,
			CreateTime: time.UnixMilli(createMs),
			ChildCount: childCount[p.Pid],
			RSSBytes:   memInfo.RSS,
		})
	}
	return out, nil
}
