// Package ancestry supplies the process-structure facts the whitelist
// and iterm-only rules (spec §4.I) build on: a process's parent chain,
// whether an ancestor has a given name, and a process's session id.
// Deciding whether a PID is PID 1, this program, or its session leader
// is left to internal/whitelist.
//
// Grounded in witr's internal/process/ancestory.go (BuildAncestry,
// walking the parent chain one hop at a time) generalized from witr's
// proc.ReadProcess to gopsutil, plus witr's internal/proc/process_linux.go
// raw /proc/<pid>/stat parsing for session id, which gopsutil does not
// expose.
package ancestry

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
)

// Chain walks the parent chain starting at pid, stopping at PID 1 or on
// the first unreadable ancestor (a vanished or permission-denied
// parent ends the walk rather than erroring, mirroring witr's
// BuildAncestry tolerance for broken links).
func Chain(ctx context.Context, pid int32) []int32 {
	var chain []int32
	seen := make(map[int32]bool)
	cur := pid
	for cur > 0 && !seen[cur] {
		seen[cur] = true
		chain = append(chain, cur)
		if cur == 1 {
			break
		}
		p, err := process.NewProcess(cur)
		if err != nil {
			break
		}
		ppid, err := p.PpidWithContext(ctx)
		if err != nil || ppid == cur {
			break
		}
		cur = ppid
	}
	return chain
}

// DescendsFromName reports whether any ancestor in chain (excluding pid
// itself) has the given process basename. Used for iterm-only mode's
// "descended from the terminal emulator's session" rule.
func DescendsFromName(ctx context.Context, chain []int32, name string) bool {
	for i, ancestorPID := range chain {
		if i == 0 {
			continue // chain[0] is the process itself
		}
		p, err := process.NewProcess(ancestorPID)
		if err != nil {
			continue
		}
		n, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if n == name {
			return true
		}
	}
	return false
}
