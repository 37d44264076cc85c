// Package oracle implements the Memory Oracle (component B): a single
// no-cache reading of total/used system memory per tick.
package oracle

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"
)

// Reading is one observation of aggregate host memory.
type Reading struct {
	TotalBytes uint64
	UsedPct    float64
}

// Oracle reports system memory. It is grounded in
// CodeMonkeyCybersecurity-eos__resource_watchdog.go's use of
// gopsutil/mem for the same purpose; replaces the teacher's lack of any
// system-memory reading entirely (witr never reads aggregate memory).
type Oracle struct{}

func New() Oracle { return Oracle{} }

// Read takes one fresh reading; gopsutil ignores context internally but
// the signature matches the rest of this codebase's blocking calls.
func (Oracle) Read(_ context.Context) (Reading, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		TotalBytes: vm.Total,
		UsedPct:    vm.UsedPercent,
	}, nil
}
