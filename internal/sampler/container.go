package sampler

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Emasoft/process-killer/internal/executil"
)

// ContainerObservation is one container's reading for this tick,
// sourced from the external container runtime rather than /proc.
type ContainerObservation struct {
	ID        string
	Name      string
	Image     string
	CreatedAt time.Time
	RSSBytes  uint64
}

// dockerPsLine mirrors the fields docker ps --format '{{json .}}' emits;
// grounded in Rusenback-docker-monitor__stats.go's JSON stats struct and
// original_source/process_killer.py's "docker stats --no-stream --format
// json" invocation.
type dockerPsLine struct {
	ID        string `json:"ID"`
	Names     string `json:"Names"`
	Image     string `json:"Image"`
	CreatedAt string `json:"CreatedAt"`
}

type dockerStatsLine struct {
	Container string `json:"Container"`
	MemUsage  string `json:"MemUsage"` // e.g. "123.4MiB / 2GiB"
}

// ContainerSnapshot queries the external container runtime for running
// containers and their memory usage. Per spec §4.A, absence of the
// runtime silently disables container mode: an empty slice and nil
// error are returned rather than surfacing an error to the scheduler.
// deadline bounds each shell-out, per spec §5's "container runtime
// shell-out bounded to interval/2" (the caller passes interval/2).
func ContainerSnapshot(ctx context.Context, deadline time.Duration) ([]ContainerObservation, error) {
	if !executil.Available("docker") {
		return nil, nil
	}

	psOut, err := executil.Run(ctx, deadline, "docker", "ps", "--format", "{{json .}}")
	if err != nil {
		return nil, nil // runtime present but unreachable (daemon down): treat as absent
	}

	statsOut, err := executil.Run(ctx, deadline, "docker", "stats", "--no-stream", "--format", "{{json .}}")
	if err != nil {
		statsOut = nil // memory unavailable this tick; still report containers with rss=0
	}
	rssByID := parseDockerStats(statsOut)

	var out []ContainerObservation
	for _, line := range strings.Split(string(psOut), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry dockerPsLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // malformed line: skip silently, same as a vanished process
		}
		created, _ := time.Parse("2006-01-02 15:04:05 -0700 MST", entry.CreatedAt)
		out = append(out, ContainerObservation{
			ID:        entry.ID,
			Name:      strings.TrimPrefix(entry.Names, "/"),
			Image:     entry.Image,
			CreatedAt: created,
			RSSBytes:  rssByID[entry.ID],
		})
	}
	return out, nil
}

func parseDockerStats(raw []byte) map[string]uint64 {
	result := make(map[string]uint64)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry dockerStatsLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		result[entry.Container] = parseMemUsageBytes(entry.MemUsage)
	}
	return result
}

// parseMemUsageBytes parses docker's "123.4MiB / 2GiB" style field into
// the used-bytes component.
func parseMemUsageBytes(usage string) uint64 {
	parts := strings.SplitN(usage, "/", 2)
	if len(parts) == 0 {
		return 0
	}
	return parseByteSize(strings.TrimSpace(parts[0]))
}

func parseByteSize(s string) uint64 {
	units := []struct {
		suffix string
		mult   float64
	}{
		{"GiB", 1024 * 1024 * 1024},
		{"MiB", 1024 * 1024},
		{"KiB", 1024},
		{"GB", 1_000_000_000},
		{"MB", 1_000_000},
		{"KB", 1_000},
		{"B", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			num := strings.TrimSuffix(s, u.suffix)
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0
			}
			return uint64(f * u.mult)
		}
	}
	return 0
}
