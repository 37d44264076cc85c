package sampler

import "testing"

func TestParseByteSize(t *testing.T) {
	mib123_4 := 123.4 * 1024 * 1024
	cases := map[string]uint64{
		"123.4MiB": uint64(mib123_4),
		"2GiB":     2 * 1024 * 1024 * 1024,
		"512KiB":   512 * 1024,
		"garbage":  0,
	}
	for in, want := range cases {
		if got := parseByteSize(in); got != want {
			t.Errorf("parseByteSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseMemUsageBytesTakesUsedSide(t *testing.T) {
	got := parseMemUsageBytes("100MiB / 2GiB")
	want := uint64(100 * 1024 * 1024)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestParseDockerStatsSkipsMalformedLines(t *testing.T) {
	raw := []byte("{\"Container\":\"abc\",\"MemUsage\":\"10MiB / 1GiB\"}\nnot json\n")
	m := parseDockerStats(raw)
	if len(m) != 1 || m["abc"] != 10*1024*1024 {
		t.Fatalf("unexpected parse result: %+v", m)
	}
}
