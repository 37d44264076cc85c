package regression

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/Emasoft/process-killer/internal/model"
)

func mb(n float64) uint64 { return uint64(n * bytesPerMB) }

func TestFitCleanLinearLeak(t *testing.T) {
	// S1: 100, 200, 300, 400, 500 MB at t=0..4s (1s apart).
	samples := []model.Sample{
		{AtSeconds: 0, RSSBytes: mb(100)},
		{AtSeconds: 1, RSSBytes: mb(200)},
		{AtSeconds: 2, RSSBytes: mb(300)},
		{AtSeconds: 3, RSSBytes: mb(400)},
		{AtSeconds: 4, RSSBytes: mb(500)},
	}
	r := Fit(samples)
	if math.Abs(r.SlopeMBPerMin-6000) > 1 {
		t.Fatalf("expected slope ~6000 MB/min, got %v", r.SlopeMBPerMin)
	}
	if math.Abs(r.NetGrowthMB-400) > 0.01 {
		t.Fatalf("expected net growth 400 MB, got %v", r.NetGrowthMB)
	}
	if r.RSquared < 0.99 {
		t.Fatalf("expected near-perfect fit, got r2=%v", r.RSquared)
	}
}

func TestFitFlatPlateau(t *testing.T) {
	samples := []model.Sample{
		{AtSeconds: 0, RSSBytes: mb(200)},
		{AtSeconds: 1, RSSBytes: mb(200)},
		{AtSeconds: 2, RSSBytes: mb(200)},
		{AtSeconds: 3, RSSBytes: mb(200)},
	}
	r := Fit(samples)
	if r.SlopeMBPerMin != 0 {
		t.Fatalf("expected zero slope for flat trace, got %v", r.SlopeMBPerMin)
	}
	if r.NetGrowthMB != 0 {
		t.Fatalf("expected zero growth, got %v", r.NetGrowthMB)
	}
}

func TestFitTooFewSamples(t *testing.T) {
	r := Fit([]model.Sample{{AtSeconds: 0, RSSBytes: mb(10)}})
	if r != (Result{}) {
		t.Fatalf("expected zero Result for <2 samples, got %+v", r)
	}
}

// FuzzFitNoPanic ensures arbitrary windows never panic or divide by zero
// uncontrollably, mirroring witr's fuzz-testing style in
// internal/output/sanitize_test.go.
func FuzzFitNoPanic(f *testing.F) {
	f.Add(0.0, uint64(0), 1.0, uint64(1))
	f.Fuzz(func(t *testing.T, t0 float64, rss0 uint64, t1 float64, rss1 uint64) {
		samples := []model.Sample{
			{AtSeconds: t0, RSSBytes: rss0},
			{AtSeconds: t1, RSSBytes: rss1},
		}
		_ = Fit(samples)
	})
}

func TestFitMonotonicIdentical(t *testing.T) {
	err := quick.Check(func(base float64, step uint8) bool {
		if step == 0 {
			step = 1
		}
		samples := make([]model.Sample, 6)
		for i := range samples {
			samples[i] = model.Sample{AtSeconds: float64(i), RSSBytes: uint64(i) * uint64(step)}
		}
		r := Fit(samples)
		return r.SlopeMBPerMin >= 0
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
}
