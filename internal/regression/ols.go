// Package regression computes ordinary least-squares trend lines over a
// process's (timestamp, rss) sample window, grounded in
// original_source/process_killer.py's window_stats() helper.
package regression

import "github.com/Emasoft/process-killer/internal/model"

// Result is the outcome of fitting a line through a sample window.
type Result struct {
	SlopeMBPerMin float64
	NetGrowthMB   float64
	RSquared      float64
}

const bytesPerMB = 1024 * 1024

// Fit runs OLS on samples (monotonic seconds, rss bytes) and returns the
// slope converted to MB/min, the net growth between the first and last
// sample in MB, and the coefficient of determination. Fit requires at
// least two samples; callers must check len(samples) >= history before
// calling, per the Leak Detector's window-full precondition.
func Fit(samples []model.Sample) Result {
	n := len(samples)
	if n < 2 {
		return Result{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, s := range samples {
		x := s.AtSeconds
		y := float64(s.RSSBytes)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	nf := float64(n)
	denom := nf*sumXX - sumX*sumX

	var slopeBytesPerSec float64
	if denom != 0 {
		slopeBytesPerSec = (nf*sumXY - sumX*sumY) / denom
	}

	meanY := sumY / nf
	var ssTot, ssRes float64
	intercept := (sumY - slopeBytesPerSec*sumX) / nf
	for _, s := range samples {
		pred := intercept + slopeBytesPerSec*s.AtSeconds
		actual := float64(s.RSSBytes)
		ssRes += (actual - pred) * (actual - pred)
		ssTot += (actual - meanY) * (actual - meanY)
	}
	var rSquared float64
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	netGrowthBytes := float64(samples[n-1].RSSBytes) - float64(samples[0].RSSBytes)

	return Result{
		SlopeMBPerMin: slopeBytesPerSec * 60 / bytesPerMB,
		NetGrowthMB:   netGrowthBytes / bytesPerMB,
		RSquared:      rSquared,
	}
}
