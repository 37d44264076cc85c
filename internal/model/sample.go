package model

// Sample is a single, immutable (timestamp, rss) observation for one tracked
// entity. Timestamps are monotonic seconds, not wall-clock time, so a long
// tick or a clock step never corrupts a slope estimate.
type Sample struct {
	AtSeconds float64
	RSSBytes  uint64
}
