package cache

import "fmt"

// Snapshot is a point-in-time view of the cache counters for one run.
type Snapshot struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Stores int64 `json:"stores"`
}

// Requests is the total number of cacheable requests seen.
func (s Snapshot) Requests() int64 {
	return s.Hits + s.Misses
}

// HitRate is the fraction of cacheable requests served from cache,
// in [0, 1]. Zero requests yield zero.
func (s Snapshot) HitRate() float64 {
	total := s.Requests()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Summary renders a one-line human-readable report.
func (s Snapshot) Summary() string {
	return fmt.Sprintf("api cache: %d requests, %d hits (%.1f%%), %d misses, %d stored",
		s.Requests(), s.Hits, s.HitRate()*100, s.Misses, s.Stores)
}
