package batchx

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// ─── Latency Summary ──────────────────────────────────────────────────────────

// Summary condenses per-task latencies into distribution figures, backed
// by an HDR histogram with microsecond resolution up to an hour.
type Summary struct {
	hist  *hdrhistogram.Histogram
	Count int
	Total time.Duration
}

// Summary builds the latency distribution of every settled task, failed
// ones included.
func (r *BatchResult) Summary() *Summary {
	h := hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)

	s := &Summary{hist: h}
	for _, res := range r.Results {
		us := res.Duration.Microseconds()
		if us < 1 {
			us = 1
		}
		// Out-of-range samples are clamped by the histogram bounds.
		_ = h.RecordValue(us)
		s.Count++
		s.Total += res.Duration
	}
	return s
}

// Percentile returns the latency at quantile p (for example 50, 95, 99).
func (s *Summary) Percentile(p float64) time.Duration {
	return time.Duration(s.hist.ValueAtQuantile(p)) * time.Microsecond
}

// MeanLatency returns the mean task latency.
func (s *Summary) MeanLatency() time.Duration {
	return time.Duration(s.hist.Mean()) * time.Microsecond
}

// MaxLatency returns the slowest task latency.
func (s *Summary) MaxLatency() time.Duration {
	return time.Duration(s.hist.Max()) * time.Microsecond
}
