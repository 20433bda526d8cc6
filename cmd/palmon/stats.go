package main

import (
	"math"
	"time"

	"github.com/wippyai/palrtos/internal/syncutil"
)

// fireStats accumulates callback timestamps and the spacing between them.
type fireStats struct {
	mu       syncutil.Mutex
	interval time.Duration
	first    time.Time
	last     time.Time
	fires    int
	sum      float64
	sumSq    float64
	min, max time.Duration
}

type summary struct {
	Fires    int
	Elapsed  time.Duration
	Mean     time.Duration
	Jitter   time.Duration
	Min, Max time.Duration
	// Drift is how far the last fire lags (or leads) its ideal time
	// first + (fires-1)*interval.
	Drift time.Duration
}

func newFireStats(interval time.Duration) *fireStats {
	return &fireStats{interval: interval}
}

func (s *fireStats) record(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fires++
	if s.fires == 1 {
		s.first, s.last = at, at
		return
	}

	gap := at.Sub(s.last)
	s.last = at
	s.sum += float64(gap)
	s.sumSq += float64(gap) * float64(gap)
	if s.fires == 2 || gap < s.min {
		s.min = gap
	}
	if gap > s.max {
		s.max = gap
	}
}

func (s *fireStats) summary() summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := summary{Fires: s.fires, Min: s.min, Max: s.max}
	if s.fires < 2 {
		return out
	}

	n := float64(s.fires - 1)
	mean := s.sum / n
	variance := s.sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	out.Elapsed = s.last.Sub(s.first)
	out.Mean = time.Duration(mean)
	out.Jitter = time.Duration(math.Sqrt(variance))
	out.Drift = out.Elapsed - time.Duration(s.fires-1)*s.interval
	return out
}
