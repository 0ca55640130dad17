package indicator

import (
	"sync"
)

// DefaultRateWindow is the amount of intervals the estimate is smoothed over.
const DefaultRateWindow = 50

// RateEstimator estimates how many samples per second a source produces,
// given the times the samples are stamped with.
type RateEstimator struct {
	locker    sync.Mutex
	intervals MovingAverage[float64]
	lastTime  float64
	hasLast   bool
	interval  float64
}

func NewRateEstimator(window int) *RateEstimator {
	return &RateEstimator{
		intervals: NewMAMADefault[float64](window),
	}
}

// Observe records a sample stamped with t seconds. Samples that are not newer
// than the previous one are ignored.
func (e *RateEstimator) Observe(t float64) {
	e.locker.Lock()
	defer e.locker.Unlock()
	if !e.hasLast {
		e.lastTime, e.hasLast = t, true
		return
	}
	delta := t - e.lastTime
	if delta <= 0 {
		return
	}
	e.lastTime = t
	e.interval = e.intervals.Update(delta)
}

// Rate returns the estimated samples per second; ok is false until enough
// samples are observed.
func (e *RateEstimator) Rate() (_ret float64, ok bool) {
	e.locker.Lock()
	defer e.locker.Unlock()
	if !e.intervals.Valid() || e.interval <= 0 {
		return 0, false
	}
	return 1 / e.interval, true
}

func (e *RateEstimator) Reset() {
	e.locker.Lock()
	defer e.locker.Unlock()
	e.intervals.Reset()
	e.hasLast = false
	e.interval = 0
}
