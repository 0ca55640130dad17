// moving_average.go defines the MovingAverage interface for smoothing noisy
// measurements (e.g. frame arrival intervals).

// Package indicator provides smoothing indicators used to estimate source
// frame rates.
package indicator

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type MovingAverage[T Number] interface {
	// Update adds a measurement and returns the current smoothed value.
	Update(v T) T
	InitPeriod() int64
	Valid() bool
	Reset()
}
