package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// BufferSettings controls retention, insertion and sampling of a subject
// buffer.
type BufferSettings struct {
	MaxNumberOfFrames int

	// KeepAtLeastOneFrame prevents the retention pass from evicting the
	// newest frame, so a subject keeps its last pose when a source stalls.
	KeepAtLeastOneFrame bool

	ValidEngineTime  time.Duration
	EngineTimeOffset time.Duration

	// ValidTimecodeFrames and TimecodeFrameOffset are expressed in frames
	// of TimecodeFrameRate.
	ValidTimecodeFrames float64
	TimecodeFrameOffset float64

	// LatestOffset is how many frames behind the newest the latest-mode
	// sampler reads.
	LatestOffset int

	GenerateSubFrame        bool
	SourceTimecodeFrameRate Rational
	TimecodeFrameRate       Rational
}

func DefaultBufferSettings() BufferSettings {
	return BufferSettings{
		MaxNumberOfFrames:       10,
		KeepAtLeastOneFrame:     true,
		ValidEngineTime:         time.Second,
		ValidTimecodeFrames:     30,
		SourceTimecodeFrameRate: Rational{Num: 30, Den: 1},
		TimecodeFrameRate:       Rational{Num: 30, Den: 1},
	}
}

func (s BufferSettings) Validate() error {
	var errs []error
	if s.MaxNumberOfFrames < 1 {
		errs = append(errs, fmt.Errorf("MaxNumberOfFrames must be positive, got %d", s.MaxNumberOfFrames))
	}
	if s.ValidEngineTime < 0 {
		errs = append(errs, fmt.Errorf("ValidEngineTime must not be negative, got %v", s.ValidEngineTime))
	}
	if s.ValidTimecodeFrames < 0 {
		errs = append(errs, fmt.Errorf("ValidTimecodeFrames must not be negative, got %v", s.ValidTimecodeFrames))
	}
	if s.LatestOffset < 0 {
		errs = append(errs, fmt.Errorf("LatestOffset must not be negative, got %d", s.LatestOffset))
	}
	if !s.TimecodeFrameRate.IsValid() {
		errs = append(errs, fmt.Errorf("invalid TimecodeFrameRate %s", s.TimecodeFrameRate))
	}
	if s.GenerateSubFrame && !s.SourceTimecodeFrameRate.IsValid() {
		errs = append(errs, fmt.Errorf("invalid SourceTimecodeFrameRate %s", s.SourceTimecodeFrameRate))
	}
	return errors.Join(errs...)
}

func (s BufferSettings) String() string {
	type plain BufferSettings
	return spew.Sdump(plain(s))
}
