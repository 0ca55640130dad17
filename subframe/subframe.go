// Package subframe spreads frames that share one timecode frame number over
// the fractional part of that frame.
//
// A 120 Hz tracker stamped with 30 fps timecode delivers four frames per
// timecode frame. They are ordered by their engine arrival time and get
// subframes 0, 0.25, 0.5 and 0.75.
package subframe

import (
	"errors"
	"fmt"

	"github.com/xaionaro-go/livelink/sort"
	"github.com/xaionaro-go/livelink/types"
)

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrMissingSceneTime  = errors.New("the frame has no timecode")
	ErrFrameRateMismatch = errors.New("the frame's timecode rate differs from the buffer's timecode frame rate")
	ErrInvalidFrameRate  = errors.New("invalid frame rate")
)

// Adjustment describes what Adjust did.
type Adjustment struct {
	// Lo and Hi are the inclusive bounds of the run of frames sharing the
	// frame number.
	Lo, Hi    int
	Increment float64

	// Clamped is set when a run of several frames is longer than the rate
	// ratio allows, which usually means the declared source rate is wrong.
	Clamped bool
}

func (a Adjustment) RunLength() int {
	return a.Hi - a.Lo + 1
}

// Adjust reorders the run of frames sharing the frame number of
// frames[insertedIndex] by world time and assigns evenly spaced subframes.
func Adjust(
	frames []types.FrameData,
	insertedIndex int,
	settings types.BufferSettings,
) (Adjustment, error) {
	if insertedIndex < 0 || insertedIndex >= len(frames) {
		return Adjustment{}, fmt.Errorf("%w: %d (length: %d)", ErrIndexOutOfRange, insertedIndex, len(frames))
	}
	inserted := &frames[insertedIndex]
	if !inserted.HasSceneTime() {
		return Adjustment{}, ErrMissingSceneTime
	}
	target := settings.TimecodeFrameRate
	source := settings.SourceTimecodeFrameRate
	if !inserted.SceneTime().Rate.Equal(target) {
		return Adjustment{}, fmt.Errorf("%w: %s != %s", ErrFrameRateMismatch, inserted.SceneTime().Rate, target)
	}
	if !target.IsValid() || !source.IsValid() {
		return Adjustment{}, fmt.Errorf("%w: source %s, target %s", ErrInvalidFrameRate, source, target)
	}

	frameNumber := inserted.SceneTime().Time.Frame
	sameFrame := func(idx int) bool {
		f := &frames[idx]
		return f.HasSceneTime() && f.SceneTime().Time.Frame == frameNumber
	}
	lo, hi := insertedIndex, insertedIndex
	for lo > 0 && sameFrame(lo-1) {
		lo--
	}
	for hi+1 < len(frames) && sameFrame(hi+1) {
		hi++
	}

	run := frames[lo : hi+1]
	sort.StableByWorldTime(run)

	ratio := target.Div(source)
	result := Adjustment{
		Lo:        lo,
		Hi:        hi,
		Increment: ratio.Float64(),
	}
	if len(run) > 1 && float64(len(run)) > ratio.Reverse().Float64() {
		result.Increment = 1 / float64(len(run))
		result.Clamped = true
	}

	for k := range run {
		sceneTime := run[k].SceneTime()
		sceneTime.Time.SubFrame = float32(float64(k) * result.Increment)
		run[k].SetSceneTime(sceneTime)
	}
	return result, nil
}
