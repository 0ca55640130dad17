// Package sequencer finds where a new frame belongs in a time-sorted buffer.
package sequencer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xaionaro-go/livelink/types"
)

var (
	ErrMissingSceneTime   = errors.New("the frame has no timecode")
	ErrFrameRateMismatch  = errors.New("the frame's timecode rate differs from the buffer's timecode frame rate")
	ErrInvalidFrameNumber = errors.New("invalid timecode frame number")
)

// Insertion is where a new frame should be inserted.
type Insertion struct {
	Index int

	// Duplicate is set when a buffered frame has exactly the same time key.
	// The frame is still insertable (right after the duplicate); it is up to
	// the caller to report it.
	Duplicate bool
}

// Validate checks the timing of a frame that does not depend on the other
// buffered frames.
func Validate(
	frame *types.FrameData,
	mode types.SourceMode,
	settings types.BufferSettings,
) error {
	if mode != types.SourceModeTimecode {
		return nil
	}
	if !frame.HasSceneTime() {
		return ErrMissingSceneTime
	}
	sceneTime := frame.SceneTime()
	if !sceneTime.Rate.Equal(settings.TimecodeFrameRate) {
		return fmt.Errorf("%w: %s != %s", ErrFrameRateMismatch, sceneTime.Rate, settings.TimecodeFrameRate)
	}
	if sceneTime.Time.Frame < 0 || sceneTime.Time.SubFrame < 0 || sceneTime.Time.SubFrame >= 1 {
		return fmt.Errorf("%w: %s", ErrInvalidFrameNumber, sceneTime.Time)
	}
	return nil
}

// FindInsertIndex returns the index at which newFrame keeps frames sorted by
// the mode's time key. Frames with an equal key stay in arrival order.
func FindInsertIndex(
	frames []types.FrameData,
	newFrame *types.FrameData,
	mode types.SourceMode,
	settings types.BufferSettings,
) (Insertion, error) {
	if err := Validate(newFrame, mode, settings); err != nil {
		return Insertion{}, err
	}

	switch {
	case mode != types.SourceModeTimecode:
		return findByKey(frames, 0, len(frames), worldTimeKey, worldTimeKey(newFrame)), nil
	case settings.GenerateSubFrame:
		lo, hi := FrameNumberRun(frames, newFrame.SceneTime().Time.Frame)
		return findByKey(frames, lo, hi, worldTimeKey, worldTimeKey(newFrame)), nil
	default:
		return findByKey(frames, 0, len(frames), sceneTimeKey, sceneTimeKey(newFrame)), nil
	}
}

// FrameNumberRun returns the half-open range [lo, hi) of frames whose timecode
// frame number equals frameNumber. frames must be sorted by timecode.
func FrameNumberRun(
	frames []types.FrameData,
	frameNumber int64,
) (int, int) {
	lo := sort.Search(len(frames), func(idx int) bool {
		return frameNumberOf(&frames[idx]) >= frameNumber
	})
	hi := lo + sort.Search(len(frames)-lo, func(idx int) bool {
		return frameNumberOf(&frames[lo+idx]) > frameNumber
	})
	return lo, hi
}

func findByKey(
	frames []types.FrameData,
	lo, hi int,
	key func(*types.FrameData) float64,
	newKey float64,
) Insertion {
	for idx := hi - 1; idx >= lo; idx-- {
		k := key(&frames[idx])
		if k <= newKey {
			return Insertion{
				Index:     idx + 1,
				Duplicate: k == newKey,
			}
		}
	}
	return Insertion{Index: lo}
}

func frameNumberOf(f *types.FrameData) int64 {
	if !f.HasSceneTime() {
		return -1
	}
	return f.SceneTime().Time.Frame
}

func worldTimeKey(f *types.FrameData) float64 {
	return f.WorldTime.OffsettedTime()
}

// sceneTimeKey is in frames rather than seconds: all frames of a timecode
// buffer share one rate, and frame decimals compare exactly.
func sceneTimeKey(f *types.FrameData) float64 {
	if !f.HasSceneTime() {
		return -1
	}
	return f.SceneTime().Time.AsDecimal()
}
