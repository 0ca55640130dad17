// Package retention decides which buffered frames are stale.
//
// A frame is stale once it is older than the valid window behind the current
// time (minus the configured offset). Frames are kept sorted oldest first, so
// the stale frames are always a prefix of the buffer.
package retention

import (
	"math"
	"slices"

	"github.com/xaionaro-go/livelink/types"
)

// StaleCount returns how many of the oldest frames may be evicted at now.
func StaleCount(
	frames []types.FrameData,
	mode types.SourceMode,
	settings types.BufferSettings,
	now types.SyncTime,
) int {
	if len(frames) == 0 {
		return 0
	}

	var (
		threshold float64
		key       func(*types.FrameData) float64
	)
	switch mode {
	case types.SourceModeTimecode:
		if !now.SceneTime.IsSet() {
			return 0
		}
		rate := settings.TimecodeFrameRate
		current := now.SceneTime.Get().ConvertTo(rate).AsDecimal()
		threshold = current - settings.TimecodeFrameOffset - settings.ValidTimecodeFrames
		key = func(f *types.FrameData) float64 {
			if !f.HasSceneTime() {
				return math.Inf(-1)
			}
			return f.SceneTime().ConvertTo(rate).AsDecimal()
		}
	default:
		threshold = now.WorldTime - settings.EngineTimeOffset.Seconds() - settings.ValidEngineTime.Seconds()
		key = func(f *types.FrameData) float64 {
			return f.WorldTime.OffsettedTime()
		}
	}

	count := 0
	for count < len(frames) && key(&frames[count]) <= threshold {
		count++
	}
	if settings.KeepAtLeastOneFrame && count == len(frames) {
		count--
	}
	return count
}

// Evict removes the stale prefix of frames in place and returns the
// remaining frames and the amount evicted.
func Evict(
	frames []types.FrameData,
	mode types.SourceMode,
	settings types.BufferSettings,
	now types.SyncTime,
) ([]types.FrameData, int) {
	count := StaleCount(frames, mode, settings, now)
	if count == 0 {
		return frames, 0
	}
	return slices.Delete(frames, 0, count), count
}

// IsStale reports whether a single frame would be evicted right away at now.
// It ignores KeepAtLeastOneFrame.
func IsStale(
	frame *types.FrameData,
	mode types.SourceMode,
	settings types.BufferSettings,
	now types.SyncTime,
) bool {
	settings.KeepAtLeastOneFrame = false
	return StaleCount([]types.FrameData{*frame}, mode, settings, now) == 1
}
