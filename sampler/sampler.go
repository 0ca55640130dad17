// Package sampler picks or computes the frame a subject exposes for a
// requested time.
package sampler

import (
	"context"

	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

// Sample is a sampled frame together with the buffered frames it came from.
type Sample struct {
	Frame types.FrameData
	Blend role.Blend
}

// Strategy samples an ordered, non-modified list of frames at time t, where t
// is already expressed in the domain of key. The returned bool is false only
// when frames is empty.
type Strategy interface {
	Sample(
		ctx context.Context,
		t float64,
		static *types.StaticData,
		frames []types.FrameData,
		key role.TimeKey,
	) (Sample, bool)
}

// ForInterpolator returns the interpolating strategy for the given
// interpolator, or Closest if it is nil.
func ForInterpolator(interpolator role.Interpolator) Strategy {
	if interpolator == nil {
		return Closest{}
	}
	return Interpolated{Interpolator: interpolator}
}

// WorldTimeKey orders frames by their engine time (with the clock offset
// applied).
func WorldTimeKey(frame *types.FrameData) float64 {
	return frame.WorldTime.OffsettedTime()
}

// SceneTimeKey orders frames by their timecode, falling back to the engine
// time for frames without one.
func SceneTimeKey(frame *types.FrameData) float64 {
	return frame.TimeKey(types.SourceModeTimecode)
}

// EngineTimeRequest converts a requested engine time into the key domain of
// WorldTimeKey.
func EngineTimeRequest(worldTime float64, settings types.BufferSettings) float64 {
	return worldTime - settings.EngineTimeOffset.Seconds()
}

// SceneTimeRequest converts a requested timecode into the key domain of
// SceneTimeKey.
func SceneTimeRequest(t types.QualifiedFrameTime, settings types.BufferSettings) float64 {
	rate := settings.TimecodeFrameRate
	if !rate.IsValid() {
		rate = t.Rate
	}
	frames := t.ConvertTo(rate).AsDecimal() - settings.TimecodeFrameOffset
	return rate.AsSeconds(frames)
}
