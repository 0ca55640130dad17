package subject

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/livelink/sampler"
	"github.com/xaionaro-go/livelink/types"
)

// EvaluateAtWorldTime samples the buffer at an engine time. Timecode buffers
// cannot be queried in engine time; Latest buffers return their latest frame.
func (b *Buffer) EvaluateAtWorldTime(
	ctx context.Context,
	worldTime float64,
) (types.FrameData, error) {
	settings := b.settings
	switch settings.Mode {
	case types.SourceModeTimecode:
		return types.FrameData{}, fmt.Errorf("%w: engine time query on a %s subject", ErrTimeDomainMismatch, settings.Mode)
	case types.SourceModeLatest:
		s, ok := sampler.Latest(b.frames, settings.Buffer.LatestOffset)
		if !ok {
			return types.FrameData{}, ErrNoData
		}
		return s.Frame, nil
	}
	t := sampler.EngineTimeRequest(worldTime, settings.Buffer)
	s, ok := b.strategy().Sample(ctx, t, b.static, b.frames, sampler.WorldTimeKey)
	if !ok {
		return types.FrameData{}, ErrNoData
	}
	return s.Frame, nil
}

// EvaluateAtSceneTime samples a Timecode buffer at a timecode.
func (b *Buffer) EvaluateAtSceneTime(
	ctx context.Context,
	sceneTime types.QualifiedFrameTime,
) (types.FrameData, error) {
	settings := b.settings
	if settings.Mode != types.SourceModeTimecode {
		return types.FrameData{}, fmt.Errorf("%w: timecode query on a %s subject", ErrTimeDomainMismatch, settings.Mode)
	}
	if !sceneTime.Rate.IsValid() {
		return types.FrameData{}, fmt.Errorf("%w: invalid rate %s", ErrInvalidTime, sceneTime.Rate)
	}
	t := sampler.SceneTimeRequest(sceneTime, settings.Buffer)
	s, ok := b.strategy().Sample(ctx, t, b.static, b.frames, sampler.SceneTimeKey)
	if !ok {
		return types.FrameData{}, ErrNoData
	}
	return s.Frame, nil
}

// EvaluateLatest returns the snapshot published by the last tick.
func (b *Buffer) EvaluateLatest(ctx context.Context) (types.FrameData, error) {
	s, ok := b.Snapshot()
	if !ok {
		return types.FrameData{}, ErrNoData
	}
	return s, nil
}
