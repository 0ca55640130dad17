package sampler

import (
	"context"

	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

// Closest returns the buffered frame nearest to the requested time without
// blending.
type Closest struct{}

var _ Strategy = Closest{}

func (Closest) Sample(
	ctx context.Context,
	t float64,
	static *types.StaticData,
	frames []types.FrameData,
	key role.TimeKey,
) (Sample, bool) {
	idx := ClosestIndex(frames, t, key)
	if idx < 0 {
		return Sample{}, false
	}
	return Sample{
		Frame: frames[idx].Clone(),
		Blend: role.Blend{FrameIndexA: idx, FrameIndexB: idx},
	}, true
}

// ClosestIndex returns the index of the frame nearest to t, or -1 if frames
// is empty. Ties go to the older frame.
func ClosestIndex(frames []types.FrameData, t float64, key role.TimeKey) int {
	if len(frames) == 0 {
		return -1
	}
	blend := role.Bracket(t, frames, key)
	if blend.Weight > 0.5 {
		return blend.FrameIndexB
	}
	return blend.FrameIndexA
}
