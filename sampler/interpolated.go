package sampler

import (
	"context"

	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

// Interpolated delegates sampling to a role interpolator.
type Interpolated struct {
	Interpolator role.Interpolator
}

var _ Strategy = Interpolated{}

func (s Interpolated) Sample(
	ctx context.Context,
	t float64,
	static *types.StaticData,
	frames []types.FrameData,
	key role.TimeKey,
) (Sample, bool) {
	if len(frames) == 0 {
		return Sample{}, false
	}
	frame, blend := s.Interpolator.Interpolate(ctx, t, static, frames, key)
	return Sample{
		Frame: frame,
		Blend: blend,
	}, true
}
