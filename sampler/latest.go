package sampler

import (
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

// Latest returns the frame latestOffset frames behind the newest one, or the
// oldest frame if the buffer is shallower than that.
func Latest(frames []types.FrameData, latestOffset int) (Sample, bool) {
	idx := LatestIndex(len(frames), latestOffset)
	if idx < 0 {
		return Sample{}, false
	}
	return Sample{
		Frame: frames[idx].Clone(),
		Blend: role.Blend{FrameIndexA: idx, FrameIndexB: idx},
	}, true
}

// LatestIndex returns -1 only for an empty buffer.
func LatestIndex(numFrames int, latestOffset int) int {
	if numFrames == 0 {
		return -1
	}
	idx := numFrames - 1 - max(latestOffset, 0)
	return max(idx, 0)
}
