package sort

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/livelink/types"
)

func TestStableByWorldTime(t *testing.T) {
	frames := []types.FrameData{
		{WorldTime: types.NewWorldTime(3), PropertyValues: []float32{0}},
		{WorldTime: types.NewWorldTime(1), PropertyValues: []float32{1}},
		{WorldTime: types.NewWorldTime(3), PropertyValues: []float32{2}},
		{WorldTime: types.NewWorldTime(2), PropertyValues: []float32{3}},
	}
	StableByWorldTime(frames)

	var order []float32
	for _, f := range frames {
		order = append(order, f.PropertyValues[0])
	}
	require.Equal(t, []float32{1, 3, 0, 2}, order)
	require.True(t, IsSortedByTimeKey(frames, types.SourceModeEngineTime))
}

func TestIsSortedByTimeKeyTimecode(t *testing.T) {
	rate := types.Rational{Num: 30, Den: 1}
	newFrame := func(worldTime float64, frame int64) types.FrameData {
		f := types.FrameData{WorldTime: types.NewWorldTime(worldTime)}
		f.SetSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: frame}, Rate: rate})
		return f
	}
	frames := []types.FrameData{newFrame(5, 1), newFrame(1, 2)}
	require.True(t, IsSortedByTimeKey(frames, types.SourceModeTimecode))
	require.False(t, IsSortedByTimeKey(frames, types.SourceModeEngineTime))
}
