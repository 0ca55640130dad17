// frames.go provides sort.Interface adapters over buffered frames.

// Package sort provides orderings of frames by their timestamps.
package sort

import (
	"sort"

	"github.com/xaionaro-go/livelink/types"
)

type FramesByWorldTime []types.FrameData

var _ sort.Interface = (FramesByWorldTime)(nil)

func (s FramesByWorldTime) Len() int {
	return len(s)
}

func (s FramesByWorldTime) Less(i, j int) bool {
	return s[i].WorldTime.OffsettedTime() < s[j].WorldTime.OffsettedTime()
}

func (s FramesByWorldTime) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// FramesByTimeKey orders frames by the ordering key of a source mode.
type FramesByTimeKey struct {
	Frames []types.FrameData
	Mode   types.SourceMode
}

var _ sort.Interface = FramesByTimeKey{}

func (s FramesByTimeKey) Len() int {
	return len(s.Frames)
}

func (s FramesByTimeKey) Less(i, j int) bool {
	return s.Frames[i].TimeKey(s.Mode) < s.Frames[j].TimeKey(s.Mode)
}

func (s FramesByTimeKey) Swap(i, j int) {
	s.Frames[i], s.Frames[j] = s.Frames[j], s.Frames[i]
}

// StableByWorldTime sorts frames by world time keeping the arrival order of
// equal timestamps.
func StableByWorldTime(frames []types.FrameData) {
	sort.Stable(FramesByWorldTime(frames))
}

// IsSortedByTimeKey reports whether frames are non-decreasing by the mode's
// ordering key.
func IsSortedByTimeKey(frames []types.FrameData, mode types.SourceMode) bool {
	return sort.IsSorted(FramesByTimeKey{Frames: frames, Mode: mode})
}
