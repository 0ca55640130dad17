// frame_data.go defines FrameData, a single timestamped sample of a subject.

package types

import (
	"maps"
	"slices"

	"github.com/xaionaro-go/typing"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid transform with a non-uniform scale. Rotation is a unit
// quaternion.
type Transform struct {
	Translation [3]float64
	Rotation    quat.Number
	Scale       [3]float64
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: quat.Number{Real: 1},
		Scale:    [3]float64{1, 1, 1},
	}
}

type MetaData struct {
	// SceneTime is the production (timecode) time of the sample. It is set
	// only when the source operates in timecode mode.
	SceneTime      typing.Optional[QualifiedFrameTime]
	StringMetaData map[string]string
}

// FrameData is one timestamped sample. Once inserted into a buffer it is
// never modified except for SceneTime's SubFrame during subframe generation.
type FrameData struct {
	WorldTime      WorldTime
	MetaData       MetaData
	PropertyValues []float32

	// Transforms holds one transform for RoleTransform and one per bone for
	// RoleAnimation.
	Transforms []Transform
}

func (f *FrameData) Clone() FrameData {
	return FrameData{
		WorldTime: f.WorldTime,
		MetaData: MetaData{
			SceneTime:      f.MetaData.SceneTime,
			StringMetaData: maps.Clone(f.MetaData.StringMetaData),
		},
		PropertyValues: slices.Clone(f.PropertyValues),
		Transforms:     slices.Clone(f.Transforms),
	}
}

func (f *FrameData) HasSceneTime() bool {
	return f.MetaData.SceneTime.IsSet()
}

func (f *FrameData) SceneTime() QualifiedFrameTime {
	return f.MetaData.SceneTime.Get()
}

func (f *FrameData) SetSceneTime(t QualifiedFrameTime) {
	f.MetaData.SceneTime = typing.Opt(t)
}

// TimeKey returns the ordering key of the frame in seconds for the given mode.
func (f *FrameData) TimeKey(mode SourceMode) float64 {
	if mode == SourceModeTimecode && f.HasSceneTime() {
		return f.SceneTime().AsSeconds()
	}
	return f.WorldTime.OffsettedTime()
}
