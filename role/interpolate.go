package role

import (
	"context"
	"math"
	"sort"

	"github.com/xaionaro-go/livelink/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
)

// TimeKey extracts the ordering key (in seconds) a sampler works on.
type TimeKey func(frame *types.FrameData) float64

// Blend describes which buffered frames produced a sampled frame.
type Blend struct {
	FrameIndexA int
	FrameIndexB int

	// Weight is the share of frame B, in [0, 1].
	Weight float64
}

// Interpolator produces a frame at an arbitrary time from an ordered list of
// frames.
type Interpolator interface {
	SupportsRole(role types.Role) bool
	Interpolate(
		ctx context.Context,
		t float64,
		static *types.StaticData,
		frames []types.FrameData,
		key TimeKey,
	) (types.FrameData, Blend)
}

// Bracket finds the pair of frames surrounding t. Outside of the buffered
// range both indexes point to the boundary frame. frames must be non-empty
// and sorted by key.
func Bracket(t float64, frames []types.FrameData, key TimeKey) Blend {
	last := len(frames) - 1
	if t >= key(&frames[last]) {
		return Blend{FrameIndexA: last, FrameIndexB: last}
	}
	if t <= key(&frames[0]) {
		return Blend{}
	}
	// first frame strictly newer than t; it exists and is > 0 given the checks above
	idxB := sort.Search(len(frames), func(i int) bool {
		return key(&frames[i]) > t
	})
	idxA := idxB - 1
	keyA, keyB := key(&frames[idxA]), key(&frames[idxB])
	weight := 0.0
	if keyB > keyA {
		weight = (t - keyA) / (keyB - keyA)
	}
	return Blend{
		FrameIndexA: idxA,
		FrameIndexB: idxB,
		Weight:      weight,
	}
}

// LinearInterpolator blends properties, translations and scales linearly
// and rotations spherically.
type LinearInterpolator struct{}

var _ Interpolator = LinearInterpolator{}

func (LinearInterpolator) SupportsRole(role types.Role) bool {
	return role.IsValid()
}

func (LinearInterpolator) Interpolate(
	ctx context.Context,
	t float64,
	static *types.StaticData,
	frames []types.FrameData,
	key TimeKey,
) (types.FrameData, Blend) {
	if len(frames) == 0 {
		return types.FrameData{}, Blend{FrameIndexA: -1, FrameIndexB: -1}
	}
	blend := Bracket(t, frames, key)
	a, b := &frames[blend.FrameIndexA], &frames[blend.FrameIndexB]
	if blend.FrameIndexA == blend.FrameIndexB || blend.Weight == 0 {
		return a.Clone(), blend
	}
	return BlendFrames(a, b, blend.Weight), blend
}

// BlendFrames returns a frame lying at weight w on the way from a to b. Both
// frames must have the same shape.
func BlendFrames(a, b *types.FrameData, w float64) types.FrameData {
	nearest := a
	if w > 0.5 {
		nearest = b
	}
	result := nearest.Clone()
	result.WorldTime = types.WorldTime{
		Time:   lerp(a.WorldTime.Time, b.WorldTime.Time, w),
		Offset: lerp(a.WorldTime.Offset, b.WorldTime.Offset, w),
	}
	if a.HasSceneTime() && b.HasSceneTime() {
		sceneA, sceneB := a.SceneTime(), b.SceneTime()
		sceneB.Time = sceneB.ConvertTo(sceneA.Rate)
		result.SetSceneTime(types.QualifiedFrameTime{
			Time: types.FrameTimeFromDecimal(lerp(sceneA.Time.AsDecimal(), sceneB.Time.AsDecimal(), w)),
			Rate: sceneA.Rate,
		})
	}

	for idx := range result.PropertyValues {
		if idx >= len(a.PropertyValues) || idx >= len(b.PropertyValues) {
			break
		}
		result.PropertyValues[idx] = float32(lerp(float64(a.PropertyValues[idx]), float64(b.PropertyValues[idx]), w))
	}

	for idx := range result.Transforms {
		if idx >= len(a.Transforms) || idx >= len(b.Transforms) {
			break
		}
		result.Transforms[idx] = BlendTransforms(a.Transforms[idx], b.Transforms[idx], w)
	}
	return result
}

// BlendTransforms interpolates two transforms.
func BlendTransforms(a, b types.Transform, w float64) types.Transform {
	var result types.Transform
	lerpVec(result.Translation[:], a.Translation[:], b.Translation[:], w)
	lerpVec(result.Scale[:], a.Scale[:], b.Scale[:], w)
	result.Rotation = Slerp(a.Rotation, b.Rotation, w)
	return result
}

func lerp(a, b, w float64) float64 {
	return a + (b-a)*w
}

// lerpVec computes dst = a + w*(b-a).
func lerpVec(dst, a, b []float64, w float64) {
	diff := make([]float64, len(a))
	floats.SubTo(diff, b, a)
	floats.AddScaledTo(dst, a, w, diff)
}

// Slerp spherically interpolates unit quaternions along the shortest arc.
func Slerp(a, b quat.Number, w float64) quat.Number {
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if dot < 0 {
		b = quat.Scale(-1, b)
		dot = -dot
	}
	if dot > 0.9995 {
		// nearly parallel: nlerp is accurate and avoids dividing by ~0
		r := quat.Add(quat.Scale(1-w, a), quat.Scale(w, b))
		abs := quat.Abs(r)
		if abs == 0 {
			return a
		}
		return quat.Scale(1/abs, r)
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	return quat.Add(
		quat.Scale(math.Sin((1-w)*theta)/sinTheta, a),
		quat.Scale(math.Sin(w*theta)/sinTheta, b),
	)
}
