package role

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/livelink/types"
	"gonum.org/v1/gonum/num/quat"
)

func animationStatic() *types.StaticData {
	return &types.StaticData{
		Role:          types.RoleAnimation,
		PropertyNames: []string{"blink"},
		BoneNames:     []string{"hips", "root", "head"},
		BoneParents:   []int{1, -1, 0},
	}
}

func TestValidateStatic(t *testing.T) {
	require.NoError(t, ValidateStatic(animationStatic()))
	require.NoError(t, ValidateStatic(&types.StaticData{Role: types.RoleBasic, PropertyNames: []string{"a", "b"}}))
	require.ErrorIs(t, ValidateStatic(nil), ErrInvalidStaticData)
	require.ErrorIs(t, ValidateStatic(&types.StaticData{Role: types.UndefinedRole}), ErrUnknownRole)

	for name, static := range map[string]*types.StaticData{
		"duplicate property": {Role: types.RoleBasic, PropertyNames: []string{"a", "a"}},
		"empty property":     {Role: types.RoleTransform, PropertyNames: []string{""}},
		"bones on basic":     {Role: types.RoleBasic, BoneNames: []string{"root"}, BoneParents: []int{-1}},
		"parents mismatch":   {Role: types.RoleAnimation, BoneNames: []string{"root"}},
		"self parent":        {Role: types.RoleAnimation, BoneNames: []string{"root"}, BoneParents: []int{0}},
		"parent out of range": {
			Role:        types.RoleAnimation,
			BoneNames:   []string{"root", "head"},
			BoneParents: []int{-1, 2},
		},
	} {
		require.ErrorIs(t, ValidateStatic(static), ErrInvalidStaticData, name)
	}
}

func TestValidateFrame(t *testing.T) {
	static := animationStatic()
	frame := types.FrameData{
		PropertyValues: []float32{1},
		Transforms:     make([]types.Transform, 3),
	}
	require.NoError(t, ValidateFrame(static, &frame))

	frame.Transforms = frame.Transforms[:2]
	require.ErrorIs(t, ValidateFrame(static, &frame), ErrShapeMismatch)

	transform := &types.StaticData{Role: types.RoleTransform}
	require.NoError(t, ValidateFrame(transform, &types.FrameData{Transforms: []types.Transform{types.IdentityTransform()}}))
	require.ErrorIs(t, ValidateFrame(transform, &types.FrameData{PropertyValues: []float32{1}, Transforms: []types.Transform{{}}}), ErrShapeMismatch)
	require.ErrorIs(t, ValidateFrame(transform, &types.FrameData{
		WorldTime:  types.NewWorldTime(math.NaN()),
		Transforms: []types.Transform{{}},
	}), ErrShapeMismatch)
}

func TestTranslate(t *testing.T) {
	static := animationStatic()
	root := types.IdentityTransform()
	root.Translation = [3]float64{1, 2, 3}
	frame := types.FrameData{
		PropertyValues: []float32{0.5},
		Transforms:     []types.Transform{types.IdentityTransform(), root, types.IdentityTransform()},
	}

	require.True(t, CanTranslate(types.RoleAnimation, types.RoleTransform))
	require.True(t, CanTranslate(types.RoleBasic, types.RoleBasic))
	require.False(t, CanTranslate(types.RoleBasic, types.RoleAnimation))

	newStatic, newFrame, err := Translate(static, &frame, types.RoleTransform)
	require.NoError(t, err)
	require.Equal(t, types.RoleTransform, newStatic.Role)
	require.Empty(t, newStatic.BoneNames)
	require.Equal(t, []types.Transform{root}, newFrame.Transforms)
	require.Equal(t, []float32{0.5}, newFrame.PropertyValues)
	require.NoError(t, ValidateFrame(newStatic, &newFrame))

	newStatic, newFrame, err = Translate(static, &frame, types.RoleBasic)
	require.NoError(t, err)
	require.Equal(t, types.RoleBasic, newStatic.Role)
	require.Empty(t, newFrame.Transforms)

	// the input is not modified
	require.Len(t, frame.Transforms, 3)
	require.Len(t, static.BoneNames, 3)

	_, _, err = Translate(&types.StaticData{Role: types.RoleBasic}, &types.FrameData{}, types.RoleAnimation)
	require.ErrorIs(t, err, ErrNoTranslation)
}

func worldKey(f *types.FrameData) float64 {
	return f.WorldTime.OffsettedTime()
}

func TestBracket(t *testing.T) {
	frames := []types.FrameData{
		{WorldTime: types.NewWorldTime(1)},
		{WorldTime: types.NewWorldTime(2)},
		{WorldTime: types.NewWorldTime(4)},
	}
	require.Equal(t, Blend{}, Bracket(0.5, frames, worldKey))
	require.Equal(t, Blend{}, Bracket(1, frames, worldKey))
	require.Equal(t, Blend{FrameIndexA: 2, FrameIndexB: 2}, Bracket(4, frames, worldKey))
	require.Equal(t, Blend{FrameIndexA: 2, FrameIndexB: 2}, Bracket(10, frames, worldKey))
	require.Equal(t, Blend{FrameIndexA: 1, FrameIndexB: 2, Weight: 0.25}, Bracket(2.5, frames, worldKey))
	require.Equal(t, Blend{FrameIndexA: 1, FrameIndexB: 2}, Bracket(2, frames, worldKey))
}

func TestLinearInterpolator(t *testing.T) {
	ctx := context.Background()
	static := &types.StaticData{Role: types.RoleTransform, PropertyNames: []string{"p"}}
	a := types.IdentityTransform()
	b := types.IdentityTransform()
	b.Translation = [3]float64{2, 4, 6}
	b.Scale = [3]float64{3, 3, 3}
	frames := []types.FrameData{
		{WorldTime: types.NewWorldTime(1), PropertyValues: []float32{0}, Transforms: []types.Transform{a}},
		{WorldTime: types.NewWorldTime(2), PropertyValues: []float32{10}, Transforms: []types.Transform{b}},
	}

	result, blend := LinearInterpolator{}.Interpolate(ctx, 1.5, static, frames, worldKey)
	require.Equal(t, Blend{FrameIndexA: 0, FrameIndexB: 1, Weight: 0.5}, blend)
	require.Equal(t, 1.5, result.WorldTime.Time)
	require.Equal(t, []float32{5}, result.PropertyValues)
	expected := types.Transform{
		Translation: [3]float64{1, 2, 3},
		Rotation:    quat.Number{Real: 1},
		Scale:       [3]float64{2, 2, 2},
	}
	require.Empty(t, cmp.Diff(expected, result.Transforms[0]))

	// past the newest frame the newest frame is returned as is
	result, _ = LinearInterpolator{}.Interpolate(ctx, 3, static, frames, worldKey)
	require.Equal(t, frames[1], result)

	_, blend = LinearInterpolator{}.Interpolate(ctx, 3, static, nil, worldKey)
	require.Equal(t, -1, blend.FrameIndexA)
}

func TestSlerp(t *testing.T) {
	a := quat.Number{Real: 1}
	b := quat.Number{Real: math.Cos(math.Pi / 4), Kmag: math.Sin(math.Pi / 4)}

	half := Slerp(a, b, 0.5)
	require.InDelta(t, math.Cos(math.Pi/8), half.Real, 1e-9)
	require.InDelta(t, math.Sin(math.Pi/8), half.Kmag, 1e-9)
	require.InDelta(t, 1, quat.Abs(half), 1e-9)

	require.InDelta(t, a.Real, Slerp(a, b, 0).Real, 1e-9)
	require.InDelta(t, b.Kmag, Slerp(a, b, 1).Kmag, 1e-9)

	// the opposite sign represents the same rotation, so the short arc is used
	negB := quat.Scale(-1, b)
	require.InDelta(t, math.Cos(math.Pi/8), Slerp(a, negB, 0.5).Real, 1e-9)

	same := Slerp(a, a, 0.3)
	require.InDelta(t, 1, same.Real, 1e-12)
}

func TestAxisSwitch(t *testing.T) {
	ctx := context.Background()
	s := AxisSwitch{FlipX: true}
	require.True(t, s.SupportsRole(types.RoleAnimation))
	require.False(t, s.SupportsRole(types.RoleBasic))
	require.ErrorIs(t, CheckPreProcessors([]PreProcessor{s}, types.RoleBasic), ErrIncompatibleRole)
	require.NoError(t, CheckPreProcessors([]PreProcessor{s}, types.RoleTransform))
	require.NoError(t, CheckInterpolator(nil, types.RoleBasic))
	require.NoError(t, CheckInterpolator(LinearInterpolator{}, types.RoleBasic))

	frame := types.FrameData{Transforms: []types.Transform{{
		Translation: [3]float64{1, 2, 3},
		Rotation:    quat.Number{Real: 0.5, Imag: 0.5, Jmag: 0.5, Kmag: 0.5},
	}}}
	s.Process(ctx, &types.StaticData{Role: types.RoleTransform}, &frame)
	require.Equal(t, [3]float64{-1, 2, 3}, frame.Transforms[0].Translation)
	require.Equal(t, quat.Number{Real: 0.5, Imag: 0.5, Jmag: -0.5, Kmag: -0.5}, frame.Transforms[0].Rotation)
}
