package livelink

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/sequencer"
	"github.com/xaionaro-go/livelink/sort"
	"github.com/xaionaro-go/livelink/subject"
	"github.com/xaionaro-go/livelink/types"
)

func testCtx() context.Context {
	return logger.CtxWithLogger(context.Background(), logrus.Default().WithLevel(logger.LevelTrace))
}

func newTestClient(t *testing.T, ctx context.Context, modifyConfig ...func(*Config)) *Client {
	cfg := DefaultConfig()
	for _, fn := range modifyConfig {
		fn(&cfg)
	}
	c, err := New(ctx, cfg)
	require.NoError(t, err)
	return c
}

func basicStatic(props ...string) *types.StaticData {
	return &types.StaticData{Role: types.RoleBasic, PropertyNames: props}
}

func basicFrame(worldTime float64, values ...float32) types.FrameData {
	return types.FrameData{
		WorldTime:      types.NewWorldTime(worldTime),
		PropertyValues: values,
	}
}

func animationStatic() *types.StaticData {
	return &types.StaticData{
		Role:        types.RoleAnimation,
		BoneNames:   []string{"root", "head"},
		BoneParents: []int{-1, 0},
	}
}

func animationFrame(worldTime float64) types.FrameData {
	root := types.IdentityTransform()
	root.Translation = [3]float64{worldTime, 0, 0}
	return types.FrameData{
		WorldTime:  types.NewWorldTime(worldTime),
		Transforms: []types.Transform{root, types.IdentityTransform()},
	}
}

func frameWorldTimes(frames []types.FrameData) []float64 {
	result := make([]float64, 0, len(frames))
	for _, f := range frames {
		result = append(result, f.WorldTime.Time)
	}
	return result
}

func TestNewValidatesConfig(t *testing.T) {
	ctx := testCtx()
	cfg := DefaultConfig()
	cfg.MaxNewFrameDataPerUpdate = 0
	_, err := New(ctx, cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPushFrameBeforeStaticData(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "cam"}

	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(1, 0)), ErrNoStaticData)

	require.NoError(t, c.AddSubject(ctx, key, types.RoleBasic))
	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(1, 0)), ErrNoStaticData)
	c.Tick(ctx, types.NewSyncTime(1))

	state, err := c.SubjectState(ctx, key)
	require.NoError(t, err)
	require.Equal(t, subject.StateUninitialized, state)
	require.Equal(t, uint64(2), c.GetStats(ctx).FrameDataRejected)

	_, err = c.EvaluateLatest(ctx, key.Name)
	require.ErrorIs(t, err, ErrSubjectInvalid)
}

func TestRoleChangeRecreatesSubject(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1, 1)))
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1.5, 2)))
	c.Tick(ctx, types.NewSyncTime(1.5))
	frames, err := c.SubjectFrames(ctx, key)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleAnimation, animationStatic()))
	c.Tick(ctx, types.NewSyncTime(1.6))

	frames, err = c.SubjectFrames(ctx, key)
	require.NoError(t, err)
	require.Empty(t, frames)
	subjects := c.Subjects(ctx)
	require.Len(t, subjects, 1)
	require.Equal(t, types.RoleAnimation, subjects[0].Role)
	require.Equal(t, subject.StateHasStaticData, subjects[0].State)
	require.Equal(t, uint64(1), c.GetStats(ctx).RoleChanges)

	// frames of the old shape are rejected up front
	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(2, 1)), role.ErrShapeMismatch)
	require.NoError(t, c.PushFrameData(ctx, key, animationFrame(2)))
}

func TestPushStaticDataValidation(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}
	require.ErrorIs(t, c.PushStaticData(ctx, key, types.RoleAnimation, basicStatic("a")), ErrRoleMismatch)
	require.ErrorIs(t, c.PushStaticData(ctx, key, types.RoleBasic, nil), role.ErrInvalidStaticData)
	require.ErrorIs(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a", "a")), role.ErrInvalidStaticData)
	require.Equal(t, uint64(3), c.GetStats(ctx).StaticDataRejected)
}

func TestStaticDataSettlesBeforeFrames(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1, 1)))
	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a", "b")))

	// matches neither the pending nor the previous shape
	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(1.1, 1)), role.ErrShapeMismatch)
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1.2, 1, 2)))
	c.Tick(ctx, types.NewSyncTime(1.2))

	frames, err := c.SubjectFrames(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []float64{1.2}, frameWorldTimes(frames))
}

func TestOrderingAndCapThroughClient(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx, func(cfg *Config) {
		cfg.DefaultSubjectSettings.Buffer.MaxNumberOfFrames = 5
		cfg.DefaultSubjectSettings.Buffer.ValidEngineTime = time.Hour
	})
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}
	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))
	for _, wt := range []float64{3, 1, 4, 1.5, 9, 2.6, 5, 3.5, 8, 9.7} {
		require.NoError(t, c.PushFrameData(ctx, key, basicFrame(wt, float32(wt))))
	}
	c.Tick(ctx, types.NewSyncTime(10))

	frames, err := c.SubjectFrames(ctx, key)
	require.NoError(t, err)
	require.LessOrEqual(t, len(frames), 5)
	require.True(t, sort.IsSortedByTimeKey(frames, types.SourceModeEngineTime))
	require.Equal(t, []float64{4, 5, 8, 9, 9.7}, frameWorldTimes(frames))
}

func TestFrameQueueOverflow(t *testing.T) {
	for _, policy := range []FrameOverflowPolicy{FrameOverflowPolicyDropNewest, FrameOverflowPolicyDropOldest} {
		t.Run(policy.String(), func(t *testing.T) {
			ctx := testCtx()
			c := newTestClient(t, ctx, func(cfg *Config) {
				cfg.MaxNewFrameDataPerUpdate = 2
				cfg.FrameOverflowPolicy = policy
				cfg.DefaultSubjectSettings.Buffer.ValidEngineTime = time.Hour
			})
			key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}
			require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))

			require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1, 1)))
			require.NoError(t, c.PushFrameData(ctx, key, basicFrame(2, 2)))
			err := c.PushFrameData(ctx, key, basicFrame(3, 3))
			c.Tick(ctx, types.NewSyncTime(3))

			frames, ferr := c.SubjectFrames(ctx, key)
			require.NoError(t, ferr)
			switch policy {
			case FrameOverflowPolicyDropNewest:
				require.ErrorIs(t, err, ErrQueueOverflow)
				require.Equal(t, []float64{1, 2}, frameWorldTimes(frames))
			case FrameOverflowPolicyDropOldest:
				require.NoError(t, err)
				require.Equal(t, []float64{2, 3}, frameWorldTimes(frames))
			}
			require.Equal(t, uint64(1), c.GetStats(ctx).FrameDataDropped)

			// the queue is per update
			require.NoError(t, c.PushFrameData(ctx, key, basicFrame(4, 4)))
		})
	}
}

func TestStaticQueueOverflow(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx, func(cfg *Config) {
		cfg.MaxNewStaticDataPerUpdate = 1
	})
	source := types.NewSourceID()
	require.NoError(t, c.PushStaticData(ctx, types.SubjectKey{Source: source, Name: "a"}, types.RoleBasic, basicStatic("x")))
	require.ErrorIs(t, c.PushStaticData(ctx, types.SubjectKey{Source: source, Name: "b"}, types.RoleBasic, basicStatic("x")), ErrQueueOverflow)
	c.Tick(ctx, types.NewSyncTime(0))
	require.Len(t, c.Subjects(ctx), 1)
	require.Equal(t, uint64(1), c.GetStats(ctx).StaticDataDropped)
}

func TestEnabledMutualExclusion(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	keyA := types.SubjectKey{Source: types.NewSourceID(), Name: "cam"}
	keyB := types.SubjectKey{Source: types.NewSourceID(), Name: "cam"}

	for idx, key := range []types.SubjectKey{keyA, keyB} {
		require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("source")))
		c.Tick(ctx, types.NewSyncTime(0))
		if idx == 0 {
			require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1, float32(idx))))
		}
	}
	// only the first subject with the name is enabled automatically
	require.ErrorIs(t, c.PushFrameData(ctx, keyB, basicFrame(1, 1)), ErrSubjectDisabled)
	c.Tick(ctx, types.NewSyncTime(1))
	f, err := c.EvaluateLatest(ctx, "cam")
	require.NoError(t, err)
	require.Equal(t, []float32{0}, f.PropertyValues)

	require.NoError(t, c.SetSubjectEnabled(ctx, keyB, true))
	enabled := 0
	for _, info := range c.Subjects(ctx) {
		if info.Enabled {
			enabled++
			require.Equal(t, keyB, info.Key)
		}
	}
	require.Equal(t, 1, enabled)
	stateA, err := c.SubjectState(ctx, keyA)
	require.NoError(t, err)
	require.Equal(t, subject.StateCleared, stateA)

	require.NoError(t, c.PushFrameData(ctx, keyB, basicFrame(2, 1)))
	c.Tick(ctx, types.NewSyncTime(2))
	f, err = c.EvaluateLatest(ctx, "cam")
	require.NoError(t, err)
	require.Equal(t, []float32{1}, f.PropertyValues)

	require.NoError(t, c.SetSubjectEnabled(ctx, keyB, false))
	_, err = c.EvaluateLatest(ctx, "cam")
	require.ErrorIs(t, err, ErrSubjectNotFound)

	require.ErrorIs(t, c.SetSubjectEnabled(ctx, types.SubjectKey{Name: "nope"}, true), ErrSubjectNotFound)
}

func TestEvaluateTimeDomains(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "tracker"}
	rate := types.Rational{Num: 30, Den: 1}

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("v")))
	c.Tick(ctx, types.NewSyncTime(0))
	settings := subject.DefaultSettings()
	settings.Mode = types.SourceModeTimecode
	settings.Interpolator = nil
	require.NoError(t, c.SetSubjectSettings(ctx, key, settings))

	for i := int64(0); i < 3; i++ {
		f := basicFrame(float64(i), float32(i))
		f.SetSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: 10 + i}, Rate: rate})
		require.NoError(t, c.PushFrameData(ctx, key, f))
	}
	c.Tick(ctx, types.NewSyncTime(3).WithSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: 12}, Rate: rate}))

	_, err := c.EvaluateAtTime(ctx, key.Name, 1)
	require.ErrorIs(t, err, ErrTimeDomainMismatch)

	f, err := c.EvaluateAtTimecode(ctx, key.Name, types.QualifiedFrameTime{Time: types.FrameTime{Frame: 11}, Rate: rate})
	require.NoError(t, err)
	require.Equal(t, []float32{1}, f.PropertyValues)

	f, err = c.EvaluateLatest(ctx, key.Name)
	require.NoError(t, err)
	require.Equal(t, []float32{2}, f.PropertyValues)

	_, err = c.EvaluateAtTime(ctx, "nope", 1)
	require.ErrorIs(t, err, ErrSubjectNotFound)

	require.ErrorIs(t, c.SetSubjectSettings(ctx, key, subject.Settings{}), subject.ErrInvalidSettings)
	incompatible := settings
	incompatible.PreProcessors = []role.PreProcessor{role.AxisSwitch{FlipX: true}}
	require.ErrorIs(t, c.SetSubjectSettings(ctx, key, incompatible), role.ErrIncompatibleRole)
}

func TestPushFrameValidatesTiming(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "face"}
	rate := types.Rational{Num: 30, Den: 1}

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("v")))
	// engine time: no timecode is required
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(0, 0)))
	c.Tick(ctx, types.NewSyncTime(0))

	settings := subject.DefaultSettings()
	settings.Mode = types.SourceModeTimecode
	settings.Interpolator = nil
	require.NoError(t, c.SetSubjectSettings(ctx, key, settings))

	// checked against the settings scheduled for the next tick
	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(1, 1)), sequencer.ErrMissingSceneTime)

	wrongRate := basicFrame(1, 1)
	wrongRate.SetSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: 10}, Rate: types.Rational{Num: 24, Den: 1}})
	err := c.PushFrameData(ctx, key, wrongRate)
	require.ErrorIs(t, err, subject.ErrInvalidTime)
	require.ErrorIs(t, err, sequencer.ErrFrameRateMismatch)

	negative := basicFrame(1, 1)
	negative.SetSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: -5}, Rate: rate})
	require.ErrorIs(t, c.PushFrameData(ctx, key, negative), sequencer.ErrInvalidFrameNumber)

	good := basicFrame(1, 2)
	good.SetSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: 10}, Rate: rate})
	require.NoError(t, c.PushFrameData(ctx, key, good))
	require.Equal(t, uint64(3), c.GetStats(ctx).FrameDataRejected)

	c.Tick(ctx, types.NewSyncTime(1).WithSceneTime(types.QualifiedFrameTime{Time: types.FrameTime{Frame: 10}, Rate: rate}))
	frames, err := c.SubjectFrames(ctx, key)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, []float32{2}, frames[0].PropertyValues)
	require.Equal(t, uint64(3), c.GetStats(ctx).FrameDataRejected)
}

func TestEvaluateWithDesiredRole(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx, func(cfg *Config) {
		cfg.DefaultSubjectSettings.Buffer.ValidEngineTime = time.Hour
	})
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}
	require.NoError(t, c.PushStaticData(ctx, key, types.RoleAnimation, animationStatic()))
	require.NoError(t, c.PushFrameData(ctx, key, animationFrame(1)))
	require.NoError(t, c.PushFrameData(ctx, key, animationFrame(2)))
	c.Tick(ctx, types.NewSyncTime(2))

	f, err := c.EvaluateAtTime(ctx, key.Name, 1.5, WithDesiredRole(types.RoleTransform))
	require.NoError(t, err)
	require.Len(t, f.Transforms, 1)
	require.InDelta(t, 1.5, f.Transforms[0].Translation[0], 1e-9)

	f, err = c.EvaluateLatest(ctx, key.Name, WithDesiredRole(types.RoleBasic))
	require.NoError(t, err)
	require.Empty(t, f.Transforms)

	f, err = c.EvaluateLatest(ctx, key.Name, WithDesiredRole(types.RoleAnimation))
	require.NoError(t, err)
	require.Len(t, f.Transforms, 2)

	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(3, 1)))
	c.Tick(ctx, types.NewSyncTime(3))
	_, err = c.EvaluateLatest(ctx, key.Name, WithDesiredRole(types.RoleAnimation))
	require.ErrorIs(t, err, role.ErrNoTranslation)
}

func TestVirtualSubject(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	face := types.SubjectKey{Source: types.NewSourceID(), Name: "face"}
	hand := types.SubjectKey{Source: types.NewSourceID(), Name: "hand"}
	merged := types.SubjectKey{Name: "merged"}

	require.NoError(t, c.AddVirtualSubject(ctx, merged, MergedProperties{Subjects: []types.SubjectName{"face", "hand"}}))
	require.ErrorIs(t, c.AddVirtualSubject(ctx, merged, MergedProperties{}), ErrSubjectExists)

	c.Tick(ctx, types.NewSyncTime(0))
	_, err := c.EvaluateLatest(ctx, merged.Name)
	require.ErrorIs(t, err, ErrSubjectInvalid)

	require.NoError(t, c.PushStaticData(ctx, face, types.RoleBasic, basicStatic("blink", "smile")))
	require.NoError(t, c.PushStaticData(ctx, hand, types.RoleBasic, basicStatic("grip")))
	require.NoError(t, c.PushFrameData(ctx, face, basicFrame(1, 0.25, 0.5)))
	require.NoError(t, c.PushFrameData(ctx, hand, basicFrame(1, 1)))
	c.Tick(ctx, types.NewSyncTime(1))

	// the aggregator sees the snapshots of the same tick
	curves, err := c.EvaluateCurves(ctx, merged.Name)
	require.NoError(t, err)
	require.Equal(t, map[string]float32{"face.blink": 0.25, "face.smile": 0.5, "hand.grip": 1}, curves)

	f, err := c.EvaluateAtTime(ctx, merged.Name, 100)
	require.NoError(t, err)
	require.Equal(t, 1.0, f.WorldTime.Time)

	require.NoError(t, c.RemoveVirtualSubject(ctx, merged))
	_, err = c.EvaluateLatest(ctx, merged.Name)
	require.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestRemoveSubjectAndSource(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	source := types.NewSourceID()
	keyA := types.SubjectKey{Source: source, Name: "a"}
	keyB := types.SubjectKey{Source: source, Name: "b"}
	other := types.SubjectKey{Source: types.NewSourceID(), Name: "c"}
	for _, key := range []types.SubjectKey{keyA, keyB, other} {
		require.NoError(t, c.AddSubject(ctx, key, types.RoleBasic))
	}
	require.ErrorIs(t, c.AddSubject(ctx, keyA, types.RoleBasic), ErrSubjectExists)

	require.NoError(t, c.RemoveSubject(ctx, keyA))
	require.ErrorIs(t, c.RemoveSubject(ctx, keyA), ErrSubjectNotFound)

	require.NoError(t, c.PushStaticData(ctx, keyB, types.RoleBasic, basicStatic("x")))
	require.Equal(t, 1, c.RemoveSource(ctx, source))
	c.Tick(ctx, types.NewSyncTime(0))

	subjects := c.Subjects(ctx)
	require.Len(t, subjects, 1)
	require.Equal(t, other, subjects[0].Key)
}

func TestConcurrentPushTickEvaluate(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx, func(cfg *Config) {
		cfg.DefaultSubjectSettings.Buffer.MaxNumberOfFrames = 8
		cfg.DefaultSubjectSettings.Buffer.ValidEngineTime = time.Hour
	})

	const numSources = 4
	var keys []types.SubjectKey
	for i := range numSources {
		key := types.SubjectKey{Source: types.NewSourceID(), Name: types.SubjectName(fmt.Sprintf("subject%d", i))}
		keys = append(keys, key)
		require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("v")))
	}
	c.Tick(ctx, types.NewSyncTime(0))

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				// interleave older and newer timestamps
				wt := float64(i) + float64(i%3)*0.5
				_ = c.PushFrameData(ctx, key, basicFrame(wt, float32(wt)))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			_, _ = c.EvaluateAtTime(ctx, keys[0].Name, 50)
			_ = c.GetStats(ctx)
		}
	}()
	for i := range 100 {
		c.Tick(ctx, types.NewSyncTime(float64(i)))
	}
	wg.Wait()
	c.Tick(ctx, types.NewSyncTime(299))
	for _, key := range keys {
		require.NoError(t, c.PushFrameData(ctx, key, basicFrame(300, 300)))
	}
	c.Tick(ctx, types.NewSyncTime(300))

	for _, key := range keys {
		frames, err := c.SubjectFrames(ctx, key)
		require.NoError(t, err)
		require.NotEmpty(t, frames)
		require.LessOrEqual(t, len(frames), 8)
		require.True(t, sort.IsSortedByTimeKey(frames, types.SourceModeEngineTime))
	}
}

func TestFrameOverflowPolicyFromString(t *testing.T) {
	p, err := FrameOverflowPolicyFromString("DROP_OLDEST")
	require.NoError(t, err)
	require.Equal(t, FrameOverflowPolicyDropOldest, p)
	_, err = FrameOverflowPolicyFromString("<undefined>")
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	ctx := testCtx()
	c := newTestClient(t, ctx)
	key := types.SubjectKey{Source: types.NewSourceID(), Name: "performer"}
	require.NoError(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")))
	c.Tick(ctx, types.NewSyncTime(0))
	require.NoError(t, c.PushFrameData(ctx, key, basicFrame(1, 1)))

	require.NoError(t, c.Close(ctx))
	require.ErrorIs(t, c.Close(ctx), ErrClosed)
	<-c.CloseChan()
	require.True(t, c.IsClosed())

	require.ErrorIs(t, c.PushFrameData(ctx, key, basicFrame(2, 1)), ErrClosed)
	require.ErrorIs(t, c.PushStaticData(ctx, key, types.RoleBasic, basicStatic("a")), ErrClosed)
	c.Tick(ctx, types.NewSyncTime(2))
	require.Empty(t, c.Subjects(ctx))
	_, err := c.EvaluateLatest(ctx, key.Name)
	require.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestConfigString(t *testing.T) {
	str := DefaultConfig().String()
	require.Contains(t, str, "MaxNewFrameDataPerUpdate")
	require.Contains(t, str, "ValidEngineTime")
}
