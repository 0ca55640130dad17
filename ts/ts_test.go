package ts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/livelink/types"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) Now() time.Time {
	return f.t
}

func TestEngineClock(t *testing.T) {
	ctx := context.Background()
	now := &fakeNow{t: time.Unix(1000, 0)}
	c := NewEngineClock(now.Now)
	require.Equal(t, 0.0, c.WorldTime(ctx))

	now.t = now.t.Add(1500 * time.Millisecond)
	require.Equal(t, 1.5, c.WorldTime(ctx))
	require.Equal(t, time.Unix(1002, 0), c.ToWallClock(ctx, 2))
}

func TestTimecodeClock(t *testing.T) {
	ctx := context.Background()
	now := &fakeNow{t: time.Unix(1000, 0)}
	engine := NewEngineClock(now.Now)
	rate := types.Rational{Num: 30, Den: 1}
	c := NewTimecodeClock(engine, rate, types.FrameTime{Frame: 100})

	require.Equal(t, types.QualifiedFrameTime{Time: types.FrameTime{Frame: 100}, Rate: rate}, c.SceneTime(ctx))

	now.t = now.t.Add(time.Second)
	require.Equal(t, types.FrameTime{Frame: 130}, c.SceneTime(ctx).Time)

	c.Jam(ctx, 1, types.FrameTime{Frame: 10})
	now.t = now.t.Add(500 * time.Millisecond)
	sync := SyncClock{Engine: engine, Timecode: c}.SyncTime(ctx)
	require.Equal(t, 1.5, sync.WorldTime)
	require.True(t, sync.SceneTime.IsSet())
	require.Equal(t, types.FrameTime{Frame: 25}, sync.SceneTime.Get().Time)

	require.False(t, SyncClock{Engine: engine}.SyncTime(ctx).SceneTime.IsSet())
}
