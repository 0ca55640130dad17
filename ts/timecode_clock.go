package ts

import (
	"context"

	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/xsync"
)

// TimecodeClock derives the production time from an engine clock: the
// timecode is StartFrame at engine time StartWorldTime and advances at Rate.
type TimecodeClock struct {
	xsync.Mutex
	Engine         *EngineClock
	Rate           types.Rational
	StartFrame     types.FrameTime
	StartWorldTime float64
}

func NewTimecodeClock(
	engine *EngineClock,
	rate types.Rational,
	startFrame types.FrameTime,
) *TimecodeClock {
	return &TimecodeClock{
		Engine:     engine,
		Rate:       rate,
		StartFrame: startFrame,
	}
}

// SceneTime returns the current timecode.
func (c *TimecodeClock) SceneTime(ctx context.Context) types.QualifiedFrameTime {
	return c.SceneTimeAt(ctx, c.Engine.WorldTime(ctx))
}

// SceneTimeAt returns the timecode at the given engine time.
func (c *TimecodeClock) SceneTimeAt(ctx context.Context, worldTime float64) types.QualifiedFrameTime {
	return xsync.DoR1(ctx, &c.Mutex, func() types.QualifiedFrameTime {
		frames := c.StartFrame.AsDecimal() + c.Rate.AsFrames(worldTime-c.StartWorldTime)
		return types.QualifiedFrameTime{
			Time: types.FrameTimeFromDecimal(frames),
			Rate: c.Rate,
		}
	})
}

// Jam re-synchronizes the clock so that the timecode at worldTime is frame.
func (c *TimecodeClock) Jam(ctx context.Context, worldTime float64, frame types.FrameTime) {
	c.Mutex.Do(ctx, func() {
		c.StartWorldTime = worldTime
		c.StartFrame = frame
	})
}

// SyncClock reads both clock domains at once.
type SyncClock struct {
	Engine *EngineClock

	// Timecode is optional; without it SyncTime has no scene time.
	Timecode *TimecodeClock
}

func (c SyncClock) SyncTime(ctx context.Context) types.SyncTime {
	worldTime := c.Engine.WorldTime(ctx)
	now := types.NewSyncTime(worldTime)
	if c.Timecode != nil {
		now = now.WithSceneTime(c.Timecode.SceneTimeAt(ctx, worldTime))
	}
	return now
}
