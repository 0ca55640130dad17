// Package ts provides the clocks a host uses to drive ticks: the engine
// clock and the timecode (production) clock.
package ts

import (
	"context"
	"time"

	"github.com/xaionaro-go/xsync"
)

// EngineClock measures engine time as seconds since the first reading.
type EngineClock struct {
	xsync.Mutex
	Now       func() time.Time
	StartTime time.Time
}

func NewEngineClock(now func() time.Time) *EngineClock {
	if now == nil {
		now = time.Now
	}
	return &EngineClock{
		Now: now,
	}
}

// WorldTime returns the seconds elapsed since the clock started.
func (c *EngineClock) WorldTime(ctx context.Context) float64 {
	return xsync.DoR1(ctx, &c.Mutex, func() float64 {
		return c.asLocked().WorldTime()
	})
}

// ToWallClock converts an engine time back to the wall clock.
func (c *EngineClock) ToWallClock(ctx context.Context, worldTime float64) time.Time {
	return xsync.DoR1(ctx, &c.Mutex, func() time.Time {
		l := c.asLocked()
		l.start()
		return l.StartTime.Add(time.Duration(worldTime * float64(time.Second)))
	})
}

type engineClockLocked struct {
	*EngineClock
}

func (c *EngineClock) asLocked() *engineClockLocked {
	return &engineClockLocked{c}
}

func (c *engineClockLocked) start() {
	if c.StartTime.IsZero() {
		c.StartTime = c.Now()
	}
}

func (c *engineClockLocked) WorldTime() float64 {
	c.start()
	return c.Now().Sub(c.StartTime).Seconds()
}
