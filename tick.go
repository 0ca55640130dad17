package livelink

import (
	"context"
	"slices"
	"strings"

	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/ts"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/xsync"
)

// Tick applies the queued pushes and refreshes the snapshot of every
// enabled subject: first the directly fed ones, then the virtual ones.
func (c *Client) Tick(
	ctx context.Context,
	now types.SyncTime,
) {
	logger.Tracef(ctx, "Tick: %v", now.WorldTime)
	defer func() { logger.Tracef(ctx, "/Tick: %v", now.WorldTime) }()
	c.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		if c.closer.IsClosed() {
			return
		}
		c.tickLocked(ctx, now)
	})
}

// TickNow ticks at the current time of the clock.
func (c *Client) TickNow(
	ctx context.Context,
	clock ts.SyncClock,
) types.SyncTime {
	now := clock.SyncTime(ctx)
	c.Tick(ctx, now)
	return now
}

func (c *Client) tickLocked(
	ctx context.Context,
	now types.SyncTime,
) {
	c.stats.Ticks.Inc()

	// pending settings decide how the drained frames are ordered
	for _, entry := range c.subjects {
		entry.Buffer.ApplyPendingSettings(ctx)
	}
	c.drainPendingLocked(ctx)

	for _, key := range sortedKeys(c.subjects) {
		entry := c.subjects[key]
		if !entry.Enabled {
			continue
		}
		entry.Buffer.Tick(ctx, now)
	}

	view := subjectView{client: c}
	for _, key := range sortedKeys(c.virtualSubjects) {
		c.virtualSubjects[key].tick(ctx, key, view, now)
	}
}

func sortedKeys[V any](m map[types.SubjectKey]V) []types.SubjectKey {
	keys := make([]types.SubjectKey, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b types.SubjectKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
