package livelink

import (
	"context"
	"fmt"
	"slices"

	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/subject"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/xsync"
)

type pendingStaticData struct {
	Key    types.SubjectKey
	Role   types.Role
	Static *types.StaticData
}

type pendingFrameData struct {
	Key   types.SubjectKey
	Frame types.FrameData
}

// PushStaticData queues new static data for the subject; it is applied by
// the next tick, before any frame data pushed after it. The subject is
// created if it does not exist, and recreated if its role differs.
func (c *Client) PushStaticData(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
	static *types.StaticData,
) (_err error) {
	logger.Tracef(ctx, "PushStaticData[%s]: %s", key, r)
	defer func() { logger.Tracef(ctx, "/PushStaticData[%s]: %v", key, _err) }()

	if c.closer.IsClosed() {
		return ErrClosed
	}
	if err := checkRole(r, static); err != nil {
		c.stats.StaticDataRejected.Inc()
		c.dedup.ErrorfRateLimited(ctx, logger.Key(key, "static_rejected"), c.Config.ErrorRateLimitPeriod,
			"rejected static data of subject %s: %v", key, err)
		return err
	}
	item := pendingStaticData{
		Key:    key,
		Role:   r,
		Static: static.Clone(),
	}
	return xsync.DoA2R1(xsync.WithNoLogging(ctx, true), &c.locker, c.pushStaticDataLocked, ctx, item)
}

func (c *Client) pushStaticDataLocked(
	ctx context.Context,
	item pendingStaticData,
) error {
	if len(c.pendingStatics) >= c.Config.MaxNewStaticDataPerUpdate {
		c.stats.StaticDataDropped.Inc()
		c.dedup.ErrorfRateLimited(ctx, "static_overflow", c.Config.ErrorRateLimitPeriod,
			"too many new static data in one update (%d); discarding", len(c.pendingStatics)+1)
		return fmt.Errorf("%w: static data of %s", ErrQueueOverflow, item.Key)
	}
	// frames pushed before are of the previous shape
	c.purgePendingFramesLocked(func(k types.SubjectKey) bool { return k == item.Key })
	c.pendingStatics = append(c.pendingStatics, item)
	c.stats.StaticDataPushed.Inc()
	return nil
}

// PushFrameData queues a frame for the subject; it is inserted by the next
// tick. Frames are rejected right away if the subject has no static data,
// is disabled or the frame does not match the static data.
func (c *Client) PushFrameData(
	ctx context.Context,
	key types.SubjectKey,
	frame types.FrameData,
) (_err error) {
	logger.Tracef(ctx, "PushFrameData[%s]: %s", key, frame.WorldTime)
	defer func() { logger.Tracef(ctx, "/PushFrameData[%s]: %v", key, _err) }()

	if c.closer.IsClosed() {
		return ErrClosed
	}
	err := xsync.DoA3R1(xsync.WithNoLogging(ctx, true), &c.locker, c.pushFrameDataLocked, ctx, key, frame)
	if err != nil {
		c.dedup.ErrorfRateLimited(ctx, logger.Key(key, "frame_rejected"), c.Config.ErrorRateLimitPeriod,
			"rejected frame data of subject %s: %v", key, err)
	}
	return err
}

func (c *Client) pushFrameDataLocked(
	ctx context.Context,
	key types.SubjectKey,
	frame types.FrameData,
) error {
	static, settings, err := c.effectiveStaticDataLocked(key)
	if err != nil {
		c.stats.FrameDataRejected.Inc()
		return err
	}
	if err := role.ValidateFrame(static, &frame); err != nil {
		c.stats.FrameDataRejected.Inc()
		return err
	}
	if err := subject.ValidateFrameTiming(settings, &frame); err != nil {
		c.stats.FrameDataRejected.Inc()
		return err
	}

	if len(c.pendingFrames) >= c.Config.MaxNewFrameDataPerUpdate {
		c.stats.FrameDataDropped.Inc()
		c.dedup.ErrorfRateLimited(ctx, "frame_overflow", c.Config.ErrorRateLimitPeriod,
			"too many new frame data in one update (%d); discarding the %s", len(c.pendingFrames)+1, c.Config.FrameOverflowPolicy)
		switch c.Config.FrameOverflowPolicy {
		case FrameOverflowPolicyDropOldest:
			c.pendingFrames = slices.Delete(c.pendingFrames, 0, 1)
		default:
			return fmt.Errorf("%w: frame data of %s", ErrQueueOverflow, key)
		}
	}
	c.pendingFrames = append(c.pendingFrames, pendingFrameData{
		Key:   key,
		Frame: frame.Clone(),
	})
	c.stats.FrameDataPushed.Inc()
	return nil
}

// effectiveStaticDataLocked returns the static data and the settings the
// next tick will have for the subject when it inserts a newly pushed frame.
func (c *Client) effectiveStaticDataLocked(key types.SubjectKey) (*types.StaticData, subject.Settings, error) {
	entry, ok := c.subjects[key]
	for idx := len(c.pendingStatics) - 1; idx >= 0; idx-- {
		item := c.pendingStatics[idx]
		if item.Key != key {
			continue
		}
		switch {
		case !ok:
			return item.Static, c.defaultSettingsFor(item.Role), nil
		case entry.Buffer.Role != item.Role:
			return item.Static, c.defaultSettingsFor(item.Role, entry.Buffer.EffectiveSettings()), nil
		default:
			return item.Static, entry.Buffer.EffectiveSettings(), nil
		}
	}
	if !ok {
		return nil, subject.Settings{}, fmt.Errorf("%w: %s", ErrNoStaticData, key)
	}
	if !entry.Enabled {
		return nil, subject.Settings{}, fmt.Errorf("%w: %s", ErrSubjectDisabled, key)
	}
	static := entry.Buffer.StaticData()
	if static == nil {
		return nil, subject.Settings{}, fmt.Errorf("%w: %s", ErrNoStaticData, key)
	}
	return static, entry.Buffer.EffectiveSettings(), nil
}

func (c *Client) purgePendingFramesLocked(match func(types.SubjectKey) bool) {
	c.pendingFrames = slices.DeleteFunc(c.pendingFrames, func(item pendingFrameData) bool {
		return match(item.Key)
	})
}

func (c *Client) purgePendingLocked(match func(types.SubjectKey) bool) {
	c.purgePendingFramesLocked(match)
	c.pendingStatics = slices.DeleteFunc(c.pendingStatics, func(item pendingStaticData) bool {
		return match(item.Key)
	})
}

// drainPendingLocked applies the queued static data and then the queued
// frames, each in arrival order.
func (c *Client) drainPendingLocked(ctx context.Context) {
	statics, frames := c.pendingStatics, c.pendingFrames
	c.pendingStatics, c.pendingFrames = nil, nil

	for _, item := range statics {
		c.applyStaticDataLocked(ctx, item)
	}
	for _, item := range frames {
		entry, ok := c.subjects[item.Key]
		if !ok || !entry.Enabled {
			c.stats.FrameDataRejected.Inc()
			logger.Debugf(ctx, "dropping a pending frame of %s: the subject is gone or disabled", item.Key)
			continue
		}
		if err := entry.Buffer.AddFrame(ctx, item.Frame); err != nil {
			c.stats.FrameDataRejected.Inc()
			c.dedup.ErrorfRateLimited(ctx, logger.Key(item.Key, "frame_rejected"), c.Config.ErrorRateLimitPeriod,
				"rejected frame data of subject %s: %v", item.Key, err)
		}
	}
}

func (c *Client) applyStaticDataLocked(
	ctx context.Context,
	item pendingStaticData,
) {
	entry, ok := c.subjects[item.Key]
	if ok && entry.Buffer.Role != item.Role {
		c.dedup.WarnOnce(ctx, logger.Key(item.Key, "role_change", entry.Buffer.Role, item.Role),
			"subject %s is changing its role from %s to %s", item.Key, entry.Buffer.Role, item.Role)
		c.stats.RoleChanges.Inc()
		buffer, err := c.newBufferLocked(ctx, item.Key, item.Role, c.defaultSettingsFor(item.Role, entry.Buffer.Settings()))
		if err != nil {
			c.stats.StaticDataRejected.Inc()
			logger.Errorf(ctx, "unable to recreate subject %s with role %s: %v", item.Key, item.Role, err)
			return
		}
		entry.Buffer = buffer
	}
	if !ok {
		var err error
		entry, err = c.createSubjectLocked(ctx, item.Key, item.Role, c.defaultSettingsFor(item.Role))
		if err != nil {
			c.stats.StaticDataRejected.Inc()
			logger.Errorf(ctx, "unable to create subject %s: %v", item.Key, err)
			return
		}
	}
	if err := entry.Buffer.SetStaticData(ctx, item.Static); err != nil {
		c.stats.StaticDataRejected.Inc()
		c.dedup.ErrorfRateLimited(ctx, logger.Key(item.Key, "static_rejected"), c.Config.ErrorRateLimitPeriod,
			"rejected static data of subject %s: %v", item.Key, err)
	}
}
