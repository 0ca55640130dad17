package livelink

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
)

// SubjectView gives virtual subjects read access to the snapshots of the
// directly fed subjects as of the current tick.
type SubjectView interface {
	Snapshot(name types.SubjectName) (*types.StaticData, types.FrameData, bool)
}

// VirtualSubject is a subject computed from other subjects every tick,
// after all the directly fed subjects are updated.
type VirtualSubject interface {
	Role() types.Role

	// Update returns the static data and the frame for the tick; ok is
	// false if there is no valid data this tick.
	Update(
		ctx context.Context,
		view SubjectView,
		now types.SyncTime,
	) (static *types.StaticData, frame types.FrameData, ok bool)
}

type virtualSubjectEntry struct {
	Subject  VirtualSubject
	Static   *types.StaticData
	Snapshot typing.Optional[types.FrameData]
}

func (e *virtualSubjectEntry) tick(
	ctx context.Context,
	key types.SubjectKey,
	view SubjectView,
	now types.SyncTime,
) {
	static, frame, ok := e.Subject.Update(ctx, view, now)
	if ok && static != nil {
		if err := role.ValidateFrame(static, &frame); err != nil {
			logger.Errorf(ctx, "virtual subject %s produced an invalid frame: %v", key, err)
			ok = false
		}
	}
	if !ok || static == nil {
		e.Snapshot = typing.Optional[types.FrameData]{}
		return
	}
	e.Static = static
	e.Snapshot = typing.Opt(frame)
}

type subjectView struct {
	client *Client
}

var _ SubjectView = subjectView{}

func (v subjectView) Snapshot(name types.SubjectName) (*types.StaticData, types.FrameData, bool) {
	entry := v.client.enabledByNameLocked(name)
	if entry == nil {
		return nil, types.FrameData{}, false
	}
	frame, ok := entry.Buffer.Snapshot()
	if !ok {
		return nil, types.FrameData{}, false
	}
	return entry.Buffer.StaticData().Clone(), frame, true
}

// AddVirtualSubject registers a virtual subject.
func (c *Client) AddVirtualSubject(
	ctx context.Context,
	key types.SubjectKey,
	virtualSubject VirtualSubject,
) (_err error) {
	logger.Tracef(ctx, "AddVirtualSubject[%s]", key)
	defer func() { logger.Tracef(ctx, "/AddVirtualSubject[%s]: %v", key, _err) }()
	if _, err := role.For(virtualSubject.Role()); err != nil {
		return err
	}
	return xsync.DoR1(ctx, &c.locker, func() error {
		if _, ok := c.virtualSubjects[key]; ok {
			return fmt.Errorf("%w: %s", ErrSubjectExists, key)
		}
		c.virtualSubjects[key] = &virtualSubjectEntry{Subject: virtualSubject}
		return nil
	})
}

func (c *Client) RemoveVirtualSubject(
	ctx context.Context,
	key types.SubjectKey,
) error {
	return xsync.DoR1(ctx, &c.locker, func() error {
		if _, ok := c.virtualSubjects[key]; !ok {
			return fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
		}
		delete(c.virtualSubjects, key)
		return nil
	})
}

// MergedProperties is a virtual subject of RoleBasic exposing the properties
// of several subjects as "<subject>.<property>". Subjects without valid data
// are skipped.
type MergedProperties struct {
	Subjects []types.SubjectName
}

var _ VirtualSubject = MergedProperties{}

func (MergedProperties) Role() types.Role {
	return types.RoleBasic
}

func (m MergedProperties) Update(
	ctx context.Context,
	view SubjectView,
	now types.SyncTime,
) (*types.StaticData, types.FrameData, bool) {
	static := &types.StaticData{Role: types.RoleBasic}
	frame := types.FrameData{
		WorldTime: types.NewWorldTime(now.WorldTime),
	}
	if now.SceneTime.IsSet() {
		frame.SetSceneTime(now.SceneTime.Get())
	}
	found := false
	for _, name := range m.Subjects {
		srcStatic, srcFrame, ok := view.Snapshot(name)
		if !ok {
			continue
		}
		found = true
		for idx, propName := range srcStatic.PropertyNames {
			if idx >= len(srcFrame.PropertyValues) {
				break
			}
			static.PropertyNames = append(static.PropertyNames, fmt.Sprintf("%s.%s", name, propName))
			frame.PropertyValues = append(frame.PropertyValues, srcFrame.PropertyValues[idx])
		}
	}
	return static, frame, found
}
