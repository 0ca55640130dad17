package livelink

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/livelink/remap"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/subject"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/xsync"
)

// EvaluateAtTime samples the enabled subject with the given name at an
// engine time.
//
// ErrSubjectNotFound means there is no enabled subject with the name,
// ErrSubjectInvalid means it exists but has no valid data right now.
func (c *Client) EvaluateAtTime(
	ctx context.Context,
	name types.SubjectName,
	worldTime float64,
	opts ...EvaluateOption,
) (types.FrameData, error) {
	return c.evaluate(ctx, name, EvaluateOptions(opts).config(), func(b *subject.Buffer) (types.FrameData, error) {
		return b.EvaluateAtWorldTime(ctx, worldTime)
	})
}

// EvaluateAtTimecode samples the enabled subject with the given name at a
// timecode. Only subjects in the timecode mode support it.
func (c *Client) EvaluateAtTimecode(
	ctx context.Context,
	name types.SubjectName,
	timecode types.QualifiedFrameTime,
	opts ...EvaluateOption,
) (types.FrameData, error) {
	return c.evaluate(ctx, name, EvaluateOptions(opts).config(), func(b *subject.Buffer) (types.FrameData, error) {
		return b.EvaluateAtSceneTime(ctx, timecode)
	})
}

// EvaluateLatest returns the snapshot of the last tick.
func (c *Client) EvaluateLatest(
	ctx context.Context,
	name types.SubjectName,
	opts ...EvaluateOption,
) (types.FrameData, error) {
	return c.evaluate(ctx, name, EvaluateOptions(opts).config(), func(b *subject.Buffer) (types.FrameData, error) {
		return b.EvaluateLatest(ctx)
	})
}

// EvaluateCurves returns the properties of the latest snapshot by name,
// passed through the subject's remapper.
func (c *Client) EvaluateCurves(
	ctx context.Context,
	name types.SubjectName,
) (map[string]float32, error) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &c.locker, func() (map[string]float32, error) {
		static, frame, remapper, err := c.lookupLocked(ctx, name, func(b *subject.Buffer) (types.FrameData, error) {
			return b.EvaluateLatest(ctx)
		})
		if err != nil {
			return nil, err
		}
		return remap.Curves(remapper, static, &frame), nil
	})
}

func (c *Client) evaluate(
	ctx context.Context,
	name types.SubjectName,
	cfg evaluateConfig,
	fn func(*subject.Buffer) (types.FrameData, error),
) (types.FrameData, error) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &c.locker, func() (types.FrameData, error) {
		static, frame, _, err := c.lookupLocked(ctx, name, fn)
		if err != nil {
			return types.FrameData{}, err
		}
		if cfg.DesiredRole == types.UndefinedRole || cfg.DesiredRole == static.Role {
			return frame, nil
		}
		_, translated, err := role.Translate(static, &frame, cfg.DesiredRole)
		if err != nil {
			return types.FrameData{}, fmt.Errorf("subject %s: %w", name, err)
		}
		return translated, nil
	})
}

// lookupLocked evaluates the enabled subject with the name, falling back
// to a virtual subject with the name (which only has its latest snapshot).
func (c *Client) lookupLocked(
	ctx context.Context,
	name types.SubjectName,
	fn func(*subject.Buffer) (types.FrameData, error),
) (*types.StaticData, types.FrameData, remap.Remapper, error) {
	if entry := c.enabledByNameLocked(name); entry != nil {
		frame, err := fn(entry.Buffer)
		switch {
		case errors.Is(err, subject.ErrNoData):
			return nil, types.FrameData{}, nil, fmt.Errorf("%w: %s", ErrSubjectInvalid, name)
		case err != nil:
			return nil, types.FrameData{}, nil, fmt.Errorf("subject %s: %w", name, err)
		}
		return entry.Buffer.StaticData(), frame, entry.Buffer.Settings().Remapper, nil
	}
	for key, entry := range c.virtualSubjects {
		if key.Name != name {
			continue
		}
		if !entry.Snapshot.IsSet() {
			return nil, types.FrameData{}, nil, fmt.Errorf("%w: %s", ErrSubjectInvalid, name)
		}
		frame := entry.Snapshot.Get()
		return entry.Static, frame.Clone(), nil, nil
	}
	return nil, types.FrameData{}, nil, fmt.Errorf("%w: no enabled subject named %q", ErrSubjectNotFound, name)
}
