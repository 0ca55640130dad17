// Package livelink buffers timestamped subject data pushed by sources and
// exposes a time-consistent snapshot of every subject, refreshed every tick.
//
// Producers push static and frame data from any goroutine; the pushes are
// queued and applied by Tick, which must be called from a single goroutine
// once per frame. Evaluation may be called from any goroutine.
package livelink

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/xaionaro-go/livelink/helpers/closuresignaler"
	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/subject"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/xsync"
)

type subjectEntry struct {
	Buffer  *subject.Buffer
	Enabled bool
}

// Client is the registry of subjects. The host owns its lifetime.
type Client struct {
	Config Config

	locker          xsync.Mutex
	subjects        map[types.SubjectKey]*subjectEntry
	virtualSubjects map[types.SubjectKey]*virtualSubjectEntry
	pendingStatics  []pendingStaticData
	pendingFrames   []pendingFrameData
	dedup           *logger.Deduplicator
	stats           commonsStatistics
	closer          *closuresignaler.ClosureSignaler
}

func New(
	ctx context.Context,
	cfg Config,
) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.DefaultSubjectSettings.Buffer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: default subject settings: %w", ErrInvalidConfig, err)
	}
	logger.Debugf(ctx, "livelink config: %s", cfg)
	return &Client{
		Config:          cfg,
		subjects:        map[types.SubjectKey]*subjectEntry{},
		virtualSubjects: map[types.SubjectKey]*virtualSubjectEntry{},
		dedup:           logger.NewDeduplicator(),
		closer:          closuresignaler.New(),
	}, nil
}

func (c *Client) newBufferLocked(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
	settings subject.Settings,
) (*subject.Buffer, error) {
	opts := subject.Options{subject.OptionDeduplicator{Deduplicator: c.dedup}}
	if c.Config.Observer != nil {
		opts = append(opts, subject.OptionObserver{Observer: c.Config.Observer})
	}
	return subject.NewBuffer(ctx, key, r, settings, opts...)
}

// defaultSettingsFor returns settings to start a subject of the role with:
// preferred if they are compatible with the role, otherwise the configured
// defaults, otherwise the defaults without role specific algorithms.
func (c *Client) defaultSettingsFor(r types.Role, preferred ...subject.Settings) subject.Settings {
	candidates := append(slices.Clone(preferred), c.Config.DefaultSubjectSettings)
	for _, settings := range candidates {
		if settings.Validate(r) == nil {
			return settings
		}
	}
	settings := c.Config.DefaultSubjectSettings
	settings.Interpolator = nil
	settings.PreProcessors = nil
	return settings
}

// AddSubject registers a subject with the default settings. The subject is
// enabled if no other subject with the same name is enabled.
func (c *Client) AddSubject(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
) (_err error) {
	logger.Tracef(ctx, "AddSubject[%s]: %s", key, r)
	defer func() { logger.Tracef(ctx, "/AddSubject[%s]: %v", key, _err) }()
	return xsync.DoA3R1(ctx, &c.locker, c.addSubjectLocked, ctx, key, r)
}

func (c *Client) addSubjectLocked(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
) error {
	if _, ok := c.subjects[key]; ok {
		return fmt.Errorf("%w: %s", ErrSubjectExists, key)
	}
	_, err := c.createSubjectLocked(ctx, key, r, c.defaultSettingsFor(r))
	return err
}

func (c *Client) createSubjectLocked(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
	settings subject.Settings,
) (*subjectEntry, error) {
	buffer, err := c.newBufferLocked(ctx, key, r, settings)
	if err != nil {
		return nil, err
	}
	entry := &subjectEntry{
		Buffer:  buffer,
		Enabled: c.enabledByNameLocked(key.Name) == nil,
	}
	c.subjects[key] = entry
	logger.Debugf(ctx, "added subject %s (role: %s, enabled: %t)", key, r, entry.Enabled)
	return entry, nil
}

// RemoveSubject destroys the subject and drops its pending data.
func (c *Client) RemoveSubject(
	ctx context.Context,
	key types.SubjectKey,
) (_err error) {
	logger.Tracef(ctx, "RemoveSubject[%s]", key)
	defer func() { logger.Tracef(ctx, "/RemoveSubject[%s]: %v", key, _err) }()
	return xsync.DoA2R1(ctx, &c.locker, c.removeSubjectLocked, ctx, key)
}

func (c *Client) removeSubjectLocked(
	ctx context.Context,
	key types.SubjectKey,
) error {
	entry, ok := c.subjects[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
	}
	entry.Buffer.Clear(ctx)
	delete(c.subjects, key)
	c.purgePendingLocked(func(k types.SubjectKey) bool { return k == key })
	c.dedup.Forget(logger.Key(key) + "|")
	return nil
}

// RemoveSource removes every subject of the source and returns how many
// were removed.
func (c *Client) RemoveSource(
	ctx context.Context,
	source types.SourceID,
) int {
	return xsync.DoR1(ctx, &c.locker, func() int {
		var keys []types.SubjectKey
		for key := range c.subjects {
			if key.Source == source {
				keys = append(keys, key)
			}
		}
		for _, key := range keys {
			if err := c.removeSubjectLocked(ctx, key); err != nil {
				logger.Errorf(ctx, "unable to remove subject %s: %v", key, err)
			}
		}
		c.purgePendingLocked(func(k types.SubjectKey) bool { return k.Source == source })
		return len(keys)
	})
}

// SetSubjectEnabled enables or disables the subject. Enabling disables
// every other subject with the same name; disabling clears the buffer.
func (c *Client) SetSubjectEnabled(
	ctx context.Context,
	key types.SubjectKey,
	enabled bool,
) (_err error) {
	logger.Tracef(ctx, "SetSubjectEnabled[%s]: %t", key, enabled)
	defer func() { logger.Tracef(ctx, "/SetSubjectEnabled[%s]: %v", key, _err) }()
	return xsync.DoA3R1(ctx, &c.locker, c.setSubjectEnabledLocked, ctx, key, enabled)
}

func (c *Client) setSubjectEnabledLocked(
	ctx context.Context,
	key types.SubjectKey,
	enabled bool,
) error {
	entry, ok := c.subjects[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
	}
	if !enabled {
		if entry.Enabled {
			entry.Enabled = false
			entry.Buffer.Clear(ctx)
		}
		return nil
	}
	for otherKey, other := range c.subjects {
		if otherKey == key || otherKey.Name != key.Name || !other.Enabled {
			continue
		}
		logger.Debugf(ctx, "disabling %s in favor of %s", otherKey, key)
		other.Enabled = false
		other.Buffer.Clear(ctx)
	}
	entry.Enabled = true
	return nil
}

// SetSubjectSettings validates the settings and applies them from the next
// tick.
func (c *Client) SetSubjectSettings(
	ctx context.Context,
	key types.SubjectKey,
	settings subject.Settings,
) (_err error) {
	logger.Tracef(ctx, "SetSubjectSettings[%s]", key)
	defer func() { logger.Tracef(ctx, "/SetSubjectSettings[%s]: %v", key, _err) }()
	return xsync.DoA3R1(ctx, &c.locker, func(
		ctx context.Context,
		key types.SubjectKey,
		settings subject.Settings,
	) error {
		entry, ok := c.subjects[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
		}
		return entry.Buffer.SetSettings(ctx, settings)
	}, ctx, key, settings)
}

// SubjectInfo is a short description of a registered subject.
type SubjectInfo struct {
	Key     types.SubjectKey
	Role    types.Role
	Enabled bool
	Virtual bool
	State   subject.State
}

// Subjects lists the registered subjects ordered by name and source.
func (c *Client) Subjects(ctx context.Context) []SubjectInfo {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &c.locker, func() []SubjectInfo {
		result := make([]SubjectInfo, 0, len(c.subjects)+len(c.virtualSubjects))
		for key, entry := range c.subjects {
			result = append(result, SubjectInfo{
				Key:     key,
				Role:    entry.Buffer.Role,
				Enabled: entry.Enabled,
				State:   entry.Buffer.State(),
			})
		}
		for key, entry := range c.virtualSubjects {
			state := subject.StateAccumulating
			if entry.Snapshot.IsSet() {
				state = subject.StateSnapshotValid
			}
			result = append(result, SubjectInfo{
				Key:     key,
				Role:    entry.Subject.Role(),
				Enabled: true,
				Virtual: true,
				State:   state,
			})
		}
		slices.SortFunc(result, func(a, b SubjectInfo) int {
			if cmp := strings.Compare(string(a.Key.Name), string(b.Key.Name)); cmp != 0 {
				return cmp
			}
			return strings.Compare(a.Key.Source.String(), b.Key.Source.String())
		})
		return result
	})
}

// SubjectState returns the state of the subject's buffer.
func (c *Client) SubjectState(
	ctx context.Context,
	key types.SubjectKey,
) (subject.State, error) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &c.locker, func() (subject.State, error) {
		entry, ok := c.subjects[key]
		if !ok {
			return subject.UndefinedState, fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
		}
		return entry.Buffer.State(), nil
	})
}

// SubjectFrames returns a copy of the frames buffered for the subject.
func (c *Client) SubjectFrames(
	ctx context.Context,
	key types.SubjectKey,
) ([]types.FrameData, error) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &c.locker, func() ([]types.FrameData, error) {
		entry, ok := c.subjects[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, key)
		}
		frames := entry.Buffer.Frames()
		result := make([]types.FrameData, 0, len(frames))
		for idx := range frames {
			result = append(result, frames[idx].Clone())
		}
		return result, nil
	})
}

func (c *Client) GetStats(ctx context.Context) *Statistics {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &c.locker, func() *Statistics {
		stats := c.stats.Convert()
		stats.Subjects = make(map[string]subject.Statistics, len(c.subjects))
		for key, entry := range c.subjects {
			stats.Subjects[key.String()] = entry.Buffer.GetStats()
		}
		return ptr(stats)
	})
}

func (c *Client) enabledByNameLocked(name types.SubjectName) *subjectEntry {
	for key, entry := range c.subjects {
		if key.Name == name && entry.Enabled {
			return entry
		}
	}
	return nil
}

// checkRole reports whether the static data can be pushed for role.
func checkRole(r types.Role, static *types.StaticData) error {
	if static == nil {
		return fmt.Errorf("%w: nil", role.ErrInvalidStaticData)
	}
	if static.Role != r {
		return fmt.Errorf("%w: static data of role %s pushed as %s", ErrRoleMismatch, static.Role, r)
	}
	return role.ValidateStatic(static)
}
