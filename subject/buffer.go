// Package subject implements the frame buffer of a single subject: ordered
// insertion, retention, sampling and the snapshot consumers read.
//
// A Buffer is not safe for concurrent use; its owner (the registry) guards
// every call with one lock.
package subject

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/livelink/indicator"
	"github.com/xaionaro-go/livelink/internal"
	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/remap"
	"github.com/xaionaro-go/livelink/retention"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/sampler"
	"github.com/xaionaro-go/livelink/sequencer"
	"github.com/xaionaro-go/livelink/subframe"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/typing"
)

var (
	ErrNoStaticData       = errors.New("the subject has no static data")
	ErrRoleMismatch       = errors.New("the static data role does not match the subject role")
	ErrInvalidTime        = errors.New("invalid frame time")
	ErrNoData             = errors.New("the subject has no valid data")
	ErrTimeDomainMismatch = errors.New("the subject mode does not support queries in this time domain")
)

// rateMismatchTolerance is the relative difference between the measured and
// the declared source rate above which a warning is logged.
const rateMismatchTolerance = 0.25

type Buffer struct {
	Key  types.SubjectKey
	Role types.Role

	settings        Settings
	pendingSettings *Settings

	// rawStatic is the static data as pushed; static has the names remapped.
	rawStatic *types.StaticData
	static    *types.StaticData

	frames   []types.FrameData
	snapshot typing.Optional[types.FrameData]
	state    State
	lastTick typing.Optional[types.SyncTime]

	config   config
	counters counters
	rate     *indicator.RateEstimator
}

func NewBuffer(
	ctx context.Context,
	key types.SubjectKey,
	r types.Role,
	settings Settings,
	opts ...Option,
) (*Buffer, error) {
	if _, err := role.For(r); err != nil {
		return nil, err
	}
	if err := settings.Validate(r); err != nil {
		return nil, err
	}
	return &Buffer{
		Key:      key,
		Role:     r,
		settings: settings,
		state:    StateUninitialized,
		config:   Options(opts).config(),
		rate:     indicator.NewRateEstimator(indicator.DefaultRateWindow),
	}, nil
}

func (b *Buffer) State() State {
	return b.state
}

// Settings returns the settings in effect (not the pending ones).
func (b *Buffer) Settings() Settings {
	return b.settings
}

// StaticData returns the static data with the names remapped.
func (b *Buffer) StaticData() *types.StaticData {
	return b.static
}

// Frames returns the buffered frames, oldest first. The slice must not be
// modified and is valid until the next call that mutates the buffer.
func (b *Buffer) Frames() []types.FrameData {
	return b.frames
}

func (b *Buffer) NumFrames() int {
	return len(b.frames)
}

func (b *Buffer) Snapshot() (types.FrameData, bool) {
	if !b.snapshot.IsSet() {
		return types.FrameData{}, false
	}
	s := b.snapshot.Get()
	return s.Clone(), true
}

func (b *Buffer) GetStats() Statistics {
	stats := b.counters.Convert()
	if rate, ok := b.rate.Rate(); ok {
		stats.EstimatedFrameRate = rate
	}
	return stats
}

// SetSettings validates the settings and schedules them for the next tick.
func (b *Buffer) SetSettings(ctx context.Context, settings Settings) (_err error) {
	logger.Tracef(ctx, "SetSettings[%s]", b.Key)
	defer func() { logger.Tracef(ctx, "/SetSettings[%s]: %v", b.Key, _err) }()
	if err := settings.Validate(b.Role); err != nil {
		return err
	}
	xatomic.StorePointer(&b.pendingSettings, &settings)
	return nil
}

// ApplyPendingSettings applies the settings scheduled by SetSettings; Tick
// calls it too.
func (b *Buffer) ApplyPendingSettings(ctx context.Context) {
	newSettings := xatomic.SwapPointer(&b.pendingSettings, nil)
	if newSettings == nil {
		return
	}
	logger.Debugf(ctx, "applying new settings to %s: %s", b.Key, newSettings)
	old := b.settings
	b.settings = *newSettings
	if b.rawStatic != nil {
		b.static = remap.StaticData(b.settings.Remapper, b.rawStatic)
	}
	if b.settings.needsReset(old) {
		logger.Debugf(ctx, "the ordering of %s changed, clearing the buffered frames", b.Key)
		b.resetFrames()
		return
	}
	if excess := len(b.frames) - b.settings.Buffer.MaxNumberOfFrames; excess > 0 {
		b.frames = slices.Delete(b.frames, 0, excess)
		b.counters.FramesEvicted.Add(uint64(excess))
	}
}

// SetStaticData assigns the shape of the subject's frames. It always drops
// the buffered frames and the snapshot.
func (b *Buffer) SetStaticData(
	ctx context.Context,
	static *types.StaticData,
) (_err error) {
	logger.Tracef(ctx, "SetStaticData[%s]", b.Key)
	defer func() { logger.Tracef(ctx, "/SetStaticData[%s]: %v", b.Key, _err) }()
	if static == nil {
		return fmt.Errorf("%w: nil", role.ErrInvalidStaticData)
	}
	if static.Role != b.Role {
		return fmt.Errorf("%w: %s != %s", ErrRoleMismatch, static.Role, b.Role)
	}
	if err := role.ValidateStatic(static); err != nil {
		return err
	}
	b.rawStatic = static.Clone()
	b.static = remap.StaticData(b.settings.Remapper, b.rawStatic)
	b.resetFrames()
	b.rate.Reset()
	b.state = StateHasStaticData
	return nil
}

// ValidateFrame checks the frame against the static data and the timing
// rules of the current settings, without looking at the buffered frames.
func (b *Buffer) ValidateFrame(frame *types.FrameData) error {
	return validateFrame(b.static, b.settings, frame)
}

// EffectiveSettings returns the settings the next tick runs with: the ones
// scheduled by SetSettings if any, the current ones otherwise.
func (b *Buffer) EffectiveSettings() Settings {
	if pending := xatomic.LoadPointer(&b.pendingSettings); pending != nil {
		return *pending
	}
	return b.settings
}

// ValidateFrameTiming checks the timing of the frame alone, as
// ValidateFrame does.
func ValidateFrameTiming(settings Settings, frame *types.FrameData) error {
	if err := sequencer.Validate(frame, settings.Mode, settings.Buffer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	return nil
}

func validateFrame(
	static *types.StaticData,
	settings Settings,
	frame *types.FrameData,
) error {
	if static == nil {
		return ErrNoStaticData
	}
	if err := role.ValidateFrame(static, frame); err != nil {
		return err
	}
	return ValidateFrameTiming(settings, frame)
}

// AddFrame inserts the frame keeping the buffer ordered by the mode's time
// key. A rejected frame leaves the buffer untouched.
func (b *Buffer) AddFrame(
	ctx context.Context,
	frame types.FrameData,
) (_err error) {
	logger.Tracef(ctx, "AddFrame[%s]: %s", b.Key, frame.WorldTime)
	defer func() {
		logger.Tracef(ctx, "/AddFrame[%s]: %v", b.Key, _err)
		if _err != nil {
			b.counters.FramesRejected.Inc()
			if b.config.Observer != nil {
				b.config.Observer.OnRejected(ctx, b.Key, _err)
			}
		}
	}()

	if err := b.ValidateFrame(&frame); err != nil {
		return err
	}
	for _, p := range b.settings.PreProcessors {
		p.Process(ctx, b.static, &frame)
	}

	mode, settings := b.settings.Mode, b.settings.Buffer
	insertion, err := sequencer.FindInsertIndex(b.frames, &frame, mode, settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	if insertion.Duplicate {
		b.counters.Duplicates.Inc()
		b.config.Deduplicator.WarnOnce(ctx, logger.Key(b.Key, "duplicate"),
			"subject %s received a frame with an already buffered timestamp (%s); check the source timestamps",
			b.Key, frameTimeString(&frame, mode))
	}
	if b.lastTick.IsSet() && retention.IsStale(&frame, mode, settings, b.lastTick.Get()) {
		b.config.Deduplicator.WarnOnce(ctx, logger.Key(b.Key, "stale_on_arrival"),
			"subject %s received a frame (%s) that is already out of the valid window; is the time offset misconfigured?",
			b.Key, frameTimeString(&frame, mode))
	}

	idx := insertion.Index
	if excess := len(b.frames) - settings.MaxNumberOfFrames + 1; excess > 0 {
		if idx-excess < 0 {
			b.counters.FramesDiscarded.Inc()
			b.config.Deduplicator.WarnOnce(ctx, logger.Key(b.Key, "too_old"),
				"subject %s received a frame (%s) older than all of the %d buffered frames; discarding",
				b.Key, frameTimeString(&frame, mode), len(b.frames))
			return nil
		}
		b.frames = slices.Delete(b.frames, 0, excess)
		b.counters.FramesEvicted.Add(uint64(excess))
		idx -= excess
	}
	b.frames = slices.Insert(b.frames, idx, frame)

	if mode == types.SourceModeTimecode && settings.GenerateSubFrame {
		adj, err := subframe.Adjust(b.frames, idx, settings)
		if err != nil {
			b.frames = slices.Delete(b.frames, idx, idx+1)
			return fmt.Errorf("%w: %w", ErrInvalidTime, err)
		}
		if adj.Clamped {
			b.config.Deduplicator.WarnOnce(ctx, logger.Key(b.Key, "subframe_clamped"),
				"subject %s: too many frames (%d) for subframe generation at %s->%s; check the source frame rate",
				b.Key, adj.RunLength(), settings.SourceTimecodeFrameRate, settings.TimecodeFrameRate)
		}
	}

	internal.AssertOrderedAround(ctx, idx, len(b.frames), func(i int) float64 {
		return b.frames[i].TimeKey(mode)
	})
	internal.Assert(ctx, len(b.frames) <= settings.MaxNumberOfFrames, "cap exceeded", b.Key, len(b.frames))

	b.observeRate(ctx, &frame)
	b.counters.FramesAdded.Inc()
	if b.state != StateSnapshotValid {
		b.state = StateAccumulating
	}
	return nil
}

func (b *Buffer) observeRate(ctx context.Context, frame *types.FrameData) {
	b.rate.Observe(frame.WorldTime.Time)
	settings := b.settings.Buffer
	if b.settings.Mode != types.SourceModeTimecode || !settings.GenerateSubFrame {
		return
	}
	measured, ok := b.rate.Rate()
	if !ok {
		return
	}
	declared := settings.SourceTimecodeFrameRate.Float64()
	if math.Abs(measured-declared)/declared <= rateMismatchTolerance {
		return
	}
	b.config.Deduplicator.WarnOnce(ctx, logger.Key(b.Key, "rate_mismatch"),
		"subject %s: the source seems to produce %.2f frames per second, but its declared rate is %s",
		b.Key, measured, settings.SourceTimecodeFrameRate)
}

// Tick applies the pending settings, evicts stale frames and publishes a
// new snapshot sampled at now.
func (b *Buffer) Tick(
	ctx context.Context,
	now types.SyncTime,
) {
	logger.Tracef(ctx, "Tick[%s]: %v", b.Key, now.WorldTime)
	defer func() { logger.Tracef(ctx, "/Tick[%s]", b.Key) }()

	b.ApplyPendingSettings(ctx)
	if !b.state.HasStaticData() {
		return
	}
	b.lastTick = typing.Opt(now)

	var evicted int
	b.frames, evicted = retention.Evict(b.frames, b.settings.Mode, b.settings.Buffer, now)
	if evicted > 0 {
		b.counters.FramesEvicted.Add(uint64(evicted))
		if b.config.Observer != nil {
			b.config.Observer.OnEvicted(ctx, b.Key, evicted)
		}
	}

	sample, requestedTime, ok := b.sampleForTick(ctx, now)
	if !ok {
		b.snapshot = typing.Optional[types.FrameData]{}
		if b.state == StateSnapshotValid {
			b.state = StateAccumulating
		}
		return
	}
	b.snapshot = typing.Opt(sample.Frame)
	b.state = StateSnapshotValid
	b.counters.Snapshots.Inc()
	if b.config.Observer != nil {
		b.config.Observer.OnSnapshot(ctx, b.Key, SnapshotInfo{
			FrameIndex:  sample.Blend.FrameIndexA,
			BufferDepth: len(b.frames),
			Blend:       sample.Blend,
			Time:        requestedTime,
		})
	}
}

func (b *Buffer) sampleForTick(
	ctx context.Context,
	now types.SyncTime,
) (sampler.Sample, float64, bool) {
	if len(b.frames) == 0 {
		return sampler.Sample{}, 0, false
	}
	settings := b.settings.Buffer
	switch b.settings.Mode {
	case types.SourceModeEngineTime:
		t := sampler.EngineTimeRequest(now.WorldTime, settings)
		s, ok := b.strategy().Sample(ctx, t, b.static, b.frames, sampler.WorldTimeKey)
		return s, t, ok
	case types.SourceModeTimecode:
		if now.SceneTime.IsSet() {
			t := sampler.SceneTimeRequest(now.SceneTime.Get(), settings)
			s, ok := b.strategy().Sample(ctx, t, b.static, b.frames, sampler.SceneTimeKey)
			return s, t, ok
		}
		s, ok := sampler.Latest(b.frames, 0)
		return s, s.Frame.TimeKey(types.SourceModeTimecode), ok
	default:
		s, ok := sampler.Latest(b.frames, settings.LatestOffset)
		return s, s.Frame.WorldTime.OffsettedTime(), ok
	}
}

func (b *Buffer) strategy() sampler.Strategy {
	return sampler.ForInterpolator(b.settings.Interpolator)
}

// Clear drops the frames and the snapshot, keeping the static data and the
// settings.
func (b *Buffer) Clear(ctx context.Context) {
	logger.Tracef(ctx, "Clear[%s]", b.Key)
	defer func() { logger.Tracef(ctx, "/Clear[%s]", b.Key) }()
	b.resetFrames()
	b.counters.Clears.Inc()
	if b.state.HasStaticData() {
		b.state = StateCleared
	}
}

func (b *Buffer) resetFrames() {
	b.frames = b.frames[:0]
	b.snapshot = typing.Optional[types.FrameData]{}
	b.lastTick = typing.Optional[types.SyncTime]{}
}

func frameTimeString(frame *types.FrameData, mode types.SourceMode) string {
	if mode == types.SourceModeTimecode && frame.HasSceneTime() {
		return frame.SceneTime().String()
	}
	return frame.WorldTime.String()
}
