package subject

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/livelink/remap"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

var ErrInvalidSettings = errors.New("invalid subject settings")

// Settings is the per-subject configuration. It may be changed at any time;
// a change takes effect from the next tick.
type Settings struct {
	Mode   types.SourceMode
	Buffer types.BufferSettings

	// Interpolator is used to sample in the EngineTime and Timecode modes;
	// if nil the closest frame is used.
	Interpolator role.Interpolator

	// PreProcessors are applied in order to every frame before insertion.
	PreProcessors []role.PreProcessor

	// Remapper renames the properties and bones of the static data; nil
	// keeps the names.
	Remapper remap.Remapper
}

func DefaultSettings() Settings {
	return Settings{
		Mode:         types.SourceModeEngineTime,
		Buffer:       types.DefaultBufferSettings(),
		Interpolator: role.LinearInterpolator{},
	}
}

// Validate checks the settings and their compatibility with the role.
func (s Settings) Validate(r types.Role) error {
	var errs []error
	if !s.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("invalid mode %s", s.Mode))
	}
	if err := s.Buffer.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := role.CheckInterpolator(s.Interpolator, r); err != nil {
		errs = append(errs, err)
	}
	if err := role.CheckPreProcessors(s.PreProcessors, r); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

func (s Settings) String() string {
	type plain Settings
	return spew.Sdump(plain(s))
}

// needsReset reports whether buffered frames ordered under old are no longer
// ordered (or comparable) under s.
func (s Settings) needsReset(old Settings) bool {
	if s.Mode != old.Mode {
		return true
	}
	if s.Mode != types.SourceModeTimecode {
		return false
	}
	return !s.Buffer.TimecodeFrameRate.Equal(old.Buffer.TimecodeFrameRate) ||
		s.Buffer.GenerateSubFrame != old.Buffer.GenerateSubFrame ||
		!s.Buffer.SourceTimecodeFrameRate.Equal(old.Buffer.SourceTimecodeFrameRate)
}
