package role

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/livelink/types"
)

// PreProcessor modifies a frame before it is inserted into a buffer.
type PreProcessor interface {
	SupportsRole(role types.Role) bool
	Process(ctx context.Context, static *types.StaticData, frame *types.FrameData)
}

// AxisSwitch converts transforms between coordinate systems that differ by
// the handedness of some axes.
type AxisSwitch struct {
	FlipX bool
	FlipY bool
	FlipZ bool
}

var _ PreProcessor = AxisSwitch{}

func (AxisSwitch) SupportsRole(role types.Role) bool {
	switch role {
	case types.RoleTransform, types.RoleAnimation:
		return true
	}
	return false
}

func (s AxisSwitch) Process(
	ctx context.Context,
	static *types.StaticData,
	frame *types.FrameData,
) {
	flips := [3]bool{s.FlipX, s.FlipY, s.FlipZ}
	for idx := range frame.Transforms {
		tr := &frame.Transforms[idx]
		for axis, flip := range flips {
			if flip {
				tr.Translation[axis] = -tr.Translation[axis]
			}
		}
		// mirroring an axis negates the rotation components of the two other axes
		if s.FlipX {
			tr.Rotation.Jmag, tr.Rotation.Kmag = -tr.Rotation.Jmag, -tr.Rotation.Kmag
		}
		if s.FlipY {
			tr.Rotation.Imag, tr.Rotation.Kmag = -tr.Rotation.Imag, -tr.Rotation.Kmag
		}
		if s.FlipZ {
			tr.Rotation.Imag, tr.Rotation.Jmag = -tr.Rotation.Imag, -tr.Rotation.Jmag
		}
	}
}

// CheckInterpolator returns ErrIncompatibleRole if interpolator cannot be used
// for role. A nil interpolator is always compatible.
func CheckInterpolator(interpolator Interpolator, role types.Role) error {
	if interpolator == nil || interpolator.SupportsRole(role) {
		return nil
	}
	return fmt.Errorf("interpolator %T: %w %s", interpolator, ErrIncompatibleRole, role)
}

// CheckPreProcessors returns ErrIncompatibleRole if any of the pre-processors
// cannot be used for role.
func CheckPreProcessors(preProcessors []PreProcessor, role types.Role) error {
	for _, p := range preProcessors {
		if !p.SupportsRole(role) {
			return fmt.Errorf("pre-processor %T: %w %s", p, ErrIncompatibleRole, role)
		}
	}
	return nil
}
