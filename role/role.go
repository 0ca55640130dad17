// Package role is the capability table of subject roles: how a role's static
// data and frames are validated, interpolated and translated into other roles.
package role

import (
	"errors"
	"fmt"
	"math"

	"github.com/xaionaro-go/livelink/types"
)

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrInvalidStaticData = errors.New("invalid static data")
	ErrShapeMismatch     = errors.New("the frame does not match the static data")
	ErrIncompatibleRole  = errors.New("not compatible with the role")
	ErrNoTranslation     = errors.New("no translation between the roles")
)

// Translator converts a frame of one role into a frame of another role.
type Translator func(static *types.StaticData, frame *types.FrameData) (*types.StaticData, types.FrameData)

// Capabilities is what livelink knows how to do with a role.
type Capabilities struct {
	Role                types.Role
	ValidateStatic      func(static *types.StaticData) error
	ValidateFrame       func(static *types.StaticData, frame *types.FrameData) error
	DefaultInterpolator Interpolator
	Translators         map[types.Role]Translator
}

var capabilities = map[types.Role]*Capabilities{
	types.RoleBasic: {
		Role:                types.RoleBasic,
		ValidateStatic:      validateStaticWithoutBones,
		ValidateFrame:       frameValidator(func(*types.StaticData) int { return 0 }),
		DefaultInterpolator: LinearInterpolator{},
	},
	types.RoleTransform: {
		Role:                types.RoleTransform,
		ValidateStatic:      validateStaticWithoutBones,
		ValidateFrame:       frameValidator(func(*types.StaticData) int { return 1 }),
		DefaultInterpolator: LinearInterpolator{},
		Translators: map[types.Role]Translator{
			types.RoleBasic: dropTransforms,
		},
	},
	types.RoleAnimation: {
		Role:                types.RoleAnimation,
		ValidateStatic:      validateStaticAnimation,
		ValidateFrame:       frameValidator((*types.StaticData).NumBones),
		DefaultInterpolator: LinearInterpolator{},
		Translators: map[types.Role]Translator{
			types.RoleBasic:     dropTransforms,
			types.RoleTransform: rootBoneTransform,
		},
	},
}

func For(role types.Role) (*Capabilities, error) {
	c, ok := capabilities[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return c, nil
}

// ValidateStatic checks static data against the capability table of its role.
func ValidateStatic(static *types.StaticData) error {
	if static == nil {
		return fmt.Errorf("%w: nil", ErrInvalidStaticData)
	}
	c, err := For(static.Role)
	if err != nil {
		return err
	}
	return c.ValidateStatic(static)
}

// ValidateFrame checks that the frame has the shape defined by static.
func ValidateFrame(static *types.StaticData, frame *types.FrameData) error {
	c, err := For(static.Role)
	if err != nil {
		return err
	}
	return c.ValidateFrame(static, frame)
}

// CanTranslate reports whether frames of role from can be evaluated as role to.
func CanTranslate(from, to types.Role) bool {
	if from == to {
		return true
	}
	c, err := For(from)
	if err != nil {
		return false
	}
	_, ok := c.Translators[to]
	return ok
}

// Translate converts a frame between roles; translating into the same role
// returns copies of the input.
func Translate(
	static *types.StaticData,
	frame *types.FrameData,
	to types.Role,
) (*types.StaticData, types.FrameData, error) {
	if static.Role == to {
		return static.Clone(), frame.Clone(), nil
	}
	c, err := For(static.Role)
	if err != nil {
		return nil, types.FrameData{}, err
	}
	translator, ok := c.Translators[to]
	if !ok {
		return nil, types.FrameData{}, fmt.Errorf("%w: %s -> %s", ErrNoTranslation, static.Role, to)
	}
	newStatic, newFrame := translator(static, frame)
	return newStatic, newFrame, nil
}

func validateNames(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for idx, name := range names {
		if name == "" {
			return fmt.Errorf("%w: %s #%d has an empty name", ErrInvalidStaticData, kind, idx)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s name %q is used twice", ErrInvalidStaticData, kind, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func validateStaticWithoutBones(static *types.StaticData) error {
	if len(static.BoneNames) != 0 || len(static.BoneParents) != 0 {
		return fmt.Errorf("%w: role %s has no bones", ErrInvalidStaticData, static.Role)
	}
	return validateNames("property", static.PropertyNames)
}

func validateStaticAnimation(static *types.StaticData) error {
	if err := validateNames("property", static.PropertyNames); err != nil {
		return err
	}
	if err := validateNames("bone", static.BoneNames); err != nil {
		return err
	}
	if len(static.BoneNames) != len(static.BoneParents) {
		return fmt.Errorf("%w: %d bone names but %d bone parents", ErrInvalidStaticData, len(static.BoneNames), len(static.BoneParents))
	}
	for idx, parent := range static.BoneParents {
		if parent < -1 || parent >= len(static.BoneParents) || parent == idx {
			return fmt.Errorf("%w: bone %q has invalid parent index %d", ErrInvalidStaticData, static.BoneNames[idx], parent)
		}
	}
	return nil
}

func frameValidator(expectedTransforms func(*types.StaticData) int) func(*types.StaticData, *types.FrameData) error {
	return func(static *types.StaticData, frame *types.FrameData) error {
		if math.IsNaN(frame.WorldTime.Time) || math.IsInf(frame.WorldTime.Time, 0) {
			return fmt.Errorf("%w: world time is %v", ErrShapeMismatch, frame.WorldTime.Time)
		}
		if len(frame.PropertyValues) != static.NumProperties() {
			return fmt.Errorf("%w: %d property values, expected %d", ErrShapeMismatch, len(frame.PropertyValues), static.NumProperties())
		}
		if expected := expectedTransforms(static); len(frame.Transforms) != expected {
			return fmt.Errorf("%w: %d transforms, expected %d", ErrShapeMismatch, len(frame.Transforms), expected)
		}
		return nil
	}
}

func dropTransforms(static *types.StaticData, frame *types.FrameData) (*types.StaticData, types.FrameData) {
	newStatic := static.Clone()
	newStatic.Role = types.RoleBasic
	newStatic.BoneNames = nil
	newStatic.BoneParents = nil
	newFrame := frame.Clone()
	newFrame.Transforms = nil
	return newStatic, newFrame
}

func rootBoneTransform(static *types.StaticData, frame *types.FrameData) (*types.StaticData, types.FrameData) {
	newStatic := static.Clone()
	newStatic.Role = types.RoleTransform
	newStatic.BoneNames = nil
	newStatic.BoneParents = nil
	newFrame := frame.Clone()
	root := types.IdentityTransform()
	for idx, parent := range static.BoneParents {
		if parent == -1 && idx < len(frame.Transforms) {
			root = frame.Transforms[idx]
			break
		}
	}
	newFrame.Transforms = []types.Transform{root}
	return newStatic, newFrame
}
