// Package remap renames properties, bones and curves of a subject, e.g. to
// match a source's naming to a rig's.
package remap

import (
	"strings"

	"github.com/xaionaro-go/livelink/types"
)

type Remapper interface {
	RemapName(name string) string
	RemapCurves(curves map[string]float32) map[string]float32
}

// Identity keeps everything as is.
type Identity struct{}

var _ Remapper = Identity{}

func (Identity) RemapName(name string) string {
	return name
}

func (Identity) RemapCurves(curves map[string]float32) map[string]float32 {
	return curves
}

// Funcs adapts plain functions to Remapper. A nil function is an identity.
type Funcs struct {
	Name   func(string) string
	Curves func(map[string]float32) map[string]float32
}

var _ Remapper = Funcs{}

func (f Funcs) RemapName(name string) string {
	if f.Name == nil {
		return name
	}
	return f.Name(name)
}

func (f Funcs) RemapCurves(curves map[string]float32) map[string]float32 {
	if f.Curves == nil {
		return curves
	}
	return f.Curves(curves)
}

// Prefix prepends a fixed string to every name and curve.
type Prefix string

var _ Remapper = Prefix("")

func (p Prefix) RemapName(name string) string {
	if strings.HasPrefix(name, string(p)) {
		return name
	}
	return string(p) + name
}

func (p Prefix) RemapCurves(curves map[string]float32) map[string]float32 {
	result := make(map[string]float32, len(curves))
	for name, value := range curves {
		result[p.RemapName(name)] = value
	}
	return result
}

// StaticData returns a copy of static with all the property and bone names
// remapped. A nil remapper returns an unmodified copy.
func StaticData(r Remapper, static *types.StaticData) *types.StaticData {
	result := static.Clone()
	if r == nil || result == nil {
		return result
	}
	for idx, name := range result.PropertyNames {
		result.PropertyNames[idx] = r.RemapName(name)
	}
	for idx, name := range result.BoneNames {
		result.BoneNames[idx] = r.RemapName(name)
	}
	return result
}

// Curves builds the curve map of a frame (property name to value) and passes
// it through the remapper. Names are expected to be already remapped.
func Curves(r Remapper, static *types.StaticData, frame *types.FrameData) map[string]float32 {
	curves := make(map[string]float32, static.NumProperties())
	for idx, name := range static.PropertyNames {
		if idx >= len(frame.PropertyValues) {
			break
		}
		curves[name] = frame.PropertyValues[idx]
	}
	if r == nil {
		return curves
	}
	return r.RemapCurves(curves)
}
