package types

import (
	"slices"
)

// StaticData describes the fixed shape of a subject's frames. All frames
// buffered for a subject share the shape of its current StaticData.
type StaticData struct {
	Role          Role
	PropertyNames []string

	// BoneNames and BoneParents are used by RoleAnimation only. A parent
	// index of -1 marks a root bone.
	BoneNames   []string
	BoneParents []int
}

func (s *StaticData) Clone() *StaticData {
	if s == nil {
		return nil
	}
	return &StaticData{
		Role:          s.Role,
		PropertyNames: slices.Clone(s.PropertyNames),
		BoneNames:     slices.Clone(s.BoneNames),
		BoneParents:   slices.Clone(s.BoneParents),
	}
}

func (s *StaticData) NumProperties() int {
	if s == nil {
		return 0
	}
	return len(s.PropertyNames)
}

func (s *StaticData) NumBones() int {
	if s == nil {
		return 0
	}
	return len(s.BoneNames)
}
