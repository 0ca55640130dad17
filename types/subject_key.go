package types

import (
	"fmt"

	"github.com/google/uuid"
)

// SourceID identifies the source (a mocap rig, a tracker, ...) that feeds
// subjects.
type SourceID = uuid.UUID

func NewSourceID() SourceID {
	return uuid.New()
}

// SubjectName is the name consumers evaluate a subject by. Several sources
// may provide a subject with the same name; only one of them is enabled.
type SubjectName string

type SubjectKey struct {
	Source SourceID
	Name   SubjectName
}

func (k SubjectKey) String() string {
	return fmt.Sprintf("%s/%s", k.Source, k.Name)
}
