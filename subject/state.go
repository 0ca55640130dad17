// state.go defines the lifecycle states of a subject buffer.

package subject

import (
	"fmt"
)

type State int

const (
	UndefinedState = State(iota)

	// StateUninitialized means no static data is set; frames are rejected.
	StateUninitialized

	// StateHasStaticData means static data is set and no frame has arrived
	// since.
	StateHasStaticData

	// StateAccumulating means frames are buffered, but the last tick
	// published no snapshot.
	StateAccumulating

	StateSnapshotValid

	// StateCleared means the buffer was reset (e.g. the subject got
	// disabled); static data and settings are kept.
	StateCleared
	EndOfState
)

func (s State) String() string {
	switch s {
	case UndefinedState:
		return "<undefined>"
	case StateUninitialized:
		return "uninitialized"
	case StateHasStaticData:
		return "has_static_data"
	case StateAccumulating:
		return "accumulating"
	case StateSnapshotValid:
		return "snapshot_valid"
	case StateCleared:
		return "cleared"
	default:
		return fmt.Sprintf("<unknown:%d>", int(s))
	}
}

// HasStaticData reports whether frames may be added in this state.
func (s State) HasStaticData() bool {
	switch s {
	case StateHasStaticData, StateAccumulating, StateSnapshotValid, StateCleared:
		return true
	}
	return false
}
