package types

import (
	"fmt"
	"strings"
)

// SourceMode selects which timestamp is authoritative for ordering,
// retention and sampling.
type SourceMode int

const (
	SourceModeLatest = SourceMode(iota)
	SourceModeEngineTime
	SourceModeTimecode
	EndOfSourceMode
)

func (m SourceMode) IsValid() bool {
	return m >= SourceModeLatest && m < EndOfSourceMode
}

func (m SourceMode) String() string {
	switch m {
	case SourceModeLatest:
		return "latest"
	case SourceModeEngineTime:
		return "engine_time"
	case SourceModeTimecode:
		return "timecode"
	default:
		return fmt.Sprintf("<unknown:%d>", int(m))
	}
}

func SourceModeFromString(s string) (SourceMode, error) {
	for m := SourceModeLatest; m < EndOfSourceMode; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return SourceModeLatest, fmt.Errorf("unknown source mode %q", s)
}

func (m SourceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SourceMode) UnmarshalText(b []byte) error {
	v, err := SourceModeFromString(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
