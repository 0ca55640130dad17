package livelink

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/livelink/subject"
)

// FrameOverflowPolicy selects which frame is dropped when more frames are
// pushed within one update than the queue allows.
type FrameOverflowPolicy int

const (
	UndefinedFrameOverflowPolicy = FrameOverflowPolicy(iota)
	FrameOverflowPolicyDropNewest
	FrameOverflowPolicyDropOldest
	EndOfFrameOverflowPolicy
)

func (p FrameOverflowPolicy) String() string {
	switch p {
	case UndefinedFrameOverflowPolicy:
		return "<undefined>"
	case FrameOverflowPolicyDropNewest:
		return "drop_newest"
	case FrameOverflowPolicyDropOldest:
		return "drop_oldest"
	default:
		return fmt.Sprintf("<unknown:%d>", int(p))
	}
}

func FrameOverflowPolicyFromString(s string) (FrameOverflowPolicy, error) {
	for p := UndefinedFrameOverflowPolicy + 1; p < EndOfFrameOverflowPolicy; p++ {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return UndefinedFrameOverflowPolicy, fmt.Errorf("unknown frame overflow policy %q", s)
}

type Config struct {
	MaxNewStaticDataPerUpdate int
	MaxNewFrameDataPerUpdate  int
	FrameOverflowPolicy       FrameOverflowPolicy

	// ErrorRateLimitPeriod is the minimal period between two logged errors
	// of the same cause.
	ErrorRateLimitPeriod time.Duration

	// DefaultSubjectSettings are used for subjects created by a static data
	// push.
	DefaultSubjectSettings subject.Settings

	Observer subject.Observer
}

func DefaultConfig() Config {
	return Config{
		MaxNewStaticDataPerUpdate: 64,
		MaxNewFrameDataPerUpdate:  64,
		FrameOverflowPolicy:       FrameOverflowPolicyDropNewest,
		ErrorRateLimitPeriod:      5 * time.Second,
		DefaultSubjectSettings:    subject.DefaultSettings(),
	}
}

func (cfg Config) Validate() error {
	var errs []error
	if cfg.MaxNewStaticDataPerUpdate < 1 {
		errs = append(errs, fmt.Errorf("MaxNewStaticDataPerUpdate must be positive, got %d", cfg.MaxNewStaticDataPerUpdate))
	}
	if cfg.MaxNewFrameDataPerUpdate < 1 {
		errs = append(errs, fmt.Errorf("MaxNewFrameDataPerUpdate must be positive, got %d", cfg.MaxNewFrameDataPerUpdate))
	}
	if cfg.FrameOverflowPolicy <= UndefinedFrameOverflowPolicy || cfg.FrameOverflowPolicy >= EndOfFrameOverflowPolicy {
		errs = append(errs, fmt.Errorf("invalid FrameOverflowPolicy %s", cfg.FrameOverflowPolicy))
	}
	if cfg.ErrorRateLimitPeriod < 0 {
		errs = append(errs, fmt.Errorf("ErrorRateLimitPeriod must not be negative, got %v", cfg.ErrorRateLimitPeriod))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (cfg Config) String() string {
	type plain Config
	return spew.Sdump(plain(cfg))
}
