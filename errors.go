package livelink

import (
	"errors"

	"github.com/xaionaro-go/livelink/subject"
)

var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectExists      = errors.New("subject already exists")
	ErrSubjectInvalid     = errors.New("subject has no valid data")
	ErrSubjectDisabled    = errors.New("subject is disabled")
	ErrNoStaticData       = subject.ErrNoStaticData
	ErrRoleMismatch       = subject.ErrRoleMismatch
	ErrTimeDomainMismatch = subject.ErrTimeDomainMismatch
	ErrQueueOverflow      = errors.New("too many new data in one update")
	ErrInvalidConfig      = errors.New("invalid config")
	ErrClosed             = errors.New("client is closed")
)
