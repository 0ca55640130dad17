// Package closuresignaler signals that an owner was closed to everybody
// holding a reference to it.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/livelink/logger"
)

// ClosureSignaler is closed at most once; the zero value is not usable.
type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

// CloseChan is closed when Close is called.
func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close returns true only for the call that actually closed the signaler.
func (c *ClosureSignaler) Close(ctx context.Context) bool {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close") }()
	closed := false
	c.closeOnce.Do(func() {
		close(c.c)
		closed = true
	})
	return closed
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
