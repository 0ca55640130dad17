package livelink

import (
	"context"

	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/xsync"
)

// Close drops all the subjects and the queued data. Pushes fail with
// ErrClosed afterwards and Tick does nothing.
func (c *Client) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &c.locker, func() error {
		if !c.closer.Close(ctx) {
			return ErrClosed
		}
		for _, entry := range c.subjects {
			entry.Buffer.Clear(ctx)
		}
		clear(c.subjects)
		clear(c.virtualSubjects)
		c.pendingStatics, c.pendingFrames = nil, nil
		return nil
	})
}

// CloseChan is closed when the client is closed; producers may use it to
// stop.
func (c *Client) CloseChan() <-chan struct{} {
	return c.closer.CloseChan()
}

func (c *Client) IsClosed() bool {
	return c.closer.IsClosed()
}
