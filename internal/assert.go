// Package internal holds invariant checks shared by the buffer packages.
//
// They guard against buffer corruption only: input validation never goes
// through here, it is reported as errors.
package internal

import (
	"context"

	"github.com/xaionaro-go/livelink/logger"
)

func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	logger.Panic(ctx, "assertion failed", extraArgs)
}

// AssertOrderedAround checks that keys[idx] is not less than its predecessor
// and not greater than its successor.
func AssertOrderedAround(
	ctx context.Context,
	idx int,
	length int,
	key func(int) float64,
) {
	if idx > 0 {
		Assert(ctx, key(idx-1) <= key(idx), "out of order with the predecessor", idx, key(idx-1), key(idx))
	}
	if idx+1 < length {
		Assert(ctx, key(idx) <= key(idx+1), "out of order with the successor", idx, key(idx), key(idx+1))
	}
}
