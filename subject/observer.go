package subject

import (
	"context"

	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/types"
)

// SnapshotInfo is the debug bookkeeping of a published snapshot.
type SnapshotInfo struct {
	// FrameIndex is the index of the (older) buffered frame the snapshot
	// was sampled from.
	FrameIndex  int
	BufferDepth int
	Blend       role.Blend

	// Time is the requested time in the key domain of the buffer's mode.
	Time float64
}

// Observer receives buffer events. The calls are made synchronously under
// the registry lock, so implementations must be fast and must not call back
// into the registry.
type Observer interface {
	OnSnapshot(ctx context.Context, key types.SubjectKey, info SnapshotInfo)
	OnEvicted(ctx context.Context, key types.SubjectKey, count int)
	OnRejected(ctx context.Context, key types.SubjectKey, err error)
}

// ObserverFuncs adapts functions to Observer; nil functions are skipped.
type ObserverFuncs struct {
	Snapshot func(ctx context.Context, key types.SubjectKey, info SnapshotInfo)
	Evicted  func(ctx context.Context, key types.SubjectKey, count int)
	Rejected func(ctx context.Context, key types.SubjectKey, err error)
}

var _ Observer = ObserverFuncs{}

func (o ObserverFuncs) OnSnapshot(ctx context.Context, key types.SubjectKey, info SnapshotInfo) {
	if o.Snapshot != nil {
		o.Snapshot(ctx, key, info)
	}
}

func (o ObserverFuncs) OnEvicted(ctx context.Context, key types.SubjectKey, count int) {
	if o.Evicted != nil {
		o.Evicted(ctx, key, count)
	}
}

func (o ObserverFuncs) OnRejected(ctx context.Context, key types.SubjectKey, err error) {
	if o.Rejected != nil {
		o.Rejected(ctx, key, err)
	}
}
