package subject

import (
	"go.uber.org/atomic"
)

type Statistics struct {
	FramesAdded    uint64 `json:",omitempty"`
	FramesRejected uint64 `json:",omitempty"`

	// FramesDiscarded counts frames older than the whole full buffer.
	FramesDiscarded uint64 `json:",omitempty"`
	FramesEvicted   uint64 `json:",omitempty"`
	Duplicates      uint64 `json:",omitempty"`
	Snapshots       uint64 `json:",omitempty"`
	Clears          uint64 `json:",omitempty"`

	// EstimatedFrameRate is the measured rate of the source in frames per
	// second, zero until enough frames arrived.
	EstimatedFrameRate float64 `json:",omitempty"`
}

type counters struct {
	FramesAdded     atomic.Uint64
	FramesRejected  atomic.Uint64
	FramesDiscarded atomic.Uint64
	FramesEvicted   atomic.Uint64
	Duplicates      atomic.Uint64
	Snapshots       atomic.Uint64
	Clears          atomic.Uint64
}

func (c *counters) Convert() Statistics {
	return Statistics{
		FramesAdded:     c.FramesAdded.Load(),
		FramesRejected:  c.FramesRejected.Load(),
		FramesDiscarded: c.FramesDiscarded.Load(),
		FramesEvicted:   c.FramesEvicted.Load(),
		Duplicates:      c.Duplicates.Load(),
		Snapshots:       c.Snapshots.Load(),
		Clears:          c.Clears.Load(),
	}
}
