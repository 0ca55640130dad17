package livelink

import (
	"go.uber.org/atomic"

	"github.com/xaionaro-go/livelink/subject"
)

type Statistics struct {
	Ticks uint64 `json:",omitempty"`

	StaticDataPushed   uint64 `json:",omitempty"`
	StaticDataDropped  uint64 `json:",omitempty"`
	StaticDataRejected uint64 `json:",omitempty"`
	FrameDataPushed    uint64 `json:",omitempty"`
	FrameDataDropped   uint64 `json:",omitempty"`
	FrameDataRejected  uint64 `json:",omitempty"`
	RoleChanges        uint64 `json:",omitempty"`

	Subjects map[string]subject.Statistics `json:",omitempty"`
}

type commonsStatistics struct {
	Ticks atomic.Uint64

	StaticDataPushed   atomic.Uint64
	StaticDataDropped  atomic.Uint64
	StaticDataRejected atomic.Uint64
	FrameDataPushed    atomic.Uint64
	FrameDataDropped   atomic.Uint64
	FrameDataRejected  atomic.Uint64
	RoleChanges        atomic.Uint64
}

func (stats *commonsStatistics) Convert() Statistics {
	return Statistics{
		Ticks:              stats.Ticks.Load(),
		StaticDataPushed:   stats.StaticDataPushed.Load(),
		StaticDataDropped:  stats.StaticDataDropped.Load(),
		StaticDataRejected: stats.StaticDataRejected.Load(),
		FrameDataPushed:    stats.FrameDataPushed.Load(),
		FrameDataDropped:   stats.FrameDataDropped.Load(),
		FrameDataRejected:  stats.FrameDataRejected.Load(),
		RoleChanges:        stats.RoleChanges.Load(),
	}
}
