// frame_time.go defines production (timecode) and engine time representations.

package types

import (
	"fmt"
	"math"

	"github.com/xaionaro-go/typing"
)

// frameTimeEpsilon absorbs float noise when converting between rates, so that
// 9.9999999 frames is treated as frame 10.
const frameTimeEpsilon = 1e-6

// FrameTime is a position on a frame-quantized timeline: a whole frame number
// plus a fractional subframe in [0, 1).
type FrameTime struct {
	Frame    int64
	SubFrame float32
}

func FrameTimeFromDecimal(d float64) FrameTime {
	f := math.Floor(d)
	sub := d - f
	if sub > 1-frameTimeEpsilon {
		f++
		sub = 0
	}
	if sub < frameTimeEpsilon {
		sub = 0
	}
	return FrameTime{
		Frame:    int64(f),
		SubFrame: float32(sub),
	}
}

func (t FrameTime) AsDecimal() float64 {
	return float64(t.Frame) + float64(t.SubFrame)
}

func (t FrameTime) String() string {
	if t.SubFrame == 0 {
		return fmt.Sprintf("%d", t.Frame)
	}
	return fmt.Sprintf("%d+%.3f", t.Frame, t.SubFrame)
}

// QualifiedFrameTime is a FrameTime together with the rate it is expressed in.
type QualifiedFrameTime struct {
	Time FrameTime
	Rate Rational
}

func (q QualifiedFrameTime) AsSeconds() float64 {
	return q.Rate.AsSeconds(q.Time.AsDecimal())
}

// ConvertTo expresses the same instant in another rate.
func (q QualifiedFrameTime) ConvertTo(rate Rational) FrameTime {
	if q.Rate.Equal(rate) {
		return q.Time
	}
	return rate.AsFrameTime(q.AsSeconds())
}

func (q QualifiedFrameTime) String() string {
	return fmt.Sprintf("%s@%s", q.Time, q.Rate)
}

// WorldTime is a time in the engine clock domain, in seconds. Offset is a
// clock correction applied at read time and never folded into Time.
type WorldTime struct {
	Time   float64
	Offset float64
}

func NewWorldTime(t float64) WorldTime {
	return WorldTime{Time: t}
}

func (t WorldTime) OffsettedTime() float64 {
	return t.Time + t.Offset
}

func (t WorldTime) String() string {
	if t.Offset == 0 {
		return fmt.Sprintf("%.6fs", t.Time)
	}
	return fmt.Sprintf("%.6fs%+.6fs", t.Time, t.Offset)
}

// SyncTime is the current time in both clock domains, as observed by a tick.
type SyncTime struct {
	WorldTime float64
	SceneTime typing.Optional[QualifiedFrameTime]
}

func NewSyncTime(worldTime float64) SyncTime {
	return SyncTime{WorldTime: worldTime}
}

func (t SyncTime) WithSceneTime(sceneTime QualifiedFrameTime) SyncTime {
	t.SceneTime = typing.Opt(sceneTime)
	return t
}
