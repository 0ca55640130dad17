// rational.go defines the Rational type used for frame rates.

package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Rational is a frame rate expressed as frames per Den seconds (Num/Den fps).
type Rational struct {
	Num int
	Den int
}

func (r Rational) Reverse() Rational {
	return Rational{
		Num: r.Den,
		Den: r.Num,
	}
}

func (r Rational) Mul(other Rational) Rational {
	return Rational{
		Num: r.Num * other.Num,
		Den: r.Den * other.Den,
	}
}

func (r Rational) Div(other Rational) Rational {
	return Rational{
		Num: r.Num * other.Den,
		Den: r.Den * other.Num,
	}
}

// IsValid reports whether r can be used as a frame rate.
func (r Rational) IsValid() bool {
	return r.Num > 0 && r.Den > 0
}

// Equal compares the values, so 60/2 equals 30/1.
func (r Rational) Equal(other Rational) bool {
	return int64(r.Num)*int64(other.Den) == int64(other.Num)*int64(r.Den)
}

// AsSeconds returns the duration of the given amount of frames.
func (r Rational) AsSeconds(frames float64) float64 {
	return frames * float64(r.Den) / float64(r.Num)
}

// AsFrames returns the amount of frames that fit into the given seconds.
func (r Rational) AsFrames(seconds float64) float64 {
	return seconds * float64(r.Num) / float64(r.Den)
}

// AsFrameTime converts seconds to a FrameTime in this rate.
func (r Rational) AsFrameTime(seconds float64) FrameTime {
	return FrameTimeFromDecimal(r.AsFrames(seconds))
}

func newNTSCRationalFromFloat64(f float64) *big.Rat {
	den := 1001 // common denominator for NTSC frame rates
	num := math.Ceil(f) * 1000
	r := big.NewRat(int64(num), int64(den))
	confirmValue, _ := r.Float64()
	if math.Abs(f-confirmValue) < 1e-2 {
		return r
	}
	return nil
}

func RationalFromApproxFloat64(fps float64) (r Rational) {
	if float64(int(fps)) == fps {
		r.Num = int(fps)
		r.Den = 1
		return
	}

	rat := newNTSCRationalFromFloat64(fps)
	if rat != nil {
		r.Num = int(rat.Num().Int64())
		r.Den = int(rat.Denom().Int64())
		return
	}

	return RationalFromFloat64(fps)
}

// RationalFromFloat64 finds the simplest fraction within 1e-6 of fps
// (continued fraction convergents, denominators up to 1e6).
func RationalFromFloat64(fps float64) Rational {
	if float64(int(fps)) == fps {
		return Rational{Num: int(fps), Den: 1}
	}

	const (
		tolerance = 1e-6
		maxDen    = 1000000
	)
	var (
		h0, h1 int64 = 0, 1
		k0, k1 int64 = 1, 0
		x            = fps
	)
	for {
		a := int64(math.Floor(x))
		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, a*k1+k0
		if k1 > maxDen {
			h1, k1 = h0, k0
			break
		}
		if math.Abs(float64(h1)/float64(k1)-fps) < tolerance {
			break
		}
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	return Rational{Num: int(h1), Den: int(k1)}
}

func RationalFromString(s string) (*Rational, error) {
	var r Rational
	switch {
	case len(s) == 0:
		return nil, fmt.Errorf("unable to parse Rational from empty string")
	case strings.Contains(s, "/"):
		if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
	case s[0] == '~':
		fps, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
		r = RationalFromApproxFloat64(fps)
	default:
		fps, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
		r = RationalFromFloat64(fps)
	}
	if r.Den == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &r, nil
}

func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rational) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unable to unmarshal Rational from JSON '%s': %w", b, err)
	}
	v, err := RationalFromString(s)
	if err != nil {
		return fmt.Errorf("unable to unmarshal Rational from string %q: %w", s, err)
	}
	*r = *v
	return nil
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r *Rational) UnmarshalYAML(b []byte) error {
	return r.UnmarshalJSON(b)
}

func (r Rational) MarshalYAML() ([]byte, error) {
	return r.MarshalJSON()
}
