// mama.go implements the MESA Adaptive Moving Average (MAMA) indicator.

package indicator

import (
	"sync"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
)

// MAMA smooths the last N measurements with the MESA adaptive moving average.
// Until N measurements are collected the raw value is returned.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker  sync.Mutex
	history ring
	count   int
}

var _ MovingAverage[float64] = (*MAMA[float64])(nil)

func NewMAMADefault[T Number](
	n int,
) *MAMA[T] {
	return NewMAMA[T](n, 0.5, 0.05)
}

func NewMAMA[T Number](
	n int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		history:   newRing(n),
	}
}

func (m *MAMA[T]) Update(v T) T {
	m.locker.Lock()
	defer m.locker.Unlock()

	m.history.Push(float64(v))
	m.count++
	if m.count < m.history.Len() {
		return v
	}

	result := indicators.MAMA(m.history.Ordered(), m.FastLimit, m.SlowLimit)
	return T(result[len(result)-1])
}

func (m *MAMA[T]) InitPeriod() int64 {
	return int64(m.history.Len())
}

func (m *MAMA[T]) Valid() bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.count >= m.history.Len()
}

func (m *MAMA[T]) Reset() {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.history = newRing(m.history.Len())
	m.count = 0
}

// ring is a fixed size buffer of the latest values.
type ring struct {
	values  []float64
	ordered []float64
	next    int
}

func newRing(n int) ring {
	return ring{
		values:  make([]float64, n),
		ordered: make([]float64, n),
	}
}

func (r *ring) Len() int {
	return len(r.values)
}

func (r *ring) Push(v float64) {
	r.values[r.next] = v
	r.next = (r.next + 1) % len(r.values)
}

// Ordered returns the values oldest first. The result is reused by the next
// call.
func (r *ring) Ordered() []float64 {
	// raw      3 4 5 6 7 0 1 2
	//                  ^ next
	// ordered  0 1 2 3 4 5 6 7
	n := copy(r.ordered, r.values[r.next:])
	copy(r.ordered[n:], r.values[:r.next])
	return r.ordered
}
