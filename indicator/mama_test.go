package indicator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMAMA(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		m := NewMAMADefault[int64](50)
		for range 100 {
			require.Equal(t, int64(100), m.Update(100))
		}
		require.True(t, m.Valid())
	})

	t.Run("0-100", func(t *testing.T) {
		m := NewMAMA[int64](50, 0.3, 0.05)
		for i := int64(0); i <= 100; i++ {
			v := m.Update(i)
			require.True(t, i/2 <= v && v <= i, "%d: %d", i, v)
		}
	})

	t.Run("0,100,0,100...", func(t *testing.T) {
		m := NewMAMA[int64](50, 0.3, 0.05)
		for i := range 100 {
			v := m.Update(0)
			if i > 50 {
				require.True(t, 40 <= v && v <= 60, fmt.Sprintf("%d: %d", i, v))
			}
			v = m.Update(100)
			if i > 50 {
				require.True(t, 40 <= v && v <= 60, fmt.Sprintf("%d: %d", i, v))
			}
		}
	})

	t.Run("reset", func(t *testing.T) {
		m := NewMAMADefault[int64](50)
		for range 50 {
			m.Update(1)
		}
		require.True(t, m.Valid())
		m.Reset()
		require.False(t, m.Valid())
		require.Equal(t, int64(7), m.Update(7))
	})
}

func TestRingOrdered(t *testing.T) {
	r := newRing(4)
	for i := range 6 {
		r.Push(float64(i))
	}
	require.Equal(t, []float64{2, 3, 4, 5}, r.Ordered())
}

func TestRateEstimator(t *testing.T) {
	e := NewRateEstimator(DefaultRateWindow)
	_, ok := e.Rate()
	require.False(t, ok)

	for i := range 100 {
		e.Observe(float64(i) / 120)
		// out of order and duplicate samples do not affect the estimate
		e.Observe(float64(i) / 120)
	}
	rate, ok := e.Rate()
	require.True(t, ok)
	require.InDelta(t, 120, rate, 1)

	e.Reset()
	_, ok = e.Rate()
	require.False(t, ok)
}
