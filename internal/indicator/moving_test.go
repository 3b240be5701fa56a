package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	assert.Equal(t, []float64{11, 12, 13, 14}, SMA([]float64{10, 11, 12, 13, 14, 15}, 3))
	assert.Equal(t, []float64{12.5}, SMA([]float64{10, 15}, 2))
	assert.Empty(t, SMA([]float64{1, 2}, 3))
	assert.Empty(t, SMA([]float64{1, 2}, 0))
}

func TestEMA(t *testing.T) {
	ema := EMA([]float64{10, 11, 12, 13, 14, 15}, 3)
	require.Len(t, ema, 4)

	// seed = SMA(10,11,12) = 11, alpha = 0.5
	want := []float64{11, 12, 13, 14}
	for i := range want {
		assert.InDelta(t, want[i], ema[i], 1e-12, "ema[%d]", i)
	}

	assert.Empty(t, EMA([]float64{1, 2}, 3))
}

func TestEMA_ConstantSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42
	}
	for _, v := range EMA(values, 10) {
		assert.False(t, math.IsNaN(v))
		assert.Equal(t, 42.0, v)
	}
}

func TestSummarize(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}

	tr := Summarize(closes)
	assert.Equal(t, 30.0, tr.Last)
	assert.True(t, tr.HasSMA20)
	assert.InDelta(t, 20.5, tr.SMA20, 1e-12)
	assert.False(t, tr.HasSMA50)
	assert.True(t, tr.HasEMA10)
	assert.InDelta(t, 25.5, tr.EMA10, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Trend{}, Summarize(nil))
}
