package indicator

// SMA returns the simple moving average of values over window.
// The result has len(values)-window+1 points, or none if values is shorter
// than window.
func SMA(values []float64, window int) []float64 {
	if window < 1 || len(values) < window {
		return nil
	}

	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the
// first window values. Same length rules as SMA.
func EMA(values []float64, window int) []float64 {
	if window < 1 || len(values) < window {
		return nil
	}

	alpha := 2.0 / float64(window+1)
	out := make([]float64, 0, len(values)-window+1)
	ema := SMA(values[:window], window)[0]
	out = append(out, ema)
	for _, v := range values[window:] {
		ema += alpha * (v - ema)
		out = append(out, ema)
	}
	return out
}

// Trend summarizes where the last close sits against its moving averages.
type Trend struct {
	Last  float64
	SMA20 float64
	SMA50 float64
	EMA10 float64
	// Has* report whether the series was long enough for each average.
	HasSMA20 bool
	HasSMA50 bool
	HasEMA10 bool
}

// Summarize computes Trend for closes ordered oldest first.
func Summarize(closes []float64) Trend {
	var t Trend
	if len(closes) == 0 {
		return t
	}
	t.Last = closes[len(closes)-1]
	t.SMA20, t.HasSMA20 = last(SMA(closes, 20))
	t.SMA50, t.HasSMA50 = last(SMA(closes, 50))
	t.EMA10, t.HasEMA10 = last(EMA(closes, 10))
	return t
}

func last(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	return xs[len(xs)-1], true
}
