// Package stats implements the Augmented Dickey-Fuller stationarity check.
package stats

import (
	"fmt"
	"math"

	"github.com/newthinker/stockcast/internal/core"
)

// MinObservations is the shortest series the ADF test accepts.
const MinObservations = 10

// Check runs the ADF test (constant, no trend) on values and classifies the
// result at core.SignificanceLevel. The number of lagged differences is picked
// by AIC over lags 0..maxLag, where maxLag = ceil(12*(n/100)^(1/4)).
//
// Non-finite values are dropped before testing. A series with fewer than
// MinObservations remaining values returns core.ErrStatTest. A series with no
// stochastic component (constant or exactly deterministic) returns a
// Degenerate verdict with PValue 1 instead of an error.
func Check(values []float64) (core.StationarityVerdict, error) {
	x := finite(values)
	n := len(x)
	if n < MinObservations {
		return core.StationarityVerdict{}, core.Errorf(core.ErrStatTest,
			"need at least %d observations, got %d", MinObservations, n)
	}

	if isConstant(x) {
		return degenerate(0, n-1), nil
	}

	maxLag := defaultMaxLag(n)
	if maxLag < 0 {
		return core.StationarityVerdict{}, core.Errorf(core.ErrStatTest,
			"series too short for lag selection: %d observations", n)
	}

	diff := make([]float64, n-1)
	for i := range diff {
		diff[i] = x[i+1] - x[i]
	}

	lag, ok := selectLag(x, diff, maxLag)
	if !ok {
		return degenerate(0, n-1-maxLag), nil
	}

	regs, resp := design(x, diff, lag, lag)
	fit, err := ols(regs, resp)
	if err != nil || fit.exact {
		return degenerate(lag, len(resp)), nil
	}

	stat := fit.tValue(1)
	if math.IsNaN(stat) || math.IsInf(stat, 0) {
		return degenerate(lag, len(resp)), nil
	}

	v := core.NewVerdict(stat, mackinnonP(stat), lag, len(resp))
	v.CriticalValues = mackinnonCrit(len(resp))
	return v, nil
}

// defaultMaxLag is the Schwert upper bound, capped so the regression keeps
// more observations than regressors.
func defaultMaxLag(n int) int {
	maxLag := int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	if limit := n/2 - 2; limit < maxLag {
		maxLag = limit
	}
	return maxLag
}

// selectLag fits every lag on the common sample that maxLag leaves and
// returns the one with the lowest AIC. Singular or exact fits are skipped.
func selectLag(x, diff []float64, maxLag int) (int, bool) {
	best, bestAIC := -1, math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		regs, resp := design(x, diff, lag, maxLag)
		fit, err := ols(regs, resp)
		if err != nil || fit.exact {
			continue
		}
		if aic := fit.aic(); aic < bestAIC {
			best, bestAIC = lag, aic
		}
	}
	return best, best >= 0
}

// design builds the ADF regression
//
//	Δy_t = α + β·y_{t-1} + Σ_{i=1..lag} γ_i·Δy_{t-i}
//
// over the sample that starts after skip lagged differences. Columns are
// [1, y_{t-1}, Δy_{t-1}, ..., Δy_{t-lag}].
func design(x, diff []float64, lag, skip int) ([][]float64, []float64) {
	rows := len(diff) - skip
	regs := make([][]float64, rows)
	resp := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := r + skip
		resp[r] = diff[t]
		row := make([]float64, 2+lag)
		row[0] = 1
		row[1] = x[t]
		for i := 1; i <= lag; i++ {
			row[1+i] = diff[t-i]
		}
		regs[r] = row
	}
	return regs, resp
}

func degenerate(lag, nobs int) core.StationarityVerdict {
	v := core.NewVerdict(0, 1, lag, nobs)
	v.Degenerate = true
	return v
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// String formats a verdict summary for logs.
func String(v core.StationarityVerdict) string {
	if v.Degenerate {
		return fmt.Sprintf("degenerate series (lags=%d, nobs=%d)", v.Lags, v.NObs)
	}
	return fmt.Sprintf("ADF=%.4f p=%.4f lags=%d nobs=%d stationary=%t",
		v.Statistic, v.PValue, v.Lags, v.NObs, v.IsStationary)
}
