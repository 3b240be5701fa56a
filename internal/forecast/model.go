// Package forecast fits the autoregressive model and projects closes forward
// over business days.
package forecast

import (
	"errors"
	"math"

	"github.com/newthinker/stockcast/internal/core"
	"gonum.org/v1/gonum/mat"
)

// MinExtraObservations is how many observations beyond the AR order a fit needs.
const MinExtraObservations = 10

// Model is an AR(p) model with a constant, estimated by Yule-Walker.
type Model struct {
	Order     int
	ARCoeffs  []float64 // phi_1..phi_p
	Mean      float64
	Intercept float64 // Mean * (1 - sum(phi))
	Variance  float64 // innovation variance
	NObs      int

	fitted  bool
	history []float64
}

// New creates an unfitted AR model of order p.
func New(p int) *Model {
	return &Model{Order: p}
}

// Fit estimates the model from values. The series must be finite, non-constant
// and have at least Order+MinExtraObservations points. Failures wrap
// core.ErrModelFit.
func (m *Model) Fit(values []float64) error {
	if m.Order < 1 {
		return core.Errorf(core.ErrModelFit, "AR order must be at least 1, got %d", m.Order)
	}
	n := len(values)
	if n < m.Order+MinExtraObservations {
		return core.Errorf(core.ErrModelFit,
			"insufficient observations for AR(%d): need %d, got %d", m.Order, m.Order+MinExtraObservations, n)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.Errorf(core.ErrModelFit, "non-finite value at index %d", i)
		}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	acov := autocovariance(values, mean, m.Order)
	if acov[0] <= 0 {
		return core.Errorf(core.ErrModelFit, "series has zero variance")
	}

	phi, err := yuleWalker(acov, m.Order)
	if err != nil {
		return core.WrapError(core.ErrModelFit, err)
	}

	sigma2 := acov[0]
	sum := 0.0
	for i, c := range phi {
		sigma2 -= c * acov[i+1]
		sum += c
	}

	m.ARCoeffs = phi
	m.Mean = mean
	m.Intercept = mean * (1 - sum)
	m.Variance = sigma2
	m.NObs = n
	m.history = append([]float64(nil), values[n-m.Order:]...)
	m.fitted = true
	return nil
}

// Predict returns the next steps values, each one-step prediction feeding
// the following step.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p := m.Order
	ext := make([]float64, p+steps)
	copy(ext, m.history)

	for h := 0; h < steps; h++ {
		t := p + h
		pred := m.Intercept
		for i := 0; i < p; i++ {
			pred += m.ARCoeffs[i] * ext[t-i-1]
		}
		ext[t] = pred
	}

	return ext[p:], nil
}

// autocovariance returns the biased sample autocovariances for lags 0..maxLag.
func autocovariance(values []float64, mean float64, maxLag int) []float64 {
	n := len(values)
	out := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		s := 0.0
		for t := k; t < n; t++ {
			s += (values[t] - mean) * (values[t-k] - mean)
		}
		out[k] = s / float64(n)
	}
	return out
}

// yuleWalker solves the Toeplitz system Γ φ = γ for the AR coefficients.
func yuleWalker(acov []float64, order int) ([]float64, error) {
	gamma := mat.NewSymDense(order, nil)
	rhs := mat.NewVecDense(order, nil)
	for i := 0; i < order; i++ {
		rhs.SetVec(i, acov[i+1])
		for j := i; j < order; j++ {
			gamma.SetSym(i, j, acov[j-i])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gamma); !ok {
		return nil, errors.New("autocovariance matrix is not positive definite")
	}

	var phi mat.VecDense
	if err := chol.SolveVecTo(&phi, rhs); err != nil {
		// An ill-conditioned system still yields a usable solution; the
		// finiteness check below rejects the ones that are not.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}

	out := make([]float64, order)
	for i := range out {
		out[i] = phi.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, errors.New("non-finite AR coefficient")
		}
	}
	return out, nil
}
