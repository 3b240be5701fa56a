package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// errSingular is returned when the design matrix has no unique least-squares solution.
var errSingular = errors.New("singular design matrix")

// relTol bounds the residual sum of squares, relative to the dependent
// variable's sum of squares, below which a fit is treated as exact.
const relTol = 1e-14

// olsFit holds an ordinary least squares estimate.
type olsFit struct {
	coef   []float64
	stdErr []float64
	ssr    float64
	nobs   int
	exact  bool
}

// aic returns the Gaussian Akaike information criterion of the fit.
func (f *olsFit) aic() float64 {
	n := float64(f.nobs)
	llf := -n/2*math.Log(2*math.Pi) - n/2*math.Log(f.ssr/n) - n/2
	return -2*llf + 2*float64(len(f.coef))
}

// tValue returns the t-ratio of coefficient i.
func (f *olsFit) tValue(i int) float64 {
	return f.coef[i] / f.stdErr[i]
}

// ols regresses y on the columns of x. Rows must outnumber columns.
func ols(x [][]float64, y []float64) (*olsFit, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, errors.New("regressors and response length mismatch")
	}
	k := len(x[0])
	if n <= k {
		return nil, errors.New("not enough observations for regression")
	}

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		design.SetRow(i, row)
	}
	resp := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, resp); err != nil {
		return nil, errSingular
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	var resid mat.VecDense
	resid.SubVec(resp, &fitted)
	ssr := mat.Dot(&resid, &resid)

	sumSq := mat.Dot(resp, resp)
	fit := &olsFit{
		coef: make([]float64, k),
		ssr:  ssr,
		nobs: n,
	}
	for i := 0; i < k; i++ {
		fit.coef[i] = beta.AtVec(i)
	}
	if sumSq == 0 || ssr <= relTol*sumSq {
		fit.exact = true
		return fit, nil
	}

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, errSingular
	}

	s2 := ssr / float64(n-k)
	fit.stdErr = make([]float64, k)
	for i := 0; i < k; i++ {
		fit.stdErr[i] = math.Sqrt(s2 * inv.At(i, i))
	}

	return fit, nil
}
