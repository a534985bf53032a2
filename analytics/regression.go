package analytics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("not enough positive sales to fit")
	ErrFitFailed        = errors.New("regression fit failed")
)

// Singular values below rcond times the largest are treated as zero. The
// weekday indicators always sum to one, so at least one direction is null.
const rcond = 1e-10

// linearFit is an ordinary least squares fit with intercept.
type linearFit struct {
	Intercept    float64
	Coefficients []float64
}

// fitOLS fits y ≈ intercept + x·coef. Features and target are centred and the
// minimum-norm coefficients are taken from a thin SVD, so collinear or
// constant columns get a well-defined answer instead of an error.
func fitOLS(x [][]float64, y []float64) (fit linearFit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrFitFailed, "solver panic: %v", r)
		}
	}()

	n := len(y)
	if n == 0 || len(x) != n || len(x[0]) == 0 {
		return linearFit{}, errors.Wrapf(ErrFitFailed, "bad shape: %d rows for %d targets", len(x), n)
	}
	p := len(x[0])

	for i := range x {
		if len(x[i]) != p {
			return linearFit{}, errors.Wrapf(ErrFitFailed, "row %d has %d features, want %d", i, len(x[i]), p)
		}
		if !finite(y[i]) {
			return linearFit{}, errors.Wrapf(ErrFitFailed, "target %d is not finite", i)
		}
		for j, v := range x[i] {
			if !finite(v) {
				return linearFit{}, errors.Wrapf(ErrFitFailed, "feature %d of row %d is not finite", j, i)
			}
		}
	}

	col := make([]float64, n)
	xMeans := make([]float64, p)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = x[i][j]
		}
		xMeans[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xc.Set(i, j, x[i][j]-xMeans[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return linearFit{}, errors.Wrap(ErrFitFailed, "SVD did not converge")
	}

	coef := make([]float64, p)
	if rank := svd.Rank(rcond); rank > 0 {
		var b mat.VecDense
		svd.SolveVecTo(&b, yc, rank)
		for j := range coef {
			coef[j] = b.AtVec(j)
		}
	}

	intercept := yMean
	for j := range coef {
		intercept -= xMeans[j] * coef[j]
	}
	if !finite(intercept) {
		return linearFit{}, errors.Wrap(ErrFitFailed, "intercept is not finite")
	}

	return linearFit{Intercept: intercept, Coefficients: coef}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
