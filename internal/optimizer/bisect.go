package optimizer

import (
	"fmt"
	"math"
)

// Bisect — метод деления отрезка пополам для корня на [a, b].
// Требует a < b и f(a)·f(b) <= 0. Iterations — число вычисленных середин.
func Bisect(f Func, a, b float64, opts Options) (Result, error) {
	res := Result{Method: MethodBisect, Root: a, Residual: math.NaN()}
	if err := opts.Validate(); err != nil {
		res.Status = StatusError
		return res, err
	}
	if !(a < b) || !finite(a) || !finite(b) {
		res.Status = StatusError
		return res, fmt.Errorf("%w: bisection requires finite a < b, got [%g, %g]", ErrInvalidOptions, a, b)
	}

	fa, err := f.Eval(a)
	if err != nil {
		return res.stop(StatusError, a, fa, 0), err
	}
	fb, err := f.Eval(b)
	if err != nil {
		return res.stop(StatusError, b, fb, 0), err
	}
	if !finite(fa) || !finite(fb) {
		return res.stop(StatusDiverged, a, fa, 0),
			fmt.Errorf("%w: f(%g) = %g, f(%g) = %g", ErrDiverged, a, fa, b, fb)
	}

	switch {
	case math.Abs(fa) <= opts.Delta && (opts.Tolerance == Residual || fa == 0):
		res.Converged = true
		return res.stop(StatusConverged, a, fa, 0), nil
	case math.Abs(fb) <= opts.Delta && (opts.Tolerance == Residual || fb == 0):
		res.Converged = true
		return res.stop(StatusConverged, b, fb, 0), nil
	case (fa < 0) == (fb < 0):
		return res.stop(StatusError, a, fa, 0),
			fmt.Errorf("%w: f(%g) = %g and f(%g) = %g have the same sign", ErrNoBracket, a, fa, b, fb)
	}

	mid := a + (b-a)/2
	fmid := math.NaN()
	for k := 1; k <= opts.MaxIter; k++ {
		mid = a + (b-a)/2
		fmid, err = f.Eval(mid)
		if err != nil {
			return res.stop(StatusError, mid, fmid, k-1), err
		}
		if !finite(fmid) {
			return res.stop(StatusDiverged, mid, fmid, k-1),
				fmt.Errorf("%w: f(%g) = %g at iteration %d", ErrDiverged, mid, fmid, k)
		}

		it := Iter{K: k, A: a, B: b, X: mid, FX: fmid, Step: (b - a) / 2}
		res.Trace = append(res.Trace, it)
		if status, err := opts.notify(it); err != nil {
			return res.stop(status, mid, fmid, k), err
		}

		if math.Abs(fmid) <= opts.Delta && (opts.Tolerance == Residual || fmid == 0) {
			res.Converged = true
			return res.stop(StatusConverged, mid, fmid, k), nil
		}

		if (fa < 0) == (fmid < 0) {
			a, fa = mid, fmid
		} else {
			b = mid
		}

		if opts.Tolerance == StepSize && (b-a)/2 <= opts.Delta {
			mid = a + (b-a)/2
			fmid, err = f.Eval(mid)
			if err != nil {
				return res.stop(StatusError, mid, fmid, k), err
			}
			res.Converged = true
			return res.stop(StatusConverged, mid, fmid, k), nil
		}
	}

	if opts.MaxIter == 0 {
		fmid, err = f.Eval(mid)
		if err != nil {
			return res.stop(StatusError, mid, fmid, 0), err
		}
	}
	return res.stop(StatusMaxIter, mid, fmid, opts.MaxIter), nil
}
