package optimizer

import (
	"fmt"
	"math"
)

// derivFunc оценивает f'(x); fx уже посчитан для текущей точки
type derivFunc func(x, fx float64) (float64, error)

// Newton — метод Ньютона–Рафсона с аналитической производной.
// Сходимость проверяется до вычисления производной, так что старт
// ровно в корне даёт 0 итераций.
func Newton(f Differentiable, x0 float64, opts Options) (Result, error) {
	eval := func(x float64) (float64, error) { return f.Eval(x), nil }
	deriv := func(x, _ float64) (float64, error) { return f.DerivativeEval(x), nil }
	return iterate(MethodNewton, eval, deriv, x0, opts)
}

// Tangent — тот же цикл, но производная заменена правой разностью
// (f(x+h) - f(x)) / h, где h = opts.H (по умолчанию opts.Delta).
func Tangent(f Func, x0 float64, opts Options) (Result, error) {
	h := opts.step()
	deriv := func(x, fx float64) (float64, error) {
		fxh, err := f.Eval(x + h)
		if err != nil {
			return math.NaN(), err
		}
		return (fxh - fx) / h, nil
	}
	return iterate(MethodTangent, f.Eval, deriv, x0, opts)
}

func iterate(method string, eval func(float64) (float64, error), deriv derivFunc, x0 float64, opts Options) (Result, error) {
	res := Result{Method: method, Root: x0, Residual: math.NaN()}
	if err := opts.Validate(); err != nil {
		res.Status = StatusError
		return res, err
	}

	x := x0
	for k := 0; k < opts.MaxIter; k++ {
		fx, err := eval(x)
		if err != nil {
			return res.stop(StatusError, x, fx, k), err
		}
		if !finite(x) || !finite(fx) {
			return res.stop(StatusDiverged, x, fx, k),
				fmt.Errorf("%w: f(%g) = %g at iteration %d", ErrDiverged, x, fx, k)
		}

		if math.Abs(fx) <= opts.Delta && (opts.Tolerance == Residual || fx == 0) {
			res.Converged = true
			return res.stop(StatusConverged, x, fx, k), nil
		}

		dfx, err := deriv(x, fx)
		if err != nil {
			return res.stop(StatusError, x, fx, k), err
		}
		if !finite(dfx) {
			return res.stop(StatusDiverged, x, fx, k),
				fmt.Errorf("%w: f'(%g) = %g at iteration %d", ErrDiverged, x, dfx, k)
		}
		if math.Abs(dfx) < opts.floor() {
			return res.stop(StatusStationary, x, fx, k),
				fmt.Errorf("%w: f'(%g) = %g at iteration %d", ErrStationaryPoint, x, dfx, k)
		}

		step := fx / dfx
		next := x - step
		if !finite(next) {
			return res.stop(StatusDiverged, x, fx, k),
				fmt.Errorf("%w: iterate after x = %g is %g", ErrDiverged, x, next)
		}

		it := Iter{K: k + 1, X: x, FX: fx, DFX: dfx, Step: -step}
		res.Trace = append(res.Trace, it)
		if status, err := opts.notify(it); err != nil {
			return res.stop(status, x, fx, k), err
		}
		x = next

		if opts.Tolerance == StepSize && math.Abs(step) <= opts.Delta {
			fx, err := eval(x)
			if err != nil {
				return res.stop(StatusError, x, fx, k+1), err
			}
			res.Converged = true
			return res.stop(StatusConverged, x, fx, k+1), nil
		}
	}

	// бюджет исчерпан: последняя точка на сходимость не проверяется
	fx, err := eval(x)
	if err != nil {
		return res.stop(StatusError, x, fx, opts.MaxIter), err
	}
	if !finite(fx) {
		return res.stop(StatusDiverged, x, fx, opts.MaxIter),
			fmt.Errorf("%w: f(%g) = %g after %d iterations", ErrDiverged, x, fx, opts.MaxIter)
	}
	return res.stop(StatusMaxIter, x, fx, opts.MaxIter), nil
}

func (r Result) stop(status Status, x, fx float64, k int) Result {
	r.Status = status
	r.Root = x
	r.Residual = math.Abs(fx)
	r.Iterations = k
	return r
}
