package optimizer

import (
	"fmt"
	"math"
)

// Solve запускает метод с одной начальной точкой (newton или tangent)
func Solve(method string, f Differentiable, x0 float64, opts Options) (Result, error) {
	switch method {
	case MethodNewton, "":
		return Newton(f, x0, opts)
	case MethodTangent:
		return Tangent(Plain(f), x0, opts)
	}
	return Result{Method: method, Root: x0, Residual: math.NaN(), Status: StatusError},
		fmt.Errorf("%w: unknown method %q", ErrInvalidOptions, method)
}
