package server

import (
	"math"

	"polyroot/internal/optimizer"
)

// num — nil для NaN и бесконечностей (в JSON их нет)
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func resultJSON(res optimizer.Result) map[string]any {
	return map[string]any{
		"method":     res.Method,
		"status":     res.Status,
		"converged":  res.Converged,
		"root":       num(res.Root),
		"iterations": res.Iterations,
		"residual":   num(res.Residual),
	}
}
