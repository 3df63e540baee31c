package plot

import (
	"errors"
	"fmt"
	"math"

	"polyroot/internal/optimizer"
)

// Диапазон и число точек по умолчанию
const (
	DefaultLow    = -1000.0
	DefaultHigh   = 1000.0
	DefaultPoints = 1000
)

// ErrInvalidRange — некорректный диапазон или число точек
var ErrInvalidRange = errors.New("plot: invalid sampling range")

// Point — одна точка графика (x, f(x))
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BatchEvaluator вычисляет значения сразу в наборе точек (например, *poly.Polynomial)
type BatchEvaluator interface {
	EvalMany(xs []float64) []float64
}

// Linspace — n равноотстоящих точек на [low, high], концы включены
func Linspace(low, high float64, n int) ([]float64, error) {
	if n < 1 || !(low < high) || math.IsInf(low, 0) || math.IsInf(high, 0) {
		return nil, fmt.Errorf("%w: [%g, %g] with %d points", ErrInvalidRange, low, high, n)
	}
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = low
		return xs, nil
	}
	h := (high - low) / float64(n-1)
	for i := range xs {
		xs[i] = low + float64(i)*h
	}
	xs[n-1] = high
	return xs, nil
}

// Sample считает f во всех точках сетки; ошибки и бесконечности становятся NaN
func Sample(f optimizer.Func, low, high float64, n int) ([]Point, error) {
	xs, err := Linspace(low, high, n)
	if err != nil {
		return nil, err
	}
	pts := make([]Point, n)
	for i, x := range xs {
		y, err := f.Eval(x)
		if err != nil || math.IsInf(y, 0) {
			y = math.NaN()
		}
		pts[i] = Point{X: x, Y: y}
	}
	return pts, nil
}

// SampleBatch — то же для функций, умеющих считать пачкой
func SampleBatch(f BatchEvaluator, low, high float64, n int) ([]Point, error) {
	xs, err := Linspace(low, high, n)
	if err != nil {
		return nil, err
	}
	ys := f.EvalMany(xs)
	pts := make([]Point, n)
	for i, x := range xs {
		y := ys[i]
		if math.IsInf(y, 0) {
			y = math.NaN()
		}
		pts[i] = Point{X: x, Y: y}
	}
	return pts, nil
}

// Split разбивает точки на непрерывные участки без NaN
func Split(pts []Point) [][]Point {
	var (
		out [][]Point
		cur []Point
	)
	for _, p := range pts {
		if math.IsNaN(p.Y) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
