package poly

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ImagTolerance — допуск на мнимую часть корня (относительно max(1, |z|)),
// в пределах которого корень считается вещественным.
const ImagTolerance = 1e-8

var errEigen = errors.New("poly: companion matrix eigen decomposition failed")

// Roots возвращает все корни многочлена (вещественные и комплексные),
// найденные как собственные значения матрицы-компаньона.
// Порядок: по вещественной части, затем по мнимой.
func (p *Polynomial) Roots() ([]complex128, error) {
	c := trimLeading(p.coeffs)
	n := len(c) - 1
	switch n {
	case 0:
		return nil, nil
	case 1:
		return []complex128{complex(-c[1]/c[0], 0)}, nil
	}

	// первая строка: -a_i/a_0, под диагональю единицы
	data := make([]float64, n*n)
	for j := 0; j < n; j++ {
		data[j] = -c[j+1] / c[0]
	}
	for i := 1; i < n; i++ {
		data[i*n+i-1] = 1
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenNone); !ok {
		return nil, errEigen
	}
	roots := eig.Values(nil)

	sort.Slice(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
	return roots, nil
}

// RealRoots отбирает корни с пренебрежимо малой мнимой частью
// и возвращает их вещественные части по возрастанию.
func (p *Polynomial) RealRoots() ([]float64, error) {
	roots, err := p.Roots()
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(roots))
	for _, z := range roots {
		if math.Abs(imag(z)) <= ImagTolerance*math.Max(1, cmplx.Abs(z)) {
			out = append(out, real(z))
		}
	}
	sort.Float64s(out)
	return out, nil
}

// Distinct схлопывает отсортированные корни, отстоящие друг от друга
// не более чем на tol (повторы от кратных корней).
func Distinct(roots []float64, tol float64) []float64 {
	if len(roots) == 0 {
		return nil
	}
	sorted := append([]float64(nil), roots...)
	sort.Float64s(sorted)

	out := []float64{sorted[0]}
	for _, r := range sorted[1:] {
		if math.Abs(r-out[len(out)-1]) > tol {
			out = append(out, r)
		}
	}
	return out
}

func trimLeading(c []float64) []float64 {
	i := 0
	for i < len(c)-1 && c[i] == 0 {
		i++
	}
	return c[i:]
}
