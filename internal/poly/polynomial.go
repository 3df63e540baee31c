package poly

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPolynomial — пустой или некорректный набор коэффициентов
	ErrInvalidPolynomial = errors.New("poly: invalid polynomial")

	// ErrDegenerateInput — все коэффициенты равны нулю (любая точка — корень)
	ErrDegenerateInput = fmt.Errorf("%w: all coefficients are zero", ErrInvalidPolynomial)
)

// Polynomial — многочлен, заданный коэффициентами от старшей степени к младшей.
// После создания не изменяется, поэтому может читаться из нескольких горутин.
type Polynomial struct {
	coeffs []float64
}

// New создаёт многочлен по коэффициентам (coeffs[0] — при x^degree).
func New(coeffs ...float64) (*Polynomial, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrInvalidPolynomial)
	}

	zero := true
	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrInvalidPolynomial, i)
		}
		if c != 0 {
			zero = false
		}
	}
	if zero {
		return nil, ErrDegenerateInput
	}

	return &Polynomial{coeffs: append([]float64(nil), coeffs...)}, nil
}

// MustNew — как New, но паникует при ошибке. Только для констант и тестов.
func MustNew(coeffs ...float64) *Polynomial {
	p, err := New(coeffs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Degree — степень многочлена (len(coeffs) - 1, ведущие нули не отбрасываются)
func (p *Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Coefficients возвращает копию коэффициентов
func (p *Polynomial) Coefficients() []float64 {
	return append([]float64(nil), p.coeffs...)
}

// Eval вычисляет значение по схеме Горнера
func (p *Polynomial) Eval(x float64) float64 {
	return horner(p.coeffs, x)
}

// EvalMany вычисляет значения в каждой точке xs независимо
func (p *Polynomial) EvalMany(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = horner(p.coeffs, x)
	}
	return ys
}

// DerivativeEval вычисляет аналитическую производную в точке x
func (p *Polynomial) DerivativeEval(x float64) float64 {
	n := p.Degree()
	var v float64
	for i := 0; i < n; i++ {
		v = v*x + p.coeffs[i]*float64(n-i)
	}
	return v
}

// Derivative возвращает производную как новый многочлен.
// Для константы результат — нулевой многочлен [0].
func (p *Polynomial) Derivative() *Polynomial {
	n := p.Degree()
	if n == 0 {
		return &Polynomial{coeffs: []float64{0}}
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = p.coeffs[i] * float64(n-i)
	}
	return &Polynomial{coeffs: d}
}

func horner(coeffs []float64, x float64) float64 {
	var v float64
	for _, c := range coeffs {
		v = v*x + c
	}
	return v
}

// String печатает многочлен в виде "3x^2 - x + 4"
func (p *Polynomial) String() string {
	var b strings.Builder
	n := p.Degree()
	for i, c := range p.coeffs {
		if c == 0 && n > 0 {
			continue
		}
		pow := n - i
		abs := math.Abs(c)

		switch {
		case b.Len() == 0 && c < 0:
			b.WriteString("-")
		case b.Len() > 0 && c < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}

		if abs != 1 || pow == 0 {
			b.WriteString(strconv.FormatFloat(abs, 'g', -1, 64))
		}
		switch {
		case pow == 1:
			b.WriteString("x")
		case pow > 1:
			b.WriteString("x^" + strconv.Itoa(pow))
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
