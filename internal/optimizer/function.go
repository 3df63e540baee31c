package optimizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// Func — интерфейс для абстрактной функции f(x)
type Func interface {
	Eval(x float64) (float64, error)
}

// Differentiable — функция с аналитической производной (например, *poly.Polynomial)
type Differentiable interface {
	Eval(x float64) float64
	DerivativeEval(x float64) float64
}

// Evaluator — функция без ошибок вычисления
type Evaluator interface {
	Eval(x float64) float64
}

type plainFunc struct {
	e Evaluator
}

// Plain оборачивает Evaluator в Func
func Plain(e Evaluator) Func {
	return plainFunc{e: e}
}

func (f plainFunc) Eval(x float64) (float64, error) {
	return f.e.Eval(x), nil
}

// evalFunc — реализация Func на основе govaluate
type evalFunc struct {
	src  string
	expr *govaluate.EvaluableExpression
}

var exprFuncs = map[string]govaluate.ExpressionFunction{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"exp":  unary(math.Exp),
	"log":  unary(math.Log),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow: expected 2 arguments, got %d", len(args))
		}
		return math.Pow(toFloat(args[0]), toFloat(args[1])), nil
	},
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(toFloat(args[0])), nil
	}
}

// NewEvalFunc создаёт вычислимую функцию по строке f(x).
// "^" понимается как возведение в степень.
func NewEvalFunc(expr string) (Func, error) {
	parsed, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return &evalFunc{src: expr, expr: parsed}, nil
}

func parse(expr string) (*govaluate.EvaluableExpression, error) {
	expr = strings.ReplaceAll(expr, "^", "**")

	return govaluate.NewEvaluableExpressionWithFunctions(expr, exprFuncs)
}

// Eval не разделяет параметры между вызовами, поэтому безопасен для горутин
func (f *evalFunc) Eval(x float64) (float64, error) {
	v, err := f.expr.Evaluate(map[string]interface{}{"x": x})
	if err != nil {
		return math.NaN(), err
	}
	return number(v)
}

func (f *evalFunc) String() string {
	return f.src
}

// ErrNotConstant — в коэффициенте встретилась переменная
var ErrNotConstant = errors.New("optimizer: coefficient must be a constant expression")

// ParseCoefficients вычисляет коэффициенты, заданные константными
// выражениями ("-4", "1/3", "sqrt(2)").
func ParseCoefficients(exprs []string) ([]float64, error) {
	out := make([]float64, 0, len(exprs))
	for i, s := range exprs {
		s = strings.TrimSpace(s)
		// десятичная запятая ("1,5") только для чисел: в выражениях это разделитель аргументов
		if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
			out = append(out, v)
			continue
		}

		parsed, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d (%q): %w", i, s, err)
		}
		if vars := parsed.Vars(); len(vars) > 0 {
			return nil, fmt.Errorf("coefficient %d (%q): %w: %s", i, s, ErrNotConstant, strings.Join(vars, ", "))
		}
		raw, err := parsed.Evaluate(map[string]interface{}{})
		if err != nil {
			return nil, fmt.Errorf("coefficient %d (%q): %w", i, s, err)
		}
		v, err := number(raw)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d (%q): %w", i, s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func number(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN(), err
		}
		return parsed, nil
	default:
		return math.NaN(), fmt.Errorf("expression did not return a number: %T", v)
	}
}

func toFloat(v interface{}) float64 {
	f, err := number(v)
	if err != nil {
		return math.NaN()
	}
	return f
}
