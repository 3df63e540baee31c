package optimizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrStopped — специальная ошибка для принудительной остановки
	ErrStopped = errors.New("optimizer: stopped by callback")

	// ErrStationaryPoint — производная в текущей точке неотличима от нуля
	ErrStationaryPoint = errors.New("optimizer: stationary point")

	// ErrDiverged — итерация или невязка стали бесконечными / NaN
	ErrDiverged = errors.New("optimizer: diverged")

	// ErrNoBracket — на концах отрезка функция одного знака
	ErrNoBracket = errors.New("optimizer: root is not bracketed")

	// ErrInvalidOptions — некорректные параметры запуска
	ErrInvalidOptions = errors.New("optimizer: invalid options")
)

// DefaultFloor — порог |f'(x)|, ниже которого точка считается стационарной
const DefaultFloor = 1e-12

// Методы поиска корня
const (
	MethodNewton  = "newton"
	MethodTangent = "tangent"
	MethodBisect  = "bisect"
)

// Status — чем закончился запуск
type Status string

const (
	StatusConverged  Status = "converged"
	StatusMaxIter    Status = "max_iter"
	StatusStationary Status = "stationary"
	StatusDiverged   Status = "diverged"
	StatusStopped    Status = "stopped"
	StatusError      Status = "error"
)

// Criterion — критерий сходимости
type Criterion int

const (
	// Residual — |f(x)| <= delta
	Residual Criterion = iota
	// StepSize — |x_{k+1} - x_k| <= delta
	StepSize
)

func (c Criterion) String() string {
	if c == StepSize {
		return "step"
	}
	return "residual"
}

// ParseCriterion разбирает "residual" / "step"
func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "", "residual":
		return Residual, nil
	case "step":
		return StepSize, nil
	}
	return Residual, fmt.Errorf("%w: unknown tolerance mode %q", ErrInvalidOptions, s)
}

// Iter — одна итерация метода
type Iter struct {
	K    int     `json:"k"`
	X    float64 `json:"x"`
	FX   float64 `json:"fx"`
	DFX  float64 `json:"dfx"`
	Step float64 `json:"step"`
	A    float64 `json:"a,omitempty"`
	B    float64 `json:"b,omitempty"`
}

// Result — итог одного запуска
type Result struct {
	Method     string  `json:"method"`
	Converged  bool    `json:"converged"`
	Root       float64 `json:"root"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	Status     Status  `json:"status"`
	Trace      []Iter  `json:"-"`
}

// String — однострочная сводка со всеми четырьмя полями результата
func (r Result) String() string {
	return fmt.Sprintf("method=%s status=%s converged=%t root=%s iterations=%d residual=%s",
		r.Method, r.Status, r.Converged, fmtFloat(r.Root), r.Iterations, fmtFloat(r.Residual))
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Options — параметры итерационного поиска
type Options struct {
	Delta     float64
	MaxIter   int
	Floor     float64
	H         float64
	Tolerance Criterion

	// OnIter вызывается после каждой итерации; если вернёт ErrStopped — алгоритм прерывается.
	OnIter func(Iter) error
}

// DefaultOptions — delta 0.001, 30 итераций, порог производной 1e-12
func DefaultOptions() Options {
	return Options{
		Delta:   0.001,
		MaxIter: 30,
		Floor:   DefaultFloor,
	}
}

// Validate проверяет параметры
func (o Options) Validate() error {
	if !(o.Delta > 0) || math.IsInf(o.Delta, 0) {
		return fmt.Errorf("%w: delta must be positive, got %g", ErrInvalidOptions, o.Delta)
	}
	if o.MaxIter < 0 {
		return fmt.Errorf("%w: max iterations must be non-negative, got %d", ErrInvalidOptions, o.MaxIter)
	}
	if o.Floor < 0 || math.IsNaN(o.Floor) {
		return fmt.Errorf("%w: derivative floor must be non-negative, got %g", ErrInvalidOptions, o.Floor)
	}
	if o.H < 0 || math.IsNaN(o.H) || math.IsInf(o.H, 0) {
		return fmt.Errorf("%w: finite-difference step must be non-negative, got %g", ErrInvalidOptions, o.H)
	}
	return nil
}

func (o Options) floor() float64 {
	if o.Floor == 0 {
		return DefaultFloor
	}
	return o.Floor
}

func (o Options) step() float64 {
	if o.H == 0 {
		return o.Delta
	}
	return o.H
}

// notify вызывает OnIter и приводит ошибку к статусу
func (o Options) notify(it Iter) (Status, error) {
	if o.OnIter == nil {
		return "", nil
	}
	if err := o.OnIter(it); err != nil {
		if errors.Is(err, ErrStopped) {
			return StatusStopped, ErrStopped
		}
		return StatusError, err
	}
	return "", nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
