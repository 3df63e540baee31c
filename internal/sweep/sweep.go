package sweep

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"polyroot/internal/optimizer"
	"polyroot/internal/poly"
	"polyroot/internal/report"
)

// Grid — декартово произведение параметров прогона
type Grid struct {
	Polynomials [][]float64
	X0s         []float64
	Deltas      []float64
	MaxIters    []int
	Methods     []string
	Floor       float64
	Tolerance   optimizer.Criterion
}

// Case — одна комбинация параметров
type Case struct {
	Index   int       `json:"index"`
	Poly    int       `json:"poly"`
	Coeffs  []float64 `json:"coeffs"`
	Method  string    `json:"method"`
	X0      float64   `json:"x0"`
	Delta   float64   `json:"delta"`
	MaxIter int       `json:"max_iter"`
}

// Row — результат одной комбинации; ошибки — тоже данные
type Row struct {
	Case
	Result optimizer.Result `json:"result"`
	Err    string           `json:"error,omitempty"`
}

// Report — итог прогона
type Report struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Rows     []Row
}

// Cases перечисляет комбинации в фиксированном порядке:
// многочлен, delta, число итераций, x0, метод
func (g Grid) Cases() []Case {
	var out []Case
	for pi, coeffs := range g.Polynomials {
		for _, d := range g.Deltas {
			for _, it := range g.MaxIters {
				for _, x0 := range g.X0s {
					for _, m := range g.Methods {
						out = append(out, Case{
							Index:   len(out),
							Poly:    pi,
							Coeffs:  coeffs,
							Method:  m,
							X0:      x0,
							Delta:   d,
							MaxIter: it,
						})
					}
				}
			}
		}
	}
	return out
}

// Run прогоняет всю сетку в workers горутинах (0 — по числу процессоров).
// Прерывается только отменой ctx; строки идут в порядке Cases.
func Run(ctx context.Context, g Grid, workers int, log *slog.Logger) (*Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rep := &Report{ID: uuid.NewString(), Started: time.Now()}

	// многочлены строятся один раз и читаются всеми горутинами
	polys := make([]*poly.Polynomial, len(g.Polynomials))
	perrs := make([]error, len(g.Polynomials))
	for i, c := range g.Polynomials {
		polys[i], perrs[i] = poly.New(c...)
	}

	cases := g.Cases()
	rep.Rows = make([]Row, len(cases))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, c := range cases {
		c := c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep.Rows[c.Index] = g.run(c, polys[c.Poly], perrs[c.Poly])
			return nil
		})
	}
	err := eg.Wait()
	rep.Duration = time.Since(rep.Started)

	if log != nil {
		log.Info("sweep finished", "id", rep.ID, "cases", len(cases), "duration", rep.Duration)
	}
	return rep, err
}

func (g Grid) run(c Case, p *poly.Polynomial, perr error) Row {
	row := Row{Case: c}
	if perr != nil {
		row.Result = optimizer.Result{Method: c.Method, Root: c.X0, Status: optimizer.StatusError}
		row.Err = perr.Error()
		return row
	}

	res, err := optimizer.Solve(c.Method, p, c.X0, optimizer.Options{
		Delta:     c.Delta,
		MaxIter:   c.MaxIter,
		Floor:     g.Floor,
		Tolerance: g.Tolerance,
	})
	res.Trace = nil
	row.Result = res
	if err != nil {
		row.Err = err.Error()
	}
	return row
}

// Summary — число строк по статусам
func (r *Report) Summary() map[optimizer.Status]int {
	out := make(map[optimizer.Status]int)
	for _, row := range r.Rows {
		out[row.Result.Status]++
	}
	return out
}

// WriteText печатает по строке на комбинацию, многочлены разделены чертой
func (r *Report) WriteText(w io.Writer) error {
	for i, row := range r.Rows {
		if i > 0 && row.Poly != r.Rows[i-1].Poly {
			if _, err := fmt.Fprintln(w, strings.Repeat("=", 78)); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("coeffs=%s x0=%s delta=%s max_iter=%d %s",
			joinFloats(row.Coeffs), report.FormatFloat(row.X0), report.FormatFloat(row.Delta), row.MaxIter,
			report.Line(row.Result))
		if row.Err != "" {
			line += " error=" + strconv.Quote(row.Err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CSVHeader — заголовок CSV прогона
var CSVHeader = []string{"index", "coeffs", "method", "x0", "delta", "max_iter",
	"status", "converged", "root", "iterations", "residual", "error"}

// WriteCSV пишет строки прогона в CSV
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{
			strconv.Itoa(row.Index),
			joinFloats(row.Coeffs),
			row.Method,
			report.FormatFloat(row.X0),
			report.FormatFloat(row.Delta),
			strconv.Itoa(row.MaxIter),
			string(row.Result.Status),
			strconv.FormatBool(row.Result.Converged),
			report.FormatFloat(row.Result.Root),
			strconv.Itoa(row.Result.Iterations),
			report.FormatFloat(row.Result.Residual),
			row.Err,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = report.FormatFloat(v)
	}
	return strings.Join(parts, " ")
}
