package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polyroot/internal/optimizer"
	"polyroot/internal/poly"
	"polyroot/internal/report"
)

type findFlags struct {
	coefficientFlags
	x0        float64
	delta     float64
	maxIter   int
	h         float64
	tolerance string
	methods   []string
	a, b      float64
	expr      string
	verbose   bool
}

func newFindCmd(a *app) *cobra.Command {
	f := &findFlags{}

	cmd := &cobra.Command{
		Use:   "find [coefficients...]",
		Short: "Найти корень с начальной точки x0",
		Long: `Ищет один вещественный корень с начальной точки x0.
По умолчанию запускаются метод Ньютона (аналитическая производная) и метод касательных
(разностная производная с шагом --fd-step).
Сходимость: |f(x)| <= delta (или |dx| <= delta при --tolerance step).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, a, args)
		},
	}

	f.register(cmd)
	fl := cmd.Flags()
	fl.Float64VarP(&f.x0, "x0", "x", 1.0, "начальная точка")
	fl.Float64VarP(&f.delta, "delta", "d", 0.001, "допуск на |f(x)|")
	fl.IntVarP(&f.maxIter, "iters", "i", 30, "максимальное число итераций")
	fl.Float64Var(&f.h, "fd-step", 0, "шаг разностной производной (0 — равен delta)")
	fl.StringVar(&f.tolerance, "tolerance", "", "критерий сходимости: residual или step")
	fl.StringSliceVarP(&f.methods, "method", "m", []string{optimizer.MethodNewton, optimizer.MethodTangent},
		"методы: newton, tangent, bisect")
	fl.Float64VarP(&f.a, "a", "a", 0, "левый конец отрезка для bisect")
	fl.Float64VarP(&f.b, "b", "b", 0, "правый конец отрезка для bisect")
	fl.StringVarP(&f.expr, "expr", "e", "", "произвольная функция f(x) вместо многочлена (tangent, bisect)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "печатать итерации")
	return cmd
}

func (f *findFlags) options(cmd *cobra.Command, a *app) (optimizer.Options, error) {
	o, err := a.cfg.Solver.Options()
	if err != nil {
		return o, err
	}
	fl := cmd.Flags()
	if fl.Changed("delta") {
		o.Delta = f.delta
	}
	if fl.Changed("iters") {
		o.MaxIter = f.maxIter
	}
	if fl.Changed("fd-step") {
		o.H = f.h
	}
	if fl.Changed("tolerance") {
		if o.Tolerance, err = optimizer.ParseCriterion(f.tolerance); err != nil {
			return o, err
		}
	}
	return o, o.Validate()
}

func (f *findFlags) run(cmd *cobra.Command, a *app, args []string) error {
	o, err := f.options(cmd, a)
	if err != nil {
		return err
	}
	x0 := a.cfg.Solver.X0
	if cmd.Flags().Changed("x0") {
		x0 = f.x0
	}

	var (
		p  *poly.Polynomial
		fn optimizer.Func
	)
	if f.expr != "" {
		if fn, err = optimizer.NewEvalFunc(f.expr); err != nil {
			return fmt.Errorf("expression %q: %w", f.expr, err)
		}
		printf(cmd, "f(x) = %s\n", f.expr)
	} else {
		if p, err = f.polynomial(args); err != nil {
			return err
		}
		fn = optimizer.Plain(p)
		printf(cmd, "polynomial (degree %d): %s\n", p.Degree(), p)
	}

	styled := isTerminal(cmd)
	for _, m := range f.methods {
		var res optimizer.Result
		switch m {
		case optimizer.MethodNewton:
			if p == nil {
				return fmt.Errorf("method newton needs polynomial coefficients")
			}
			res, err = optimizer.Newton(p, x0, o)
		case optimizer.MethodTangent:
			res, err = optimizer.Tangent(fn, x0, o)
		case optimizer.MethodBisect:
			res, err = optimizer.Bisect(fn, f.a, f.b, o)
		default:
			return fmt.Errorf("unknown method %q", m)
		}

		a.log.Debug("search finished", "method", m, "status", res.Status, "iterations", res.Iterations)

		if f.verbose {
			printf(cmd, "\n%s iterations:\n", m)
			if err := report.WriteTrace(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		}
		if styled {
			printf(cmd, "%s\n", report.Styled(res))
		} else {
			printf(cmd, "%s\n", report.Line(res))
		}
		// стационарная точка, расходимость и т.п. — результат, а не сбой команды
		if err != nil {
			printf(cmd, "  %s: %v\n", m, err)
		}
	}
	return nil
}
