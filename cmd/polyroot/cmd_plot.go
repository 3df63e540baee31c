package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"polyroot/internal/optimizer"
	"polyroot/internal/plot"
)

type plotFlags struct {
	coefficientFlags
	low, high float64
	points    int
	out       string
	title     string
	expr      string
}

func newPlotCmd(a *app) *cobra.Command {
	f := &plotFlags{}

	cmd := &cobra.Command{
		Use:   "plot [coefficients...]",
		Short: "Построить график f(x) на отрезке [low, high]",
		Long: `Строит график многочлена (или выражения --expr) и сохраняет его в файл.
Формат выбирается по расширению: .png, .svg, .pdf, .eps, .jpg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, a, args)
		},
	}

	f.register(cmd)
	fl := cmd.Flags()
	fl.Float64Var(&f.low, "low", plot.DefaultLow, "левая граница")
	fl.Float64Var(&f.high, "high", plot.DefaultHigh, "правая граница")
	fl.IntVarP(&f.points, "points", "n", plot.DefaultPoints, "число точек")
	fl.StringVarP(&f.out, "out", "o", "polynomial.png", "файл графика")
	fl.StringVar(&f.title, "title", "", "заголовок")
	fl.StringVarP(&f.expr, "expr", "e", "", "произвольная функция f(x) вместо многочлена")
	return cmd
}

func (f *plotFlags) run(cmd *cobra.Command, a *app, args []string) error {
	pc := a.cfg.Plot
	fl := cmd.Flags()
	if fl.Changed("low") {
		pc.Low = f.low
	}
	if fl.Changed("high") {
		pc.High = f.high
	}
	if fl.Changed("points") {
		pc.Points = f.points
	}

	var (
		pts   []plot.Point
		title = f.title
	)
	if f.expr != "" {
		fn, err := optimizer.NewEvalFunc(f.expr)
		if err != nil {
			return fmt.Errorf("expression %q: %w", f.expr, err)
		}
		if pts, err = plot.Sample(fn, pc.Low, pc.High, pc.Points); err != nil {
			return err
		}
		if title == "" {
			title = "f(x) = " + f.expr
		}
	} else {
		p, err := f.polynomial(args)
		if err != nil {
			return err
		}
		if pts, err = plot.SampleBatch(p, pc.Low, pc.High, pc.Points); err != nil {
			return err
		}
		if title == "" {
			title = p.String()
		}
	}

	err := plot.Render(pts, f.out, plot.Options{
		Title:  title,
		Width:  vg.Length(pc.Width) * vg.Inch,
		Height: vg.Length(pc.Height) * vg.Inch,
	})
	if err != nil {
		return err
	}
	a.log.Info("plot saved", "path", f.out, "points", len(pts), "low", pc.Low, "high", pc.High)
	printf(cmd, "saved %s\n", f.out)
	return nil
}
