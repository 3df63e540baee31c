package main

import (
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"polyroot/internal/optimizer"
	"polyroot/internal/sweep"
)

type sweepFlags struct {
	workers int
	csvPath string
}

func newSweepCmd(a *app) *cobra.Command {
	f := &sweepFlags{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Прогнать сетку многочленов, x0, delta и числа итераций",
		Long: `Прогоняет все комбинации из секции sweep конфигурации
(по умолчанию — три эталонных многочлена, x0 {0, 1, 1e7}, delta {0.1, 0.001}, итерации {20, 100, 10000}).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, a)
		},
	}

	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "число горутин (0 — по числу процессоров)")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "записать результат в CSV (- — в stdout)")
	return cmd
}

func (f *sweepFlags) run(cmd *cobra.Command, a *app) error {
	sc := a.cfg.Sweep
	tol, err := optimizer.ParseCriterion(a.cfg.Solver.Tolerance)
	if err != nil {
		return err
	}
	grid := sweep.Grid{
		Polynomials: sc.Polynomials,
		X0s:         sc.X0s,
		Deltas:      sc.Deltas,
		MaxIters:    sc.MaxIters,
		Methods:     sc.Methods,
		Floor:       a.cfg.Solver.Floor,
		Tolerance:   tol,
	}
	workers := sc.Workers
	if cmd.Flags().Changed("workers") {
		workers = f.workers
	}

	rep, err := sweep.Run(cmd.Context(), grid, workers, a.log)
	if err != nil {
		return err
	}

	switch f.csvPath {
	case "":
		if err := rep.WriteText(cmd.OutOrStdout()); err != nil {
			return err
		}
	case "-":
		return rep.WriteCSV(cmd.OutOrStdout())
	default:
		out, err := os.Create(f.csvPath)
		if err != nil {
			return err
		}
		if err := rep.WriteCSV(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printf(cmd, "saved %s\n", f.csvPath)
	}

	summary := rep.Summary()
	statuses := make([]string, 0, len(summary))
	for st := range summary {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	printf(cmd, "\nsweep %s: %d cases in %s\n", rep.ID, len(rep.Rows), rep.Duration.Round(time.Millisecond))
	for _, st := range statuses {
		printf(cmd, "  %-10s %d\n", st, summary[optimizer.Status(st)])
	}
	return nil
}
