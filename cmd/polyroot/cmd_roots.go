package main

import (
	"github.com/spf13/cobra"

	"polyroot/internal/poly"
	"polyroot/internal/report"
)

type rootsFlags struct {
	coefficientFlags
	all      bool
	distinct float64
}

func newRootsCmd(a *app) *cobra.Command {
	f := &rootsFlags{}

	cmd := &cobra.Command{
		Use:   "roots [coefficients...]",
		Short: "Все корни многочлена через собственные числа сопровождающей матрицы",
		Long: `Печатает вещественные корни многочлена по возрастанию.
С --all печатает также производную и все комплексные корни.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.polynomial(args)
			if err != nil {
				return err
			}
			printf(cmd, "polynomial (degree %d): %s\n", p.Degree(), p)

			if f.all {
				printf(cmd, "derivative: %s\n", p.Derivative())
				all, err := p.Roots()
				if err != nil {
					return err
				}
				for _, z := range all {
					printf(cmd, "  %v\n", z)
				}
			}

			rs, err := p.RealRoots()
			if err != nil {
				return err
			}
			if f.distinct > 0 {
				rs = poly.Distinct(rs, f.distinct)
			}
			a.log.Debug("roots computed", "degree", p.Degree(), "real", len(rs))

			if len(rs) == 0 {
				printf(cmd, "no real roots\n")
				return nil
			}
			for _, r := range rs {
				printf(cmd, "root=%s\n", report.FormatFloat(r))
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&f.all, "all", false, "печатать и комплексные корни")
	cmd.Flags().Float64Var(&f.distinct, "distinct", 0, "склеивать вещественные корни ближе этого допуска")
	return cmd
}
