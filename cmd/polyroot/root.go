package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"polyroot/internal/config"
	"polyroot/internal/logging"
	"polyroot/internal/optimizer"
	"polyroot/internal/poly"
)

// app — общее состояние команд после загрузки конфигурации
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	// до загрузки конфигурации пишем в stderr с уровнем info
	a := &app{log: logging.Default()}

	root := &cobra.Command{
		Use:           "polyroot",
		Short:         "Поиск вещественных корней многочлена",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML-файл конфигурации")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "уровень логирования (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "формат логов (text, json)")

	root.AddCommand(
		newFindCmd(a),
		newRootsCmd(a),
		newPlotCmd(a),
		newSweepCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// coefficientFlags — коэффициенты из --coeffs и позиционных аргументов
type coefficientFlags struct {
	coeffs []string
}

func (c *coefficientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&c.coeffs, "coeffs", "c", nil,
		"коэффициенты от старшей степени, через запятую (отрицательные числа в аргументах — после --)")
}

func (c *coefficientFlags) polynomial(args []string) (*poly.Polynomial, error) {
	all := append(append([]string(nil), c.coeffs...), args...)
	vals, err := optimizer.ParseCoefficients(all)
	if err != nil {
		return nil, err
	}
	return poly.New(vals...)
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
