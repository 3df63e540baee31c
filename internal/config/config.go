package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"polyroot/internal/optimizer"
)

// Config — все настройки polyroot: значения по умолчанию, затем YAML-файл, затем переменные окружения
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Plot   PlotConfig   `yaml:"plot"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SolverConfig — параметры одного запуска
type SolverConfig struct {
	Method    string  `yaml:"method" env:"POLYROOT_METHOD" validate:"oneof=newton tangent bisect"`
	X0        float64 `yaml:"x0" env:"POLYROOT_X0"`
	Delta     float64 `yaml:"delta" env:"POLYROOT_DELTA" validate:"gt=0"`
	MaxIter   int     `yaml:"max_iter" env:"POLYROOT_MAX_ITER" validate:"gte=0"`
	Floor     float64 `yaml:"floor" env:"POLYROOT_FLOOR" validate:"gte=0"`
	H         float64 `yaml:"h" env:"POLYROOT_H" validate:"gte=0"`
	Tolerance string  `yaml:"tolerance" env:"POLYROOT_TOLERANCE" validate:"oneof=residual step"`
}

// PlotConfig — диапазон и размер графика
type PlotConfig struct {
	Low    float64 `yaml:"low" env:"POLYROOT_PLOT_LOW"`
	High   float64 `yaml:"high" env:"POLYROOT_PLOT_HIGH" validate:"gtfield=Low"`
	Points int     `yaml:"points" env:"POLYROOT_PLOT_POINTS" validate:"gte=1"`
	Width  float64 `yaml:"width_in" env:"POLYROOT_PLOT_WIDTH" validate:"gt=0"`
	Height float64 `yaml:"height_in" env:"POLYROOT_PLOT_HEIGHT" validate:"gt=0"`
}

// SweepConfig — сетка пакетного прогона
type SweepConfig struct {
	Polynomials [][]float64 `yaml:"polynomials" validate:"min=1,dive,min=1"`
	X0s         []float64   `yaml:"x0s" validate:"min=1"`
	Deltas      []float64   `yaml:"deltas" validate:"min=1,dive,gt=0"`
	MaxIters    []int       `yaml:"max_iters" validate:"min=1,dive,gte=0"`
	Methods     []string    `yaml:"methods" validate:"min=1,dive,oneof=newton tangent"`
	Workers     int         `yaml:"workers" env:"POLYROOT_SWEEP_WORKERS" validate:"gte=0"`
}

// ServerConfig — HTTP-сервер
type ServerConfig struct {
	Addr          string `yaml:"addr" env:"POLYROOT_ADDR" validate:"required"`
	PreviewPoints int    `yaml:"preview_points" env:"POLYROOT_PREVIEW_POINTS" validate:"gte=2,ltefield=MaxPlotPoints"`
	MaxPlotPoints int    `yaml:"max_plot_points" env:"POLYROOT_MAX_PLOT_POINTS" validate:"gte=2"`
	MaxRuns       int    `yaml:"max_runs" env:"POLYROOT_MAX_RUNS" validate:"gte=1"`
}

// LogConfig — логирование
type LogConfig struct {
	Level  string `yaml:"level" env:"POLYROOT_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"POLYROOT_LOG_FORMAT" validate:"oneof=text json"`
}

// Default — delta 0.001, x0 1.0, 30 итераций и эталонная сетка прогона
func Default() *Config {
	d := optimizer.DefaultOptions()
	return &Config{
		Solver: SolverConfig{
			Method:    optimizer.MethodNewton,
			X0:        1.0,
			Delta:     d.Delta,
			MaxIter:   d.MaxIter,
			Floor:     d.Floor,
			Tolerance: "residual",
		},
		Plot: PlotConfig{
			Low:    -1000,
			High:   1000,
			Points: 1000,
			Width:  8,
			Height: 5,
		},
		Sweep: SweepConfig{
			Polynomials: [][]float64{
				{8, 3, 6, 2, 0, 12},
				{3, -124, 439, 1234, -10439, 931678},
				{4, -1, -5, 13, -17, 12, 4},
			},
			X0s:      []float64{0, 1, 10000000},
			Deltas:   []float64{0.1, 0.001},
			MaxIters: []int{20, 100, 10000},
			Methods:  []string{optimizer.MethodNewton, optimizer.MethodTangent},
		},
		Server: ServerConfig{
			Addr:          ":8080",
			PreviewPoints: 400,
			MaxPlotPoints: 100000,
			MaxRuns:       256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load читает конфигурацию. Пустой path — только значения по умолчанию и окружение.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет значения по тегам validate
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config: %s failed %q check (value %v)", verrs[0].Namespace(), verrs[0].Tag(), verrs[0].Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Options переводит настройки решателя в optimizer.Options
func (s SolverConfig) Options() (optimizer.Options, error) {
	tol, err := optimizer.ParseCriterion(s.Tolerance)
	if err != nil {
		return optimizer.Options{}, err
	}
	return optimizer.Options{
		Delta:     s.Delta,
		MaxIter:   s.MaxIter,
		Floor:     s.Floor,
		H:         s.H,
		Tolerance: tol,
	}, nil
}
