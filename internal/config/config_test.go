package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyroot/internal/optimizer"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polyroot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.Solver.Delta)
	assert.Equal(t, 1.0, cfg.Solver.X0)
	assert.Equal(t, 30, cfg.Solver.MaxIter)
	assert.Equal(t, "newton", cfg.Solver.Method)
	assert.Len(t, cfg.Sweep.Polynomials, 3)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 100000, cfg.Server.MaxPlotPoints)
	assert.Equal(t, 256, cfg.Server.MaxRuns)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
solver:
  method: tangent
  delta: 0.0001
  max_iter: 100
  tolerance: step
sweep:
  polynomials:
    - [1, 0, -4]
  x0s: [3]
  deltas: [0.000001]
  max_iters: [50]
  methods: [newton]
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tangent", cfg.Solver.Method)
	assert.Equal(t, 0.0001, cfg.Solver.Delta)
	assert.Equal(t, 100, cfg.Solver.MaxIter)
	assert.Equal(t, 1.0, cfg.Solver.X0)
	assert.Equal(t, [][]float64{{1, 0, -4}}, cfg.Sweep.Polynomials)
	assert.Equal(t, "debug", cfg.Log.Level)

	o, err := cfg.Solver.Options()
	require.NoError(t, err)
	assert.Equal(t, optimizer.StepSize, o.Tolerance)
	assert.Equal(t, 100, o.MaxIter)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "solver:\n  delta: 0.5\n")
	t.Setenv("POLYROOT_DELTA", "0.25")
	t.Setenv("POLYROOT_X0", "-3")
	t.Setenv("POLYROOT_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Solver.Delta)
	assert.Equal(t, -3.0, cfg.Solver.X0)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"negative delta": "solver:\n  delta: -1\n",
		"bad method":     "solver:\n  method: secant\n",
		"bad range":      "plot:\n  low: 5\n  high: 1\n",
		"empty grid":     "sweep:\n  x0s: []\n",
		"empty poly":     "sweep:\n  polynomials: [[]]\n",
		"bad tolerance":  "solver:\n  tolerance: relative\n",
	} {
		_, err := Load(writeFile(t, body))
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "solver: [1, 2"))
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("POLYROOT_MAX_ITER", "many")
	_, err := Load("")
	assert.Error(t, err)
}
