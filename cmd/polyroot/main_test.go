package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polyroot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFind(t *testing.T) {
	out, err := execute(t, "find", "-x", "3", "-d", "1e-6", "-i", "50", "-m", "newton,tangent", "--", "1", "0", "-4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "polynomial (degree 2): x^2 - 4", lines[0])
	assert.Contains(t, lines[1], "method=newton status=converged converged=true root=2.")
	assert.Contains(t, lines[1], "iterations=4")
	assert.Contains(t, lines[2], "method=tangent status=converged converged=true")
}

func TestFind_Verbose(t *testing.T) {
	out, err := execute(t, "find", "-v", "-x", "3", "-d", "1e-6", "-m", "newton", "-c", "1,0,-4")
	require.NoError(t, err)
	assert.Contains(t, out, "newton iterations:")
	assert.Contains(t, out, "[iter 0]\ttrying 3.000000, where f(x) = 5.000000")
}

func TestFind_Stationary(t *testing.T) {
	out, err := execute(t, "find", "-x", "0", "-m", "newton", "--", "1", "0", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "status=stationary")
	assert.Contains(t, out, "stationary point")
}

func TestFind_Expression(t *testing.T) {
	out, err := execute(t, "find", "-e", "cos(x) - x", "-m", "bisect", "-a", "0", "-b", "1", "-d", "1e-9", "-i", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "f(x) = cos(x) - x")
	assert.Contains(t, out, "method=bisect status=converged converged=true root=0.739085")
}

func TestFind_Errors(t *testing.T) {
	_, err := execute(t, "find", "-m", "secant", "--", "1", "0")
	assert.ErrorContains(t, err, "unknown method")

	_, err = execute(t, "find", "--", "1", "abc")
	assert.Error(t, err)

	_, err = execute(t, "find", "--", "1", "y", "-4")
	assert.ErrorContains(t, err, "coefficient 1")

	_, err = execute(t, "find", "--", "0", "0")
	assert.Error(t, err)

	_, err = execute(t, "find", "-e", "x - 1", "-m", "newton")
	assert.ErrorContains(t, err, "needs polynomial")

	_, err = execute(t, "find", "-d", "0", "--", "1", "0")
	assert.Error(t, err)
}

func TestRoots(t *testing.T) {
	out, err := execute(t, "roots", "--all", "--", "1", "-3", "1", "-3")
	require.NoError(t, err)

	var roots []float64
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, "root="); ok {
			r, err := strconv.ParseFloat(v, 64)
			require.NoError(t, err)
			roots = append(roots, r)
		}
	}
	require.Len(t, roots, 1)
	assert.InDelta(t, 3.0, roots[0], 1e-9)
	assert.Contains(t, out, "x^3 - 3x^2 + x - 3")
	assert.Contains(t, out, "derivative: 3x^2 - 6x + 1")

	out, err = execute(t, "roots", "--", "1", "0", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "no real roots")
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.svg")
	out, err := execute(t, "plot", "--low=-3", "--high=3", "-n", "50", "-o", path, "--", "1", "0", "-4")
	require.NoError(t, err)
	assert.Contains(t, out, "saved "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	path = filepath.Join(t.TempDir(), "expr.png")
	_, err = execute(t, "plot", "-e", "sin(x)", "--low=-3", "--high=3", "-o", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = execute(t, "plot", "--low=3", "--high=-3", "-o", path, "--", "1", "0")
	assert.Error(t, err)
}

const sweepConfig = `
solver:
  floor: 1e-12
sweep:
  polynomials:
    - [1, 0, -4]
    - [1, 0, 1]
  x0s: [3]
  deltas: [0.000001]
  max_iters: [50]
  methods: [newton, tangent]
  workers: 2
`

func TestSweep_CSV(t *testing.T) {
	cfg := writeConfig(t, sweepConfig)
	out, err := execute(t, "--config", cfg, "sweep", "--csv", "-")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "index", rows[0][0])
	assert.Equal(t, []string{"0", "1 0 -4", "newton"}, rows[1][:3])
	assert.Equal(t, "converged", rows[1][6])
	assert.Equal(t, "tangent", rows[2][2])
	assert.Equal(t, "1 0 1", rows[3][1])
	assert.NotEqual(t, "converged", rows[3][6])
}

func TestSweep_Text(t *testing.T) {
	cfg := writeConfig(t, sweepConfig)
	out, err := execute(t, "--config", cfg, "sweep", "-w", "1")
	require.NoError(t, err)
	assert.Contains(t, out, strings.Repeat("=", 78))
	assert.Contains(t, out, "coeffs=1 0 -4 x0=3 delta=1e-06 max_iter=50 method=newton status=converged")
	assert.Contains(t, out, "4 cases")
	assert.Contains(t, out, "converged")
}

func TestSweep_File(t *testing.T) {
	cfg := writeConfig(t, sweepConfig)
	path := filepath.Join(t.TempDir(), "sweep.csv")
	out, err := execute(t, "--config", cfg, "sweep", "--csv", path)
	require.NoError(t, err)
	assert.Contains(t, out, "saved "+path)
	assert.FileExists(t, path)
}

func TestBadConfig(t *testing.T) {
	cfg := writeConfig(t, "solver:\n  delta: -1\n")
	_, err := execute(t, "--config", cfg, "find", "--", "1", "0")
	assert.ErrorContains(t, err, "config")

	_, err = execute(t, "--log-level", "loud", "find", "--", "1", "0")
	assert.Error(t, err)
}
