package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyroot/internal/optimizer"
	"polyroot/internal/poly"
)

func solve(t *testing.T) optimizer.Result {
	t.Helper()
	res, err := optimizer.Newton(poly.MustNew(1, 0, -4), 3, optimizer.Options{Delta: 1e-6, MaxIter: 50})
	require.NoError(t, err)
	return res
}

func TestLine_HasAllFields(t *testing.T) {
	line := Line(solve(t))
	for _, field := range []string{"converged=true", "root=2", "iterations=4", "residual="} {
		assert.Contains(t, line, field)
	}
	assert.NotContains(t, line, "\n")
}

func TestStyled(t *testing.T) {
	out := Styled(solve(t))
	assert.Contains(t, out, "newton")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "iterations=4")

	out = Styled(optimizer.Result{Method: "newton", Status: optimizer.StatusStationary})
	assert.Contains(t, out, "stationary")
}

func TestWriteTrace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, solve(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[iter 0]\ttrying 3.000000, where f(x) = 5.000000", lines[0])
}

func TestWriteTraceCSV(t *testing.T) {
	res := solve(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTraceCSV(&buf, res.Trace))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(res.Trace)+1)
	assert.Equal(t, TraceHeader, rows[0])
	assert.Equal(t, []string{"1", "3", "5", "6", FormatFloat(-5.0 / 6), "0", "0"}, rows[1])
}
