package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyroot/internal/poly"
)

func TestBisect_Polynomial(t *testing.T) {
	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 0, 5, opts(1e-6, 100))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, MethodBisect, res.Method)
	assert.InDelta(t, 2.0, res.Root, 1e-6)
	assert.LessOrEqual(t, res.Residual, 1e-6)
	require.NotEmpty(t, res.Trace)

	// отрезок сжимается вдвое на каждом шаге
	for i := 1; i < len(res.Trace); i++ {
		prev, cur := res.Trace[i-1], res.Trace[i]
		assert.InDelta(t, (prev.B-prev.A)/2, cur.B-cur.A, 1e-12)
		assert.LessOrEqual(t, cur.A, 2.0)
		assert.GreaterOrEqual(t, cur.B, 2.0)
	}
}

func TestBisect_Expression(t *testing.T) {
	f, err := NewEvalFunc("cos(x) - x")
	require.NoError(t, err)

	res, err := Bisect(f, 0, 1, opts(1e-9, 200))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.7390851332, res.Root, 1e-8)
}

func TestBisect_RootAtEndpoint(t *testing.T) {
	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 2, 5, opts(1e-6, 100))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 2.0, res.Root)
	assert.Equal(t, 0, res.Iterations)
}

func TestBisect_NoBracket(t *testing.T) {
	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 3, 5, opts(1e-6, 100))
	assert.ErrorIs(t, err, ErrNoBracket)
	assert.False(t, res.Converged)
}

func TestBisect_InvalidInterval(t *testing.T) {
	p := Plain(poly.MustNew(1, 0, -4))

	_, err := Bisect(p, 5, 0, opts(1e-6, 100))
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Bisect(p, math.Inf(-1), 0, opts(1e-6, 100))
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestBisect_ZeroIterations(t *testing.T) {
	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 0, 5, opts(1e-6, 0))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, StatusMaxIter, res.Status)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 2.5, res.Root)
	assert.Equal(t, 2.25, res.Residual)
}

func TestBisect_StepTolerance(t *testing.T) {
	o := opts(1e-3, 100)
	o.Tolerance = StepSize

	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 0, 5, o)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, res.Root, 1e-3)
}

func TestBisect_Stopped(t *testing.T) {
	o := opts(1e-12, 100)
	o.OnIter = func(it Iter) error {
		if it.K == 3 {
			return ErrStopped
		}
		return nil
	}

	res, err := Bisect(Plain(poly.MustNew(1, 0, -4)), 0, 5, o)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, StatusStopped, res.Status)
	assert.Equal(t, 3, res.Iterations)
}

func TestBisect_EndpointInStepMode(t *testing.T) {
	f := Plain(poly.MustNew(1, -1e-4))

	res, err := Bisect(f, 0, 1, opts(1e-3, 100))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 0.0, res.Root)
	assert.Equal(t, 0, res.Iterations)

	o := opts(1e-3, 100)
	o.Tolerance = StepSize
	res, err = Bisect(f, 0, 1, o)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Positive(t, res.Iterations)
	assert.InDelta(t, 1e-4, res.Root, 1e-3)
}
