package plot

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyroot/internal/optimizer"
	"polyroot/internal/poly"
)

func TestLinspace(t *testing.T) {
	xs, err := Linspace(-1, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, xs)

	xs, err = Linspace(DefaultLow, DefaultHigh, 100000)
	require.NoError(t, err)
	assert.Len(t, xs, 100000)
	assert.Equal(t, DefaultLow, xs[0])
	assert.Equal(t, DefaultHigh, xs[len(xs)-1])

	xs, err = Linspace(3, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, xs)
}

func TestLinspace_Invalid(t *testing.T) {
	for _, tc := range []struct {
		low, high float64
		n         int
	}{
		{0, 1, 0},
		{1, 1, 10},
		{2, 1, 10},
		{math.NaN(), 1, 10},
		{0, math.Inf(1), 10},
	} {
		_, err := Linspace(tc.low, tc.high, tc.n)
		assert.ErrorIs(t, err, ErrInvalidRange)
	}
}

func TestSampleBatch_Polynomial(t *testing.T) {
	p := poly.MustNew(1, 0, -4)
	pts, err := SampleBatch(p, -2, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []Point{{-2, 0}, {-1, -3}, {0, -4}, {1, -3}, {2, 0}}, pts)
}

func TestSample_MatchesBatch(t *testing.T) {
	p := poly.MustNew(8, 3, 6, 2, 0, 12)
	a, err := Sample(optimizer.Plain(p), -3, 3, 41)
	require.NoError(t, err)
	b, err := SampleBatch(p, -3, 3, 41)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type failing struct{}

func (failing) Eval(x float64) (float64, error) {
	if x > 0 {
		return 0, errors.New("undefined")
	}
	return x, nil
}

func TestSample_ErrorsBecomeNaN(t *testing.T) {
	pts, err := Sample(failing{}, -1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, -1.0, pts[0].Y)
	assert.Equal(t, 0.0, pts[1].Y)
	assert.True(t, math.IsNaN(pts[2].Y))
}

func TestSplit(t *testing.T) {
	nan := math.NaN()
	segs := Split([]Point{{0, nan}, {1, 1}, {2, 2}, {3, nan}, {4, 4}, {5, nan}})
	require.Len(t, segs, 2)
	assert.Equal(t, []Point{{1, 1}, {2, 2}}, segs[0])
	assert.Equal(t, []Point{{4, 4}}, segs[1])

	assert.Empty(t, Split(nil))
}

func TestRender(t *testing.T) {
	pts, err := SampleBatch(poly.MustNew(1, 0, -4), -5, 5, 200)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"graph.png", "graph.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Render(pts, path, Options{Title: "x^2 - 4"}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestEncode(t *testing.T) {
	pts, err := SampleBatch(poly.MustNew(1, -1), 0, 2, 10)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, pts, "svg", Options{}))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, Encode(&buf, pts, "bmp-nope", Options{}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "png", Format("out/Graph.PNG"))
	assert.Equal(t, "", Format("graph"))
}
