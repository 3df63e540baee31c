package plot

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Options — оформление графика
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 5 * vg.Inch
	}
	return w, h
}

// Build собирает график: кривая по участкам без NaN и пунктирная ось y = 0
func Build(pts []Point, o Options) (*gonumplot.Plot, error) {
	p := gonumplot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Add(plotter.NewGrid())

	for _, seg := range Split(pts) {
		xys := make(plotter.XYs, len(seg))
		for i, pt := range seg {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("plot: curve: %w", err)
		}
		line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	if len(pts) > 1 {
		axis, err := plotter.NewLine(plotter.XYs{{X: pts[0].X, Y: 0}, {X: pts[len(pts)-1].X, Y: 0}})
		if err != nil {
			return nil, fmt.Errorf("plot: axis: %w", err)
		}
		axis.Color = color.Black
		axis.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(axis)
	}
	return p, nil
}

// Render сохраняет график в файл; формат — по расширению (png, svg, pdf, ...)
func Render(pts []Point, path string, o Options) error {
	p, err := Build(pts, o)
	if err != nil {
		return err
	}
	w, h := o.size()
	return p.Save(w, h, path)
}

// Encode пишет график в w в формате format ("png", "svg", ...)
func Encode(w io.Writer, pts []Point, format string, o Options) error {
	p, err := Build(pts, o)
	if err != nil {
		return err
	}
	width, height := o.size()
	wt, err := p.WriterTo(width, height, strings.TrimPrefix(format, "."))
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Format — формат файла по расширению пути
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
