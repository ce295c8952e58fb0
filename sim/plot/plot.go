// Package plot renders the pass/no-pass scatter of a run.
// Sinks receive (x, y, category) triples after all statistics are computed.
package plot

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Point is one scatter marker.
type Point struct {
	X        float64 // initial distance behind, km
	Y        float64 // speed, km/h
	Category string  // "yes" or "no"
}

// Sink consumes scatter points.
type Sink interface {
	Render(points []Point) error
}

const (
	Title  = "Cars That Passed vs Not Pass"
	XLabel = "Initial distance behind (km)"
	YLabel = "Car velocity (km/h)"
)

// palette colors categories in first-seen order.
var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

// PNGSink saves the scatter to an image file. The format follows the file
// extension (png, svg, pdf, ...).
type PNGSink struct {
	Path          string
	Width, Height vg.Length
}

// NewPNGSink creates a PNGSink with the default 8x4 inch canvas.
func NewPNGSink(path string) *PNGSink {
	return &PNGSink{Path: path, Width: 8 * vg.Inch, Height: 4 * vg.Inch}
}

// legendMargin is the strip right of the axes that holds the legend.
const legendMargin = 0.75 * vg.Inch

// Render draws one scatter series per category. The legend sits outside the
// axes at the upper right.
func (s *PNGSink) Render(points []Point) error {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = false

	groups, order := groupByCategory(points)
	for i, category := range order {
		scatter, err := plotter.NewScatter(groups[category])
		if err != nil {
			return fmt.Errorf("building %q series: %w", category, err)
		}
		scatter.GlyphStyle.Color = palette[i%len(palette)]
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		legend.Add(category, scatter)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(s.Path)), ".")
	c, err := draw.NewFormattedCanvas(s.Width, s.Height, format)
	if err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	dc := draw.New(c)
	p.Draw(draw.Crop(dc, 0, -legendMargin, 0, 0))
	legend.Draw(dc)

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("saving plot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	logrus.Infof("Plot written to: %s", s.Path)
	return nil
}

// groupByCategory splits points into per-category XYs.
// Categories are returned sorted so colors are stable between runs.
func groupByCategory(points []Point) (map[string]plotter.XYs, []string) {
	groups := make(map[string]plotter.XYs)
	for _, pt := range points {
		groups[pt.Category] = append(groups[pt.Category], plotter.XY{X: pt.X, Y: pt.Y})
	}
	order := make([]string, 0, len(groups))
	for k := range groups {
		order = append(order, k)
	}
	sort.Strings(order)
	return groups, order
}

// CSVSink dumps points as "x,y,category" rows with a header.
type CSVSink struct {
	W io.Writer
}

func (s *CSVSink) Render(points []Point) error {
	w := csv.NewWriter(s.W)
	if err := w.Write([]string{"x", "y", "category"}); err != nil {
		return err
	}
	for _, pt := range points {
		record := []string{
			strconv.FormatFloat(pt.X, 'f', -1, 64),
			strconv.FormatFloat(pt.Y, 'f', -1, 64),
			pt.Category,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
