package render

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plot geometry for all previews.
const (
	rasterWidth  = 6 * vg.Inch
	rasterHeight = 5 * vg.Inch
	chartWidth   = 6 * vg.Inch
	chartHeight  = 4 * vg.Inch
	colorbarH    = 0.9 * vg.Inch
)

// grid adapts a row-major 2-D sample array to the heatmap interface.
type grid struct {
	vals []float64
	cols int
	rows int
}

func (g grid) Dims() (int, int)   { return g.cols, g.rows }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }
func (g grid) Z(c, r int) float64 { return g.vals[r*g.cols+c] }

// grayMap is a linear grayscale color map over [min, max].
type grayMap struct {
	min, max float64
}

func (m *grayMap) At(v float64) (color.Color, error) {
	if m.max <= m.min {
		return nil, fmt.Errorf("grayscale map has degenerate range")
	}
	if v < m.min || v > m.max {
		return nil, fmt.Errorf("value %g out of range [%g, %g]", v, m.min, m.max)
	}
	t := (v - m.min) / (m.max - m.min)
	g := uint8(t*255 + 0.5)
	return color.Gray{Y: g}, nil
}

func (m *grayMap) Min() float64       { return m.min }
func (m *grayMap) SetMin(min float64) { m.min = min }
func (m *grayMap) Max() float64       { return m.max }
func (m *grayMap) SetMax(max float64) { m.max = max }

// Previews are fully opaque; the alpha setter is accepted and ignored.
func (m *grayMap) Alpha() float64   { return 1 }
func (m *grayMap) SetAlpha(float64) {}

func (m *grayMap) Palette(n int) palette.Palette {
	if n < 2 {
		n = 2
	}
	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = color.Gray{Y: uint8(float64(i) / float64(n-1) * 255)}
	}
	return grayPalette(colors)
}

type grayPalette []color.Color

func (p grayPalette) Colors() []color.Color { return p }

// renderRaster draws a 2-D intensity array as a grayscale heatmap with a
// value colorbar beneath it. The stretch is applied to the samples; the
// colorbar keeps the original value range so its ticks stay meaningful.
func renderRaster(vals []float64, width, height int, lo, hi float64, stretch Stretch, outPath string) error {
	if width <= 0 || height <= 0 || len(vals) != width*height {
		return fmt.Errorf("raster dimensions %dx%d do not match %d samples", width, height, len(vals))
	}
	stretched := make([]float64, len(vals))
	for i, v := range vals {
		stretched[i] = applyStretch(v, lo, hi, stretch)
	}

	heat := plotter.NewHeatMap(grid{vals: stretched, cols: width, rows: height}, (&grayMap{min: 0, max: 1}).Palette(256))
	p := plot.New()
	p.Add(heat)
	p.HideAxes()

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: &grayMap{min: lo, max: hi}})
	bar.HideY()
	bar.X.Padding = 0
	bar.X.Label.Text = "Pixel value"

	img := vgimg.New(rasterWidth, rasterHeight)
	dc := draw.New(img)
	heatCanvas := draw.Crop(dc, 0, 0, colorbarH, 0)
	barCanvas := draw.Crop(dc, 0, 0, 0, colorbarH-rasterHeight)
	p.Draw(heatCanvas)
	bar.Draw(barCanvas)

	w, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// renderLine draws a thin connected series, used for light curves and spectra.
func renderLine(x, y []float64, xLabel, yLabel, outPath string) error {
	pts := finitePairs(x, y)
	if len(pts) == 0 {
		return fmt.Errorf("no finite points to plot")
	}
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build line plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(0.5)
	line.LineStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(line)
	if err := p.Save(chartWidth, chartHeight, outPath); err != nil {
		return fmt.Errorf("save line plot: %w", err)
	}
	return nil
}

// renderScatter draws small translucent markers, used for generic tables.
func renderScatter(x, y []float64, xLabel, yLabel, outPath string) error {
	pts := finitePairs(x, y)
	if len(pts) == 0 {
		return fmt.Errorf("no finite points to plot")
	}
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter plot: %w", err)
	}
	sc.GlyphStyle.Radius = vg.Points(1)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = color.RGBA{B: 200, A: 153}
	p.Add(sc)
	if err := p.Save(chartWidth, chartHeight, outPath); err != nil {
		return fmt.Errorf("save scatter plot: %w", err)
	}
	return nil
}

// finitePairs zips the two series and drops pairs with non-finite members.
func finitePairs(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(x[i]) && isFinite(y[i]) {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return pts
}
