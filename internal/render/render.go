// Package render turns classified units into preview PNGs. Every entry point
// fails soft: a unit that cannot be rendered yields no preview, never an
// error that could abort the other units.
package render

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/fitsloom-cli/internal/classify"
	"github.com/KaramelBytes/fitsloom-cli/internal/fits"
)

// URLPrefix is the path previews are served under, relative to the caller's
// output directory.
const URLPrefix = "/previews"

// Render produces one preview image for the unit and returns its relative
// URL. ok is false when the unit has nothing renderable or rendering failed;
// no failure propagates past this boundary.
func Render(fitsPath string, a classify.Analysis, outDir, fileID string) (url string, ok bool) {
	defer func() {
		if recover() != nil {
			url, ok = "", false
		}
	}()

	base := fmt.Sprintf("fits_%s_hdu_%d.png", fileID, a.Index)
	outPath := filepath.Join(outDir, base)

	var err error
	switch a.Classification {
	case classify.Image, classify.ErrorMap, classify.LowContrast:
		err = renderImageUnit(fitsPath, a.Index, outPath)
	case classify.LightCurve:
		err = renderSeriesUnit(fitsPath, a, RoleTime, outPath)
	case classify.Spectrum:
		err = renderSeriesUnit(fitsPath, a, RoleWavelength, outPath)
	case classify.Table:
		err = renderTableScatter(fitsPath, a, outPath)
	default:
		// unknown units still get an image attempt; primary HDUs often
		// carry plottable data the classifier could not name.
		err = renderImageUnit(fitsPath, a.Index, outPath)
	}
	if err != nil {
		return "", false
	}
	return path.Join(URLPrefix, base), true
}

// Role aliases so callers outside classify read naturally here.
const (
	RoleTime       = classify.RoleTime
	RoleFlux       = classify.RoleFlux
	RoleWavelength = classify.RoleWavelength
)

// openUnit opens the file and locates the unit by ordinal index. The caller
// must close the returned file.
func openUnit(fitsPath string, index int) (fits.File, fits.Unit, error) {
	f, err := fits.Open(fitsPath)
	if err != nil {
		return nil, nil, err
	}
	for _, u := range f.Units() {
		if u.Index() == index {
			return f, u, nil
		}
	}
	_ = f.Close()
	return nil, nil, fmt.Errorf("unit %d out of range", index)
}

// renderImageUnit rasterizes a strictly 2-D sample array with the tiered
// display range. Non-2-D units fail closed.
func renderImageUnit(fitsPath string, index int, outPath string) error {
	f, u, err := openUnit(fitsPath, index)
	if err != nil {
		return err
	}
	defer f.Close()

	samples, axes, err := u.ReadImage()
	if err != nil {
		return err
	}
	if len(axes) != 2 {
		return fmt.Errorf("expected 2-D image, got %d axes", len(axes))
	}
	width, height := axes[0], axes[1]

	lo, hi := DisplayRange(samples)
	stretch := StretchAsinh
	if degenerateData(samples) {
		// Uniform or empty data: the resolved range is synthetic, so a
		// compressive stretch would only amplify noise in the padding.
		stretch = StretchLinear
	}
	return renderRaster(samples, width, height, lo, hi, stretch, outPath)
}

// degenerateData reports whether the finite samples span no range at all.
func degenerateData(samples []float64) bool {
	finite := finiteValues(samples)
	if len(finite) == 0 {
		return true
	}
	first := finite[0]
	for _, v := range finite[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// pickColumn returns the last declared column matching the role, mirroring
// the classification vocabulary.
func pickColumn(cols []string, role classify.Role) string {
	picked := ""
	for _, c := range cols {
		if classify.RoleOf(c) == role {
			picked = c
		}
	}
	return picked
}

// renderSeriesUnit draws a line chart for light curves (time vs flux) and
// spectra (wavelength vs flux). Fails closed when either column cannot be
// resolved or read.
func renderSeriesUnit(fitsPath string, a classify.Analysis, xRole classify.Role, outPath string) error {
	cols := a.ColumnNames
	xName := pickColumn(cols, xRole)
	yName := pickColumn(cols, RoleFlux)
	if xName == "" && len(cols) > 0 {
		xName = cols[0]
	}
	if yName == "" && len(cols) > 1 {
		yName = cols[1]
	}
	if xName == "" || yName == "" {
		return fmt.Errorf("no plottable columns for unit %d", a.Index)
	}

	f, u, err := openUnit(fitsPath, a.Index)
	if err != nil {
		return err
	}
	defer f.Close()

	series, err := u.ReadColumns(dedupe([]string{xName, yName}))
	if err != nil {
		return err
	}
	x := series[xName]
	y := series[yName]
	if n := len(x); n > MaxSeriesPoints {
		idx := DownsampleIndices(n, MaxSeriesPoints)
		x = sampleAt(x, idx)
		y = sampleAt(y, idx)
	}
	return renderLine(x, y, xName, yName, outPath)
}

// numericFormats marks the FITS storage format letters treated as numeric.
const numericFormats = "EDIJK"

func isNumericFormat(format string) bool {
	return strings.ContainsAny(format, numericFormats)
}

// renderTableScatter scatter-plots the first two numeric-format columns.
// With one numeric column the row index serves as the dependent axis; with
// none, the first two declared columns are attempted and any column that
// cannot be read numerically degrades to the row index as well.
func renderTableScatter(fitsPath string, a classify.Analysis, outPath string) error {
	f, u, err := openUnit(fitsPath, a.Index)
	if err != nil {
		return err
	}
	defer f.Close()

	infos, err := u.Columns()
	if err != nil {
		return err
	}
	var numeric []string
	for _, c := range infos {
		if isNumericFormat(c.Format) {
			numeric = append(numeric, c.Name)
		}
	}
	declared := a.ColumnNames
	if len(declared) == 0 {
		for _, c := range infos {
			declared = append(declared, c.Name)
		}
	}

	var c1, c2 string
	switch {
	case len(numeric) >= 2:
		c1, c2 = numeric[0], numeric[1]
	case len(numeric) == 1:
		c1 = numeric[0]
	default:
		if len(declared) > 0 {
			c1 = declared[0]
		}
		if len(declared) > 1 {
			c2 = declared[1]
		}
	}
	if c1 == "" {
		return fmt.Errorf("table unit %d has no columns", a.Index)
	}

	n := int(u.NumRows())
	x, xLabel := columnOrIndex(u, c1, n)
	y, yLabel := columnOrIndex(u, c2, n)
	if len(x) == 0 || len(y) == 0 {
		return fmt.Errorf("table unit %d has no rows", a.Index)
	}
	if len(x) > MaxSeriesPoints {
		idx := DownsampleIndices(len(x), MaxSeriesPoints)
		x = sampleAt(x, idx)
		y = sampleAt(y, idx)
	}
	return renderScatter(x, y, xLabel, yLabel, outPath)
}

// columnOrIndex reads a column as floats, degrading to the row index when
// the column is absent or not numerically coercible.
func columnOrIndex(u fits.Unit, name string, n int) ([]float64, string) {
	if name != "" {
		if series, err := u.ReadColumns([]string{name}); err == nil {
			return series[name], name
		}
	}
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx, "index"
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
