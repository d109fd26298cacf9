// Package analysis computes deterministic statistics over FITS binary-table
// columns: per-column summaries, robust outlier counts, Pearson/Spearman
// correlations with p-values, and simple linear regressions for strongly
// correlated pairs.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/fitsloom-cli/internal/fits"
)

// Options controls analysis behavior for FITS tables.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// Outliers counts robust |z| exceedances (MAD-based).
	Outliers         bool
	OutlierThreshold float64
	// Correlations computes Pearson and Spearman pairs among numeric columns.
	Correlations bool
	// Regressions fits target = slope*feature + intercept for pairs with
	// |pearson r| >= regressionMinR.
	Regressions bool
}

// DefaultOptions returns reasonable defaults for table analysis.
func DefaultOptions() Options {
	return Options{
		MaxRows:          100000,
		Outliers:         true,
		OutlierThreshold: 3.5,
		Correlations:     true,
		Regressions:      true,
	}
}

const (
	// minCorrSamples is the smallest paired-sample count worth correlating.
	minCorrSamples = 5
	// minRegressionSamples gates regression fits.
	minRegressionSamples = 10
	// regressionMinR is the correlation strength required before fitting.
	regressionMinR = 0.4
	// maxCorrPairs caps the reported correlation list.
	maxCorrPairs = 20
)

// Report is the analysis of one table unit.
type Report struct {
	Name        string
	HDUIndex    int
	Rows        int
	Processed   int
	Cols        []ColumnSummary
	Corr        []CorrPair
	Regressions []Regression
	Warnings    []string
}

// ColumnSummary captures statistics for one numeric column.
type ColumnSummary struct {
	Name   string
	Unit   string
	Format string

	Count   int
	Missing int

	Min  float64
	Max  float64
	Mean float64
	Std  float64

	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
}

// CorrPair is one correlation result between two columns.
type CorrPair struct {
	X, Y        string
	PearsonR    float64
	PearsonP    float64
	SpearmanR   float64
	SpearmanP   float64
	N           int
	Significant bool
}

// Regression is a simple least-squares fit between two columns.
type Regression struct {
	Target      string
	Feature     string
	Slope       float64
	Intercept   float64
	R2          float64
	ResidualStd float64
	N           int
}

// AnalyzeTable reads the numeric columns of one table unit and computes the
// report. hduIndex < 0 selects the first table unit in the file.
func AnalyzeTable(path string, hduIndex int, opt Options) (*Report, error) {
	f, err := fits.Open(path)
	if err != nil {
		return nil, fmt.Errorf("analyze table: %w", err)
	}
	defer f.Close()

	var target fits.Unit
	for _, u := range f.Units() {
		if hduIndex >= 0 {
			if u.Index() == hduIndex {
				target = u
				break
			}
			continue
		}
		if u.Kind() == fits.KindTable {
			target = u
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no table HDU found (index %d)", hduIndex)
	}
	infos, err := target.Columns()
	if err != nil {
		return nil, fmt.Errorf("HDU %d is not a table: %w", target.Index(), err)
	}

	rep := &Report{HDUIndex: target.Index(), Rows: int(target.NumRows())}

	// Read numeric-format columns one at a time so a single unreadable
	// column degrades to a warning instead of failing the report.
	series := map[string][]float64{}
	var order []string
	for _, c := range infos {
		if !numericFormat(c.Format) {
			continue
		}
		data, err := target.ReadColumns([]string{c.Name})
		if err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s: %v", c.Name, err))
			continue
		}
		values := data[c.Name]
		if opt.MaxRows > 0 && len(values) > opt.MaxRows {
			values = values[:opt.MaxRows]
		}
		series[c.Name] = values
		order = append(order, c.Name)
		rep.Cols = append(rep.Cols, summarizeColumn(c, values, opt))
		if len(values) > rep.Processed {
			rep.Processed = len(values)
		}
	}

	if opt.Correlations {
		rep.Corr = correlations(order, series)
	}
	if opt.Regressions {
		rep.Regressions = regressions(order, series)
	}
	return rep, nil
}

func numericFormat(format string) bool {
	for _, r := range format {
		switch r {
		case 'E', 'D', 'I', 'J', 'K':
			return true
		}
	}
	return false
}

func summarizeColumn(info fits.ColumnInfo, values []float64, opt Options) ColumnSummary {
	c := ColumnSummary{Name: info.Name, Unit: info.Unit, Format: info.Format}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	c.Count = len(finite)
	c.Missing = len(values) - len(finite)
	if len(finite) == 0 {
		return c
	}
	c.Min = finite[0]
	c.Max = finite[0]
	for _, v := range finite {
		if v < c.Min {
			c.Min = v
		}
		if v > c.Max {
			c.Max = v
		}
	}
	c.Mean, c.Std = stat.MeanStdDev(finite, nil)
	if opt.Outliers {
		c.OutlierThreshold = opt.OutlierThreshold
		c.OutliersCount, c.OutliersMaxAbsZ = robustOutliers(finite, opt.OutlierThreshold)
	}
	return c
}

// robustOutliers counts values whose MAD-based robust z-score exceeds the
// threshold. A zero MAD (constant column) yields no outliers.
func robustOutliers(values []float64, threshold float64) (count int, maxAbsZ float64) {
	med := median(values)
	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = math.Abs(v - med)
	}
	mad := median(dev)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range values {
		z := 0.6745 * (v - med) / mad
		if az := math.Abs(z); az > maxAbsZ {
			maxAbsZ = az
		}
		if math.Abs(z) > threshold {
			count++
		}
	}
	return count, maxAbsZ
}

func median(values []float64) float64 {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	n := len(s)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// correlations computes Pearson and Spearman coefficients with two-sided
// p-values for every numeric column pair, keeps pairs that are strong
// (|r| > 0.3) or significant (p < 0.05), and reports the strongest first.
func correlations(order []string, series map[string][]float64) []CorrPair {
	var pairs []CorrPair
	for i, a := range order {
		for _, b := range order[i+1:] {
			x, y := pairedFinite(series[a], series[b])
			n := len(x)
			if n < minCorrSamples {
				continue
			}
			pr := stat.Correlation(x, y, nil)
			pp := corrPValue(pr, n)
			sr := stat.Correlation(ranks(x), ranks(y), nil)
			sp := corrPValue(sr, n)
			if math.Abs(pr) <= 0.3 && pp >= 0.05 {
				continue
			}
			pairs = append(pairs, CorrPair{
				X: a, Y: b,
				PearsonR: pr, PearsonP: pp,
				SpearmanR: sr, SpearmanP: sp,
				N:           n,
				Significant: pp < 0.05,
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].PearsonR) > math.Abs(pairs[j].PearsonR)
	})
	if len(pairs) > maxCorrPairs {
		pairs = pairs[:maxCorrPairs]
	}
	return pairs
}

// corrPValue is the two-sided p-value of a correlation coefficient under the
// t-distribution with n-2 degrees of freedom.
func corrPValue(r float64, n int) float64 {
	if n <= 2 || math.Abs(r) >= 1 {
		return 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * (1 - dist.CDF(t))
}

// regressions fits target = intercept + slope*feature for strongly
// correlated ordered pairs.
func regressions(order []string, series map[string][]float64) []Regression {
	var fits []Regression
	for _, target := range order {
		for _, feature := range order {
			if target == feature {
				continue
			}
			x, y := pairedFinite(series[feature], series[target])
			n := len(x)
			if n < minRegressionSamples {
				continue
			}
			if r := stat.Correlation(x, y, nil); math.Abs(r) < regressionMinR {
				continue
			}
			alpha, beta := stat.LinearRegression(x, y, nil, false)
			r2 := stat.RSquared(x, y, nil, alpha, beta)
			residuals := make([]float64, n)
			for i := range x {
				residuals[i] = y[i] - (alpha + beta*x[i])
			}
			_, std := stat.MeanStdDev(residuals, nil)
			fits = append(fits, Regression{
				Target: target, Feature: feature,
				Slope: beta, Intercept: alpha,
				R2: r2, ResidualStd: std, N: n,
			})
		}
	}
	return fits
}

// pairedFinite keeps index-aligned samples where both values are finite.
func pairedFinite(a, b []float64) (x, y []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsInf(a[i], 0) || math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

// ranks assigns average ranks to values, for Spearman correlation.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })
	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
