package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a compact text summary.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("HDU: %d\n", r.HDUIndex))
	if r.Rows > 0 {
		if r.Processed > 0 && r.Processed < r.Rows {
			b.WriteString(fmt.Sprintf("Rows: %d (processed %d)\n", r.Rows, r.Processed))
		} else {
			b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
		}
	}
	b.WriteString(fmt.Sprintf("Numeric columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := c.Name
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		total := c.Count + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Format, c.Count, missPct))
		if c.Count > 0 {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(r.Corr) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr {
			marker := ""
			if p.Significant {
				marker = " *"
			}
			b.WriteString(fmt.Sprintf("- %s vs %s: pearson r=%.4f (p=%.4g), spearman r=%.4f (p=%.4g), n=%d%s\n",
				p.X, p.Y, p.PearsonR, p.PearsonP, p.SpearmanR, p.SpearmanP, p.N, marker))
		}
	}

	if len(r.Regressions) > 0 {
		b.WriteString("\n[REGRESSIONS]\n")
		for _, g := range r.Regressions {
			b.WriteString(fmt.Sprintf("- %s ~ %s: slope %.4g, intercept %.4g, R²=%.4f, residual std %.4g (n=%d)\n",
				g.Target, g.Feature, g.Slope, g.Intercept, g.R2, g.ResidualStd, g.N))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return b.String()
}
