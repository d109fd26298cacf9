// Package classify assigns each summarized unit a semantic category using
// header and column-name heuristics. Image-like units are classified from the
// summary alone; table-like units trigger a lightweight header re-read for
// column names. No per-unit failure ever escapes: a unit that cannot be
// classified comes back as unknown with empty fields.
package classify

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/fitsloom-cli/internal/extract"
	"github.com/KaramelBytes/fitsloom-cli/internal/fits"
)

// Classification is the semantic category of one unit.
type Classification string

const (
	Image       Classification = "image"
	ErrorMap    Classification = "error_map"
	LowContrast Classification = "low_contrast_image"
	Spectrum    Classification = "spectrum"
	LightCurve  Classification = "light_curve"
	Table       Classification = "table"
	Unknown     Classification = "unknown"
)

// Plottable reports whether the category is eligible for preview rendering.
func (c Classification) Plottable() bool {
	switch c {
	case Image, ErrorMap, LowContrast, Spectrum, LightCurve, Table:
		return true
	default:
		return false
	}
}

// Analysis layers classification results over an unchanged unit summary.
type Analysis struct {
	extract.Summary
	Classification Classification
	ColumnNames    []string
	AxisMeaning    map[string]string
}

// Classify analyzes all summaries in order. Per-unit failures degrade that
// unit to unknown; the returned error is reserved for structural problems
// and is nil whenever summaries could be walked at all.
func Classify(path string, summaries []extract.Summary) ([]Analysis, error) {
	out := make([]Analysis, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, classifyUnit(path, s))
	}
	return out, nil
}

func classifyUnit(path string, s extract.Summary) (a Analysis) {
	a = Analysis{
		Summary:        s,
		Classification: Unknown,
		AxisMeaning:    axisMeaning(s.Header),
	}
	// Fault isolation: a panic while classifying one unit leaves it unknown.
	defer func() {
		if recover() != nil {
			a = Analysis{Summary: s, Classification: Unknown, AxisMeaning: map[string]string{}}
		}
	}()

	switch s.Kind {
	case fits.KindImage:
		a.Classification = classifyImage(s)
	case fits.KindTable:
		cols, units, err := readTableHeader(path, s.Index)
		if err != nil {
			// A table whose header cannot be re-read is not a table we can
			// say anything about.
			a.Classification = Unknown
			break
		}
		a.ColumnNames = cols
		if len(units) > 0 {
			a.Units = units
		}
		a.Classification = classifyTable(a.ColumnNames)
	default:
		a.Classification = Unknown
	}
	return a
}

func classifyImage(s extract.Summary) Classification {
	switch ndim := len(s.Shape); {
	case ndim >= 2:
		if headerSuggestsErrorMap(s.Header) {
			return ErrorMap
		}
		if floatingSamples(s.Header) && s.IsUniform {
			return LowContrast
		}
		return Image
	case ndim == 1:
		return Image
	default:
		return Unknown
	}
}

// classifyTable applies the column-name vocabulary. An empty table is still a
// table, not unknown.
func classifyTable(cols []string) Classification {
	if len(cols) == 0 {
		return Table
	}
	flux := hasRole(cols, RoleFlux)
	if flux && hasRole(cols, RoleTime) {
		return LightCurve
	}
	if flux && hasRole(cols, RoleWavelength) {
		return Spectrum
	}
	return Table
}

// headerSuggestsErrorMap checks the first declared type/class/name field for
// an explicit error or uncertainty marker.
func headerSuggestsErrorMap(header map[string]extract.Value) bool {
	var marker string
	for _, key := range []string{"DATATYPE", "HDUCLAS1", "EXTNAME"} {
		if v, ok := header[key]; ok {
			if s := strings.TrimSpace(v.AsString()); s != "" {
				marker = s
				break
			}
		}
	}
	m := strings.ToLower(marker)
	return strings.Contains(m, "error") || strings.Contains(m, "uncertainty")
}

// floatingSamples reports whether the declared pixel format is floating point.
func floatingSamples(header map[string]extract.Value) bool {
	v, ok := header["BITPIX"]
	if !ok {
		return false
	}
	bitpix, ok := v.AsInt()
	return ok && bitpix < 0
}

// axisMeaning copies every string-valued axis-type descriptor verbatim.
func axisMeaning(header map[string]extract.Value) map[string]string {
	out := map[string]string{}
	for k, v := range header {
		if strings.HasPrefix(k, "CTYPE") && (v.Kind == extract.String) {
			out[k] = strings.TrimSpace(v.Str)
		}
	}
	return out
}

// maxTableColumns caps the ordinal column-name walk.
const maxTableColumns = 999

// readTableHeader re-opens the file and reads column names (TTYPEn, stopping
// at the first missing index) and per-column unit labels for one table unit.
func readTableHeader(path string, index int) (names []string, units map[string]string, err error) {
	f, err := fits.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var target fits.Unit
	for _, u := range f.Units() {
		if u.Index() == index {
			target = u
			break
		}
	}
	if target == nil {
		return nil, nil, fmt.Errorf("unit %d not found", index)
	}

	byName := map[string]extract.Value{}
	for _, c := range target.Cards() {
		byName[strings.TrimSpace(c.Name)] = extract.Coerce(c.Value)
	}
	for i := 1; i <= maxTableColumns; i++ {
		v, ok := byName[fmt.Sprintf("TTYPE%d", i)]
		if !ok {
			break
		}
		names = append(names, strings.TrimSpace(v.AsString()))
	}

	units = map[string]string{}
	for i, name := range names {
		if name == "" {
			continue
		}
		if v, ok := byName[fmt.Sprintf("TUNIT%d", i+1)]; ok {
			if label := strings.TrimSpace(v.AsString()); label != "" {
				units[name] = label
			}
		}
	}
	if v, ok := byName["BUNIT"]; ok {
		if label := strings.TrimSpace(v.AsString()); label != "" {
			units["BUNIT"] = label
		}
	}
	return names, units, nil
}
