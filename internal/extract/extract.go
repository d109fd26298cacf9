// Package extract walks all units of a FITS file and produces per-unit
// structural summaries: cleaned header, declared shape, unit labels, and
// quick statistics for numeric image units. Only the statistics step reads
// sample data, one unit at a time; everything else is header-derived.
package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/fitsloom-cli/internal/fits"
)

// Summary is the structural description of one data unit.
type Summary struct {
	Index   int
	Kind    fits.UnitKind
	KindTag string
	Header  map[string]Value
	Shape   []int
	Units   map[string]string

	// Image statistics, attached only for >=2-D numeric units.
	HasNumericData bool
	MinValue       *float64
	MaxValue       *float64
	NaNFraction    float64
	IsUniform      bool
}

// Extract opens the file and summarizes every unit. It returns an error only
// when the file itself cannot be opened or decoded; a failure while
// processing a single unit skips that unit and continues.
func Extract(path string) ([]Summary, error) {
	f, err := fits.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}
	defer f.Close()

	var summaries []Summary
	for _, u := range f.Units() {
		if s, ok := summarize(u); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}

// summarize builds one unit summary. A decoder panic on a corrupt unit is
// contained here so the remaining units still get summarized.
func summarize(u fits.Unit) (s Summary, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	cards := u.Cards()
	s = Summary{
		Index:   u.Index(),
		Kind:    u.Kind(),
		KindTag: u.KindTag(),
		Header:  cleanHeader(cards),
		Shape:   shapeFromHeader(cards),
		Units:   unitLabels(cards),
	}
	attachStats(&s, u)
	return s, true
}

// cleanHeader drops comment-style and blank keys and coerces every remaining
// value to a native scalar. Coercion is total, so cleaning never fails.
func cleanHeader(cards []fits.Card) map[string]Value {
	out := make(map[string]Value, len(cards))
	for _, c := range cards {
		key := strings.TrimSpace(c.Name)
		if key == "" || key == "COMMENT" || key == "HISTORY" || key == "END" {
			continue
		}
		if c.Value == nil {
			continue
		}
		out[key] = Coerce(c.Value)
	}
	return out
}

// shapeFromHeader reads the declared axis lengths from NAXIS/NAXISn only.
// Data is never loaded to discover shape.
func shapeFromHeader(cards []fits.Card) []int {
	byName := make(map[string]Value, len(cards))
	for _, c := range cards {
		byName[c.Name] = Coerce(c.Value)
	}
	naxis, ok := byName["NAXIS"].AsInt()
	if !ok || naxis <= 0 {
		return nil
	}
	shape := make([]int, 0, naxis)
	for i := int64(1); i <= naxis; i++ {
		n, ok := byName[fmt.Sprintf("NAXIS%d", i)].AsInt()
		if !ok {
			n = 0
		}
		shape = append(shape, int(n))
	}
	return shape
}

// unitLabels collects BUNIT plus every TUNITn/CUNITn label.
func unitLabels(cards []fits.Card) map[string]string {
	units := make(map[string]string)
	for _, c := range cards {
		name := strings.TrimSpace(c.Name)
		if name == "BUNIT" || isIndexedKey(name, "TUNIT") || isIndexedKey(name, "CUNIT") {
			if label := strings.TrimSpace(Coerce(c.Value).AsString()); label != "" {
				units[name] = label
			}
		}
	}
	return units
}

// isIndexedKey reports whether name is prefix followed by a column index.
func isIndexedKey(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	for _, r := range name[len(prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// attachStats computes full-array statistics for >=2-D numeric image units.
// This is the one place extraction reads sample data. A read failure leaves
// the summary without statistics instead of failing the unit.
func attachStats(s *Summary, u fits.Unit) {
	if u.Kind() != fits.KindImage || len(s.Shape) < 2 {
		return
	}
	samples, _, err := u.ReadImage()
	if err != nil || len(samples) == 0 {
		return
	}
	s.HasNumericData = true

	finite := 0
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite++
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	s.NaNFraction = 1 - float64(finite)/float64(len(samples))
	if finite == 0 {
		// Zero finite samples count as uniform by convention; the renderer's
		// range fallback depends on this.
		s.IsUniform = true
		return
	}
	s.MinValue = &min
	s.MaxValue = &max
	s.IsUniform = min == max
}
