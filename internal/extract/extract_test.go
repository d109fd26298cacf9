package extract

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"

	"github.com/KaramelBytes/fitsloom-cli/internal/fits/fitstest"
)

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "nope.fits")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractUniformImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uniform.fits")
	pixels := fitstest.UniformImage(100*100, 3.5)
	fitstest.WriteImageFile(t, path, -32, []int{100, 100}, &pixels)

	summaries, err := Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Index != 0 {
		t.Fatalf("index = %d", s.Index)
	}
	if len(s.Shape) != 2 || s.Shape[0] != 100 || s.Shape[1] != 100 {
		t.Fatalf("shape = %v, want [100 100]", s.Shape)
	}
	if !s.HasNumericData {
		t.Fatal("expected numeric data")
	}
	if s.NaNFraction != 0 {
		t.Fatalf("nan fraction = %g, want 0", s.NaNFraction)
	}
	if !s.IsUniform {
		t.Fatal("expected uniform")
	}
	if s.MinValue == nil || s.MaxValue == nil {
		t.Fatal("expected min/max")
	}
	if *s.MinValue != 3.5 || *s.MaxValue != 3.5 {
		t.Fatalf("min/max = %g/%g, want 3.5/3.5", *s.MinValue, *s.MaxValue)
	}
}

func TestExtractAllNaNImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.fits")
	nan := float32(math.NaN())
	pixels := fitstest.UniformImage(16, 0)
	for i := range pixels {
		pixels[i] = nan
	}
	fitstest.WriteImageFile(t, path, -32, []int{4, 4}, &pixels)

	summaries, err := Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	s := summaries[0]
	if !s.HasNumericData {
		t.Fatal("expected numeric data flag")
	}
	if s.NaNFraction != 1 {
		t.Fatalf("nan fraction = %g, want 1", s.NaNFraction)
	}
	// Zero finite samples count as uniform with no min/max.
	if !s.IsUniform {
		t.Fatal("expected uniform by convention")
	}
	if s.MinValue != nil || s.MaxValue != nil {
		t.Fatal("expected nil min/max")
	}
}

func TestExtractHeaderCleaningAndUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdr.fits")
	pixels := fitstest.UniformImage(4, 1)
	fitstest.WriteImageFile(t, path, -32, []int{2, 2}, &pixels,
		fitsio.Card{Name: "BUNIT", Value: "Jy"},
		fitsio.Card{Name: "EXPTIME", Value: 30.0},
	)

	summaries, err := Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	s := summaries[0]
	if v, ok := s.Header["BUNIT"]; !ok || v.AsString() != "Jy" {
		t.Fatalf("BUNIT header = %+v", v)
	}
	if v, ok := s.Header["EXPTIME"]; !ok || v.Kind != Float || v.Float != 30 {
		t.Fatalf("EXPTIME header = %+v", v)
	}
	if _, ok := s.Header["COMMENT"]; ok {
		t.Fatal("COMMENT should be dropped")
	}
	if s.Units["BUNIT"] != "Jy" {
		t.Fatalf("units = %v, want BUNIT=Jy", s.Units)
	}
}

func TestExtractTableHasNoImageStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tbl.fits")
	type row struct {
		X float64 `fits:"X"`
	}
	fitstest.WriteTableFile(t, path, "data", []fitsio.Column{
		{Name: "X", Format: "D", Unit: "s"},
	}, []any{&row{X: 1}, &row{X: 2}})

	summaries, err := Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	tblSummary := summaries[1]
	if tblSummary.HasNumericData {
		t.Fatal("table unit should carry no image stats")
	}
	if tblSummary.Units["TUNIT1"] != "s" {
		t.Fatalf("units = %v, want TUNIT1=s", tblSummary.Units)
	}
}

func TestValueCoerceIsTotal(t *testing.T) {
	cases := []struct {
		in   any
		kind ValueKind
	}{
		{"abc", String},
		{42, Int},
		{int16(7), Int},
		{uint32(9), Int},
		{3.25, Float},
		{float32(1.5), Float},
		{true, Bool},
		{[]int{1, 2}, Opaque},
		{struct{ A int }{1}, Opaque},
	}
	for _, c := range cases {
		v := Coerce(c.in)
		if v.Kind != c.kind {
			t.Errorf("Coerce(%v).Kind = %v, want %v", c.in, v.Kind, c.kind)
		}
		if v.Kind == Opaque && v.Str == "" {
			t.Errorf("Coerce(%v) opaque form is empty", c.in)
		}
	}
}

func TestShapeFromHeaderOnly(t *testing.T) {
	// 1-D image: shape comes from NAXIS cards, no stats attached.
	path := filepath.Join(t.TempDir(), "vec.fits")
	pixels := fitstest.GradientImage(50)
	fitstest.WriteImageFile(t, path, -32, []int{50}, &pixels)

	summaries, err := Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	s := summaries[0]
	if len(s.Shape) != 1 || s.Shape[0] != 50 {
		t.Fatalf("shape = %v, want [50]", s.Shape)
	}
	if s.HasNumericData {
		t.Fatal("1-D unit should not attach image stats")
	}
}
