package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"

	"github.com/KaramelBytes/fitsloom-cli/internal/classify"
	"github.com/KaramelBytes/fitsloom-cli/internal/extract"
	"github.com/KaramelBytes/fitsloom-cli/internal/fits/fitstest"
)

func analyze(t *testing.T, path string) []classify.Analysis {
	t.Helper()
	summaries, err := extract.Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	analyses, err := classify.Classify(path, summaries)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return analyses
}

func assertPNG(t *testing.T, outDir, url string) {
	t.Helper()
	if !strings.HasPrefix(url, URLPrefix+"/") {
		t.Fatalf("url = %q, want %s/ prefix", url, URLPrefix)
	}
	base := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(outDir, base))
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("preview is not a PNG (%d bytes)", len(data))
	}
}

func TestRenderImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.fits")
	pixels := fitstest.GradientImage(100)
	fitstest.WriteImageFile(t, path, -32, []int{10, 10}, &pixels)

	a := analyze(t, path)[0]
	outDir := filepath.Join(dir, "previews")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	url, ok := Render(path, a, outDir, "testid01")
	if !ok {
		t.Fatal("render failed")
	}
	if want := "fits_testid01_hdu_0.png"; filepath.Base(url) != want {
		t.Fatalf("url base = %q, want %q", filepath.Base(url), want)
	}
	assertPNG(t, outDir, url)
}

func TestRenderUniformImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.fits")
	pixels := fitstest.UniformImage(100, 3.5)
	fitstest.WriteImageFile(t, path, -32, []int{10, 10}, &pixels)

	a := analyze(t, path)[0]
	if a.Classification != classify.LowContrast {
		t.Fatalf("classification = %s", a.Classification)
	}
	outDir := t.TempDir()
	url, ok := Render(path, a, outDir, "flatid02")
	if !ok {
		t.Fatal("uniform image must still render")
	}
	assertPNG(t, outDir, url)
}

type lcRow struct {
	MJD  float64 `fits:"MJD"`
	Flux float64 `fits:"FLUX"`
}

func TestRenderLightCurve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lc.fits")
	rows := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, &lcRow{MJD: float64(i), Flux: float64(i % 5)})
	}
	fitstest.WriteTableFile(t, path, "events", []fitsio.Column{
		{Name: "MJD", Format: "D"},
		{Name: "FLUX", Format: "D"},
	}, rows)

	a := analyze(t, path)[1]
	if a.Classification != classify.LightCurve {
		t.Fatalf("classification = %s", a.Classification)
	}
	outDir := t.TempDir()
	url, ok := Render(path, a, outDir, "lcid0003")
	if !ok {
		t.Fatal("light curve render failed")
	}
	if want := "fits_lcid0003_hdu_1.png"; filepath.Base(url) != want {
		t.Fatalf("url base = %q, want %q", filepath.Base(url), want)
	}
	assertPNG(t, outDir, url)
}

type mixedRow struct {
	ID   string  `fits:"ID"`
	Val  float64 `fits:"VAL"`
	Note string  `fits:"NOTE"`
}

func TestRenderTableScatterIndexFallback(t *testing.T) {
	// One numeric column: the second axis degrades to the row index.
	dir := t.TempDir()
	path := filepath.Join(dir, "tbl.fits")
	rows := make([]any, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, &mixedRow{ID: "x", Val: float64(i), Note: "n"})
	}
	fitstest.WriteTableFile(t, path, "mixed", []fitsio.Column{
		{Name: "ID", Format: "8A"},
		{Name: "VAL", Format: "D"},
		{Name: "NOTE", Format: "8A"},
	}, rows)

	a := analyze(t, path)[1]
	if a.Classification != classify.Table {
		t.Fatalf("classification = %s", a.Classification)
	}
	outDir := t.TempDir()
	url, ok := Render(path, a, outDir, "tblid004")
	if !ok {
		t.Fatal("table scatter render failed")
	}
	assertPNG(t, outDir, url)
}

type strOnlyRow struct {
	ID   string `fits:"ID"`
	Note string `fits:"NOTES"`
}

func TestRenderTableScatterAllStrings(t *testing.T) {
	// No numeric columns: both axes degrade to the row index.
	dir := t.TempDir()
	path := filepath.Join(dir, "str.fits")
	fitstest.WriteTableFile(t, path, "labels", []fitsio.Column{
		{Name: "ID", Format: "8A"},
		{Name: "NOTES", Format: "16A"},
	}, []any{&strOnlyRow{ID: "a", Note: "x"}, &strOnlyRow{ID: "b", Note: "y"}})

	a := analyze(t, path)[1]
	outDir := t.TempDir()
	url, ok := Render(path, a, outDir, "strid005")
	if !ok {
		t.Fatal("string-only table must still render via the row index")
	}
	assertPNG(t, outDir, url)
}

func TestRenderEmptyPrimaryFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.fits")
	fitstest.WriteEmptyFile(t, path)

	a := analyze(t, path)[0]
	if _, ok := Render(path, a, t.TempDir(), "empid006"); ok {
		t.Fatal("data-less unit must not render")
	}
}

func TestRenderMissingUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.fits")
	pixels := fitstest.GradientImage(16)
	fitstest.WriteImageFile(t, path, -32, []int{4, 4}, &pixels)

	a := analyze(t, path)[0]
	a.Index = 7
	if _, ok := Render(path, a, t.TempDir(), "oob_id07"); ok {
		t.Fatal("out-of-range unit must not render")
	}
}

func TestPickColumnTakesLastMatch(t *testing.T) {
	cols := []string{"FLUX", "MJD", "SAP_FLUX"}
	if got := pickColumn(cols, RoleFlux); got != "SAP_FLUX" {
		t.Fatalf("pickColumn = %q, want SAP_FLUX", got)
	}
	if got := pickColumn(cols, RoleWavelength); got != "" {
		t.Fatalf("pickColumn = %q, want empty", got)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"A", "B", "A"})
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("dedupe = %v", got)
	}
}
