// Package fitstest synthesizes small FITS files for tests.
package fitstest

import (
	"os"
	"testing"

	"github.com/astrogo/fitsio"
)

// WriteImageFile creates a FITS file whose first HDU is an image with the
// given bitpix, axes and pixel data. pixels must be a pointer to a slice of
// the Go type matching bitpix (e.g. *[]float32 for -32), or nil for a
// data-less unit. Extra cards are appended to the header.
func WriteImageFile(t *testing.T, path string, bitpix int, axes []int, pixels any, cards ...fitsio.Card) {
	t.Helper()
	w, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer w.Close()
	f, err := fitsio.Create(w)
	if err != nil {
		t.Fatalf("fitsio create: %v", err)
	}
	defer f.Close()

	img := fitsio.NewImage(bitpix, axes)
	defer img.Close()
	if len(cards) > 0 {
		if err := img.Header().Append(cards...); err != nil {
			t.Fatalf("append cards: %v", err)
		}
	}
	if pixels != nil {
		if err := img.Write(pixels); err != nil {
			t.Fatalf("write pixels: %v", err)
		}
	}
	if err := f.Write(img); err != nil {
		t.Fatalf("write image hdu: %v", err)
	}
}

// WriteEmptyFile creates a FITS file holding only a data-less primary HDU.
func WriteEmptyFile(t *testing.T, path string, cards ...fitsio.Card) {
	t.Helper()
	WriteImageFile(t, path, 8, []int{}, nil, cards...)
}

// WriteTableFile creates a FITS file with a data-less primary HDU followed
// by one binary table. rows holds pointers to structs whose `fits` tags name
// the columns.
func WriteTableFile(t *testing.T, path, name string, cols []fitsio.Column, rows []any, cards ...fitsio.Card) {
	t.Helper()
	w, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer w.Close()
	f, err := fitsio.Create(w)
	if err != nil {
		t.Fatalf("fitsio create: %v", err)
	}
	defer f.Close()

	primary := fitsio.NewImage(8, []int{})
	defer primary.Close()
	if err := f.Write(primary); err != nil {
		t.Fatalf("write primary hdu: %v", err)
	}

	tbl, err := fitsio.NewTable(name, cols, fitsio.BINARY_TBL)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	defer tbl.Close()
	if len(cards) > 0 {
		if err := tbl.Header().Append(cards...); err != nil {
			t.Fatalf("append cards: %v", err)
		}
	}
	for i, row := range rows {
		if err := tbl.Write(row); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}
	if err := f.Write(tbl); err != nil {
		t.Fatalf("write table hdu: %v", err)
	}
}

// UniformImage returns a float32 pixel slice filled with one value.
func UniformImage(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// GradientImage returns a float32 ramp 0..n-1.
func GradientImage(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}
