// Package fits wraps the FITS container decoder behind a small reader
// interface. The rest of the pipeline never touches the decoder directly:
// it sees ordered header cards, an enumerated unit kind, and on-demand
// sample access. Only extraction statistics and rendering ever ask a unit
// to materialize data.
package fits

import "fmt"

// UnitKind is the decoder-reported kind of a data unit, reduced to the
// three cases the pipeline dispatches on.
type UnitKind int

const (
	KindOther UnitKind = iota
	KindImage
	KindTable
)

func (k UnitKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return "other"
	}
}

// Card is one header key/value pair. Order within a unit header is
// preserved as stored in the file.
type Card struct {
	Name    string
	Value   any
	Comment string
}

// ColumnInfo describes one declared table column.
type ColumnInfo struct {
	Name   string
	Format string
	Unit   string
}

// Unit is one logical data unit (HDU) within an open file.
type Unit interface {
	// Index is the ordinal position within the file, 0-based.
	Index() int
	// Kind reduces the decoder type to image/table/other.
	Kind() UnitKind
	// KindTag is the decoder-reported type name, e.g. "ImageHDU".
	KindTag() string
	// Cards returns the unit header in file order.
	Cards() []Card
	// ReadImage loads the unit's full sample array as float64 together
	// with its axis lengths. Fails for non-image units.
	ReadImage() ([]float64, []int, error)
	// Columns lists declared table columns. Fails for non-table units.
	Columns() ([]ColumnInfo, error)
	// NumRows reports the declared table row count, 0 for non-tables.
	NumRows() int64
	// ReadColumns reads the named columns as float64 sequences.
	ReadColumns(names []string) (map[string][]float64, error)
}

// File is an open FITS container.
type File interface {
	Units() []Unit
	Close() error
}

// ErrNotImage and ErrNotTable mark a data access against the wrong unit kind.
var (
	ErrNotImage = fmt.Errorf("unit holds no image data")
	ErrNotTable = fmt.Errorf("unit holds no table data")
)
