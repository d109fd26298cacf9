package fits

import (
	"fmt"
	"math"
	"os"

	"github.com/astrogo/fitsio"
)

// Open opens a FITS file for reading. The returned File owns the underlying
// OS file handle; Close releases both.
func Open(path string) (File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}
	f, err := fitsio.Open(r)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("decode fits: %w", err)
	}
	ff := &file{raw: r, fit: f}
	for i, hdu := range f.HDUs() {
		ff.units = append(ff.units, &unit{index: i, hdu: hdu})
	}
	return ff, nil
}

type file struct {
	raw   *os.File
	fit   *fitsio.File
	units []Unit
}

func (f *file) Units() []Unit { return f.units }

func (f *file) Close() error {
	err := f.fit.Close()
	if cerr := f.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

type unit struct {
	index int
	hdu   fitsio.HDU
}

func (u *unit) Index() int { return u.index }

func (u *unit) Kind() UnitKind {
	switch u.hdu.Type() {
	case fitsio.IMAGE_HDU:
		return KindImage
	case fitsio.BINARY_TBL, fitsio.ASCII_TBL:
		return KindTable
	default:
		return KindOther
	}
}

func (u *unit) KindTag() string {
	switch u.hdu.Type() {
	case fitsio.IMAGE_HDU:
		if u.index == 0 {
			return "PrimaryHDU"
		}
		return "ImageHDU"
	case fitsio.BINARY_TBL:
		return "BinTableHDU"
	case fitsio.ASCII_TBL:
		return "TableHDU"
	default:
		return "Unknown"
	}
}

func (u *unit) Cards() []Card {
	hdr := u.hdu.Header()
	if hdr == nil {
		return nil
	}
	keys := hdr.Keys()
	cards := make([]Card, 0, len(keys))
	for _, k := range keys {
		c := hdr.Get(k)
		if c == nil {
			continue
		}
		cards = append(cards, Card{Name: c.Name, Value: c.Value, Comment: c.Comment})
	}
	return cards
}

// ReadImage decodes the full pixel array to float64, applying BSCALE/BZERO
// when the header declares them.
func (u *unit) ReadImage() ([]float64, []int, error) {
	img, ok := u.hdu.(fitsio.Image)
	if !ok || u.hdu.Type() != fitsio.IMAGE_HDU {
		return nil, nil, ErrNotImage
	}
	hdr := u.hdu.Header()
	axes := hdr.Axes()
	if len(axes) == 0 {
		return nil, nil, ErrNotImage
	}
	n := 1
	for _, ax := range axes {
		if ax <= 0 {
			return nil, nil, fmt.Errorf("invalid axis length %d", ax)
		}
		n *= ax
	}

	// The decoder fills a caller-allocated slice; it must already have the
	// full sample length.
	out := make([]float64, 0, n)
	switch hdr.Bitpix() {
	case 8:
		data := make([]int8, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		for _, v := range data {
			out = append(out, float64(v))
		}
	case 16:
		data := make([]int16, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		for _, v := range data {
			out = append(out, float64(v))
		}
	case 32:
		data := make([]int32, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		for _, v := range data {
			out = append(out, float64(v))
		}
	case 64:
		data := make([]int64, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		for _, v := range data {
			out = append(out, float64(v))
		}
	case -32:
		data := make([]float32, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		for _, v := range data {
			out = append(out, float64(v))
		}
	case -64:
		data := make([]float64, n)
		if err := img.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("read image samples: %w", err)
		}
		out = data
	default:
		return nil, nil, fmt.Errorf("unsupported bitpix %d", hdr.Bitpix())
	}

	if scale, zero, ok := scaling(u.Cards()); ok {
		for i := range out {
			out[i] = zero + scale*out[i]
		}
	}
	return out, axes, nil
}

// scaling reports the BSCALE/BZERO linear transform if either is declared.
func scaling(cards []Card) (scale, zero float64, ok bool) {
	scale, zero = 1, 0
	for _, c := range cards {
		switch c.Name {
		case "BSCALE":
			if v, isNum := toFloat(c.Value); isNum {
				scale = v
				ok = true
			}
		case "BZERO":
			if v, isNum := toFloat(c.Value); isNum {
				zero = v
				ok = true
			}
		}
	}
	if ok && scale == 1 && zero == 0 {
		ok = false
	}
	return scale, zero, ok
}

func (u *unit) table() (*fitsio.Table, error) {
	tbl, ok := u.hdu.(*fitsio.Table)
	if !ok {
		return nil, ErrNotTable
	}
	return tbl, nil
}

func (u *unit) Columns() ([]ColumnInfo, error) {
	tbl, err := u.table()
	if err != nil {
		return nil, err
	}
	cols := tbl.Cols()
	out := make([]ColumnInfo, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnInfo{Name: c.Name, Format: c.Format, Unit: c.Unit})
	}
	return out, nil
}

func (u *unit) NumRows() int64 {
	tbl, err := u.table()
	if err != nil {
		return 0
	}
	return tbl.NumRows()
}

// ReadColumns scans the whole table once and keeps only the named columns,
// coercing each cell to float64. A cell that cannot be coerced (strings,
// array-valued columns) fails the read.
func (u *unit) ReadColumns(names []string) (map[string][]float64, error) {
	tbl, err := u.table()
	if err != nil {
		return nil, err
	}
	nrows := tbl.NumRows()
	out := make(map[string][]float64, len(names))
	for _, n := range names {
		out[n] = make([]float64, 0, nrows)
	}
	rows, err := tbl.Read(0, nrows)
	if err != nil {
		return nil, fmt.Errorf("read table rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		cell := make(map[string]interface{}, len(names))
		if err := rows.Scan(&cell); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		for _, n := range names {
			raw, found := cell[n]
			if !found {
				return nil, fmt.Errorf("column %q missing from table", n)
			}
			v, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("column %q is not numeric", n)
			}
			out[n] = append(out[n], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return out, nil
}

// toFloat coerces a decoder cell or header value to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return math.NaN(), false
	}
}
