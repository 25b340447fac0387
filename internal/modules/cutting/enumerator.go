package cutting

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/splitq/wirecut/internal/qpd"
)

// Row is one assignment of exactly one channel per cut location.
type Row struct {
	Channels []qpd.Channel
}

// Coefficient returns the product of the chosen channels' coefficients.
func (r Row) Coefficient() float64 {
	c := 1.0
	for _, ch := range r.Channels {
		c *= ch.Coefficient
	}
	return c
}

// RowEnumerator lazily walks the repeated Cartesian self-product of the
// catalog, once per cut, in catalog order with the last cut position
// varying fastest. The sequence is finite and restartable; zero cuts yield
// exactly one empty row.
type RowEnumerator struct {
	catalog []qpd.Channel
	cuts    int
	gen     *combin.CartesianGenerator
	idx     []int
	done    bool
}

// NewRowEnumerator creates an enumerator over len(catalog)^cuts rows.
func NewRowEnumerator(catalog []qpd.Channel, cuts int) *RowEnumerator {
	e := &RowEnumerator{catalog: catalog, cuts: cuts}
	e.Reset()
	return e
}

// Reset restarts the sequence from the first row.
func (e *RowEnumerator) Reset() {
	e.done = false
	if e.cuts == 0 {
		e.gen = nil
		e.idx = nil
		return
	}
	lens := make([]int, e.cuts)
	for i := range lens {
		lens[i] = len(e.catalog)
	}
	e.gen = combin.NewCartesianGenerator(lens)
	e.idx = make([]int, e.cuts)
}

// Next advances to the next row, returning false when the sequence is
// exhausted.
func (e *RowEnumerator) Next() bool {
	if e.cuts == 0 {
		if e.done {
			return false
		}
		e.done = true
		return true
	}
	return e.gen.Next()
}

// Row returns the current row. Valid only after a true Next.
func (e *RowEnumerator) Row() Row {
	if e.cuts == 0 {
		return Row{}
	}
	e.idx = e.gen.Product(e.idx)
	channels := make([]qpd.Channel, e.cuts)
	for i, j := range e.idx {
		channels[i] = e.catalog[j]
	}
	return Row{Channels: channels}
}

// NumRows returns catalogSize^cuts, the size of the full product.
func NumRows(catalogSize, cuts int) int {
	return int(math.Pow(float64(catalogSize), float64(cuts)))
}

// Rows collects the full sequence of combination rows.
func Rows(catalog []qpd.Channel, cuts int) []Row {
	rows := make([]Row, 0, NumRows(len(catalog), cuts))
	e := NewRowEnumerator(catalog, cuts)
	for e.Next() {
		rows = append(rows, e.Row())
	}
	return rows
}

// Coefficients extracts the row-coefficient vector.
func Coefficients(rows []Row) []float64 {
	coeffs := make([]float64, len(rows))
	for i, r := range rows {
		coeffs[i] = r.Coefficient()
	}
	return coeffs
}
