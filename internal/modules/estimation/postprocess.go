package estimation

import (
	"fmt"
	"sort"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/modules/cutting"
	"github.com/splitq/wirecut/internal/modules/execution"
	"github.com/splitq/wirecut/pkg/eigen"
)

// SubResult is one histogram entry converted to signed eigenvalues. The
// first segment holds end-of-circuit eigenvalues; the second, when present,
// holds mid-circuit qpd-basis eigenvalues.
type SubResult struct {
	Eigenvalues [][]float64
	Weight      float64
}

// TotalResult groups one row's sub-results: Subcircuits[template] holds
// every converted histogram entry of that experiment circuit.
type TotalResult struct {
	Subcircuits [][]SubResult
}

// ProcessResults converts grouped outcome histograms into total results.
// Histogram keys are split on the single-space separator into 1 or 2
// segments; '0' maps to the -1 eigenvalue, anything else to +1. Entry
// weight is count/shots scaled to the per-row sample budget. Entries are
// ordered by key so downstream accumulation is deterministic.
func ProcessResults(raw [][]domain.Counts, budget execution.Budget) []TotalResult {
	results := make([]TotalResult, len(raw))
	for r, rowCounts := range raw {
		results[r].Subcircuits = make([][]SubResult, len(rowCounts))
		for t, counts := range rowCounts {
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			subs := make([]SubResult, 0, len(keys))
			for _, key := range keys {
				segments := eigen.SplitKey(key)
				values := make([][]float64, len(segments))
				for i, seg := range segments {
					values[i] = eigen.FromBits(seg)
				}
				subs = append(subs, SubResult{
					Eigenvalues: values,
					Weight:      float64(counts[key]) / float64(budget.Shots) * budget.PerRow,
				})
			}
			results[r].Subcircuits[t] = subs
		}
	}
	return results
}

// ApplyMarkers injects the forced -1 eigenvalue for every identity-basis
// measurement into the affected (row, template) cell. A sub-result with
// only an end segment gains a one-element qpd segment; one that already has
// a qpd segment gets -1 inserted at the marker's bit index, shifting later
// entries right.
func ApplyMarkers(results []TotalResult, markers []cutting.IdentityMeasurement) error {
	for _, m := range markers {
		if m.Row < 0 || m.Row >= len(results) {
			return fmt.Errorf("identity marker row %d out of range [0,%d)", m.Row, len(results))
		}
		cell := results[m.Row].Subcircuits
		if m.Template < 0 || m.Template >= len(cell) {
			return fmt.Errorf("identity marker template %d out of range [0,%d) in row %d", m.Template, len(cell), m.Row)
		}
		for i := range cell[m.Template] {
			sub := &cell[m.Template][i]
			switch len(sub.Eigenvalues) {
			case 1:
				sub.Eigenvalues = append(sub.Eigenvalues, []float64{-1})
			case 2:
				if m.Bit < 0 || m.Bit > len(sub.Eigenvalues[1]) {
					return fmt.Errorf("identity marker bit %d out of range for row %d template %d", m.Bit, m.Row, m.Template)
				}
				sub.Eigenvalues[1] = eigen.Insert(sub.Eigenvalues[1], m.Bit, -1)
			default:
				return fmt.Errorf("sub-result at row %d template %d has %d segments, want 1 or 2", m.Row, m.Template, len(sub.Eigenvalues))
			}
		}
	}
	return nil
}
