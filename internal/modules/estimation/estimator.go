package estimation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/modules/execution"
	"github.com/splitq/wirecut/pkg/eigen"
)

// Estimate recombines total results into one expectation value per
// observable. Per row, the cross-product of sub-results across templates is
// walked; each tuple's end segments are concatenated in reversed template
// order into a full-qubit eigenvalue vector, weighted by the tuple's
// normalized weight and the product of its qpd-basis eigenvalues, and
// accumulated. Row contributions are scaled by (-1)^(cuts+1) times the row
// coefficient (no sign alternation when there are no cuts) and the final
// vector by 4^cuts over the total sample budget.
//
// The accumulator starts at one per observable, reproducing the reference
// recombination exactly; see DESIGN.md for the recorded offset concern.
func Estimate(
	results []TotalResult,
	coefficients []float64,
	cuts int,
	observables []domain.Observable,
	remap map[int]int,
	budget execution.Budget,
) ([]float64, error) {
	if len(results) != len(coefficients) {
		return nil, fmt.Errorf("got %d rows but %d coefficients", len(results), len(coefficients))
	}
	if len(observables) == 0 {
		return nil, fmt.Errorf("no observables requested")
	}

	acc := make([]float64, len(observables))
	for i := range acc {
		acc[i] = 1
	}

	remapKeys := sortedKeysDesc(remap)

	for r, total := range results {
		rowVec, err := rowContribution(total, observables, remap, remapKeys, budget.Shots)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		sign := 1.0
		if cuts > 0 && cuts%2 == 0 {
			sign = -1 // (-1)^(cuts+1)
		}
		floats.AddScaled(acc, sign*coefficients[r], rowVec)
	}

	floats.Scale(math.Pow(4, float64(cuts))/budget.Samples, acc)
	return acc, nil
}

// rowContribution sums the signed observable values over the full
// cross-product of one row's sub-results.
func rowContribution(
	total TotalResult,
	observables []domain.Observable,
	remap map[int]int,
	remapKeys []int,
	shots int64,
) ([]float64, error) {
	rowVec := make([]float64, len(observables))

	lens := make([]int, len(total.Subcircuits))
	for t, subs := range total.Subcircuits {
		if len(subs) == 0 {
			// No outcomes for one template: the cross-product is empty and
			// the row contributes nothing.
			return rowVec, nil
		}
		lens[t] = len(subs)
	}
	if len(lens) == 0 {
		return rowVec, nil
	}

	gen := combin.NewCartesianGenerator(lens)
	idx := make([]int, len(lens))
	for gen.Next() {
		idx = gen.Product(idx)

		// Reversed template order matches physical qubit ordering.
		var full []float64
		weight := float64(shots)
		qpdSign := 1.0
		for t := len(idx) - 1; t >= 0; t-- {
			sub := total.Subcircuits[t][idx[t]]
			full = append(full, sub.Eigenvalues[0]...)
			weight *= sub.Weight / float64(shots)
			if len(sub.Eigenvalues) > 1 {
				qpdSign *= eigen.Product(sub.Eigenvalues[1])
			}
		}

		for _, k := range remapKeys {
			src := remap[k]
			if k >= len(full) || src >= len(full) {
				return nil, fmt.Errorf("remap %d->%d outside eigenvalue vector of width %d", k, src, len(full))
			}
			full[k] = full[src]
		}

		for oi, obs := range observables {
			value := 1.0
			for _, q := range obs.Qubits {
				if q < 0 || q >= len(full) {
					return nil, fmt.Errorf("observable qubit %d outside eigenvalue vector of width %d", q, len(full))
				}
				value *= full[q]
			}
			// Multi-qubit parity convention: (-1)^(k+1) for k qubits.
			if (len(obs.Qubits)+1)%2 != 0 {
				value = -value
			}
			rowVec[oi] += value * weight * qpdSign
		}
	}
	return rowVec, nil
}

// sortedKeysDesc returns the remap keys in descending order, the order the
// in-place remapping must be applied in.
func sortedKeysDesc(remap map[int]int) []int {
	keys := make([]int, 0, len(remap))
	for k := range remap {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
