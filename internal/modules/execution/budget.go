package execution

import "math"

// precisionTarget is the fixed statistical precision the sampling budget is
// derived from.
const precisionTarget = 1e-7

// Budget is the sampling plan for one reconstruction: the total sample
// count, its uniform division across combination rows, and the integer shot
// count requested from the backend for every experiment circuit.
type Budget struct {
	Samples float64 `json:"samples"`
	PerRow  float64 `json:"per_row"`
	Shots   int64   `json:"shots"`
}

// NewBudget derives the sampling plan for cuts cut locations spread over
// rows combination rows: Samples = 4^(2*cuts)/precision², divided evenly.
func NewBudget(cuts, rows int) Budget {
	if rows < 1 {
		rows = 1
	}
	samples := math.Pow(4, float64(2*cuts)) / (precisionTarget * precisionTarget)
	perRow := samples / float64(rows)
	return Budget{
		Samples: samples,
		PerRow:  perRow,
		Shots:   int64(perRow),
	}
}
