package eigen

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// FromBits maps a measured bit segment to signed eigenvalues.
// '0' maps to -1; any other character maps to +1. Character i of the
// segment corresponds to classical bit i.
func FromBits(segment string) []float64 {
	if segment == "" {
		return []float64{}
	}
	values := make([]float64, len(segment))
	for i := 0; i < len(segment); i++ {
		if segment[i] == '0' {
			values[i] = -1
		} else {
			values[i] = 1
		}
	}
	return values
}

// SplitKey splits a histogram key into its 1 or 2 segments. Keys with a
// single space carry "<end bits> <qpd-basis bits>".
func SplitKey(key string) []string {
	return strings.SplitN(key, " ", 2)
}

// Product returns the product of all eigenvalues. An empty sequence has
// product 1.
func Product(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	return floats.Prod(values)
}

// Insert places value at index, shifting later entries right.
func Insert(values []float64, index int, value float64) []float64 {
	out := make([]float64, 0, len(values)+1)
	out = append(out, values[:index]...)
	out = append(out, value)
	out = append(out, values[index:]...)
	return out
}
