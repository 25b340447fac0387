package cutting

import (
	"regexp"
	"strconv"

	"github.com/splitq/wirecut/internal/domain"
)

// Kind distinguishes the two placeholder flavors a template can carry.
type Kind int

const (
	// KindMeasure marks the upstream half of a cut wire: the qubit is
	// measured in the channel's basis.
	KindMeasure Kind = iota
	// KindInit marks the downstream half: the qubit is re-initialized in
	// the channel's basis state.
	KindInit
)

// Placeholder is a located cut-emulation point inside a template.
type Placeholder struct {
	Position int
	Kind     Kind
	Cut      int
	Qubits   []int
}

var placeholderRe = regexp.MustCompile(`^(Meas|Init)_(\d+)$`)

// ScanPlaceholders returns every placeholder instruction of the template in
// original instruction order. Operation names of the form Meas_<n> and
// Init_<n> match; everything else is ignored. Templates are immutable, so
// the scan runs once per template per materialization pass.
func ScanPlaceholders(c domain.Circuit) []Placeholder {
	var out []Placeholder
	for pos, inst := range c.Instructions {
		m := placeholderRe.FindStringSubmatch(inst.Op)
		if m == nil {
			continue
		}
		cut, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		kind := KindMeasure
		if m[1] == "Init" {
			kind = KindInit
		}
		out = append(out, Placeholder{
			Position: pos,
			Kind:     kind,
			Cut:      cut,
			Qubits:   inst.Qubits,
		})
	}
	return out
}

// CountMeasurePlaceholders returns the number of measurement placeholders
// in the template. Every measurement placeholder consumes one qubit, so
// this also gives the template's contribution deficit to the end-of-circuit
// eigenvalue vector.
func CountMeasurePlaceholders(c domain.Circuit) int {
	n := 0
	for _, p := range ScanPlaceholders(c) {
		if p.Kind == KindMeasure {
			n++
		}
	}
	return n
}
