package qpd

import (
	"fmt"
	"math"

	"github.com/splitq/wirecut/internal/domain"
)

// BasisIdentity marks the one channel that performs no physical
// measurement. Its eigenvalue is injected during post-processing.
const BasisIdentity = "identity"

// Fragment is an ordered list of single-qubit operation names spliced in
// place of a placeholder. In a Measure fragment a trailing "measure"
// consumes one classical bit; Prepare fragments never measure.
type Fragment []string

// Channel is one member of the quasi-probability decomposition of a cut
// wire: a signed coefficient, a basis label, the operations substituted for
// a measurement placeholder and the operations substituted for an
// initialization placeholder.
type Channel struct {
	Coefficient float64  `json:"coefficient"`
	Basis       string   `json:"basis"`
	Measure     Fragment `json:"measure"`
	Prepare     Fragment `json:"prepare"`
}

// DefaultCatalog returns the fixed channel table for a single cut wire.
// The content is static data from the decomposition of the identity
// channel into local measure/prepare pairs; it is not derived here.
//
// Exactly one entry carries the identity basis: it measures nothing and
// its outcome bit is reconstructed in post-processing.
func DefaultCatalog() []Channel {
	return []Channel{
		{Coefficient: 0.5, Basis: "x", Measure: Fragment{domain.OpH, domain.OpMeasure}, Prepare: Fragment{domain.OpH}},
		{Coefficient: -0.5, Basis: "x", Measure: Fragment{domain.OpH, domain.OpMeasure}, Prepare: Fragment{domain.OpX, domain.OpH}},
		{Coefficient: 0.5, Basis: "y", Measure: Fragment{domain.OpSdg, domain.OpH, domain.OpMeasure}, Prepare: Fragment{domain.OpH, domain.OpS}},
		{Coefficient: -0.5, Basis: "y", Measure: Fragment{domain.OpSdg, domain.OpH, domain.OpMeasure}, Prepare: Fragment{domain.OpX, domain.OpH, domain.OpS}},
		{Coefficient: 0.5, Basis: "z", Measure: Fragment{domain.OpMeasure}, Prepare: Fragment{}},
		{Coefficient: -0.5, Basis: "z", Measure: Fragment{domain.OpMeasure}, Prepare: Fragment{domain.OpX}},
		{Coefficient: 0.5, Basis: BasisIdentity, Measure: Fragment{}, Prepare: Fragment{}},
		{Coefficient: 0.5, Basis: "comp", Measure: Fragment{domain.OpMeasure}, Prepare: Fragment{domain.OpX}},
	}
}

// Validate checks structural invariants of a catalog. The catalog length
// itself is free (tests use reduced tables); what must hold is that every
// coefficient is finite and non-zero, non-identity Measure fragments end in
// a measurement, identity fragments measure nothing, and Prepare fragments
// contain no measurement.
func Validate(catalog []Channel) error {
	if len(catalog) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	identities := 0
	for i, ch := range catalog {
		if ch.Coefficient == 0 || math.IsNaN(ch.Coefficient) || math.IsInf(ch.Coefficient, 0) {
			return fmt.Errorf("catalog entry %d: invalid coefficient %v", i, ch.Coefficient)
		}
		if ch.Basis == BasisIdentity {
			identities++
			if containsMeasure(ch.Measure) {
				return fmt.Errorf("catalog entry %d: identity channel must not measure", i)
			}
		} else {
			if len(ch.Measure) == 0 || ch.Measure[len(ch.Measure)-1] != domain.OpMeasure {
				return fmt.Errorf("catalog entry %d (%s): measure fragment must end in %q", i, ch.Basis, domain.OpMeasure)
			}
		}
		if containsMeasure(ch.Prepare) {
			return fmt.Errorf("catalog entry %d (%s): prepare fragment must not measure", i, ch.Basis)
		}
	}
	if identities != 1 {
		return fmt.Errorf("catalog must contain exactly one identity channel, found %d", identities)
	}
	return nil
}

func containsMeasure(f Fragment) bool {
	for _, op := range f {
		if op == domain.OpMeasure {
			return true
		}
	}
	return false
}
