package estimation

import (
	"fmt"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/modules/cutting"
)

// Request carries everything one reconstruction needs: the subcircuit
// templates, the cut locations (only their count is consumed), the
// requested observables and an optional qubit-index translation table.
type Request struct {
	Templates   []domain.Circuit     `json:"templates"`
	Cuts        []domain.CutLocation `json:"cuts"`
	Observables []domain.Observable  `json:"observables"`
	Remap       map[int]int          `json:"remap,omitempty"`
}

// ValidateTemplates checks the structural inputs shared by the build-only
// and full pipelines: templates exist, carry one or two classical
// registers, and every placeholder references a cut within range.
func ValidateTemplates(templates []domain.Circuit, cuts int) error {
	if len(templates) == 0 {
		return fmt.Errorf("no subcircuit templates supplied")
	}
	for t, tpl := range templates {
		if len(tpl.Registers) < 1 || len(tpl.Registers) > 2 {
			return fmt.Errorf("template %d (%s): %d classical registers, want 1 or 2", t, tpl.Name, len(tpl.Registers))
		}
		if tpl.Qubits < 1 {
			return fmt.Errorf("template %d (%s): no qubits", t, tpl.Name)
		}
		for _, p := range cutting.ScanPlaceholders(tpl) {
			if p.Cut < 0 || p.Cut >= cuts {
				return fmt.Errorf("template %d (%s): placeholder references cut %d outside [0,%d)", t, tpl.Name, p.Cut, cuts)
			}
			if p.Kind == cutting.KindMeasure && len(p.Qubits) != 1 {
				return fmt.Errorf("template %d (%s): measurement placeholder for cut %d targets %d qubits, want 1", t, tpl.Name, p.Cut, len(p.Qubits))
			}
		}
	}
	return nil
}

// ValidateRequest runs every input check before any backend work is
// dispatched: observable and remap indexes must fall inside the
// reconstructed end-eigenvalue vector, whose width is the total qubit count
// minus the qubits consumed by measurement channels.
func ValidateRequest(req Request) error {
	cuts := len(req.Cuts)
	if err := ValidateTemplates(req.Templates, cuts); err != nil {
		return err
	}

	width := 0
	for _, tpl := range req.Templates {
		width += tpl.Qubits - cutting.CountMeasurePlaceholders(tpl)
	}

	if len(req.Observables) == 0 {
		return fmt.Errorf("no observables requested")
	}
	for i, obs := range req.Observables {
		if len(obs.Qubits) == 0 {
			return fmt.Errorf("observable %d is empty", i)
		}
		for _, q := range obs.Qubits {
			if q < 0 || q >= width {
				return fmt.Errorf("observable %d: qubit %d outside reconstructed vector [0,%d)", i, q, width)
			}
		}
	}
	for k, v := range req.Remap {
		if k < 0 || k >= width || v < 0 || v >= width {
			return fmt.Errorf("remap entry %d->%d outside reconstructed vector [0,%d)", k, v, width)
		}
	}
	return nil
}
