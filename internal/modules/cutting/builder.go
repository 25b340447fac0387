package cutting

import (
	"fmt"
	"strings"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/qpd"
)

// IdentityMeasurement marks a measurement placeholder that was assigned the
// identity channel. No physical bit exists for it; post-processing injects
// the forced eigenvalue at Bit in the qpd-basis segment.
type IdentityMeasurement struct {
	Row      int `json:"row"`
	Template int `json:"template"`
	Bit      int `json:"bit"`
}

// Builder materializes experiment circuits from (row, template) pairs.
type Builder struct {
	cuts int
}

// NewBuilder creates a builder for the given cut count.
func NewBuilder(cuts int) *Builder {
	return &Builder{cuts: cuts}
}

// Materialize produces one concrete experiment circuit for a (row,
// template) pair. The template is never mutated: instructions are appended
// into a fresh owned list, which keeps placeholder splicing free of offset
// arithmetic. Identity-channel measurement placeholders are returned as
// markers for post-processing.
func (b *Builder) Materialize(row Row, rowIdx int, tpl domain.Circuit, placeholders []Placeholder, tplIdx int) (domain.Circuit, []IdentityMeasurement, error) {
	out := domain.Circuit{
		Name:   fmt.Sprintf("%s_row%d", tpl.Name, rowIdx),
		Qubits: tpl.Qubits,
	}
	out.Registers = make([]domain.Register, len(tpl.Registers))
	copy(out.Registers, tpl.Registers)

	byPos := make(map[int]Placeholder, len(placeholders))
	for _, p := range placeholders {
		byPos[p.Position] = p
	}

	var markers []IdentityMeasurement
	consumed := make(map[int]bool)
	bitCursor := 0 // next physical bit in the primary register
	qpdCursor := 0 // logical qpd-bit position, identity placeholders included

	for pos, inst := range tpl.Instructions {
		p, isPlaceholder := byPos[pos]
		if !isPlaceholder {
			// Observable artifacts from the partitioner are irrelevant to
			// cut emulation and are stripped before materialization.
			if strings.HasPrefix(inst.Op, "Obs") {
				continue
			}
			out.Instructions = append(out.Instructions, inst.Clone())
			continue
		}

		if p.Cut < 0 || p.Cut >= b.cuts {
			return domain.Circuit{}, nil, fmt.Errorf(
				"row %d template %d: placeholder %q references cut %d outside [0,%d)",
				rowIdx, tplIdx, inst.Op, p.Cut, b.cuts)
		}
		ch := row.Channels[p.Cut]

		switch p.Kind {
		case KindMeasure:
			if len(p.Qubits) != 1 {
				return domain.Circuit{}, nil, fmt.Errorf(
					"row %d template %d: measurement placeholder for cut %d targets %d qubits, want 1",
					rowIdx, tplIdx, p.Cut, len(p.Qubits))
			}
			qubit := p.Qubits[0]
			consumed[qubit] = true

			if ch.Basis == qpd.BasisIdentity {
				// No physical measurement: remember where its bit belongs
				// and give the unused bit back to the primary register.
				markers = append(markers, IdentityMeasurement{Row: rowIdx, Template: tplIdx, Bit: qpdCursor})
				if len(out.Registers) == 0 || out.Registers[0].Size == 0 {
					return domain.Circuit{}, nil, fmt.Errorf(
						"row %d template %d: primary register underflow at cut %d",
						rowIdx, tplIdx, p.Cut)
				}
				out.Registers[0].Size--
				for _, op := range ch.Measure {
					out.Instructions = append(out.Instructions, domain.Instruction{Op: op, Qubits: []int{qubit}})
				}
				qpdCursor++
				continue
			}

			if len(out.Registers) == 0 || bitCursor >= out.Registers[0].Size {
				return domain.Circuit{}, nil, fmt.Errorf(
					"row %d template %d: primary register exhausted at cut %d",
					rowIdx, tplIdx, p.Cut)
			}
			for i, op := range ch.Measure {
				next := domain.Instruction{Op: op, Qubits: []int{qubit}}
				if i == len(ch.Measure)-1 {
					next.Bits = []domain.BitRef{{Register: 0, Bit: bitCursor}}
				}
				out.Instructions = append(out.Instructions, next)
			}
			bitCursor++
			qpdCursor++

		case KindInit:
			for _, op := range ch.Prepare {
				qubits := make([]int, len(p.Qubits))
				copy(qubits, p.Qubits)
				out.Instructions = append(out.Instructions, domain.Instruction{Op: op, Qubits: qubits})
			}
		}
	}

	if err := b.finalizeMeasurements(&out, consumed, bitCursor, rowIdx, tplIdx); err != nil {
		return domain.Circuit{}, nil, err
	}
	return out, markers, nil
}

// finalizeMeasurements appends a trailing measurement for every qubit not
// consumed by a measurement channel. With two registers the end bits land
// in the secondary register; otherwise they continue in the primary one.
func (b *Builder) finalizeMeasurements(c *domain.Circuit, consumed map[int]bool, bitCursor, rowIdx, tplIdx int) error {
	remaining := 0
	for q := 0; q < c.Qubits; q++ {
		if !consumed[q] {
			remaining++
		}
	}
	if remaining == 0 {
		return nil
	}
	if len(c.Registers) == 0 {
		return fmt.Errorf("row %d template %d: final measurement requires a classical register", rowIdx, tplIdx)
	}

	reg := 0
	cursor := bitCursor
	if len(c.Registers) == 2 {
		reg = 1
		cursor = 0
	}
	if cursor+remaining > c.Registers[reg].Size {
		return fmt.Errorf(
			"row %d template %d: register %q holds %d bits, final measurement needs %d more at bit %d",
			rowIdx, tplIdx, c.Registers[reg].Name, c.Registers[reg].Size, remaining, cursor)
	}
	for q := 0; q < c.Qubits; q++ {
		if consumed[q] {
			continue
		}
		c.Instructions = append(c.Instructions, domain.Instruction{
			Op:     domain.OpMeasure,
			Qubits: []int{q},
			Bits:   []domain.BitRef{{Register: reg, Bit: cursor}},
		})
		cursor++
	}
	return nil
}
