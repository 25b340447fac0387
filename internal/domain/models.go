package domain

// Shared data model for the wire-cutting pipeline. Circuits are plain
// instruction lists; templates coming from the partitioner are treated as
// immutable and cloned before any edit.

// Canonical operation names used across the pipeline.
const (
	OpMeasure = "measure"
	OpH       = "h"
	OpX       = "x"
	OpS       = "s"
	OpSdg     = "sdg"
)

// BitRef addresses one classical bit inside a circuit's register list.
type BitRef struct {
	Register int `json:"register"`
	Bit      int `json:"bit"`
}

// Instruction is one operation applied to qubits, optionally writing
// classical bits.
type Instruction struct {
	Op     string   `json:"op"`
	Qubits []int    `json:"qubits"`
	Bits   []BitRef `json:"bits,omitempty"`
}

// Clone returns a deep copy of the instruction.
func (i Instruction) Clone() Instruction {
	out := Instruction{Op: i.Op}
	if i.Qubits != nil {
		out.Qubits = make([]int, len(i.Qubits))
		copy(out.Qubits, i.Qubits)
	}
	if i.Bits != nil {
		out.Bits = make([]BitRef, len(i.Bits))
		copy(out.Bits, i.Bits)
	}
	return out
}

// Register is a named group of classical bits.
type Register struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Circuit is an ordered instruction stream over a fixed qubit count with
// one or two classical registers. Register 0 is the primary register.
type Circuit struct {
	Name         string        `json:"name"`
	Qubits       int           `json:"qubits"`
	Registers    []Register    `json:"registers"`
	Instructions []Instruction `json:"instructions"`
}

// Clone returns a deep copy of the circuit. Templates are shared across all
// combination rows, so every materialization edits a clone, never the
// original.
func (c Circuit) Clone() Circuit {
	out := Circuit{
		Name:   c.Name,
		Qubits: c.Qubits,
	}
	if c.Registers != nil {
		out.Registers = make([]Register, len(c.Registers))
		copy(out.Registers, c.Registers)
	}
	if c.Instructions != nil {
		out.Instructions = make([]Instruction, 0, len(c.Instructions))
		for _, inst := range c.Instructions {
			out.Instructions = append(out.Instructions, inst.Clone())
		}
	}
	return out
}

// EndsWithMeasure reports whether the last instruction is a measurement.
// A circuit that does not end in a measurement produced no end-of-circuit
// bits and gets a synthesized histogram instead of a backend run.
func (c Circuit) EndsWithMeasure() bool {
	if len(c.Instructions) == 0 {
		return false
	}
	return c.Instructions[len(c.Instructions)-1].Op == OpMeasure
}

// ClassicalBits returns the total classical bit count across registers.
func (c Circuit) ClassicalBits() int {
	total := 0
	for _, r := range c.Registers {
		total += r.Size
	}
	return total
}

// Counts is an outcome histogram. Keys are bitstrings, optionally two
// space-separated segments ("<end bits> <qpd-basis bits>"); character i of
// a segment corresponds to classical bit i of the matching register.
type Counts map[string]int64

// Total returns the sum of all counts.
func (c Counts) Total() int64 {
	var total int64
	for _, v := range c {
		total += v
	}
	return total
}

// CutLocation identifies one point where a two-qubit interaction was
// replaced by a classical emulation channel. The engine only consumes the
// number of cuts; the descriptor itself is opaque upstream data.
type CutLocation struct {
	Label string `json:"label"`
}

// Observable is a Z-type measurement target: a single qubit index or a
// multi-qubit parity.
type Observable struct {
	Qubits []int `json:"qubits"`
}
