package cutting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/qpd"
)

func channelByBasis(t *testing.T, basis string, coefficient float64) qpd.Channel {
	t.Helper()
	for _, ch := range qpd.DefaultCatalog() {
		if ch.Basis == basis && ch.Coefficient == coefficient {
			return ch
		}
	}
	t.Fatalf("no catalog channel with basis %q and coefficient %v", basis, coefficient)
	return qpd.Channel{}
}

func TestMaterializeNoPlaceholders(t *testing.T) {
	tpl := domain.Circuit{
		Name:      "plain",
		Qubits:    2,
		Registers: []domain.Register{{Name: "c", Size: 2}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
			{Op: domain.OpX, Qubits: []int{1}},
		},
	}

	builder := NewBuilder(0)
	got, markers, err := builder.Materialize(Row{}, 0, tpl, ScanPlaceholders(tpl), 0)
	require.NoError(t, err)
	assert.Empty(t, markers)

	// Template instructions survive unchanged, followed by a trailing
	// measurement of every qubit.
	require.Len(t, got.Instructions, 4)
	assert.Equal(t, tpl.Instructions[0], got.Instructions[0])
	assert.Equal(t, tpl.Instructions[1], got.Instructions[1])
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 0, Bit: 0}},
	}, got.Instructions[2])
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{1}, Bits: []domain.BitRef{{Register: 0, Bit: 1}},
	}, got.Instructions[3])

	// The shared template was not touched.
	assert.Len(t, tpl.Instructions, 2)
}

func TestMaterializeMeasurementChannel(t *testing.T) {
	tpl := domain.Circuit{
		Name:      "upstream",
		Qubits:    2,
		Registers: []domain.Register{{Name: "qpd", Size: 1}, {Name: "end", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
			{Op: "Meas_0", Qubits: []int{1}},
		},
	}

	x := channelByBasis(t, "x", 0.5)
	builder := NewBuilder(1)
	got, markers, err := builder.Materialize(Row{Channels: []qpd.Channel{x}}, 3, tpl, ScanPlaceholders(tpl), 1)
	require.NoError(t, err)
	assert.Empty(t, markers)

	require.Len(t, got.Instructions, 4)
	assert.Equal(t, domain.Instruction{Op: domain.OpH, Qubits: []int{0}}, got.Instructions[0])
	// X-basis fragment on the cut qubit: h then measure into the primary register.
	assert.Equal(t, domain.Instruction{Op: domain.OpH, Qubits: []int{1}}, got.Instructions[1])
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{1}, Bits: []domain.BitRef{{Register: 0, Bit: 0}},
	}, got.Instructions[2])
	// The un-consumed qubit is measured into the secondary register.
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 1, Bit: 0}},
	}, got.Instructions[3])

	assert.Equal(t, "upstream_row3", got.Name)
	assert.Equal(t, tpl.Registers, got.Registers)
}

func TestMaterializeIdentityChannel(t *testing.T) {
	tpl := domain.Circuit{
		Name:      "upstream",
		Qubits:    2,
		Registers: []domain.Register{{Name: "qpd", Size: 1}, {Name: "end", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
			{Op: "Meas_0", Qubits: []int{1}},
		},
	}

	identity := channelByBasis(t, qpd.BasisIdentity, 0.5)
	builder := NewBuilder(1)
	got, markers, err := builder.Materialize(Row{Channels: []qpd.Channel{identity}}, 6, tpl, ScanPlaceholders(tpl), 0)
	require.NoError(t, err)

	// No physical bit: marker recorded, primary register shrunk by one.
	require.Len(t, markers, 1)
	assert.Equal(t, IdentityMeasurement{Row: 6, Template: 0, Bit: 0}, markers[0])
	assert.Equal(t, 0, got.Registers[0].Size)

	require.Len(t, got.Instructions, 2)
	assert.Equal(t, domain.Instruction{Op: domain.OpH, Qubits: []int{0}}, got.Instructions[0])
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 1, Bit: 0}},
	}, got.Instructions[1])
}

func TestMaterializeInitChannel(t *testing.T) {
	tpl := domain.Circuit{
		Name:      "downstream",
		Qubits:    1,
		Registers: []domain.Register{{Name: "end", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: "Init_0", Qubits: []int{0}},
			{Op: domain.OpH, Qubits: []int{0}},
		},
	}

	// Prepare |-> : x then h.
	minusX := channelByBasis(t, "x", -0.5)
	builder := NewBuilder(1)
	got, markers, err := builder.Materialize(Row{Channels: []qpd.Channel{minusX}}, 0, tpl, ScanPlaceholders(tpl), 0)
	require.NoError(t, err)
	assert.Empty(t, markers)

	require.Len(t, got.Instructions, 4)
	assert.Equal(t, domain.Instruction{Op: domain.OpX, Qubits: []int{0}}, got.Instructions[0])
	assert.Equal(t, domain.Instruction{Op: domain.OpH, Qubits: []int{0}}, got.Instructions[1])
	assert.Equal(t, domain.Instruction{Op: domain.OpH, Qubits: []int{0}}, got.Instructions[2])
	assert.Equal(t, domain.Instruction{
		Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 0, Bit: 0}},
	}, got.Instructions[3])
}

func TestMaterializeStripsObservableArtifacts(t *testing.T) {
	tpl := domain.Circuit{
		Name:      "obs",
		Qubits:    1,
		Registers: []domain.Register{{Name: "c", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: "Obs_z", Qubits: []int{0}},
			{Op: domain.OpH, Qubits: []int{0}},
		},
	}

	builder := NewBuilder(0)
	got, _, err := builder.Materialize(Row{}, 0, tpl, ScanPlaceholders(tpl), 0)
	require.NoError(t, err)

	require.Len(t, got.Instructions, 2)
	assert.Equal(t, domain.OpH, got.Instructions[0].Op)
	assert.Equal(t, domain.OpMeasure, got.Instructions[1].Op)
}

func TestMaterializeErrors(t *testing.T) {
	x := channelByBasis(t, "x", 0.5)

	tests := []struct {
		name string
		cuts int
		tpl  domain.Circuit
		row  Row
	}{
		{
			name: "placeholder cut index out of range",
			cuts: 1,
			tpl: domain.Circuit{
				Name:      "bad",
				Qubits:    1,
				Registers: []domain.Register{{Name: "c", Size: 1}},
				Instructions: []domain.Instruction{
					{Op: "Meas_5", Qubits: []int{0}},
				},
			},
			row: Row{Channels: []qpd.Channel{x}},
		},
		{
			name: "no classical register for final measurement",
			cuts: 0,
			tpl: domain.Circuit{
				Name:   "noreg",
				Qubits: 1,
				Instructions: []domain.Instruction{
					{Op: domain.OpH, Qubits: []int{0}},
				},
			},
			row: Row{},
		},
		{
			name: "primary register exhausted",
			cuts: 1,
			tpl: domain.Circuit{
				Name:      "tiny",
				Qubits:    1,
				Registers: []domain.Register{{Name: "c", Size: 0}},
				Instructions: []domain.Instruction{
					{Op: "Meas_0", Qubits: []int{0}},
				},
			},
			row: Row{Channels: []qpd.Channel{x}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(tt.cuts)
			_, _, err := builder.Materialize(tt.row, 0, tt.tpl, ScanPlaceholders(tt.tpl), 0)
			assert.Error(t, err)
		})
	}
}
