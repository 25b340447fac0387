package execution

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitq/wirecut/internal/backends"
	"github.com/splitq/wirecut/internal/domain"
)

func measuringCircuit(name string) domain.Circuit {
	return domain.Circuit{
		Name:      name,
		Qubits:    1,
		Registers: []domain.Register{{Name: "c", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
			{Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 0, Bit: 0}}},
		},
	}
}

func silentCircuit(name string) domain.Circuit {
	return domain.Circuit{
		Name:      name,
		Qubits:    1,
		Registers: []domain.Register{{Name: "c", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
		},
	}
}

func TestDriverRun(t *testing.T) {
	backend := backends.NewStaticBackend(map[string]domain.Counts{
		"a": {"0": 60, "1": 40},
		"b": {"1": 100},
	})
	driver := NewDriver(backend, 4, zerolog.Nop())

	circuits := [][]domain.Circuit{
		{measuringCircuit("a"), measuringCircuit("b")},
	}

	counts, err := driver.Run(context.Background(), circuits, 100)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, domain.Counts{"0": 60, "1": 40}, counts[0][0])
	assert.Equal(t, domain.Counts{"1": 100}, counts[0][1])
}

// A circuit that does not end in a measurement never reaches the backend:
// its histogram is a single all-count entry under a blank key.
func TestDriverSynthesizesSilentCircuit(t *testing.T) {
	backend := backends.NewStaticBackend(nil) // would fail any real call
	driver := NewDriver(backend, 2, zerolog.Nop())

	circuits := [][]domain.Circuit{{silentCircuit("quiet")}}

	counts, err := driver.Run(context.Background(), circuits, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{"": 500}, counts[0][0])
}

func TestDriverAbortsOnBackendFailure(t *testing.T) {
	backend := backends.NewStaticBackend(map[string]domain.Counts{
		"a": {"0": 100},
	})
	driver := NewDriver(backend, 2, zerolog.Nop())

	circuits := [][]domain.Circuit{
		{measuringCircuit("a")},
		{measuringCircuit("missing")},
	}

	_, err := driver.Run(context.Background(), circuits, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "missing")
}

func TestDriverHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := backends.NewStaticBackend(map[string]domain.Counts{"a": {"0": 1}})
	driver := NewDriver(backend, 1, zerolog.Nop())

	_, err := driver.Run(ctx, [][]domain.Circuit{{measuringCircuit("a")}}, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
