package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/modules/cutting"
	"github.com/splitq/wirecut/internal/modules/execution"
)

func TestProcessResults(t *testing.T) {
	budget := execution.Budget{Samples: 4e5, PerRow: 5000, Shots: 100}
	raw := [][]domain.Counts{
		{
			{"01": 100},
		},
	}

	results := ProcessResults(raw, budget)
	require.Len(t, results, 1)
	require.Len(t, results[0].Subcircuits, 1)
	require.Len(t, results[0].Subcircuits[0], 1)

	sub := results[0].Subcircuits[0][0]
	assert.Equal(t, [][]float64{{-1, 1}}, sub.Eigenvalues)
	assert.Equal(t, 5000.0, sub.Weight)
}

func TestProcessResultsSplitsSegments(t *testing.T) {
	budget := execution.Budget{PerRow: 100, Shots: 100}
	raw := [][]domain.Counts{
		{
			{"10 01": 40, "": 60},
		},
	}

	results := ProcessResults(raw, budget)
	subs := results[0].Subcircuits[0]
	require.Len(t, subs, 2)

	// Entries are ordered by key: "" sorts before "10 01".
	assert.Equal(t, [][]float64{{}}, subs[0].Eigenvalues)
	assert.Equal(t, 60.0, subs[0].Weight)

	assert.Equal(t, [][]float64{{1, -1}, {-1, 1}}, subs[1].Eigenvalues)
	assert.Equal(t, 40.0, subs[1].Weight)
}

func TestApplyMarkersAppendsSegment(t *testing.T) {
	results := []TotalResult{
		{Subcircuits: [][]SubResult{
			{{Eigenvalues: [][]float64{{1, -1}}, Weight: 10}},
		}},
	}
	markers := []cutting.IdentityMeasurement{{Row: 0, Template: 0, Bit: 0}}

	require.NoError(t, ApplyMarkers(results, markers))

	sub := results[0].Subcircuits[0][0]
	require.Len(t, sub.Eigenvalues, 2)
	assert.Equal(t, []float64{-1}, sub.Eigenvalues[1])
}

func TestApplyMarkersInsertsIntoExistingSegment(t *testing.T) {
	results := []TotalResult{
		{Subcircuits: [][]SubResult{
			{{Eigenvalues: [][]float64{{1}, {1, 1}}, Weight: 10}},
		}},
	}
	markers := []cutting.IdentityMeasurement{{Row: 0, Template: 0, Bit: 1}}

	require.NoError(t, ApplyMarkers(results, markers))

	// -1 lands at bit 1, shifting the later entry right.
	assert.Equal(t, []float64{1, -1, 1}, results[0].Subcircuits[0][0].Eigenvalues[1])
}

func TestApplyMarkersRewritesEverySubResult(t *testing.T) {
	results := []TotalResult{
		{Subcircuits: [][]SubResult{
			{
				{Eigenvalues: [][]float64{{1}}, Weight: 1},
				{Eigenvalues: [][]float64{{-1}}, Weight: 2},
			},
		}},
	}
	markers := []cutting.IdentityMeasurement{{Row: 0, Template: 0, Bit: 0}}

	require.NoError(t, ApplyMarkers(results, markers))
	for _, sub := range results[0].Subcircuits[0] {
		require.Len(t, sub.Eigenvalues, 2)
		assert.Equal(t, []float64{-1}, sub.Eigenvalues[1])
	}
}

func TestApplyMarkersOutOfRange(t *testing.T) {
	results := []TotalResult{{Subcircuits: [][]SubResult{{}}}}

	err := ApplyMarkers(results, []cutting.IdentityMeasurement{{Row: 2, Template: 0, Bit: 0}})
	assert.Error(t, err)

	err = ApplyMarkers(results, []cutting.IdentityMeasurement{{Row: 0, Template: 5, Bit: 0}})
	assert.Error(t, err)
}
