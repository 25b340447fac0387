package qpd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitq/wirecut/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	require.Len(t, catalog, 8)
	require.NoError(t, Validate(catalog))

	identities := 0
	sumAbs := 0.0
	for _, ch := range catalog {
		sumAbs += math.Abs(ch.Coefficient)
		if ch.Basis == BasisIdentity {
			identities++
			assert.Empty(t, ch.Measure, "identity channel must not measure")
		} else {
			require.NotEmpty(t, ch.Measure)
			assert.Equal(t, domain.OpMeasure, ch.Measure[len(ch.Measure)-1])
		}
	}
	assert.Equal(t, 1, identities)
	assert.Equal(t, 4.0, sumAbs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog []Channel
		wantErr bool
	}{
		{
			name:    "default catalog is valid",
			catalog: DefaultCatalog(),
			wantErr: false,
		},
		{
			name:    "empty catalog",
			catalog: nil,
			wantErr: true,
		},
		{
			name: "zero coefficient",
			catalog: []Channel{
				{Coefficient: 0, Basis: "z", Measure: Fragment{domain.OpMeasure}},
				{Coefficient: 0.5, Basis: BasisIdentity},
			},
			wantErr: true,
		},
		{
			name: "measure fragment without trailing measurement",
			catalog: []Channel{
				{Coefficient: 0.5, Basis: "x", Measure: Fragment{domain.OpH}},
				{Coefficient: 0.5, Basis: BasisIdentity},
			},
			wantErr: true,
		},
		{
			name: "prepare fragment with measurement",
			catalog: []Channel{
				{Coefficient: 0.5, Basis: "z", Measure: Fragment{domain.OpMeasure}, Prepare: Fragment{domain.OpMeasure}},
				{Coefficient: 0.5, Basis: BasisIdentity},
			},
			wantErr: true,
		},
		{
			name: "no identity channel",
			catalog: []Channel{
				{Coefficient: 0.5, Basis: "z", Measure: Fragment{domain.OpMeasure}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.catalog)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
