package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/domain"
)

// maxLocalBits bounds the key space the local backend will enumerate.
const maxLocalBits = 20

// LocalBackend is a deterministic stand-in for a real execution backend:
// it spreads the requested shots uniformly over every bitstring the
// circuit's classical registers can produce. Useful for wiring tests and
// dry runs; repeated calls are bit-identical.
type LocalBackend struct {
	log zerolog.Logger
}

// NewLocalBackend creates a local deterministic backend.
func NewLocalBackend(log zerolog.Logger) *LocalBackend {
	return &LocalBackend{log: log.With().Str("backend", "local").Logger()}
}

// Name implements Backend.
func (b *LocalBackend) Name() string { return "local" }

// Execute implements Backend. Keys follow the pipeline convention: with
// two registers the key is "<secondary bits> <primary bits>", character i
// of a segment being classical bit i; with one register the key is a
// single segment.
func (b *LocalBackend) Execute(_ context.Context, circuit domain.Circuit, shots int64) (domain.Counts, error) {
	total := circuit.ClassicalBits()
	if total == 0 {
		return domain.Counts{"": shots}, nil
	}
	if total > maxLocalBits {
		return nil, fmt.Errorf("circuit %q: %d classical bits exceed local backend limit %d", circuit.Name, total, maxLocalBits)
	}

	numKeys := int64(1) << total
	per := shots / numKeys
	rem := shots % numKeys

	counts := make(domain.Counts)
	for v := int64(0); v < numKeys; v++ {
		n := per
		if v == 0 {
			n += rem
		}
		if n == 0 {
			continue
		}
		counts[b.renderKey(circuit, v)] = n
	}
	return counts, nil
}

// renderKey turns value v into a histogram key, assigning low-order bits to
// the secondary register first so key enumeration order is stable.
func (b *LocalBackend) renderKey(circuit domain.Circuit, v int64) string {
	segments := make([]string, 0, len(circuit.Registers))
	bit := 0
	// Secondary register renders first in the key.
	order := make([]int, 0, len(circuit.Registers))
	for i := len(circuit.Registers) - 1; i >= 0; i-- {
		order = append(order, i)
	}
	for _, reg := range order {
		var sb strings.Builder
		for i := 0; i < circuit.Registers[reg].Size; i++ {
			if v>>bit&1 == 1 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
			bit++
		}
		segments = append(segments, sb.String())
	}
	return strings.Join(segments, " ")
}
