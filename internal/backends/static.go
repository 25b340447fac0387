package backends

import (
	"context"
	"fmt"

	"github.com/splitq/wirecut/internal/domain"
)

// StaticBackend serves canned histograms keyed by circuit name. It exists
// for tests and offline replays of recorded backend output.
type StaticBackend struct {
	counts map[string]domain.Counts
}

// NewStaticBackend creates a backend answering from the given table.
func NewStaticBackend(counts map[string]domain.Counts) *StaticBackend {
	return &StaticBackend{counts: counts}
}

// Name implements Backend.
func (b *StaticBackend) Name() string { return "static" }

// Execute implements Backend. The shot count is ignored; the canned
// histogram is returned as recorded.
func (b *StaticBackend) Execute(_ context.Context, circuit domain.Circuit, _ int64) (domain.Counts, error) {
	canned, ok := b.counts[circuit.Name]
	if !ok {
		return nil, fmt.Errorf("no recorded counts for circuit %q", circuit.Name)
	}
	out := make(domain.Counts, len(canned))
	for k, v := range canned {
		out[k] = v
	}
	return out, nil
}
