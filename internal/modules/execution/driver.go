package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/backends"
	"github.com/splitq/wirecut/internal/domain"
)

// Driver dispatches experiment circuits to an execution backend over a
// bounded worker pool and collects one histogram per circuit, grouped the
// same way the circuits are ([row][template]).
type Driver struct {
	backend backends.Backend
	workers int
	log     zerolog.Logger
}

// NewDriver creates a driver. workers bounds concurrent backend calls.
func NewDriver(backend backends.Backend, workers int, log zerolog.Logger) *Driver {
	if workers <= 0 {
		workers = 10
	}
	return &Driver{
		backend: backend,
		workers: workers,
		log:     log.With().Str("component", "execution").Logger(),
	}
}

// Backend returns the backend the driver dispatches to.
func (d *Driver) Backend() backends.Backend {
	return d.backend
}

// Run executes every circuit for the same shot count. A circuit that does
// not end in a measurement produced no end-of-circuit outcome, so its
// histogram is synthesized as a single all-count entry under a blank key
// instead of a backend call. Any backend failure aborts the whole run:
// partial reconstructions are not statistically meaningful.
func (d *Driver) Run(ctx context.Context, circuits [][]domain.Circuit, shots int64) ([][]domain.Counts, error) {
	type job struct {
		row, template int
		circuit       domain.Circuit
	}
	type result struct {
		row, template int
		counts        domain.Counts
		err           error
	}

	var flat []job
	for r, rowCircuits := range circuits {
		for t, c := range rowCircuits {
			flat = append(flat, job{row: r, template: t, circuit: c})
		}
	}

	out := make([][]domain.Counts, len(circuits))
	for r := range circuits {
		out[r] = make([]domain.Counts, len(circuits[r]))
	}
	if len(flat) == 0 {
		return out, nil
	}

	jobs := make(chan job, len(flat))
	results := make(chan result, len(flat))

	workers := d.workers
	if len(flat) < workers {
		workers = len(flat)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{row: j.row, template: j.template, err: err}
					continue
				}
				counts, err := d.execute(ctx, j.circuit, shots)
				results <- result{row: j.row, template: j.template, counts: counts, err: err}
			}
		}()
	}

	for _, j := range flat {
		jobs <- j
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			err := fmt.Errorf("row %d template %d (%s): %w",
				res.row, res.template, circuits[res.row][res.template].Name, res.err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[res.row][res.template] = res.counts
	}
	if firstErr != nil {
		return nil, firstErr
	}

	d.log.Debug().
		Int("circuits", len(flat)).
		Int64("shots", shots).
		Str("backend", d.backend.Name()).
		Msg("Execution complete")

	return out, nil
}

func (d *Driver) execute(ctx context.Context, circuit domain.Circuit, shots int64) (domain.Counts, error) {
	if !circuit.EndsWithMeasure() {
		// Only qpd-basis bits exist; the end segment is deterministic.
		return domain.Counts{"": shots}, nil
	}
	counts, err := d.backend.Execute(ctx, circuit, shots)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", d.backend.Name(), err)
	}
	return counts, nil
}
