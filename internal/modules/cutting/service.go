package cutting

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/qpd"
)

// Experiments is the full materialization output: circuits grouped as
// [row][template], the merged identity-measurement markers and the
// row-coefficient vector. All three are exposed for a separate execution
// stage to consume.
type Experiments struct {
	Circuits     [][]domain.Circuit    `json:"circuits"`
	Markers      []IdentityMeasurement `json:"markers"`
	Coefficients []float64             `json:"coefficients"`
}

// Service runs materialization passes over combination rows.
type Service struct {
	catalog []qpd.Channel
	workers int
	log     zerolog.Logger
}

// NewService creates a cutting service. workers bounds the parallel row
// materializations.
func NewService(catalog []qpd.Channel, workers int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = 10
	}
	return &Service{
		catalog: catalog,
		workers: workers,
		log:     log.With().Str("component", "cutting").Logger(),
	}
}

// Catalog returns the channel table the service enumerates over.
func (s *Service) Catalog() []qpd.Channel {
	return s.catalog
}

// BuildExperiments materializes one experiment circuit per (row, template)
// pair. Rows are independent and run in parallel; each worker collects its
// own marker list and the lists are merged in row order afterwards, so the
// result is identical to a sequential pass.
func (s *Service) BuildExperiments(templates []domain.Circuit, cuts int) (*Experiments, error) {
	rows := Rows(s.catalog, cuts)

	// Templates are immutable: scan each once for the whole pass.
	scanned := make([][]Placeholder, len(templates))
	for t, tpl := range templates {
		scanned[t] = ScanPlaceholders(tpl)
	}

	builder := NewBuilder(cuts)

	jobs := make(chan rowJob, len(rows))
	results := make(chan rowResult, len(rows))

	workers := s.workers
	if len(rows) < workers {
		workers = len(rows)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- materializeRow(builder, job, templates, scanned)
			}
		}()
	}

	for idx, row := range rows {
		jobs <- rowJob{index: idx, row: row}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	circuits := make([][]domain.Circuit, len(rows))
	markersByRow := make([][]IdentityMeasurement, len(rows))
	errs := make([]error, len(rows))
	for res := range results {
		circuits[res.index] = res.circuits
		markersByRow[res.index] = res.markers
		errs[res.index] = res.err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var markers []IdentityMeasurement
	for _, m := range markersByRow {
		markers = append(markers, m...)
	}

	s.log.Debug().
		Int("rows", len(rows)).
		Int("templates", len(templates)).
		Int("markers", len(markers)).
		Msg("Materialized experiment circuits")

	return &Experiments{
		Circuits:     circuits,
		Markers:      markers,
		Coefficients: Coefficients(rows),
	}, nil
}

type rowJob struct {
	index int
	row   Row
}

type rowResult struct {
	index    int
	circuits []domain.Circuit
	markers  []IdentityMeasurement
	err      error
}

func materializeRow(builder *Builder, job rowJob, templates []domain.Circuit, scanned [][]Placeholder) rowResult {
	circuits := make([]domain.Circuit, len(templates))
	var markers []IdentityMeasurement
	for t, tpl := range templates {
		circuit, m, err := builder.Materialize(job.row, job.index, tpl, scanned[t], t)
		if err != nil {
			return rowResult{index: job.index, err: fmt.Errorf("materialize: %w", err)}
		}
		circuits[t] = circuit
		markers = append(markers, m...)
	}
	return rowResult{index: job.index, circuits: circuits, markers: markers}
}
