package estimation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/events"
	"github.com/splitq/wirecut/internal/modules/cutting"
	"github.com/splitq/wirecut/internal/modules/execution"
)

// Result is the outcome of one full reconstruction.
type Result struct {
	Expectations []float64        `json:"expectations"`
	Rows         int              `json:"rows"`
	Circuits     int              `json:"circuits"`
	Markers      int              `json:"markers"`
	Budget       execution.Budget `json:"budget"`
}

// Service runs the full reconstruction pipeline: validate, enumerate,
// materialize, execute, post-process, estimate.
type Service struct {
	cutting *cutting.Service
	driver  *execution.Driver
	events  *events.Manager
	log     zerolog.Logger
}

// NewService creates the pipeline service.
func NewService(cuttingSvc *cutting.Service, driver *execution.Driver, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		cutting: cuttingSvc,
		driver:  driver,
		events:  eventMgr,
		log:     log.With().Str("component", "estimation").Logger(),
	}
}

// Experiments materializes the experiment circuits without executing them,
// exposing the grouped circuits, row coefficients and identity markers for
// introspection or a separate execution stage.
func (s *Service) Experiments(req Request) (*cutting.Experiments, error) {
	cuts := len(req.Cuts)
	if err := ValidateTemplates(req.Templates, cuts); err != nil {
		return nil, err
	}
	return s.cutting.BuildExperiments(req.Templates, cuts)
}

// Estimate runs the whole pipeline and returns one expectation value per
// requested observable. Any backend failure aborts the estimate: a partial
// reconstruction has no statistical meaning.
func (s *Service) Estimate(ctx context.Context, req Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	cuts := len(req.Cuts)

	experiments, err := s.cutting.BuildExperiments(req.Templates, cuts)
	if err != nil {
		s.events.EmitError("estimation", err, map[string]interface{}{"stage": "build"})
		return nil, fmt.Errorf("build experiments: %w", err)
	}
	rows := len(experiments.Circuits)
	numCircuits := rows * len(req.Templates)
	s.events.Emit(events.ExperimentsBuilt, "estimation", map[string]interface{}{
		"rows":     rows,
		"circuits": numCircuits,
		"markers":  len(experiments.Markers),
	})

	budget := execution.NewBudget(cuts, rows)
	s.events.Emit(events.ExecutionStarted, "estimation", map[string]interface{}{
		"circuits": numCircuits,
		"shots":    budget.Shots,
	})
	raw, err := s.driver.Run(ctx, experiments.Circuits, budget.Shots)
	if err != nil {
		s.events.EmitError("estimation", err, map[string]interface{}{"stage": "execute"})
		return nil, fmt.Errorf("execute experiments: %w", err)
	}
	s.events.Emit(events.ExecutionComplete, "estimation", map[string]interface{}{
		"circuits": numCircuits,
	})

	results := ProcessResults(raw, budget)
	if err := ApplyMarkers(results, experiments.Markers); err != nil {
		return nil, fmt.Errorf("apply identity markers: %w", err)
	}

	expectations, err := Estimate(results, experiments.Coefficients, cuts, req.Observables, req.Remap, budget)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	s.events.Emit(events.EstimateReady, "estimation", map[string]interface{}{
		"observables": len(req.Observables),
	})
	s.log.Info().
		Int("rows", rows).
		Int("circuits", numCircuits).
		Int("observables", len(req.Observables)).
		Msg("Reconstruction complete")

	return &Result{
		Expectations: expectations,
		Rows:         rows,
		Circuits:     numCircuits,
		Markers:      len(experiments.Markers),
		Budget:       budget,
	}, nil
}
