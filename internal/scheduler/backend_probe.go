package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/backends"
	"github.com/splitq/wirecut/internal/domain"
	"github.com/splitq/wirecut/internal/events"
)

// probeShots keeps the round-trip cheap; the probe only cares about
// availability and latency, not statistics.
const probeShots = 100

// BackendProbeJob runs a one-qubit circuit through the configured backend
// and logs availability and latency.
type BackendProbeJob struct {
	backend backends.Backend
	events  *events.Manager
	log     zerolog.Logger
}

// NewBackendProbeJob creates a new backend probe job
func NewBackendProbeJob(backend backends.Backend, eventMgr *events.Manager, log zerolog.Logger) *BackendProbeJob {
	return &BackendProbeJob{
		backend: backend,
		events:  eventMgr,
		log:     log.With().Str("job", "backend_probe").Logger(),
	}
}

// Name implements Job
func (j *BackendProbeJob) Name() string {
	return "backend_probe"
}

// Run implements Job
func (j *BackendProbeJob) Run() error {
	probe := domain.Circuit{
		Name:      "backend_probe",
		Qubits:    1,
		Registers: []domain.Register{{Name: "c", Size: 1}},
		Instructions: []domain.Instruction{
			{Op: domain.OpH, Qubits: []int{0}},
			{Op: domain.OpMeasure, Qubits: []int{0}, Bits: []domain.BitRef{{Register: 0, Bit: 0}}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	counts, err := j.backend.Execute(ctx, probe, probeShots)
	latency := time.Since(start)
	if err != nil {
		return fmt.Errorf("backend %s unavailable: %w", j.backend.Name(), err)
	}

	j.events.Emit(events.BackendProbed, "scheduler", map[string]interface{}{
		"backend":    j.backend.Name(),
		"latency_ms": latency.Milliseconds(),
		"outcomes":   len(counts),
	})
	j.log.Info().
		Str("backend", j.backend.Name()).
		Dur("latency", latency).
		Int("outcomes", len(counts)).
		Msg("Backend probe complete")
	return nil
}
