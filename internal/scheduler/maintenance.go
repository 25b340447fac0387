package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/database"
)

// MaintenanceJob compacts the template-library database.
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "maintenance").Logger(),
	}
}

// Name implements Job
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run implements Job
func (j *MaintenanceJob) Run() error {
	if err := j.db.Vacuum(); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	j.log.Debug().Msg("Database vacuumed")
	return nil
}
