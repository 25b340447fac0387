package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/domain"
)

// TemplateSet is a named group of subcircuit templates with its cut count,
// stored as an engine input for repeated reconstructions.
type TemplateSet struct {
	Name      string           `json:"name"`
	Cuts      int              `json:"cuts"`
	Templates []domain.Circuit `json:"templates"`
	CreatedAt time.Time        `json:"created_at"`
}

// TemplateRepository handles template-set persistence
type TemplateRepository struct {
	*BaseRepository
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB, log zerolog.Logger) *TemplateRepository {
	return &TemplateRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "templates").Logger()),
	}
}

// Save inserts or replaces a template set
func (r *TemplateRepository) Save(set *TemplateSet) error {
	payload, err := json.Marshal(set.Templates)
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = r.DB().Exec(
		`INSERT OR REPLACE INTO template_sets (name, cuts, payload, created_at) VALUES (?, ?, ?, ?)`,
		set.Name, set.Cuts, string(payload), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save template set %q: %w", set.Name, err)
	}

	r.log.Debug().Str("name", set.Name).Int("templates", len(set.Templates)).Msg("Template set saved")
	return nil
}

// Get retrieves a template set by name
func (r *TemplateRepository) Get(name string) (*TemplateSet, error) {
	var set TemplateSet
	var payload, createdAt string

	err := r.DB().QueryRow(
		`SELECT name, cuts, payload, created_at FROM template_sets WHERE name = ?`, name,
	).Scan(&set.Name, &set.Cuts, &payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template set %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template set %q: %w", name, err)
	}

	if err := json.Unmarshal([]byte(payload), &set.Templates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template set %q: %w", name, err)
	}
	set.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &set, nil
}

// List returns the names of all stored template sets
func (r *TemplateRepository) List() ([]string, error) {
	rows, err := r.DB().Query(`SELECT name FROM template_sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list template sets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan template set name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a template set by name
func (r *TemplateRepository) Delete(name string) error {
	result, err := r.DB().Exec(`DELETE FROM template_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete template set %q: %w", name, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("template set %q not found", name)
	}
	return nil
}
