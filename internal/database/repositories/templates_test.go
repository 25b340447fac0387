package repositories

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitq/wirecut/internal/database"
	"github.com/splitq/wirecut/internal/domain"
)

func newTestRepo(t *testing.T) *TemplateRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "templates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewTemplateRepository(db.Conn(), zerolog.Nop())
}

func TestTemplateRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	set := &TemplateSet{
		Name: "bell-cut",
		Cuts: 1,
		Templates: []domain.Circuit{
			{
				Name:      "sub0",
				Qubits:    2,
				Registers: []domain.Register{{Name: "qpd", Size: 1}, {Name: "end", Size: 1}},
				Instructions: []domain.Instruction{
					{Op: domain.OpH, Qubits: []int{0}},
					{Op: "Meas_0", Qubits: []int{1}},
				},
			},
		},
	}
	require.NoError(t, repo.Save(set))

	got, err := repo.Get("bell-cut")
	require.NoError(t, err)
	assert.Equal(t, set.Name, got.Name)
	assert.Equal(t, set.Cuts, got.Cuts)
	assert.Equal(t, set.Templates, got.Templates)
	assert.False(t, got.CreatedAt.IsZero())

	names, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bell-cut"}, names)

	require.NoError(t, repo.Delete("bell-cut"))
	_, err = repo.Get("bell-cut")
	assert.Error(t, err)
}

func TestTemplateRepositoryMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get("nope")
	assert.ErrorContains(t, err, "not found")

	err = repo.Delete("nope")
	assert.ErrorContains(t, err, "not found")
}

func TestTemplateRepositorySaveReplaces(t *testing.T) {
	repo := newTestRepo(t)

	set := &TemplateSet{
		Name:      "cut",
		Cuts:      1,
		Templates: []domain.Circuit{{Name: "a", Qubits: 1}},
	}
	require.NoError(t, repo.Save(set))

	set.Templates = append(set.Templates, domain.Circuit{Name: "b", Qubits: 1})
	require.NoError(t, repo.Save(set))

	got, err := repo.Get("cut")
	require.NoError(t, err)
	assert.Len(t, got.Templates, 2)
}
