package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresdelrio/clubs/internal/models"
)

// SedeRepository reads school sites. Sedes are seeded and never modified by the service.
type SedeRepository struct {
	db *sqlx.DB
}

// NewSedeRepository constructs the repository.
func NewSedeRepository(db *sqlx.DB) *SedeRepository {
	return &SedeRepository{db: db}
}

// List returns all sedes ordered by name.
func (r *SedeRepository) List(ctx context.Context) ([]models.Sede, error) {
	const query = `SELECT id, name, slug FROM sedes ORDER BY name ASC`
	var sedes []models.Sede
	if err := r.db.SelectContext(ctx, &sedes, query); err != nil {
		return nil, fmt.Errorf("list sedes: %w", err)
	}
	return sedes, nil
}

// GetBySlug fetches a sede by slug. Returns sql.ErrNoRows (wrapped) when missing.
func (r *SedeRepository) GetBySlug(ctx context.Context, slug string) (*models.Sede, error) {
	const query = `SELECT id, name, slug FROM sedes WHERE slug = $1`
	var sede models.Sede
	if err := r.db.GetContext(ctx, &sede, query, slug); err != nil {
		return nil, fmt.Errorf("get sede by slug: %w", err)
	}
	return &sede, nil
}
