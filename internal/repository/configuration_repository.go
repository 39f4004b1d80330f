package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresdelrio/clubs/internal/models"
)

const configurationColumns = `key, value, type, description, updated_by, updated_at`

// ConfigurationRepository stores runtime flags such as enrollments_enabled.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// List returns every stored flag ordered by key.
func (r *ConfigurationRepository) List(ctx context.Context) ([]models.Configuration, error) {
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, `SELECT `+configurationColumns+` FROM configurations ORDER BY key`); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// Get fetches one flag. A missing key surfaces as a wrapped sql.ErrNoRows.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, `SELECT `+configurationColumns+` FROM configurations WHERE key = $1`, key); err != nil {
		return nil, fmt.Errorf("get configuration %s: %w", key, err)
	}
	return &cfg, nil
}

// Upsert writes a flag and stamps it with the database clock. A nil description keeps the stored one.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	const query = `INSERT INTO configurations (key, value, type, description, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (key) DO UPDATE SET
	value = EXCLUDED.value,
	type = EXCLUDED.type,
	description = COALESCE(EXCLUDED.description, configurations.description),
	updated_by = EXCLUDED.updated_by,
	updated_at = EXCLUDED.updated_at
RETURNING updated_at`
	row := r.db.QueryRowxContext(ctx, query, cfg.Key, cfg.Value, cfg.Type, cfg.Description, cfg.UpdatedBy)
	if err := row.Scan(&cfg.UpdatedAt); err != nil {
		return fmt.Errorf("upsert configuration %s: %w", cfg.Key, err)
	}
	return nil
}
