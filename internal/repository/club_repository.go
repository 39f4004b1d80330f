package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andresdelrio/clubs/internal/models"
)

const clubSummarySelect = `
SELECT
	c.id, c.sede_id, c.name, c.description, c.responsible, c.capacity, c.image_url, c.created_at, c.updated_at,
	s.name AS sede_name,
	s.slug AS sede_slug,
	COALESCE(o.occupied, 0) AS occupied,
	GREATEST(c.capacity - COALESCE(o.occupied, 0), 0) AS available
FROM clubs c
JOIN sedes s ON s.id = c.sede_id
LEFT JOIN (
	SELECT club_id, COUNT(*) AS occupied FROM enrollments WHERE state = 'ACTIVE' GROUP BY club_id
) o ON o.club_id = c.id
WHERE c.deleted_at IS NULL`

// ClubRepository persists clubs.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository constructs the repository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetClubByID returns a club with its current occupancy. Returns sql.ErrNoRows (wrapped) when missing.
func (r *ClubRepository) GetClubByID(ctx context.Context, id string) (*models.ClubSummary, error) {
	var club models.ClubSummary
	if err := r.db.GetContext(ctx, &club, clubSummarySelect+"\nAND c.id = $1", id); err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return &club, nil
}

// ListClubsBySede returns the clubs of a sede ordered by name.
func (r *ClubRepository) ListClubsBySede(ctx context.Context, sedeID string) ([]models.ClubSummary, error) {
	var clubs []models.ClubSummary
	if err := r.db.SelectContext(ctx, &clubs, clubSummarySelect+"\nAND c.sede_id = $1\nORDER BY c.name ASC", sedeID); err != nil {
		return nil, fmt.Errorf("list clubs by sede: %w", err)
	}
	return clubs, nil
}

// ListAllClubs returns every club ordered by sede and name.
func (r *ClubRepository) ListAllClubs(ctx context.Context) ([]models.ClubSummary, error) {
	var clubs []models.ClubSummary
	if err := r.db.SelectContext(ctx, &clubs, clubSummarySelect+"\nORDER BY s.name ASC, c.name ASC"); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

// LockClub reads a club row holding a row lock until exec's transaction ends.
func (r *ClubRepository) LockClub(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Club, error) {
	const query = `SELECT id, sede_id, name, description, responsible, capacity, image_url, created_at, updated_at
FROM clubs WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	var club models.Club
	if err := sqlx.GetContext(ctx, r.exec(exec), &club, query, id); err != nil {
		return nil, fmt.Errorf("lock club: %w", err)
	}
	return &club, nil
}

// Create inserts a club, assigning id and timestamps when missing.
func (r *ClubRepository) Create(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now
	const query = `
INSERT INTO clubs (id, sede_id, name, description, responsible, capacity, image_url, created_at, updated_at)
VALUES (:id, :sede_id, :name, :description, :responsible, :capacity, :image_url, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, club); err != nil {
		return fmt.Errorf("insert club: %w", err)
	}
	return nil
}

// UpdateClub overwrites club metadata and capacity. The sede of a club never changes.
func (r *ClubRepository) UpdateClub(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error {
	club.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE clubs SET name = :name, description = :description, responsible = :responsible,
	capacity = :capacity, image_url = :image_url, updated_at = :updated_at
WHERE id = :id AND deleted_at IS NULL`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, club); err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	return nil
}

// DeleteClub hides a club from every listing. The row and its enrollment history stay in place.
func (r *ClubRepository) DeleteClub(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `UPDATE clubs SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.exec(exec).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	return nil
}
