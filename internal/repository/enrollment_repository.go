package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andresdelrio/clubs/internal/models"
)

const enrollmentDetailSelect = `
SELECT
	e.id, e.student_id, e.club_id, e.state, e.created_at, e.updated_at,
	st.name AS student_name,
	st.document AS student_document,
	st.student_group AS student_group,
	c.name AS club_name,
	c.description AS club_description,
	c.responsible AS club_responsible,
	c.capacity AS club_capacity,
	c.image_url AS club_image_url,
	s.id AS sede_id,
	s.name AS sede_name,
	s.slug AS sede_slug
FROM enrollments e
JOIN students st ON st.id = e.student_id
JOIN clubs c ON c.id = e.club_id
JOIN sedes s ON s.id = c.sede_id`

// EnrollmentRepository persists enrollment rows.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindActiveByStudent returns the student's active enrollment, or nil when there is none.
func (r *EnrollmentRepository) FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, club_id, state, created_at, updated_at
FROM enrollments WHERE student_id = $1 AND state = 'ACTIVE' LIMIT 1`
	var enrollment models.Enrollment
	if err := sqlx.GetContext(ctx, r.exec(exec), &enrollment, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active enrollment: %w", err)
	}
	return &enrollment, nil
}

// CountActiveByClub counts the active enrollments of a club.
func (r *EnrollmentRepository) CountActiveByClub(ctx context.Context, exec sqlx.ExtContext, clubID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE club_id = $1 AND state = 'ACTIVE'`
	var total int
	if err := sqlx.GetContext(ctx, r.exec(exec), &total, query, clubID); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return total, nil
}

// Create inserts an ACTIVE enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.State = models.EnrollmentStateActive
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `
INSERT INTO enrollments (id, student_id, club_id, state, created_at, updated_at)
VALUES (:id, :student_id, :club_id, :state, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, enrollment); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// Cancel marks an enrollment as CANCELLED.
func (r *EnrollmentRepository) Cancel(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `UPDATE enrollments SET state = 'CANCELLED', updated_at = $2 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("cancel enrollment: %w", err)
	}
	return nil
}

// LockEnrollment reads an enrollment row, with its club's sede, holding a row lock on the enrollment.
func (r *EnrollmentRepository) LockEnrollment(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentWithSede, error) {
	const query = `
SELECT e.id, e.student_id, e.club_id, e.state, e.created_at, e.updated_at, c.sede_id
FROM enrollments e
JOIN clubs c ON c.id = e.club_id
WHERE e.id = $1
FOR UPDATE OF e`
	var enrollment models.EnrollmentWithSede
	if err := sqlx.GetContext(ctx, r.exec(exec), &enrollment, query, id); err != nil {
		return nil, fmt.Errorf("lock enrollment: %w", err)
	}
	return &enrollment, nil
}

// GetDetail returns an enrollment joined with its student, club and sede.
func (r *EnrollmentRepository) GetDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	if err := sqlx.GetContext(ctx, r.exec(exec), &detail, enrollmentDetailSelect+"\nWHERE e.id = $1", id); err != nil {
		return nil, fmt.Errorf("get enrollment detail: %w", err)
	}
	return &detail, nil
}

// FindActiveDetailByDocument returns the active enrollment of a document, or nil when there is none.
func (r *EnrollmentRepository) FindActiveDetailByDocument(ctx context.Context, document string) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	query := enrollmentDetailSelect + "\nWHERE st.document = $1 AND e.state = 'ACTIVE'\nLIMIT 1"
	if err := r.db.GetContext(ctx, &detail, query, document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active enrollment by document: %w", err)
	}
	return &detail, nil
}

// ListActive returns active enrollments matching the filter ordered by sede, club and student name.
func (r *EnrollmentRepository) ListActive(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	query := strings.Builder{}
	query.WriteString(enrollmentDetailSelect)
	query.WriteString("\nWHERE e.state = 'ACTIVE'")

	var args []interface{}
	if filter.SedeID != "" {
		args = append(args, filter.SedeID)
		fmt.Fprintf(&query, " AND c.sede_id = $%d", len(args))
	}
	if filter.Group != "" {
		args = append(args, filter.Group)
		fmt.Fprintf(&query, " AND st.student_group = $%d", len(args))
	}
	if filter.ClubID != "" {
		args = append(args, filter.ClubID)
		fmt.Fprintf(&query, " AND e.club_id = $%d", len(args))
	}
	query.WriteString("\nORDER BY s.name ASC, c.name ASC, st.name ASC")

	var rows []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return rows, nil
}
