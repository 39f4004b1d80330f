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

// StudentRepository persists eligible students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindStudentByDocument returns the student with sede info. Returns sql.ErrNoRows (wrapped) when missing.
func (r *StudentRepository) FindStudentByDocument(ctx context.Context, document string) (*models.StudentDetail, error) {
	const query = `
SELECT st.id, st.sede_id, st.student_group, st.name, st.document, st.enabled, st.created_at,
	s.name AS sede_name, s.slug AS sede_slug
FROM students st
JOIN sedes s ON s.id = st.sede_id
WHERE st.document = $1`
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, document); err != nil {
		return nil, fmt.Errorf("find student by document: %w", err)
	}
	return &student, nil
}

// LockStudentByDocument reads a student row holding a row lock until exec's transaction ends.
func (r *StudentRepository) LockStudentByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (*models.Student, error) {
	const query = `SELECT id, sede_id, student_group, name, document, enabled, created_at
FROM students WHERE document = $1 FOR UPDATE`
	var student models.Student
	if err := sqlx.GetContext(ctx, r.exec(exec), &student, query, document); err != nil {
		return nil, fmt.Errorf("lock student: %w", err)
	}
	return &student, nil
}

// ExistsByDocument reports whether a document is already registered.
func (r *StudentRepository) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE document = $1)`
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, query, document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student document: %w", err)
	}
	return exists, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO students (id, sede_id, student_group, name, document, enabled, created_at)
VALUES (:id, :sede_id, :student_group, :name, :document, :enabled, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// List returns students matching the filter ordered by sede, group and name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT st.id, st.sede_id, st.student_group, st.name, st.document, st.enabled, st.created_at,
	s.name AS sede_name, s.slug AS sede_slug
FROM students st
JOIN sedes s ON s.id = st.sede_id
WHERE 1=1`)

	var args []interface{}
	if filter.SedeSlug != "" {
		args = append(args, filter.SedeSlug)
		fmt.Fprintf(&query, " AND s.slug = $%d", len(args))
	}
	if filter.Group != "" {
		args = append(args, filter.Group)
		fmt.Fprintf(&query, " AND st.student_group = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&query, " AND (st.name ILIKE $%d OR st.document ILIKE $%d)", len(args), len(args))
	}
	query.WriteString("\nORDER BY s.name ASC, st.student_group ASC, st.name ASC")

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
