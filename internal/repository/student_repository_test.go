package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/models"
)

func TestStudentRepositoryLockStudentByDocument(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM students WHERE document = $1 FOR UPDATE`)).
		WithArgs("ABC-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sede_id", "student_group", "name", "document", "enabled", "created_at"}).
			AddRow("st-1", "sede-1", "5A", "Ana", "ABC-1", true, time.Now()))

	student, err := repo.LockStudentByDocument(context.Background(), nil, "ABC-1")
	require.NoError(t, err)
	assert.Equal(t, "5A", student.Group)
	assert.True(t, student.Enabled)
}

func TestStudentRepositoryLockStudentMissing(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`FOR UPDATE`).WithArgs("X").WillReturnError(sql.ErrNoRows)

	_, err := repo.LockStudentByDocument(context.Background(), nil, "X")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStudentRepositoryExistsByDocument(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM students WHERE document = $1)`)).
		WithArgs("ABC-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByDocument(context.Background(), nil, "ABC-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(`INSERT INTO students`).
		WithArgs(sqlmock.AnyArg(), "sede-1", "5A", "Ana", "ABC-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{SedeID: "sede-1", Group: "5A", Name: "Ana", Document: "ABC-1", Enabled: true}
	require.NoError(t, repo.Create(context.Background(), nil, student))
	assert.NotEmpty(t, student.ID)
}

func TestStudentRepositoryListFilters(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`AND s.slug = \$1 AND st.student_group = \$2 AND \(st.name ILIKE \$3 OR st.document ILIKE \$3\)`).
		WithArgs("central", "5A", "%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sede_id", "student_group", "name", "document", "enabled", "created_at", "sede_name", "sede_slug"}).
			AddRow("st-1", "sede-1", "5A", "Ana", "ABC-1", true, time.Now(), "Central", "central"))

	students, err := repo.List(context.Background(), models.StudentFilter{SedeSlug: "central", Group: "5A", Search: "ana"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Central", students[0].SedeName)
}
