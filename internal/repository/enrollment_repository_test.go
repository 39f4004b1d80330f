package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/models"
)

var enrollmentDetailColumns = []string{
	"id", "student_id", "club_id", "state", "created_at", "updated_at",
	"student_name", "student_document", "student_group",
	"club_name", "club_description", "club_responsible", "club_capacity", "club_image_url",
	"sede_id", "sede_name", "sede_slug",
}

func TestEnrollmentRepositoryFindActiveByStudentNone(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments WHERE student_id = $1 AND state = 'ACTIVE' LIMIT 1`)).
		WithArgs("st-1").
		WillReturnError(sql.ErrNoRows)

	enrollment, err := repo.FindActiveByStudent(context.Background(), nil, "st-1")
	require.NoError(t, err)
	assert.Nil(t, enrollment)
}

func TestEnrollmentRepositoryCountActiveByClub(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM enrollments WHERE club_id = $1 AND state = 'ACTIVE'`)).
		WithArgs("club-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountActiveByClub(context.Background(), nil, "club-1")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestEnrollmentRepositoryCreateForcesActive(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`INSERT INTO enrollments`).
		WithArgs(sqlmock.AnyArg(), "st-1", "club-1", "ACTIVE", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{StudentID: "st-1", ClubID: "club-1", State: models.EnrollmentStateCancelled}
	require.NoError(t, repo.Create(context.Background(), nil, enrollment))
	assert.Equal(t, models.EnrollmentStateActive, enrollment.State)
	assert.NotEmpty(t, enrollment.ID)
}

func TestEnrollmentRepositoryCancel(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments SET state = 'CANCELLED', updated_at = $2 WHERE id = $1`)).
		WithArgs("enr-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), nil, "enr-1"))
}

func TestEnrollmentRepositoryLockEnrollment(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)
	now := time.Now()

	mock.ExpectQuery(`WHERE e.id = \$1\s+FOR UPDATE OF e`).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "club_id", "state", "created_at", "updated_at", "sede_id"}).
			AddRow("enr-1", "st-1", "club-1", "ACTIVE", now, now, "sede-1"))

	enrollment, err := repo.LockEnrollment(context.Background(), nil, "enr-1")
	require.NoError(t, err)
	assert.Equal(t, "sede-1", enrollment.SedeID)
	assert.Equal(t, models.EnrollmentStateActive, enrollment.State)
}

func TestEnrollmentRepositoryListActiveFilters(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)
	now := time.Now()

	mock.ExpectQuery(`WHERE e.state = 'ACTIVE' AND c.sede_id = \$1 AND st.student_group = \$2 AND e.club_id = \$3\s+ORDER BY s.name ASC, c.name ASC, st.name ASC`).
		WithArgs("sede-1", "5A", "club-1").
		WillReturnRows(sqlmock.NewRows(enrollmentDetailColumns).
			AddRow("enr-1", "st-1", "club-1", "ACTIVE", now, now, "Ana", "ABC-1", "5A", "Ajedrez", "", "Ruiz", 10, "", "sede-1", "Central", "central"))

	rows, err := repo.ListActive(context.Background(), models.EnrollmentFilter{SedeID: "sede-1", Group: "5A", ClubID: "club-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].StudentName)
	assert.Equal(t, 10, rows[0].ClubCapacity)
}

func TestEnrollmentRepositoryFindActiveDetailByDocument(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`WHERE st.document = \$1 AND e.state = 'ACTIVE'`).
		WithArgs("ABC-1").
		WillReturnError(sql.ErrNoRows)

	detail, err := repo.FindActiveDetailByDocument(context.Background(), "ABC-1")
	require.NoError(t, err)
	assert.Nil(t, detail)
}
