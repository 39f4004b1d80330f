package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/models"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &txProviderMock{db: sqlxdb}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

// memDB is an in-memory store shared by the repository fakes below.
type memDB struct {
	mu          sync.Mutex
	sedes       map[string]models.Sede
	students    map[string]*models.Student
	clubs       map[string]*models.Club
	enrollments map[string]*models.Enrollment
	configs     map[string]models.Configuration
	deleted     map[string]struct{}

	// hideActive makes FindActiveByStudent miss, imitating a concurrent insert it could not see.
	hideActive bool
	lockErr    error
}

func newMemDB() *memDB {
	return &memDB{
		sedes:       map[string]models.Sede{},
		students:    map[string]*models.Student{},
		clubs:       map[string]*models.Club{},
		enrollments: map[string]*models.Enrollment{},
		configs:     map[string]models.Configuration{},
		deleted:     map[string]struct{}{},
	}
}

// liveClub returns a club that has not been deleted.
func (m *memDB) liveClub(id string) (*models.Club, bool) {
	if _, gone := m.deleted[id]; gone {
		return nil, false
	}
	club, ok := m.clubs[id]
	return club, ok
}

func (m *memDB) addSede(name, slug string) models.Sede {
	sede := models.Sede{ID: uuid.NewString(), Name: name, Slug: slug}
	m.sedes[sede.ID] = sede
	return sede
}

func (m *memDB) addStudent(sedeID, group, name, document string) *models.Student {
	student := &models.Student{ID: uuid.NewString(), SedeID: sedeID, Group: group, Name: name, Document: document, Enabled: true, CreatedAt: time.Now()}
	m.students[student.ID] = student
	return student
}

func (m *memDB) addClub(sedeID, name string, capacity int) *models.Club {
	club := &models.Club{ID: uuid.NewString(), SedeID: sedeID, Name: name, Responsible: "Docente", Capacity: capacity}
	m.clubs[club.ID] = club
	return club
}

func (m *memDB) addEnrollment(studentID, clubID string, state models.EnrollmentState) *models.Enrollment {
	enrollment := &models.Enrollment{ID: uuid.NewString(), StudentID: studentID, ClubID: clubID, State: state, CreatedAt: time.Now()}
	m.enrollments[enrollment.ID] = enrollment
	return enrollment
}

func (m *memDB) activeCount(clubID string) int {
	total := 0
	for _, e := range m.enrollments {
		if e.ClubID == clubID && e.State == models.EnrollmentStateActive {
			total++
		}
	}
	return total
}

func (m *memDB) activeForStudent(studentID string) []*models.Enrollment {
	var out []*models.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.State == models.EnrollmentStateActive {
			out = append(out, e)
		}
	}
	return out
}

func (m *memDB) summary(club *models.Club) models.ClubSummary {
	sede := m.sedes[club.SedeID]
	occupied := m.activeCount(club.ID)
	return models.ClubSummary{
		Club:      *club,
		SedeName:  sede.Name,
		SedeSlug:  sede.Slug,
		Occupied:  occupied,
		Available: AvailableSeats(club.Capacity, occupied),
	}
}

func (m *memDB) detail(e *models.Enrollment) *models.EnrollmentDetail {
	student := m.students[e.StudentID]
	club := m.clubs[e.ClubID]
	sede := m.sedes[club.SedeID]
	return &models.EnrollmentDetail{
		Enrollment:      *e,
		StudentName:     student.Name,
		StudentDocument: student.Document,
		StudentGroup:    student.Group,
		ClubName:        club.Name,
		ClubDescription: club.Description,
		ClubResponsible: club.Responsible,
		ClubCapacity:    club.Capacity,
		ClubImageURL:    club.ImageURL,
		SedeID:          sede.ID,
		SedeName:        sede.Name,
		SedeSlug:        sede.Slug,
	}
}

type fakeEnrollments struct{ db *memDB }

func (f fakeEnrollments) FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Enrollment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.hideActive {
		return nil, nil
	}
	active := f.db.activeForStudent(studentID)
	if len(active) == 0 {
		return nil, nil
	}
	copied := *active[0]
	return &copied, nil
}

func (f fakeEnrollments) CountActiveByClub(ctx context.Context, exec sqlx.ExtContext, clubID string) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.activeCount(clubID), nil
}

func (f fakeEnrollments) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if len(f.db.activeForStudent(enrollment.StudentID)) > 0 {
		return &pq.Error{Code: "23505", Constraint: activeStudentIndex}
	}
	enrollment.ID = uuid.NewString()
	enrollment.State = models.EnrollmentStateActive
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = enrollment.CreatedAt
	copied := *enrollment
	f.db.enrollments[copied.ID] = &copied
	return nil
}

func (f fakeEnrollments) Cancel(ctx context.Context, exec sqlx.ExtContext, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if e, ok := f.db.enrollments[id]; ok {
		e.State = models.EnrollmentStateCancelled
		e.UpdatedAt = time.Now()
	}
	return nil
}

func (f fakeEnrollments) LockEnrollment(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentWithSede, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.lockErr != nil {
		return nil, f.db.lockErr
	}
	e, ok := f.db.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.EnrollmentWithSede{Enrollment: *e, SedeID: f.db.clubs[e.ClubID].SedeID}, nil
}

func (f fakeEnrollments) GetDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f.db.detail(e), nil
}

func (f fakeEnrollments) FindActiveDetailByDocument(ctx context.Context, document string) (*models.EnrollmentDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.students {
		if s.Document != document {
			continue
		}
		if active := f.db.activeForStudent(s.ID); len(active) > 0 {
			return f.db.detail(active[0]), nil
		}
	}
	return nil, nil
}

func (f fakeEnrollments) ListActive(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var rows []models.EnrollmentDetail
	for _, e := range f.db.enrollments {
		if e.State != models.EnrollmentStateActive {
			continue
		}
		d := f.db.detail(e)
		if filter.SedeID != "" && d.SedeID != filter.SedeID {
			continue
		}
		if filter.Group != "" && d.StudentGroup != filter.Group {
			continue
		}
		if filter.ClubID != "" && d.ClubID != filter.ClubID {
			continue
		}
		rows = append(rows, *d)
	}
	return rows, nil
}

type fakeClubs struct{ db *memDB }

func (f fakeClubs) GetClubByID(ctx context.Context, id string) (*models.ClubSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	club, ok := f.db.liveClub(id)
	if !ok {
		return nil, sql.ErrNoRows
	}
	summary := f.db.summary(club)
	return &summary, nil
}

func (f fakeClubs) ListClubsBySede(ctx context.Context, sedeID string) ([]models.ClubSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.ClubSummary
	for id, club := range f.db.clubs {
		if _, gone := f.db.deleted[id]; gone {
			continue
		}
		if club.SedeID == sedeID {
			out = append(out, f.db.summary(club))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeClubs) ListAllClubs(ctx context.Context) ([]models.ClubSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.ClubSummary
	for id, club := range f.db.clubs {
		if _, gone := f.db.deleted[id]; gone {
			continue
		}
		out = append(out, f.db.summary(club))
	}
	return out, nil
}

func (f fakeClubs) LockClub(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.lockErr != nil {
		return nil, f.db.lockErr
	}
	club, ok := f.db.liveClub(id)
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *club
	return &copied, nil
}

func (f fakeClubs) Create(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	club.ID = uuid.NewString()
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	copied := *club
	f.db.clubs[club.ID] = &copied
	return nil
}

func (f fakeClubs) UpdateClub(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	copied := *club
	f.db.clubs[club.ID] = &copied
	return nil
}

func (f fakeClubs) DeleteClub(ctx context.Context, exec sqlx.ExtContext, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.deleted[id] = struct{}{}
	return nil
}

type fakeStudents struct{ db *memDB }

func (f fakeStudents) LockStudentByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (*models.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.students {
		if s.Document == document {
			copied := *s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeStudents) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.students {
		if s.Document == document {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeStudents) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	student.ID = uuid.NewString()
	copied := *student
	f.db.students[student.ID] = &copied
	return nil
}

func (f fakeStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.StudentDetail
	for _, s := range f.db.students {
		sede := f.db.sedes[s.SedeID]
		if filter.SedeSlug != "" && sede.Slug != filter.SedeSlug {
			continue
		}
		if filter.Group != "" && s.Group != filter.Group {
			continue
		}
		out = append(out, models.StudentDetail{Student: *s, SedeName: sede.Name, SedeSlug: sede.Slug})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeSedes struct{ db *memDB }

func (f fakeSedes) List(ctx context.Context) ([]models.Sede, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.Sede, 0, len(f.db.sedes))
	for _, s := range f.db.sedes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeSedes) GetBySlug(ctx context.Context, slug string) (*models.Sede, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.sedes {
		if s.Slug == slug {
			copied := s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeConfigs struct {
	db  *memDB
	err error
}

func (f fakeConfigs) List(ctx context.Context) ([]models.Configuration, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.Configuration, 0, len(f.db.configs))
	for _, cfg := range f.db.configs {
		out = append(out, cfg)
	}
	return out, nil
}

func (f fakeConfigs) Get(ctx context.Context, key string) (*models.Configuration, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cfg, ok := f.db.configs[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cfg, nil
}

func (f fakeConfigs) Upsert(ctx context.Context, cfg *models.Configuration) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.configs[cfg.Key] = *cfg
	return nil
}

type invalidationSpy struct {
	mu       sync.Mutex
	patterns []string
}

func (s *invalidationSpy) InvalidateAsync(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, pattern)
}

func (s *invalidationSpy) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patterns)
}

var errStoreDown = errors.New("connection reset by peer")

// txMockExpect queues the begin/finish pair a single runInTx call produces.
type txMockExpect struct{ mock sqlmock.Sqlmock }

func (e txMockExpect) commit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e txMockExpect) rollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}
