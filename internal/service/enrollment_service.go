package service

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	"github.com/andresdelrio/clubs/pkg/database"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/textnorm"
)

// ReportCachePattern matches every cached report.
const ReportCachePattern = "reports:*"

// activeStudentIndex is the partial unique index holding one ACTIVE enrollment per student.
const activeStudentIndex = "uq_enrollments_active_student"

type enrollmentStore interface {
	FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Enrollment, error)
	CountActiveByClub(ctx context.Context, exec sqlx.ExtContext, clubID string) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error
	Cancel(ctx context.Context, exec sqlx.ExtContext, id string) error
	LockEnrollment(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentWithSede, error)
	GetDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentDetail, error)
	FindActiveDetailByDocument(ctx context.Context, document string) (*models.EnrollmentDetail, error)
}

type enrollmentClubStore interface {
	GetClubByID(ctx context.Context, id string) (*models.ClubSummary, error)
	LockClub(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Club, error)
}

type enrollmentStudentStore interface {
	LockStudentByDocument(ctx context.Context, exec sqlx.ExtContext, document string) (*models.Student, error)
}

type cacheInvalidator interface {
	InvalidateAsync(pattern string)
}

// EnrollmentServiceConfig tunes the engine.
type EnrollmentServiceConfig struct {
	QueryTimeout time.Duration
}

// EnrollmentService admits, moves and cancels enrollments. Every mutation runs in one
// transaction that locks the rows gating the decision (student, then club; or enrollment,
// then destination club) and recounts occupancy under those locks before writing.
type EnrollmentService struct {
	tx          txProvider
	enrollments enrollmentStore
	clubs       enrollmentClubStore
	students    enrollmentStudentStore
	cache       cacheInvalidator
	metrics     *MetricsService
	logger      *zap.Logger
	timeout     time.Duration
}

// NewEnrollmentService constructs the engine. cache and metrics may be nil.
func NewEnrollmentService(
	tx txProvider,
	enrollments enrollmentStore,
	clubs enrollmentClubStore,
	students enrollmentStudentStore,
	cache cacheInvalidator,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg EnrollmentServiceConfig,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		tx:          tx,
		enrollments: enrollments,
		clubs:       clubs,
		students:    students,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		timeout:     cfg.QueryTimeout,
	}
}

// Register enrolls the student identified by document into clubID.
func (s *EnrollmentService) Register(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error) {
	return s.admit(ctx, "register", document, clubID)
}

// AdminAssign enrolls a student on behalf of an administrator. Same rules as Register.
func (s *EnrollmentService) AdminAssign(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error) {
	return s.admit(ctx, "assign", document, clubID)
}

func (s *EnrollmentService) admit(ctx context.Context, op, document, clubID string) (detail *models.EnrollmentDetail, err error) {
	defer func() { s.metrics.ObserveEnrollment(op, err) }()

	document = textnorm.Document(document)
	clubID = strings.TrimSpace(clubID)
	if document == "" || clubID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document and club are required")
	}
	if !validID(clubID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err = s.clubs.GetClubByID(ctx, clubID); err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, s.fail(op, storeError(err, "failed to load club"))
	}

	start := time.Now()
	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		student, err := s.students.LockStudentByDocument(ctx, tx, document)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "student not eligible")
			}
			return storeError(err, "failed to load student")
		}
		if !student.Enabled {
			return appErrors.Clone(appErrors.ErrNotFound, "student not eligible")
		}

		club, err := s.clubs.LockClub(ctx, tx, clubID)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "club not found")
			}
			return storeError(err, "failed to lock club")
		}
		if student.SedeID != club.SedeID {
			return appErrors.Clone(appErrors.ErrSedeMismatch, "")
		}

		existing, err := s.enrollments.FindActiveByStudent(ctx, tx, student.ID)
		if err != nil {
			return storeError(err, "failed to check active enrollment")
		}
		if existing != nil {
			return appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		}

		occupied, err := s.enrollments.CountActiveByClub(ctx, tx, club.ID)
		if err != nil {
			return storeError(err, "failed to count enrollments")
		}
		if !HasSeat(club.Capacity, occupied) {
			return appErrors.Clone(appErrors.ErrClubFull, "")
		}

		enrollment := &models.Enrollment{StudentID: student.ID, ClubID: club.ID}
		if err := s.enrollments.Create(ctx, tx, enrollment); err != nil {
			if database.IsUniqueViolation(err, activeStudentIndex) {
				return appErrors.Wrap(err, appErrors.ErrAlreadyEnrolled, "")
			}
			return storeError(err, "failed to create enrollment")
		}

		detail, err = s.enrollments.GetDetail(ctx, tx, enrollment.ID)
		if err != nil {
			return storeError(err, "failed to load enrollment")
		}
		return nil
	})
	s.metrics.ObserveTransaction(op, time.Since(start))
	if err != nil {
		return nil, s.fail(op, err, zap.String("document", document), zap.String("club_id", clubID))
	}

	s.invalidateReports()
	s.logger.Info("enrollment created",
		zap.String("operation", op),
		zap.String("enrollment_id", detail.ID),
		zap.String("club_id", detail.ClubID),
		zap.String("student_id", detail.StudentID),
	)
	return detail, nil
}

// Move cancels an active enrollment and creates a new one in another club of the same sede.
func (s *EnrollmentService) Move(ctx context.Context, enrollmentID, newClubID string) (detail *models.EnrollmentDetail, err error) {
	defer func() { s.metrics.ObserveEnrollment("move", err) }()

	enrollmentID = strings.TrimSpace(enrollmentID)
	newClubID = strings.TrimSpace(newClubID)
	if enrollmentID == "" || newClubID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment and destination club are required")
	}
	if !validID(enrollmentID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if !validID(newClubID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		current, err := s.enrollments.LockEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
			}
			return storeError(err, "failed to lock enrollment")
		}
		if current.State != models.EnrollmentStateActive {
			return appErrors.Clone(appErrors.ErrEnrollmentInactive, "")
		}
		if current.ClubID == newClubID {
			return appErrors.Clone(appErrors.ErrSameClub, "")
		}

		destination, err := s.clubs.LockClub(ctx, tx, newClubID)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "club not found")
			}
			return storeError(err, "failed to lock club")
		}
		if destination.SedeID != current.SedeID {
			return appErrors.Clone(appErrors.ErrCrossSedeMove, "")
		}

		occupied, err := s.enrollments.CountActiveByClub(ctx, tx, destination.ID)
		if err != nil {
			return storeError(err, "failed to count enrollments")
		}
		if !HasSeat(destination.Capacity, occupied) {
			return appErrors.Clone(appErrors.ErrDestinationFull, "")
		}

		if err := s.enrollments.Cancel(ctx, tx, current.ID); err != nil {
			return storeError(err, "failed to cancel enrollment")
		}
		replacement := &models.Enrollment{StudentID: current.StudentID, ClubID: destination.ID}
		if err := s.enrollments.Create(ctx, tx, replacement); err != nil {
			if database.IsUniqueViolation(err, activeStudentIndex) {
				return appErrors.Wrap(err, appErrors.ErrAlreadyEnrolled, "")
			}
			return storeError(err, "failed to create enrollment")
		}

		detail, err = s.enrollments.GetDetail(ctx, tx, replacement.ID)
		if err != nil {
			return storeError(err, "failed to load enrollment")
		}
		return nil
	})
	s.metrics.ObserveTransaction("move", time.Since(start))
	if err != nil {
		return nil, s.fail("move", err, zap.String("enrollment_id", enrollmentID), zap.String("club_id", newClubID))
	}

	s.invalidateReports()
	s.logger.Info("enrollment moved",
		zap.String("from_enrollment_id", enrollmentID),
		zap.String("enrollment_id", detail.ID),
		zap.String("club_id", detail.ClubID),
	)
	return detail, nil
}

// Cancel marks an enrollment CANCELLED. Cancelling a cancelled enrollment returns it unchanged.
func (s *EnrollmentService) Cancel(ctx context.Context, enrollmentID string) (detail *models.EnrollmentDetail, err error) {
	defer func() { s.metrics.ObserveEnrollment("cancel", err) }()

	enrollmentID = strings.TrimSpace(enrollmentID)
	if enrollmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment is required")
	}
	if !validID(enrollmentID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	changed := false
	start := time.Now()
	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		current, err := s.enrollments.LockEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
			}
			return storeError(err, "failed to lock enrollment")
		}
		if current.State == models.EnrollmentStateActive {
			if err := s.enrollments.Cancel(ctx, tx, current.ID); err != nil {
				return storeError(err, "failed to cancel enrollment")
			}
			changed = true
		}

		detail, err = s.enrollments.GetDetail(ctx, tx, current.ID)
		if err != nil {
			return storeError(err, "failed to load enrollment")
		}
		return nil
	})
	s.metrics.ObserveTransaction("cancel", time.Since(start))
	if err != nil {
		return nil, s.fail("cancel", err, zap.String("enrollment_id", enrollmentID))
	}

	if changed {
		s.invalidateReports()
		s.logger.Info("enrollment cancelled", zap.String("enrollment_id", enrollmentID))
	}
	return detail, nil
}

// CheckStatus reports the active enrollment of a document, if any.
func (s *EnrollmentService) CheckStatus(ctx context.Context, document string) (*dto.EnrollmentStatus, error) {
	document = textnorm.Document(document)
	if document == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document is required")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	record, err := s.enrollments.FindActiveDetailByDocument(ctx, document)
	if err != nil {
		return nil, s.fail("status", storeError(err, "failed to load enrollment status"))
	}
	if record == nil {
		return &dto.EnrollmentStatus{Enrolled: false}, nil
	}

	return &dto.EnrollmentStatus{
		Enrolled: true,
		Student: &dto.StatusStudent{
			Name:     record.StudentName,
			Document: record.StudentDocument,
			Group:    record.StudentGroup,
		},
		Sede: &dto.StatusSede{
			ID:   record.SedeID,
			Name: record.SedeName,
			Slug: record.SedeSlug,
		},
		Club: &dto.StatusClub{
			ID:          record.ClubID,
			Name:        record.ClubName,
			Description: record.ClubDescription,
			Responsible: record.ClubResponsible,
			Capacity:    record.ClubCapacity,
			ImageURL:    record.ClubImageURL,
		},
	}, nil
}

func (s *EnrollmentService) invalidateReports() {
	if s.cache != nil {
		s.cache.InvalidateAsync(ReportCachePattern)
	}
}

// fail logs err at a level matching its kind and returns it.
func (s *EnrollmentService) fail(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	switch appErrors.KindOf(err) {
	case appErrors.KindInternal:
		s.logger.Error("enrollment operation failed", fields...)
	case appErrors.KindUnavailable:
		s.logger.Warn("enrollment store unavailable", fields...)
	default:
		s.logger.Info("enrollment rejected", fields...)
	}
	return err
}
