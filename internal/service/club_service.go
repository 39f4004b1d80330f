package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type clubSedeReader interface {
	List(ctx context.Context) ([]models.Sede, error)
	GetBySlug(ctx context.Context, slug string) (*models.Sede, error)
}

type clubStore interface {
	GetClubByID(ctx context.Context, id string) (*models.ClubSummary, error)
	ListClubsBySede(ctx context.Context, sedeID string) ([]models.ClubSummary, error)
	LockClub(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Club, error)
	Create(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error
	UpdateClub(ctx context.Context, exec sqlx.ExtContext, club *models.Club) error
	DeleteClub(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type clubOccupancyCounter interface {
	CountActiveByClub(ctx context.Context, exec sqlx.ExtContext, clubID string) (int, error)
}

// ClubService exposes club lookups and the admin operations that must respect occupancy.
type ClubService struct {
	tx        txProvider
	sedes     clubSedeReader
	clubs     clubStore
	counter   clubOccupancyCounter
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

// NewClubService constructs a ClubService.
func NewClubService(
	tx txProvider,
	sedes clubSedeReader,
	clubs clubStore,
	counter clubOccupancyCounter,
	cache cacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
	queryTimeout time.Duration,
) *ClubService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{tx: tx, sedes: sedes, clubs: clubs, counter: counter, cache: cache, validator: validate, logger: logger, timeout: queryTimeout}
}

// ListSedes returns every sede.
func (s *ClubService) ListSedes(ctx context.Context) ([]models.Sede, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sedes, err := s.sedes.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list sedes")
	}
	if sedes == nil {
		sedes = []models.Sede{}
	}
	return sedes, nil
}

// ListClubsBySede returns a sede and its clubs with current availability.
func (s *ClubService) ListClubsBySede(ctx context.Context, slug string) (*dto.SedeClubsResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sede, err := s.sedeBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	clubs, err := s.clubs.ListClubsBySede(ctx, sede.ID)
	if err != nil {
		return nil, storeError(err, "failed to list clubs")
	}
	if clubs == nil {
		clubs = []models.ClubSummary{}
	}
	return &dto.SedeClubsResponse{Sede: *sede, Clubs: clubs}, nil
}

// GetClub returns a club with its current availability.
func (s *ClubService) GetClub(ctx context.Context, id string) (*models.ClubSummary, error) {
	if !validID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	club, err := s.clubs.GetClubByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, storeError(err, "failed to load club")
	}
	return club, nil
}

// CreateClub registers a club in the sede named by req.SedeSlug.
func (s *ClubService) CreateClub(ctx context.Context, req dto.CreateClubRequest) (*models.ClubSummary, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Responsible = strings.TrimSpace(req.Responsible)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "sede, name, responsible and a non-negative capacity are required")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	sede, err := s.sedeBySlug(ctx, req.SedeSlug)
	if err != nil {
		return nil, err
	}

	club := &models.Club{
		SedeID:      sede.ID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Responsible: req.Responsible,
		Capacity:    *req.Capacity,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := s.clubs.Create(ctx, nil, club); err != nil {
		return nil, storeError(err, "failed to create club")
	}
	s.invalidateReports()
	s.logger.Info("club created", zap.String("club_id", club.ID), zap.String("sede", sede.Slug))

	return &models.ClubSummary{Club: *club, SedeName: sede.Name, SedeSlug: sede.Slug, Available: club.Capacity}, nil
}

// UpdateClub replaces metadata and capacity. Capacity may not drop below the active count.
func (s *ClubService) UpdateClub(ctx context.Context, id string, req dto.UpdateClubRequest) (*models.ClubSummary, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Responsible = strings.TrimSpace(req.Responsible)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "name, responsible and a non-negative capacity are required")
	}
	return s.update(ctx, id, func(club *models.Club) {
		club.Name = req.Name
		club.Description = strings.TrimSpace(req.Description)
		club.Responsible = req.Responsible
		club.Capacity = *req.Capacity
		club.ImageURL = strings.TrimSpace(req.ImageURL)
	})
}

// UpdateCapacity changes only the seat ceiling, with the same occupancy guard as UpdateClub.
func (s *ClubService) UpdateCapacity(ctx context.Context, id string, capacity int) (*models.ClubSummary, error) {
	if capacity < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "capacity must not be negative")
	}
	return s.update(ctx, id, func(club *models.Club) {
		club.Capacity = capacity
	})
}

func (s *ClubService) update(ctx context.Context, id string, apply func(*models.Club)) (*models.ClubSummary, error) {
	if !validID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		club, err := s.clubs.LockClub(ctx, tx, id)
		if err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "club not found")
			}
			return storeError(err, "failed to lock club")
		}
		occupied, err := s.counter.CountActiveByClub(ctx, tx, id)
		if err != nil {
			return storeError(err, "failed to count enrollments")
		}
		apply(club)
		if !CanShrinkTo(club.Capacity, occupied) {
			return appErrors.Clone(appErrors.ErrCapacityBelowUsage, "")
		}
		if err := s.clubs.UpdateClub(ctx, tx, club); err != nil {
			return storeError(err, "failed to update club")
		}
		return nil
	})
	if err != nil {
		s.logger.Info("club update rejected", zap.String("club_id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateReports()
	return s.GetClub(ctx, id)
}

// DeleteClub retires a club that has no active enrollments. Its enrollment history is kept.
func (s *ClubService) DeleteClub(ctx context.Context, id string) error {
	if !validID(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "club not found")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if _, err := s.clubs.LockClub(ctx, tx, id); err != nil {
			if isNoRows(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "club not found")
			}
			return storeError(err, "failed to lock club")
		}
		occupied, err := s.counter.CountActiveByClub(ctx, tx, id)
		if err != nil {
			return storeError(err, "failed to count enrollments")
		}
		if occupied > 0 {
			return appErrors.Clone(appErrors.ErrClubHasEnrollments, "")
		}
		if err := s.clubs.DeleteClub(ctx, tx, id); err != nil {
			return storeError(err, "failed to delete club")
		}
		return nil
	})
	if err != nil {
		s.logger.Info("club delete rejected", zap.String("club_id", id), zap.Error(err))
		return err
	}

	s.invalidateReports()
	s.logger.Info("club deleted", zap.String("club_id", id))
	return nil
}

func (s *ClubService) sedeBySlug(ctx context.Context, slug string) (*models.Sede, error) {
	sede, err := s.sedes.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sede not found")
		}
		return nil, storeError(err, "failed to load sede")
	}
	return sede, nil
}

func (s *ClubService) invalidateReports() {
	if s.cache != nil {
		s.cache.InvalidateAsync(ReportCachePattern)
	}
}
