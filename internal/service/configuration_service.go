package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type configurationRepository interface {
	List(ctx context.Context) ([]models.Configuration, error)
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
}

type allowedConfiguration struct {
	Key         string
	Type        models.ConfigurationType
	Description string
	Default     string
}

var allowedConfigurations = map[string]allowedConfiguration{
	models.ConfigKeyEnrollmentsEnabled: {
		Key:         models.ConfigKeyEnrollmentsEnabled,
		Type:        models.ConfigurationTypeBoolean,
		Description: "Whether students may register themselves",
		Default:     "false",
	},
}

// ConfigurationService reads and writes the runtime flags stored in the configurations table.
type ConfigurationService struct {
	repo    configurationRepository
	logger  *zap.Logger
	timeout time.Duration
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo configurationRepository, logger *zap.Logger, queryTimeout time.Duration) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, logger: logger, timeout: queryTimeout}
}

// List returns every known configuration, filling defaults for keys never written.
func (s *ConfigurationService) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list configurations")
	}
	stored := make(map[string]models.Configuration, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	keys := make([]string, 0, len(allowedConfigurations))
	for key := range allowedConfigurations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]dto.ConfigurationItem, 0, len(keys))
	for _, key := range keys {
		meta := allowedConfigurations[key]
		item := dto.ConfigurationItem{Key: key, Value: meta.Default, Type: string(meta.Type), Description: meta.Description}
		if row, ok := stored[key]; ok {
			item.Value = row.Value
		}
		items = append(items, item)
	}
	return items, nil
}

// EnrollmentsEnabled reports whether public self-registration is open. A missing flag means closed.
func (s *ConfigurationService) EnrollmentsEnabled(ctx context.Context) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.repo.Get(ctx, models.ConfigKeyEnrollmentsEnabled)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, storeError(err, "failed to read enrollments flag")
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(cfg.Value))
	if err != nil {
		s.logger.Warn("malformed enrollments flag", zap.String("value", cfg.Value))
		return false, nil
	}
	return enabled, nil
}

// SetEnrollmentsEnabled opens or closes public self-registration.
func (s *ConfigurationService) SetEnrollmentsEnabled(ctx context.Context, enabled bool, updatedBy string) (*dto.EnrollmentsToggleResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	meta := allowedConfigurations[models.ConfigKeyEnrollmentsEnabled]
	description := meta.Description
	cfg := &models.Configuration{
		Key:         meta.Key,
		Value:       strconv.FormatBool(enabled),
		Type:        meta.Type,
		Description: &description,
	}
	if updatedBy = strings.TrimSpace(updatedBy); updatedBy != "" {
		cfg.UpdatedBy = &updatedBy
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, storeError(err, "failed to update enrollments flag")
	}
	s.logger.Info("enrollments flag updated", zap.Bool("enabled", enabled), zap.String("updated_by", updatedBy))
	return &dto.EnrollmentsToggleResponse{Enabled: enabled}, nil
}

// RequireEnrollmentsOpen fails with ErrEnrollmentsClosed while self-registration is closed.
func (s *ConfigurationService) RequireEnrollmentsOpen(ctx context.Context) error {
	enabled, err := s.EnrollmentsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		return appErrors.Clone(appErrors.ErrEnrollmentsClosed, "")
	}
	return nil
}
