package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

const adminTokenIssuer = "clubs-api"

// AuthConfig defines the shared admin code and session token settings.
type AuthConfig struct {
	AccessCode     string
	AccessCodeHash string
	TokenSecret    string
	TokenExpiry    time.Duration
}

// AuthService gates the admin surface behind a shared access code. A successful
// login exchanges the code for a short lived HS256 token.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	return &AuthService{config: config, logger: logger, now: time.Now}
}

// Configured reports whether any admin code is set. Without one every admin request is refused.
func (s *AuthService) Configured() bool {
	return s.config.AccessCode != "" || s.config.AccessCodeHash != ""
}

// CheckCode compares a presented code against the configured one. The bcrypt hash wins when both are set.
func (s *AuthService) CheckCode(code string) error {
	code = strings.TrimSpace(code)
	if !s.Configured() {
		return appErrors.Clone(appErrors.ErrInternal, "admin access code is not configured")
	}
	if code == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "admin code required")
	}
	if s.config.AccessCodeHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.config.AccessCodeHash), []byte(code)); err != nil {
			return appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin code")
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(s.config.AccessCode), []byte(code)) != 1 {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin code")
	}
	return nil
}

// Login exchanges a valid code for a session token.
func (s *AuthService) Login(req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if err := s.CheckCode(req.Code); err != nil {
		s.logger.Info("admin login rejected", zap.Error(err))
		return nil, err
	}
	if s.config.TokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "token signing is not configured")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.AdminClaims{
		Role: models.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    adminTokenIssuer,
			Subject:   models.AdminRole,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to sign token")
	}
	s.logger.Info("admin session issued", zap.String("jti", claims.ID), zap.Time("expires_at", expiresAt))
	return &dto.AdminLoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	if s.config.TokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(adminTokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid || claims.Role != models.AdminRole {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Authenticate accepts either the raw admin code or a session token.
func (s *AuthService) Authenticate(credential string) error {
	credential = strings.TrimSpace(credential)
	if strings.Count(credential, ".") == 2 {
		if _, err := s.ValidateToken(credential); err == nil {
			return nil
		}
	}
	return s.CheckCode(credential)
}
