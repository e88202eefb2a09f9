package service

import (
	"crypto/subtle"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
)

// SessionCookieName is the admin session cookie.
const SessionCookieName = "admin_auth"

// sessionToken is the fixed sentinel carried by an authenticated session.
// There is a single shared admin credential and a single session kind, so
// the marker is not re-derived per login.
const sessionToken = "authenticated"

// SessionCookie describes the transport attributes of the session marker.
type SessionCookie struct {
	Name     string
	Value    string
	Path     string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// AuthConfig parameterises the auth gate.
type AuthConfig struct {
	Password     string
	PasswordHash string
	MaxAge       time.Duration
	Secure       bool
}

// AuthService guards the admin area behind the shared secret.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 8 * time.Hour
	}
	return &AuthService{config: config, logger: logger}
}

// Login validates the supplied password and issues a session on success.
func (s *AuthService) Login(password string) (*SessionCookie, error) {
	if password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}
	if !s.ValidateCredential(password) {
		s.logger.Warn("admin login rejected")
		return nil, appErrors.Clone(appErrors.ErrInvalidPassword, "invalid password")
	}
	return s.IssueSession(), nil
}

// ValidateCredential compares the supplied secret against the configured
// one in constant time. A configured bcrypt hash takes precedence over the
// plain password.
func (s *AuthService) ValidateCredential(supplied string) bool {
	if s.config.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(s.config.Password)) == 1
}

// IssueSession returns the cookie descriptor for a fresh session.
func (s *AuthService) IssueSession() *SessionCookie {
	return &SessionCookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(s.config.MaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RevokeSession returns an expired cookie descriptor used by logout.
func (s *AuthService) RevokeSession() *SessionCookie {
	return &SessionCookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IsAuthenticated reports whether the presented marker is a valid session.
func (s *AuthService) IsAuthenticated(marker string) bool {
	return marker == sessionToken
}
