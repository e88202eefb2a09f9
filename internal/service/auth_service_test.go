package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
)

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc := NewAuthService(AuthConfig{Password: "secret", MaxAge: 8 * time.Hour}, nil)

	cookie, err := svc.Login("secret")
	require.NoError(t, err)
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((8 * time.Hour).Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HTTPOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, svc.IsAuthenticated(cookie.Value))
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(AuthConfig{Password: "secret"}, nil)

	_, err := svc.Login("nope")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthServiceLoginEmptyPassword(t *testing.T) {
	svc := NewAuthService(AuthConfig{Password: "secret"}, nil)

	_, err := svc.Login("")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestAuthServiceBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(AuthConfig{Password: "plain-secret", PasswordHash: string(hash)}, nil)

	assert.True(t, svc.ValidateCredential("hashed-secret"))
	assert.False(t, svc.ValidateCredential("plain-secret"))
}

func TestAuthServiceRevokeSession(t *testing.T) {
	svc := NewAuthService(AuthConfig{Password: "secret"}, nil)

	cookie := svc.RevokeSession()
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.False(t, svc.IsAuthenticated(cookie.Value))
}
