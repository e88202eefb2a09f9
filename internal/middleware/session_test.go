package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-agreement-api/internal/service"
)

func newAuthService() *service.AuthService {
	return service.NewAuthService(service.AuthConfig{Password: "secret"}, nil)
}

func sessionRouter(auth *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/submissions", RequireSession(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	r := sessionRouter(newAuthService())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/submissions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionRejectsBogusCookie(t *testing.T) {
	r := sessionRouter(newAuthService())

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionAcceptsIssuedCookie(t *testing.T) {
	auth := newAuthService()
	r := sessionRouter(auth)

	cookie := auth.IssueSession()
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePageRedirectsToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newAuthService()
	r := gin.New()
	pages := r.Group("/admin", RequirePage(auth, "/admin/login"))
	pages.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })
	pages.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := auth.IssueSession()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
