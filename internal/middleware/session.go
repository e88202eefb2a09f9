package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-agreement-api/internal/service"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
	"github.com/noah-isme/student-agreement-api/pkg/response"
)

// RequireSession guards admin API routes. Requests without a valid session
// cookie receive a 401 JSON envelope.
func RequireSession(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		marker, err := c.Cookie(service.SessionCookieName)
		if err != nil || !auth.IsAuthenticated(marker) {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "admin session required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePage guards the admin dashboard pages. Unauthenticated browsers
// are redirected to the login page instead of receiving a JSON error.
func RequirePage(auth *service.AuthService, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == loginPath {
			c.Next()
			return
		}
		marker, err := c.Cookie(service.SessionCookieName)
		if err != nil || !auth.IsAuthenticated(marker) {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
