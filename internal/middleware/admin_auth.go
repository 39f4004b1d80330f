package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

// ContextAdminKey marks a request that passed admin authentication.
const ContextAdminKey = "adminAuthenticated"

// AdminCodeHeader carries the raw admin code as an alternative to the Authorization header.
const AdminCodeHeader = "X-Admin-Code"

type adminAuthenticator interface {
	Authenticate(credential string) error
}

type enrollmentGate interface {
	RequireEnrollmentsOpen(ctx context.Context) error
}

// AdminAuth protects routes with the shared admin code or a session token issued for it.
func AdminAuth(auth adminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := adminCredential(c)
		if credential == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "admin credentials required"))
			c.Abort()
			return
		}
		if err := auth.Authenticate(credential); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextAdminKey, true)
		c.Next()
	}
}

// EnrollmentsOpen rejects public self-registration while the enrollments flag is off.
func EnrollmentsOpen(gate enrollmentGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.RequireEnrollmentsOpen(c.Request.Context()); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func adminCredential(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.GetHeader(AdminCodeHeader))
}
