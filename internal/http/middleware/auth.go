package middleware

import (
	"net/http"
	"strings"

	"busreservation/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	userIDKey    = "userID"
	userNameKey  = "userName"
	userRoleKey  = "userRole"
)

// TokenParser resolves a bearer token into a principal.
type TokenParser interface {
	ParseToken(token string) (domain.Principal, error)
}

// Auth requires a valid bearer token and stores the caller on the context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Access denied. No token provided.")
			return
		}
		p, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Set(principalKey, p)
		c.Set(userIDKey, p.ID)
		c.Set(userNameKey, p.Name)
		c.Set(userRoleKey, p.Role)
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by Auth.
func PrincipalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
