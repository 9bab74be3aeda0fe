package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	User *domain.User
}

// Auth requires "Authorization: Bearer <token>" and stores the Principal.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No se proporcionó token de autenticación"})
			return
		}

		u, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			msg := domain.Message(err)
			if msg == "" {
				msg = "Token inválido"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(principalKey, Principal{User: u})
		c.Next()
	}
}

// CurrentUser returns the user set by Auth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(Principal)
	if !ok || p.User == nil {
		return nil, false
	}
	return p.User, true
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
