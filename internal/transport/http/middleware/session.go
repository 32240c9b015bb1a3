package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/app"
	"vidtube/internal/model"
	"vidtube/internal/pkg/jwtutil"
	"vidtube/internal/transport/http/response"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*jwtutil.AccessClaims, error)
}

type IdentityLoader interface {
	GetSafeByID(ctx context.Context, id uint) (*model.User, error)
}

// Session authenticates the request from the access token cookie, falling
// back to an Authorization bearer header. The loaded user is attached to the
// request context without its password hash or refresh token.
func Session(tokens AccessTokenVerifier, users IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessTokenFromRequest(c)
		if token == "" {
			response.Fail(c, app.ErrUnauthorizedRequest)
			return
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			response.Fail(c, app.ErrInvalidAccessToken)
			return
		}

		user, err := users.GetSafeByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if user == nil {
			response.Fail(c, app.ErrInvalidAccessToken)
			return
		}

		c.Request = c.Request.WithContext(app.WithIdentity(c.Request.Context(), user))
		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
