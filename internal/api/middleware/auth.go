package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"engagelens/internal/service"
	"engagelens/pkg/jwt"
	"engagelens/pkg/response"
)

// 与 handler.MustGetUsername / handler.GetClaims 读取的键一致
const (
	contextKeyUsername = "username"
	contextKeyClaims   = "claims"
)

// Authenticator 校验 Token 并确认账户存在（service.AuthService 实现）
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Access Token，校验通过后注入用户名与 Claims
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStoreUnavailable):
				response.Fail(c, http.StatusInternalServerError, "Account store not configured")
			case errors.Is(err, jwt.ErrTokenExpired):
				response.Unauthorized(c, "Token has expired")
			case errors.Is(err, jwt.ErrTokenInvalid),
				errors.Is(err, service.ErrTokenRevoked),
				errors.Is(err, service.ErrAccountNotFound):
				response.Unauthorized(c, "Invalid or expired token")
			default:
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		// 将用户信息注入上下文
		c.Set(contextKeyUsername, claims.Username())
		c.Set(contextKeyClaims, claims)

		c.Next()
	}
}
