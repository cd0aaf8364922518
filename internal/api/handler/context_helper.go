package handler

import (
	"github.com/gin-gonic/gin"

	"engagelens/pkg/jwt"
	"engagelens/pkg/response"
)

// 认证中间件写入 gin.Context 的键
const (
	ContextKeyUsername = "username"
	ContextKeyClaims   = "claims"
)

// MustGetUsername 从 Gin 上下文中安全提取用户名。
// 认证中间件未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUsername)
	if !exists {
		response.Unauthorized(c, msgUnauthenticated)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, msgUnauthenticated)
		return "", false
	}
	return s, true
}

// GetClaims 提取当前请求的 Token Claims，不存在时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
