package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"engagelens/internal/dto"
	"engagelens/internal/service"
	"engagelens/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册账户
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, msgMissingFields)
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), &req); err != nil {
		handleAuthError(c, err)
		return
	}

	response.Created(c, msgRegistered)
}

// Login 用户登录
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, msgMissingFields)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 注销当前 Token
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUsername(c); !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), GetClaims(c)); err != nil {
		response.InternalError(c)
		return
	}

	response.Message(c, msgLoggedOut)
}

// handleAuthError 认证/账户类错误统一映射为 {"message": ...}
func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		response.BadRequest(c, msgMissingFields)
	case errors.Is(err, service.ErrAccountExists):
		response.Conflict(c, msgAccountExists)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, msgInvalidCredentials)
	case errors.Is(err, service.ErrAccountNotFound):
		response.Fail(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.Fail(c, http.StatusInternalServerError, msgStoreUnavailable)
	default:
		response.InternalError(c)
	}
}
