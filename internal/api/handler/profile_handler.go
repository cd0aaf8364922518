package handler

import (
	"github.com/gin-gonic/gin"

	"engagelens/internal/dto"
	"engagelens/internal/service"
	"engagelens/pkg/response"
)

// ProfileHandler 个人资料 HTTP 处理器
type ProfileHandler struct {
	authSvc service.AuthService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(authSvc service.AuthService) *ProfileHandler {
	return &ProfileHandler{authSvc: authSvc}
}

// GetProfile 获取当前用户资料
// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), username)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateProfile 更新当前用户 email / 密码
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}

	if err := h.authSvc.UpdateProfile(c.Request.Context(), username, &req); err != nil {
		handleAuthError(c, err)
		return
	}

	response.Message(c, msgProfileUpdated)
}
