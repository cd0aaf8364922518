package handler

import (
	"github.com/gin-gonic/gin"

	"engagelens/internal/service"
	"engagelens/pkg/response"
)

// AnalyticsHandler 仪表盘统计 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// DashboardStats 仪表盘图表数据
// GET /api/dashboard_stats
func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	response.OK(c, h.analyticsSvc.DashboardStats(c.Request.Context()))
}

// Courses 课程概览
// GET /api/courses
func (h *AnalyticsHandler) Courses(c *gin.Context) {
	response.OK(c, h.analyticsSvc.Courses(c.Request.Context()))
}
