package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"engagelens/internal/dto"
	"engagelens/internal/service"
	"engagelens/pkg/response"
)

// StudentHandler 学生记录 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List 全部学生记录
// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	response.OK(c, h.studentSvc.List(c.Request.Context()))
}

// CourseDetail 指定课程的学生记录；课程名可含 "/"
// GET /api/courses/*name
func (h *StudentHandler) CourseDetail(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")

	students, err := h.studentSvc.ListByCourse(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, msgCourseNotFound)
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, students)
}

// Search 按用户 ID 或课程名模糊搜索
// GET /api/search?q=
func (h *StudentHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, msgInvalidQuery)
		return
	}

	response.OK(c, h.studentSvc.Search(c.Request.Context(), req.Query))
}

// Health 健康检查（无需认证）
// GET /health
func (h *StudentHandler) Health(c *gin.Context) {
	response.OK(c, h.studentSvc.Health(c.Request.Context()))
}
