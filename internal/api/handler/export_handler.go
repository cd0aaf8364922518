package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"engagelens/internal/dto"
	"engagelens/internal/service"
	"engagelens/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 报表导出 HTTP 处理器
type ExportHandler struct {
	reportSvc service.ReportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(reportSvc service.ReportService) *ExportHandler {
	return &ExportHandler{reportSvc: reportSvc}
}

// ExportStudents 导出学生报表
// GET /api/reports/students?course=xxx&engagement=High
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, msgInvalidQuery)
		return
	}

	buf, filename, err := h.reportSvc.ExportStudents(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportNoRows):
		response.NotFound(c, msgReportNoRows)
	default:
		response.InternalError(c)
	}
}
