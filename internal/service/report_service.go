package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"engagelens/internal/dto"
	"engagelens/internal/model"
	"engagelens/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrReportNoRows       = errors.New("没有符合筛选条件的学生")
	ErrReportGenerateFail = errors.New("生成 Excel 文件失败")
)

// FilterAll 报表筛选中表示“不过滤”的取值
const FilterAll = "All"

// ReportSheetName 报表工作表名称
const ReportSheetName = "Student Report"

var reportHeaders = []string{"id", "course", "progress", "score", "timeSpent", "CourseCompletion", "PredictedEngagement"}

// ReportService 学生报表导出接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头
type ReportService interface {
	// ExportStudents 按课程与参与度筛选导出 Excel，返回内容与建议文件名
	ExportStudents(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	students repository.StudentRepository
	logger   *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{students: repo.Student, logger: logger}
}

// ExportStudents 导出学生报表
// 表头与 /api/students 字段一致
func (s *reportService) ExportStudents(_ context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	course := normalizeFilter(req.Course)
	level := normalizeFilter(req.Engagement)

	// 1. 筛选
	var records []model.StudentRecord
	if course == FilterAll {
		records = s.students.List()
	} else {
		records = s.students.ListByCourse(course)
	}
	if level != FilterAll {
		filtered := records[:0]
		for _, r := range records {
			if r.PredictedEngagement == level {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if len(records) == 0 {
		return nil, "", ErrReportNoRows
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheetName); err != nil {
		s.logger.Error("重命名工作表失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	header := make([]interface{}, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ReportSheetName, "A1", &header); err != nil {
		s.logger.Error("写入表头失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	f.SetCellStyle(ReportSheetName, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(ReportSheetName, "B", "B", 24)
	f.SetColWidth(ReportSheetName, "F", "G", 20)

	// 数据行
	for i := range records {
		resp := toStudentResponse(&records[i])
		row := []interface{}{
			resp.ID,
			resp.Course,
			resp.Progress,
			resp.Score,
			resp.TimeSpent,
			resp.CourseCompletion,
			resp.PredictedEngagement,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ReportSheetName, cell, &row); err != nil {
			s.logger.Error("写入数据行失败", zap.Int("row", i+2), zap.Error(err))
			return nil, "", ErrReportGenerateFail
		}
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("Student_Report_%s_%s.xlsx", course, level)
	return buf, filename, nil
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, FilterAll) {
		return FilterAll
	}
	return v
}
