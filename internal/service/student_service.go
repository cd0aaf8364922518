package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"engagelens/internal/dto"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
	"engagelens/internal/repository"
)

// ── 学生模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
)

// StudentService 学生记录查询业务接口
type StudentService interface {
	List(ctx context.Context) []dto.StudentResponse
	ListByCourse(ctx context.Context, courseName string) ([]dto.StudentResponse, error)
	// Search 空查询返回空列表；结果的参与度等级按当前评分器重新计算
	Search(ctx context.Context, query string) []dto.StudentResponse
	// Health 数据集规模与评分器来源
	Health(ctx context.Context) *dto.HealthResponse
}

type studentService struct {
	students repository.StudentRepository
	scorer   *engagement.Scorer
	logger   *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, scorer *engagement.Scorer, logger *zap.Logger) StudentService {
	return &studentService{
		students: repo.Student,
		scorer:   scorer,
		logger:   logger,
	}
}

func (s *studentService) List(_ context.Context) []dto.StudentResponse {
	return toStudentResponses(s.students.List())
}

func (s *studentService) ListByCourse(_ context.Context, courseName string) ([]dto.StudentResponse, error) {
	records := s.students.ListByCourse(courseName)
	if len(records) == 0 {
		return nil, ErrCourseNotFound
	}
	return toStudentResponses(records), nil
}

func (s *studentService) Search(_ context.Context, query string) []dto.StudentResponse {
	if query == "" {
		return []dto.StudentResponse{}
	}
	records := s.students.Search(query)
	LabelRecords(s.scorer, records)
	return toStudentResponses(records)
}

func (s *studentService) Health(_ context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:   "ok",
		Students: s.students.Count(),
		Scorer:   s.scorer.Origin(),
	}
}

// ── 转换与取整 ──

// round2 四舍五入到两位小数（远离零）
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toStudentResponse(r *model.StudentRecord) dto.StudentResponse {
	return dto.StudentResponse{
		ID:                  r.UserID,
		Course:              r.CourseName,
		Progress:            round2(r.CompletionRate),
		Score:               round2(r.QuizScores),
		TimeSpent:           round2(r.TimeSpentOnCourse),
		CourseCompletion:    r.CourseCompletion,
		PredictedEngagement: r.PredictedEngagement,
	}
}

// toStudentResponses 始终返回非 nil 切片，保证 JSON 输出 []
func toStudentResponses(records []model.StudentRecord) []dto.StudentResponse {
	out := make([]dto.StudentResponse, 0, len(records))
	for i := range records {
		out = append(out, toStudentResponse(&records[i]))
	}
	return out
}
