package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"engagelens/internal/dto"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
	"engagelens/internal/repository"
)

// 完成状态标签
const (
	CompletionCompleted  = "Completed"
	CompletionInProgress = "In Progress"
)

// CoursePalette 课程卡片边框颜色，按课程顺序循环使用
var CoursePalette = []string{"border-sky-500", "border-emerald-500", "border-amber-500", "border-violet-500"}

// scoreBins 测验成绩分箱：[0,20] (20,40] (40,60] (60,80] (80,100]
var scoreBins = []struct {
	label string
	upper float64
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", 100},
}

// labelRank 计数相同时的排列顺序
var labelRank = map[string]int{
	engagement.LabelHigh:        0,
	engagement.LabelMedium:      1,
	engagement.LabelLow:         2,
	engagement.LabelUnavailable: 3,
}

// AnalyticsService 仪表盘与课程概览统计接口
type AnalyticsService interface {
	DashboardStats(ctx context.Context) *dto.DashboardStats
	Courses(ctx context.Context) []dto.CourseSummary
}

type analyticsService struct {
	students repository.StudentRepository
	logger   *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(repo *repository.Repository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		students: repo.Student,
		logger:   logger,
	}
}

func (s *analyticsService) DashboardStats(_ context.Context) *dto.DashboardStats {
	records := s.students.List()
	groups := groupByCourse(records)

	stats := &dto.DashboardStats{
		Engagement:        engagementCounts(records),
		Completion:        completionCounts(records),
		ScoreDistribution: scoreDistribution(records),
	}

	for _, g := range groups {
		stats.AverageScores.Labels = append(stats.AverageScores.Labels, g.name)
		stats.AverageScores.Values = append(stats.AverageScores.Values, round2(g.mean(func(r *model.StudentRecord) float64 { return r.QuizScores })))

		stats.AverageTime.Labels = append(stats.AverageTime.Labels, g.name)
		stats.AverageTime.Values = append(stats.AverageTime.Values, round2(g.mean(func(r *model.StudentRecord) float64 { return r.TimeSpentOnCourse })))

		stats.StudentsPerCourse.Labels = append(stats.StudentsPerCourse.Labels, g.name)
		stats.StudentsPerCourse.Values = append(stats.StudentsPerCourse.Values, float64(len(g.records)))
	}
	normalizeSeries(&stats.AverageScores)
	normalizeSeries(&stats.AverageTime)
	normalizeSeries(&stats.StudentsPerCourse)

	return stats
}

func (s *analyticsService) Courses(_ context.Context) []dto.CourseSummary {
	groups := groupByCourse(s.students.List())

	out := make([]dto.CourseSummary, 0, len(groups))
	for i, g := range groups {
		out = append(out, dto.CourseSummary{
			Title:       g.name,
			Students:    len(g.records),
			AvgProgress: round2(g.mean(func(r *model.StudentRecord) float64 { return r.CompletionRate })),
			Color:       CoursePalette[i%len(CoursePalette)],
		})
	}
	return out
}

// ── 聚合辅助 ──

type courseGroup struct {
	name    string
	records []model.StudentRecord
}

func (g *courseGroup) mean(field func(*model.StudentRecord) float64) float64 {
	if len(g.records) == 0 {
		return 0
	}
	var sum float64
	for i := range g.records {
		sum += field(&g.records[i])
	}
	return sum / float64(len(g.records))
}

// groupByCourse 按课程名分组，组按课程名升序
func groupByCourse(records []model.StudentRecord) []courseGroup {
	index := make(map[string]int)
	var groups []courseGroup
	for _, r := range records {
		i, ok := index[r.CourseName]
		if !ok {
			i = len(groups)
			index[r.CourseName] = i
			groups = append(groups, courseGroup{name: r.CourseName})
		}
		groups[i].records = append(groups[i].records, r)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

// engagementCounts 各参与度等级计数，按数量降序
func engagementCounts(records []model.StudentRecord) dto.ChartSeries {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.PredictedEngagement]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		ci, cj := counts[labels[i]], counts[labels[j]]
		if ci != cj {
			return ci > cj
		}
		return rankOf(labels[i]) < rankOf(labels[j])
	})

	series := dto.ChartSeries{Labels: labels, Values: make([]float64, len(labels))}
	for i, label := range labels {
		series.Values[i] = float64(counts[label])
	}
	return series
}

func rankOf(label string) int {
	if r, ok := labelRank[label]; ok {
		return r
	}
	return len(labelRank)
}

// completionCounts [已完成, 进行中] 计数
func completionCounts(records []model.StudentRecord) dto.ChartSeries {
	var completed, inProgress float64
	for _, r := range records {
		if r.CourseCompletion == 1 {
			completed++
		} else {
			inProgress++
		}
	}
	return dto.ChartSeries{
		Labels: []string{CompletionCompleted, CompletionInProgress},
		Values: []float64{completed, inProgress},
	}
}

// scoreDistribution 测验成绩直方图，按分箱顺序输出；越界成绩计入首尾分箱
func scoreDistribution(records []model.StudentRecord) dto.ChartSeries {
	series := dto.ChartSeries{
		Labels: make([]string, len(scoreBins)),
		Values: make([]float64, len(scoreBins)),
	}
	for i, b := range scoreBins {
		series.Labels[i] = b.label
	}
	for _, r := range records {
		series.Values[binIndex(r.QuizScores)]++
	}
	return series
}

func binIndex(score float64) int {
	for i, b := range scoreBins {
		if score <= b.upper {
			return i
		}
	}
	return len(scoreBins) - 1
}

// normalizeSeries 空数据集输出 [] 而不是 null
func normalizeSeries(s *dto.ChartSeries) {
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if s.Values == nil {
		s.Values = []float64{}
	}
}
