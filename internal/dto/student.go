package dto

// StudentResponse 单条学生记录，字段名与前端约定保持一致
type StudentResponse struct {
	ID                  int64   `json:"id"`
	Course              string  `json:"course"`
	Progress            float64 `json:"progress"`
	Score               float64 `json:"score"`
	TimeSpent           float64 `json:"timeSpent"`
	CourseCompletion    int     `json:"CourseCompletion"`
	PredictedEngagement string  `json:"PredictedEngagement"`
}

// ChartSeries 图表数据：labels 与 values 一一对应
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DashboardStats 仪表盘统计
type DashboardStats struct {
	Engagement        ChartSeries `json:"engagement"`
	Completion        ChartSeries `json:"completion"`
	AverageScores     ChartSeries `json:"averageScores"`
	AverageTime       ChartSeries `json:"averageTime"`
	ScoreDistribution ChartSeries `json:"scoreDistribution"`
	StudentsPerCourse ChartSeries `json:"studentsPerCourse"`
}

// CourseSummary 课程概览卡片
type CourseSummary struct {
	Title       string  `json:"title"`
	Students    int     `json:"students"`
	AvgProgress float64 `json:"avgProgress"`
	Color       string  `json:"color"`
}

// SearchRequest 搜索参数
type SearchRequest struct {
	Query string `form:"q" binding:"max=256"`
}

// ReportRequest 报表筛选参数，空值或 All 表示不过滤
type ReportRequest struct {
	Course     string `form:"course"`
	Engagement string `form:"engagement" binding:"omitempty,oneof=High Medium Low Unavailable All all"`
}
