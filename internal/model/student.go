package model

// StudentRecord 学生课程参与记录（数据集中的一行）
// 加载后只读；PredictedEngagement 在启动时计算一次并缓存
type StudentRecord struct {
	UserID              int64
	CourseName          string
	TimeSpentOnCourse   float64
	QuizScores          float64
	CompletionRate      float64
	CourseCompletion    int // 0=进行中 1=已完成
	PredictedEngagement string
}

// Features 返回评分模型使用的三个特征，顺序与训练时一致
func (r *StudentRecord) Features() []float64 {
	return []float64{r.TimeSpentOnCourse, r.QuizScores, r.CompletionRate}
}

// FeatureNames 特征列名（与 Features 顺序一致）
var FeatureNames = []string{"TimeSpentOnCourse", "QuizScores", "CompletionRate"}
