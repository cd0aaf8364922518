package service

import (
	"path/filepath"
	"testing"

	"engagelens/config"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
)

// syntheticStudents 完成率越高越可能完成课程，含少量噪声
func syntheticStudents(n int) []model.StudentRecord {
	records := make([]model.StudentRecord, n)
	for i := range records {
		rate := float64(i%50) * 2
		completed := 0
		if rate > 50 {
			completed = 1
		}
		if i%11 == 0 {
			completed = 1 - completed
		}
		records[i] = model.StudentRecord{
			UserID:            int64(i + 1),
			CourseName:        "Course",
			TimeSpentOnCourse: float64(i%13) + 1,
			QuizScores:        float64(i%17) * 5,
			CompletionRate:    rate,
			CourseCompletion:  completed,
		}
	}
	return records
}

func modelConfig(t *testing.T, mode string) *config.ModelConfig {
	dir := t.TempDir()
	return &config.ModelConfig{
		Mode:           mode,
		ScalerPath:     filepath.Join(dir, "scaler.json"),
		ClassifierPath: filepath.Join(dir, "classifier.json"),
		Seed:           42,
		TestSize:       0.2,
	}
}

func TestBuildScorer_Fit(t *testing.T) {
	cfg := modelConfig(t, config.ModelModeFit)

	scorer, err := BuildScorer(cfg, syntheticStudents(200), nopLogger())
	if err != nil {
		t.Fatalf("BuildScorer 失败: %v", err)
	}
	if scorer.Origin() != engagement.OriginFitted {
		t.Errorf("期望 fitted，实际 %s", scorer.Origin())
	}
}

func TestBuildScorer_FitSingleClassDegrades(t *testing.T) {
	cfg := modelConfig(t, config.ModelModeFit)
	records := syntheticStudents(50)
	for i := range records {
		records[i].CourseCompletion = 1
	}

	scorer, err := BuildScorer(cfg, records, nopLogger())
	if err != nil {
		t.Fatalf("单一类别时应降级而非报错: %v", err)
	}
	if scorer.Available() {
		t.Error("期望不可用评分器")
	}

	LabelRecords(scorer, records)
	for _, r := range records {
		if r.PredictedEngagement != engagement.LabelUnavailable {
			t.Fatalf("期望占位标签，实际 %q", r.PredictedEngagement)
		}
	}
}

func TestBuildScorer_FitEmptyDegrades(t *testing.T) {
	scorer, err := BuildScorer(modelConfig(t, config.ModelModeFit), nil, nopLogger())
	if err != nil {
		t.Fatalf("空数据集时应降级而非报错: %v", err)
	}
	if scorer.Available() {
		t.Error("期望不可用评分器")
	}
}

func TestBuildScorer_LoadMissingIsFatal(t *testing.T) {
	if _, err := BuildScorer(modelConfig(t, config.ModelModeLoad), syntheticStudents(20), nopLogger()); err == nil {
		t.Error("load 模式下缺少模型文件应返回错误")
	}
}

func TestBuildScorer_AutoFitsThenLoads(t *testing.T) {
	cfg := modelConfig(t, config.ModelModeAuto)
	records := syntheticStudents(200)

	fitted, err := BuildScorer(cfg, records, nopLogger())
	if err != nil {
		t.Fatalf("BuildScorer 失败: %v", err)
	}
	if fitted.Origin() != engagement.OriginFitted {
		t.Fatalf("无模型文件时应现场训练，实际 %s", fitted.Origin())
	}

	if err := engagement.SaveScaler(cfg.ScalerPath, fitted.Scaler(), model.FeatureNames); err != nil {
		t.Fatal(err)
	}
	if err := engagement.SaveClassifier(cfg.ClassifierPath, fitted.Classifier()); err != nil {
		t.Fatal(err)
	}

	loaded, err := BuildScorer(cfg, records, nopLogger())
	if err != nil {
		t.Fatalf("BuildScorer 失败: %v", err)
	}
	if loaded.Origin() != engagement.OriginLoaded {
		t.Errorf("存在模型文件时应加载，实际 %s", loaded.Origin())
	}

	// 加载后的参数与训练结果一致
	x, _ := TrainingSet(records)
	a := fitted.Score(x)
	b := loaded.Score(x)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("第 %d 行等级不一致: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestLabelRecords(t *testing.T) {
	records := []model.StudentRecord{
		{QuizScores: 90},
		{QuizScores: 55},
		{QuizScores: 10},
	}
	LabelRecords(testScorer(), records)

	want := []string{engagement.LabelHigh, engagement.LabelMedium, engagement.LabelLow}
	for i, w := range want {
		if records[i].PredictedEngagement != w {
			t.Errorf("第 %d 行期望 %s，实际 %s", i, w, records[i].PredictedEngagement)
		}
	}
}
