package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"engagelens/config"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
)

// BuildScorer 按 model.mode 准备评分器
//   - load: 必须从两个模型文件加载，失败即启动失败
//   - fit:  在数据集上现场训练；样本为空或只有一个类别时降级为不可用评分器
//   - auto: 两个文件都存在时加载，否则现场训练
func BuildScorer(cfg *config.ModelConfig, records []model.StudentRecord, logger *zap.Logger) (*engagement.Scorer, error) {
	switch cfg.Mode {
	case config.ModelModeLoad:
		return loadScorer(cfg, logger)
	case config.ModelModeAuto:
		if engagement.BlobsExist(cfg.ScalerPath, cfg.ClassifierPath) {
			return loadScorer(cfg, logger)
		}
		logger.Info("未找到模型文件，现场训练",
			zap.String("scaler", cfg.ScalerPath),
			zap.String("classifier", cfg.ClassifierPath),
		)
		return fitScorer(cfg, records, logger)
	case config.ModelModeFit:
		return fitScorer(cfg, records, logger)
	default:
		return nil, fmt.Errorf("未知的模型模式 %q", cfg.Mode)
	}
}

func loadScorer(cfg *config.ModelConfig, logger *zap.Logger) (*engagement.Scorer, error) {
	scorer, err := engagement.Load(cfg.ScalerPath, cfg.ClassifierPath)
	if err != nil {
		return nil, fmt.Errorf("加载模型失败: %w", err)
	}
	logger.Info("模型加载成功",
		zap.String("scaler", cfg.ScalerPath),
		zap.String("classifier", cfg.ClassifierPath),
	)
	return scorer, nil
}

func fitScorer(cfg *config.ModelConfig, records []model.StudentRecord, logger *zap.Logger) (*engagement.Scorer, error) {
	x, y := TrainingSet(records)
	res, err := engagement.Train(x, y, engagement.TrainOptions{
		Seed:     cfg.Seed,
		TestSize: cfg.TestSize,
	})
	if err != nil {
		if errors.Is(err, engagement.ErrNoSamples) || errors.Is(err, engagement.ErrSingleClass) {
			logger.Warn("无法训练评分模型，参与度标签将不可用", zap.Error(err))
			return engagement.Unavailable(), nil
		}
		return nil, fmt.Errorf("训练模型失败: %w", err)
	}

	logger.Info("模型训练完成",
		zap.Int("train_size", res.TrainSize),
		zap.Int("test_size", res.TestSize),
		zap.Float64("accuracy", res.Accuracy),
	)
	return res.Scorer, nil
}

// TrainingSet 从学生记录提取特征矩阵与完成标记
func TrainingSet(records []model.StudentRecord) ([][]float64, []int) {
	x := make([][]float64, len(records))
	y := make([]int, len(records))
	for i, r := range records {
		x[i] = r.Features()
		y[i] = r.CourseCompletion
	}
	return x, y
}

// LabelRecords 为每条记录写入预测的参与度等级（原地修改）
func LabelRecords(scorer *engagement.Scorer, records []model.StudentRecord) {
	x := make([][]float64, len(records))
	for i := range records {
		x[i] = records[i].Features()
	}
	for i, label := range scorer.Score(x) {
		records[i].PredictedEngagement = label
	}
}
