package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"engagelens/config"
	"engagelens/internal/dataset"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
	"engagelens/internal/service"
	applogger "engagelens/pkg/logger"
)

type trainFlags struct {
	configPath    string
	datasetPath   string
	scalerOut     string
	classifierOut string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags trainFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "在学生数据集上训练参与度评分模型并写出模型文件",
		Long: `按固定随机种子把数据集划分为 80/20，
在训练集上拟合标准化器与逻辑回归分类器，输出测试集准确率，
并写出服务启动时加载的两个模型文件。`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	cmd.Flags().StringVar(&flags.datasetPath, "dataset", "", "数据集 CSV 路径，覆盖 dataset.path")
	cmd.Flags().StringVar(&flags.scalerOut, "scaler-out", "", "标准化器输出路径，覆盖 model.scaler_path")
	cmd.Flags().StringVar(&flags.classifierOut, "classifier-out", "", "分类器输出路径，覆盖 model.classifier_path")

	return cmd
}

func run(cmd *cobra.Command, flags *trainFlags) error {
	cfg, err := config.LoadForTraining(flags.configPath)
	if err != nil {
		return err
	}
	if flags.datasetPath != "" {
		cfg.Dataset.Path = flags.datasetPath
	}
	if flags.scalerOut != "" {
		cfg.Model.ScalerPath = flags.scalerOut
	}
	if flags.classifierOut != "" {
		cfg.Model.ClassifierPath = flags.classifierOut
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	data, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	logger.Info("数据集加载完成",
		zap.String("path", cfg.Dataset.Path),
		zap.Int("rows", len(data.Records)),
		zap.Int("dropped", data.Dropped),
	)

	x, y := service.TrainingSet(data.Records)
	res, err := engagement.Train(x, y, engagement.TrainOptions{
		Seed:     cfg.Model.Seed,
		TestSize: cfg.Model.TestSize,
	})
	if err != nil {
		return fmt.Errorf("训练失败: %w", err)
	}

	if err := engagement.SaveScaler(cfg.Model.ScalerPath, res.Scorer.Scaler(), model.FeatureNames); err != nil {
		return fmt.Errorf("写出标准化器失败: %w", err)
	}
	if err := engagement.SaveClassifier(cfg.Model.ClassifierPath, res.Scorer.Classifier()); err != nil {
		return fmt.Errorf("写出分类器失败: %w", err)
	}

	logger.Info("模型训练完成",
		zap.Int("train_size", res.TrainSize),
		zap.Int("test_size", res.TestSize),
		zap.Float64("accuracy", res.Accuracy),
		zap.String("scaler", cfg.Model.ScalerPath),
		zap.String("classifier", cfg.Model.ClassifierPath),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Model Accuracy: %.2f\n", res.Accuracy)
	return nil
}
