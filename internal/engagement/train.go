package engagement

import "fmt"

// TrainOptions 训练参数
type TrainOptions struct {
	Seed     int64
	TestSize float64
	Fit      FitOptions
}

// TrainResult 训练结果
type TrainResult struct {
	Scorer    *Scorer
	TrainSize int
	TestSize  int
	Accuracy  float64 // 测试集准确率（0.5 为阈值）
}

// Train 按固定种子划分 80/20，在训练集上拟合标准化器与分类器，并在测试集上评估
func Train(x [][]float64, y []int, opts TrainOptions) (*TrainResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("样本数 %d 与标签数 %d 不一致", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, ErrNoSamples
	}

	trainIdx, testIdx := TrainTestSplit(len(x), opts.TestSize, opts.Seed)
	xTrain, yTrain := subset(x, y, trainIdx)
	xTest, yTest := subset(x, y, testIdx)

	scaler, err := FitScaler(xTrain)
	if err != nil {
		return nil, err
	}
	scaledTrain, err := scaler.Transform(xTrain)
	if err != nil {
		return nil, err
	}
	classifier, err := FitClassifier(scaledTrain, yTrain, opts.Fit)
	if err != nil {
		return nil, err
	}

	scorer := NewScorer(scaler, classifier, OriginFitted)
	acc, err := Evaluate(scorer, xTest, yTest)
	if err != nil {
		return nil, err
	}

	return &TrainResult{
		Scorer:    scorer,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		Accuracy:  acc,
	}, nil
}

// Evaluate 计算评分器在给定样本上的分类准确率
func Evaluate(s *Scorer, x [][]float64, y []int) (float64, error) {
	if len(x) == 0 {
		return 0, nil
	}
	probs, err := s.Probabilities(x)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range probs {
		pred := 0
		if p > 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x)), nil
}

func subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
