package engagement

import (
	"fmt"
)

// 参与度等级
const (
	LabelHigh        = "High"
	LabelMedium      = "Medium"
	LabelLow         = "Low"
	LabelUnavailable = "Unavailable" // 模型不可用时的占位标签
)

// 分级阈值（严格大于）
const (
	highThreshold   = 0.75
	mediumThreshold = 0.4
)

// Labels 按从高到低排列的有效等级
var Labels = []string{LabelHigh, LabelMedium, LabelLow}

// 模型来源
const (
	OriginFitted      = "fitted"
	OriginLoaded      = "loaded"
	OriginUnavailable = "unavailable"
)

// Categorize 将完成概率映射为参与度等级
func Categorize(p float64) string {
	switch {
	case p > highThreshold:
		return LabelHigh
	case p > mediumThreshold:
		return LabelMedium
	default:
		return LabelLow
	}
}

// Scorer 标准化 + 逻辑回归两段式评分管道
// 任一组件缺失时所有样本返回 LabelUnavailable
type Scorer struct {
	scaler     *Scaler
	classifier *Classifier
	origin     string
}

// NewScorer 组装评分器；scaler 或 classifier 为 nil 表示不可用
func NewScorer(scaler *Scaler, classifier *Classifier, origin string) *Scorer {
	if scaler == nil || classifier == nil {
		origin = OriginUnavailable
	}
	return &Scorer{scaler: scaler, classifier: classifier, origin: origin}
}

// Unavailable 返回始终输出占位标签的评分器
func Unavailable() *Scorer {
	return NewScorer(nil, nil, OriginUnavailable)
}

// Available 模型是否可用
func (s *Scorer) Available() bool {
	return s != nil && s.scaler != nil && s.classifier != nil
}

// Origin 模型来源：fitted / loaded / unavailable
func (s *Scorer) Origin() string {
	if !s.Available() {
		return OriginUnavailable
	}
	return s.origin
}

// Scaler 返回标准化器（可能为 nil）
func (s *Scorer) Scaler() *Scaler { return s.scaler }

// Classifier 返回分类器（可能为 nil）
func (s *Scorer) Classifier() *Classifier { return s.classifier }

// Probabilities 返回每个样本的完成概率
func (s *Scorer) Probabilities(x [][]float64) ([]float64, error) {
	if !s.Available() {
		return nil, fmt.Errorf("评分模型不可用")
	}
	scaled, err := s.scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	return s.classifier.PredictProba(scaled)
}

// Score 按输入顺序为每个样本给出参与度等级
// 模型不可用或特征维度不符时全部返回 LabelUnavailable，不向调用方报错
func (s *Scorer) Score(x [][]float64) []string {
	labels := make([]string, len(x))
	if len(x) == 0 {
		return labels
	}

	probs, err := s.Probabilities(x)
	if err != nil {
		for i := range labels {
			labels[i] = LabelUnavailable
		}
		return labels
	}

	for i, p := range probs {
		labels[i] = Categorize(p)
	}
	return labels
}
