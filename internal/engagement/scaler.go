package engagement

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrNoSamples = errors.New("没有可用于训练的样本")

// Scaler 特征标准化器：减均值、除以标准差
// 参数在 Fit 时确定，之后保持不变
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler 在样本矩阵上拟合标准化器
// 使用总体标准差；方差为 0 的特征 scale 取 1
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	dim := len(x[0])
	for _, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("特征维度不一致: 期望 %d，实际 %d", dim, len(row))
		}
	}

	mean := make([]float64, dim)
	scale := make([]float64, dim)
	col := make([]float64, len(x))
	for j := 0; j < dim; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		m, variance := stat.PopMeanVariance(col, nil)
		mean[j] = m
		scale[j] = math.Sqrt(variance)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &Scaler{Mean: mean, Scale: scale}, nil
}

// Dim 特征维度
func (s *Scaler) Dim() int { return len(s.Mean) }

// Transform 返回标准化后的新矩阵，不修改输入
func (s *Scaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != s.Dim() {
			return nil, fmt.Errorf("特征维度不一致: 期望 %d，实际 %d", s.Dim(), len(row))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("标准化器参数无效: mean=%d scale=%d", len(s.Mean), len(s.Scale))
	}
	for _, v := range s.Scale {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("标准化器 scale 含非法值 %v", v)
		}
	}
	return nil
}
