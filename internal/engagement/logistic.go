package engagement

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrSingleClass = errors.New("训练标签只有一个类别，无法拟合分类器")
	ErrSingular    = errors.New("Hessian 矩阵非正定")
)

// 默认超参数
const (
	DefaultC       = 1.0
	DefaultMaxIter = 100
	DefaultTol     = 1e-6
)

// Classifier 二分类逻辑回归，输出正类（完成课程）概率
type Classifier struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// FitOptions 逻辑回归训练参数
type FitOptions struct {
	C       float64 // L2 正则强度的倒数
	MaxIter int
	Tol     float64
}

func (o FitOptions) withDefaults() FitOptions {
	if o.C <= 0 {
		o.C = DefaultC
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	return o
}

// FitClassifier 以牛顿法最小化 0.5·‖w‖² + C·Σ logloss，截距不参与正则
func FitClassifier(x [][]float64, y []int, opts FitOptions) (*Classifier, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("样本数 %d 与标签数 %d 不一致", len(x), len(y))
	}
	if !hasBothClasses(y) {
		return nil, ErrSingleClass
	}
	opts = opts.withDefaults()

	dim := len(x[0])
	// theta = [w..., b]
	theta := make([]float64, dim+1)

	loss := objective(x, y, theta, opts.C)
	next := make([]float64, len(theta))
	for iter := 0; iter < opts.MaxIter; iter++ {
		grad, hess := derivatives(x, y, theta, opts.C)
		if maxAbs(grad.RawVector().Data) < opts.Tol {
			break
		}

		step, err := solve(hess, grad)
		if err != nil {
			return nil, err
		}

		// 回溯线搜索保证目标函数单调下降
		t := 1.0
		for {
			copy(next, theta)
			floats.AddScaled(next, -t, step.RawVector().Data)
			nextLoss := objective(x, y, next, opts.C)
			if nextLoss <= loss || t < 1e-8 {
				loss = nextLoss
				break
			}
			t /= 2
		}
		copy(theta, next)
	}

	return &Classifier{
		Coef:      append([]float64(nil), theta[:dim]...),
		Intercept: theta[dim],
	}, nil
}

// PredictProba 返回每个样本属于正类的概率
func (c *Classifier) PredictProba(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(c.Coef) {
			return nil, fmt.Errorf("特征维度不一致: 期望 %d，实际 %d", len(c.Coef), len(row))
		}
		out[i] = sigmoid(floats.Dot(c.Coef, row) + c.Intercept)
	}
	return out, nil
}

func (c *Classifier) validate() error {
	if len(c.Coef) == 0 {
		return errors.New("分类器系数为空")
	}
	for _, v := range append(append([]float64(nil), c.Coef...), c.Intercept) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("分类器参数含非法值 %v", v)
		}
	}
	return nil
}

func hasBothClasses(y []int) bool {
	var pos, neg bool
	for _, v := range y {
		if v == 1 {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// log(1+exp(z)) 的数值稳定形式
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func linear(theta, row []float64) float64 {
	dim := len(row)
	return floats.Dot(theta[:dim], row) + theta[dim]
}

func objective(x [][]float64, y []int, theta []float64, c float64) float64 {
	dim := len(theta) - 1
	reg := 0.5 * floats.Dot(theta[:dim], theta[:dim])
	var ll float64
	for i, row := range x {
		z := linear(theta, row)
		if y[i] == 1 {
			ll += softplus(-z)
		} else {
			ll += softplus(z)
		}
	}
	return reg + c*ll
}

// derivatives 目标函数在 theta 处的梯度与 Hessian（对称正定）
func derivatives(x [][]float64, y []int, theta []float64, c float64) (*mat.VecDense, *mat.SymDense) {
	n := len(theta)
	dim := n - 1
	grad := mat.NewVecDense(n, nil)
	hess := mat.NewSymDense(n, nil)

	// 截距对应的常数列
	xa := make([]float64, n)
	xa[dim] = 1
	for i, row := range x {
		copy(xa, row)
		p := sigmoid(linear(theta, row))
		v := mat.NewVecDense(n, xa)
		grad.AddScaledVec(grad, c*(p-float64(y[i])), v)
		hess.SymRankOne(hess, c*p*(1-p), v)
	}
	for j := 0; j < dim; j++ {
		grad.SetVec(j, grad.AtVec(j)+theta[j])
		hess.SetSym(j, j, hess.At(j, j)+1)
	}
	return grad, hess
}

// solve 以 Cholesky 分解求解 a·x = b；a 非正定时返回 ErrSingular
func solve(a *mat.SymDense, b *mat.VecDense) (*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, ErrSingular
	}
	var out mat.VecDense
	if err := chol.SolveVecTo(&out, b); err != nil {
		// mat.Condition 只是病态提示，解仍可用
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}
	return &out, nil
}

func maxAbs(v []float64) float64 {
	return floats.Norm(v, math.Inf(1))
}
