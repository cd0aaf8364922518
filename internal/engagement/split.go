package engagement

import (
	"math"
	"math/rand"
)

// TrainTestSplit 生成确定性的训练/测试索引划分
// 以 seed 生成随机排列，前 ceil(testSize·n) 个为测试集，其余为训练集
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int) {
	if n == 0 {
		return nil, nil
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test
}
