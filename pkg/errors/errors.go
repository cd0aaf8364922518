package errors

import "errors"

// 跨层共享的存储错误；各 Repository 实现统一转换为以下错误，Service 层据此判断
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicateKey 主键冲突
	ErrDuplicateKey = errors.New("记录已存在")
)
