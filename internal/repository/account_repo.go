package repository

import (
	"context"

	"engagelens/internal/model"
)

// AccountRepository 账户数据访问接口
// 实现需把“不存在”转换为 pkgerrors.ErrNotFound，“已存在”转换为 pkgerrors.ErrDuplicateKey
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
}
