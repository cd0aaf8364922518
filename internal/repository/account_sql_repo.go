package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"engagelens/internal/model"
	pkgerrors "engagelens/pkg/errors"
)

// accountSQLRepo AccountRepository 的 GORM 实现（PostgreSQL / SQLite）
type accountSQLRepo struct {
	db *gorm.DB
}

// NewAccountSQLRepo 创建基于 GORM 的 AccountRepository
func NewAccountSQLRepo(db *gorm.DB) AccountRepository {
	return &accountSQLRepo{db: db}
}

func (r *accountSQLRepo) Create(ctx context.Context, account *model.Account) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(account)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrDuplicateKey
	}
	return nil
}

func (r *accountSQLRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountSQLRepo) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("username = ?", account.Username).
		Updates(map[string]interface{}{
			"password_hash": account.PasswordHash,
			"email":         account.Email,
			"updated_at":    account.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
