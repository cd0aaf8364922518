package model

import "time"

// Account 用户账户，对应 accounts 表 / users 集合
// 以用户名为主键；由注册创建，资料更新时修改，本系统不删除
type Account struct {
	Username     string    `gorm:"type:varchar(64);primaryKey"      bson:"_id"`
	PasswordHash string    `gorm:"type:varchar(255);not null"       bson:"password"`
	Email        string    `gorm:"type:varchar(255);not null;default:''" bson:"email"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" bson:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" bson:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string { return "accounts" }
