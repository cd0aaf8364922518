//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"engagelens/config"
	"engagelens/internal/model"
	"engagelens/internal/repository"
	"engagelens/pkg/database"
	pkgerrors "engagelens/pkg/errors"
	pkgmongo "engagelens/pkg/mongo"
)

// ═══════════════════════════════════════════════════════════
// 各账户存储后端的公共契约
// ═══════════════════════════════════════════════════════════

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func runAccountContract(t *testing.T, repo repository.AccountRepository) {
	t.Helper()
	ctx := context.Background()
	name := uniqueName("user")

	if err := repo.Create(ctx, &model.Account{Username: name, PasswordHash: "h1", Email: "a@x.io"}); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if err := repo.Create(ctx, &model.Account{Username: name, PasswordHash: "h2"}); !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Errorf("期望 ErrDuplicateKey，实际: %v", err)
	}

	got, err := repo.GetByUsername(ctx, name)
	if err != nil {
		t.Fatalf("GetByUsername 失败: %v", err)
	}
	if got.PasswordHash != "h1" || got.Email != "a@x.io" {
		t.Errorf("账户内容不符: %+v", got)
	}

	got.PasswordHash, got.Email = "h3", "b@x.io"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	got, _ = repo.GetByUsername(ctx, name)
	if got.PasswordHash != "h3" || got.Email != "b@x.io" {
		t.Errorf("更新未生效: %+v", got)
	}

	if _, err := repo.GetByUsername(ctx, uniqueName("ghost")); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if err := repo.Update(ctx, &model.Account{Username: uniqueName("ghost")}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestAccountSQLRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=engagelens password=engagelens dbname=engagelens_test sslmode=disable TimeZone=UTC"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("无法连接测试数据库: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM accounts WHERE username LIKE 'user-%'")
		sqlDB.Close()
	})

	runAccountContract(t, repository.NewAccountSQLRepo(db))
}

func TestAccountSQLRepo_SQLite(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "users.db"), "info", zap.NewNop())
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Account{}); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}

	runAccountContract(t, repository.NewAccountSQLRepo(db))
}

func TestAccountMongoRepo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx := context.Background()

	client, err := pkgmongo.NewClient(ctx, &config.MongoConfig{URI: uri, Database: "engagelens_test"}, zap.NewNop())
	if err != nil {
		t.Fatalf("无法连接 MongoDB: %v", err)
	}
	coll := client.Collection("users")
	t.Cleanup(func() {
		coll.DeleteMany(ctx, bson.M{})
		client.Close(ctx)
	})

	runAccountContract(t, repository.NewAccountMongoRepo(coll))
}
