package database

import (
	"io"
	"strings"
	"testing"
)

func TestAccountMigrations(t *testing.T) {
	src, err := accountMigrations()
	if err != nil {
		t.Fatalf("加载迁移失败: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("读取首个版本失败: %v", err)
	}
	if first != 1 {
		t.Errorf("期望首个版本 1，实际 %d", first)
	}

	up, ident, err := src.ReadUp(first)
	if err != nil {
		t.Fatalf("读取 up 脚本失败: %v", err)
	}
	defer up.Close()
	if ident != "create_accounts" {
		t.Errorf("期望 create_accounts，实际 %q", ident)
	}
	body, _ := io.ReadAll(up)
	for _, col := range []string{"accounts", "username", "password_hash", "email"} {
		if !strings.Contains(string(body), col) {
			t.Errorf("up 脚本缺少 %s", col)
		}
	}

	down, _, err := src.ReadDown(first)
	if err != nil {
		t.Fatalf("读取 down 脚本失败: %v", err)
	}
	defer down.Close()
	body, _ = io.ReadAll(down)
	if !strings.Contains(strings.ToUpper(string(body)), "DROP TABLE") {
		t.Errorf("down 脚本应删除 accounts 表: %s", body)
	}
}
