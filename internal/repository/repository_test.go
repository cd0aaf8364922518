package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"engagelens/internal/model"
	pkgerrors "engagelens/pkg/errors"
)

// ── 账户文件存储 ──

func newTestFileRepo(t *testing.T) (AccountRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewAccountFileRepo(path), path
}

func TestAccountFileRepo_CreateAndGet(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, &model.Account{Username: "alice", PasswordHash: "h1", Email: "a@x.io"})
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername 失败: %v", err)
	}
	if got.PasswordHash != "h1" || got.Email != "a@x.io" {
		t.Errorf("账户内容不符: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt 应被设置")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("账户文件未创建: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("期望权限 0600，实际 %o", perm)
	}
}

func TestAccountFileRepo_FileLayout(t *testing.T) {
	repo, path := newTestFileRepo(t)
	if err := repo.Create(context.Background(), &model.Account{Username: "bob", PasswordHash: "h", Email: ""}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("文件不是合法 JSON: %v", err)
	}
	entry, ok := raw["bob"]
	if !ok {
		t.Fatalf("文件缺少 bob: %s", data)
	}
	if entry["password"] != "h" {
		t.Errorf("password 字段不符: %v", entry["password"])
	}
	if _, ok := entry["email"]; !ok {
		t.Error("email 字段缺失")
	}
}

func TestAccountFileRepo_Duplicate(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Account{Username: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatal(err)
	}
	err := repo.Create(ctx, &model.Account{Username: "alice", PasswordHash: "h2"})
	if !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Errorf("期望 ErrDuplicateKey，实际: %v", err)
	}

	got, _ := repo.GetByUsername(ctx, "alice")
	if got.PasswordHash != "h1" {
		t.Error("重复注册不应覆盖原账户")
	}
}

func TestAccountFileRepo_NotFound(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestAccountFileRepo_Update(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Account{Username: "alice", PasswordHash: "h1", Email: "old@x.io"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &model.Account{Username: "carol", PasswordHash: "hc"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Update(ctx, &model.Account{Username: "alice", PasswordHash: "h2", Email: "new@x.io"}); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	got, _ := repo.GetByUsername(ctx, "alice")
	if got.PasswordHash != "h2" || got.Email != "new@x.io" {
		t.Errorf("更新未生效: %+v", got)
	}
	other, _ := repo.GetByUsername(ctx, "carol")
	if other.PasswordHash != "hc" {
		t.Error("更新不应影响其他账户")
	}
}

func TestAccountFileRepo_UpdateMissing(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	err := repo.Update(context.Background(), &model.Account{Username: "ghost", PasswordHash: "h"})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestAccountFileRepo_CorruptFile(t *testing.T) {
	repo, path := newTestFileRepo(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByUsername(context.Background(), "alice"); err == nil {
		t.Error("损坏的账户文件应返回错误")
	}
}

func TestAccountFileRepo_EmptyFile(t *testing.T) {
	repo, path := newTestFileRepo(t)
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(context.Background(), &model.Account{Username: "alice", PasswordHash: "h"}); err != nil {
		t.Errorf("空文件应视为空存储: %v", err)
	}
}

// ── 学生内存表 ──

func sampleRecords() []model.StudentRecord {
	return []model.StudentRecord{
		{UserID: 101, CourseName: "Machine Learning", QuizScores: 80},
		{UserID: 202, CourseName: "Health", QuizScores: 60},
		{UserID: 1010, CourseName: "Business", QuizScores: 70},
		{UserID: 303, CourseName: "Machine Learning", QuizScores: 90},
	}
}

func TestStudentTable_List(t *testing.T) {
	records := sampleRecords()
	table := NewStudentTable(records)

	if table.Count() != 4 {
		t.Fatalf("期望 4 条，实际 %d", table.Count())
	}

	list := table.List()
	for i := range list {
		if list[i].UserID != records[i].UserID {
			t.Fatalf("顺序应与数据集一致: %v", list)
		}
	}

	// 修改返回值不影响内存表
	list[0].CourseName = "changed"
	records[1].CourseName = "changed"
	again := table.List()
	if again[0].CourseName != "Machine Learning" || again[1].CourseName != "Health" {
		t.Error("内存表应与调用方数据隔离")
	}
}

func TestStudentTable_ListByCourse(t *testing.T) {
	table := NewStudentTable(sampleRecords())

	ml := table.ListByCourse("Machine Learning")
	if len(ml) != 2 || ml[0].UserID != 101 || ml[1].UserID != 303 {
		t.Errorf("课程过滤结果不符: %+v", ml)
	}
	if got := table.ListByCourse("machine learning"); len(got) != 0 {
		t.Error("课程名应精确匹配（区分大小写）")
	}
	if got := table.ListByCourse("Unknown"); len(got) != 0 {
		t.Error("未知课程应返回空")
	}
}

func TestStudentTable_Search(t *testing.T) {
	table := NewStudentTable(sampleRecords())

	tests := []struct {
		query string
		want  []int64
	}{
		{"101", []int64{101, 1010}},
		{"MACHINE", []int64{101, 303}},
		{"heal", []int64{202}},
		{"0", []int64{101, 202, 1010, 303}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := table.Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("期望 %d 条，实际 %d: %+v", len(tt.want), len(got), got)
			}
			for i, id := range tt.want {
				if got[i].UserID != id {
					t.Errorf("第 %d 条期望 %d，实际 %d", i, id, got[i].UserID)
				}
			}
		})
	}
}
