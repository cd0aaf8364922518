package repository

import (
	"strconv"
	"strings"

	"engagelens/internal/model"
)

// StudentRepository 学生记录只读访问接口
// 返回值均为副本，调用方可自由修改
type StudentRepository interface {
	List() []model.StudentRecord
	ListByCourse(courseName string) []model.StudentRecord
	Search(query string) []model.StudentRecord
	Count() int
}

// studentTable 启动时构建的不可变内存表，并发读无需加锁
type studentTable struct {
	records []model.StudentRecord
}

// NewStudentTable 以给定记录构建内存表（拷贝输入）
func NewStudentTable(records []model.StudentRecord) StudentRepository {
	return &studentTable{records: append([]model.StudentRecord(nil), records...)}
}

func (t *studentTable) List() []model.StudentRecord {
	return append([]model.StudentRecord(nil), t.records...)
}

func (t *studentTable) Count() int {
	return len(t.records)
}

// ListByCourse 课程名精确匹配
func (t *studentTable) ListByCourse(courseName string) []model.StudentRecord {
	var out []model.StudentRecord
	for _, r := range t.records {
		if r.CourseName == courseName {
			out = append(out, r)
		}
	}
	return out
}

// Search 用户 ID（字符串形式）或课程名包含 query，不区分大小写
func (t *studentTable) Search(query string) []model.StudentRecord {
	q := strings.ToLower(query)
	var out []model.StudentRecord
	for _, r := range t.records {
		if strings.Contains(strconv.FormatInt(r.UserID, 10), q) ||
			strings.Contains(strings.ToLower(r.CourseName), q) {
			out = append(out, r)
		}
	}
	return out
}
