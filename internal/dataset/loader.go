package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"engagelens/internal/model"
)

var (
	ErrMissingColumn = errors.New("数据集缺少必需列")
	ErrEmptyDataset  = errors.New("数据集为空")
)

// 数据集列名
const (
	colUserID           = "UserID"
	colCourseName       = "CourseName"
	colCourseCompletion = "CourseCompletion"
)

// columnAliases 公开数据集中课程列名为 CourseCategory，按同义列处理
var columnAliases = map[string]string{
	"CourseCategory": colCourseName,
}

var requiredColumns = append([]string{colUserID, colCourseName, colCourseCompletion}, model.FeatureNames...)

// Result 数据集加载结果
type Result struct {
	Records []model.StudentRecord
	Dropped int // 因特征缺失被丢弃的行数
}

// Load 从 CSV 文件加载学生记录
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开数据集失败: %w", err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("解析数据集 %s 失败: %w", path, err)
	}
	return res, nil
}

// Parse 解析 CSV 内容
// 三个特征列任一缺失的行被丢弃，其余列无法解析时整体失败
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, err
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}
	reader.FieldsPerRecord = len(header)

	res := &Result{}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}

		features, missing, err := parseFeatures(row, idx)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}
		if missing {
			res.Dropped++
			continue
		}

		userID, err := parseUserID(row[idx[colUserID]])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 %s: %w", line, colUserID, err)
		}
		flag, err := parseFlag(row[idx[colCourseCompletion]])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 %s: %w", line, colCourseCompletion, err)
		}

		res.Records = append(res.Records, model.StudentRecord{
			UserID:            userID,
			CourseName:        strings.TrimSpace(row[idx[colCourseName]]),
			TimeSpentOnCourse: features[0],
			QuizScores:        features[1],
			CompletionRate:    features[2],
			CourseCompletion:  flag,
		})
	}

	return res, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if canonical, ok := columnAliases[name]; ok {
			if _, exists := idx[canonical]; exists {
				continue
			}
			name = canonical
		}
		idx[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

// isMissing 与 pandas 默认缺失值标记保持一致
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null", "none", "-nan":
		return true
	}
	return false
}

// parseFeatures 按 model.FeatureNames 顺序解析三个特征；任一缺失时 missing=true
func parseFeatures(row []string, idx map[string]int) ([]float64, bool, error) {
	out := make([]float64, len(model.FeatureNames))
	missing := false
	for i, col := range model.FeatureNames {
		raw := row[idx[col]]
		if isMissing(raw) {
			missing = true
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, false, fmt.Errorf("%s 无法解析 %q", col, raw)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing = true
			continue
		}
		out[i] = v
	}
	return out, missing, nil
}

func parseUserID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	// 部分导出工具把整数写成 7.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("无效的用户 ID %q", s)
	}
	return int64(f), nil
}

func parseFlag(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || (f != 0 && f != 1) {
		return 0, fmt.Errorf("完成标记必须为 0 或 1，实际 %q", s)
	}
	return int(f), nil
}
