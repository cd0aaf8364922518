package engagement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const blobVersion = 1

type scalerBlob struct {
	Version  int      `json:"version"`
	Features []string `json:"features,omitempty"`
	*Scaler
}

type classifierBlob struct {
	Version int `json:"version"`
	*Classifier
}

// SaveScaler 将标准化器参数写入文件
func SaveScaler(path string, s *Scaler, features []string) error {
	return writeJSON(path, scalerBlob{Version: blobVersion, Features: features, Scaler: s})
}

// SaveClassifier 将分类器参数写入文件
func SaveClassifier(path string, c *Classifier) error {
	return writeJSON(path, classifierBlob{Version: blobVersion, Classifier: c})
}

// LoadScaler 读取标准化器参数
func LoadScaler(path string) (*Scaler, error) {
	blob := scalerBlob{Scaler: &Scaler{}}
	if err := readJSON(path, &blob); err != nil {
		return nil, err
	}
	if blob.Version != blobVersion {
		return nil, fmt.Errorf("不支持的标准化器版本 %d", blob.Version)
	}
	if err := blob.Scaler.validate(); err != nil {
		return nil, err
	}
	return blob.Scaler, nil
}

// LoadClassifier 读取分类器参数
func LoadClassifier(path string) (*Classifier, error) {
	blob := classifierBlob{Classifier: &Classifier{}}
	if err := readJSON(path, &blob); err != nil {
		return nil, err
	}
	if blob.Version != blobVersion {
		return nil, fmt.Errorf("不支持的分类器版本 %d", blob.Version)
	}
	if err := blob.Classifier.validate(); err != nil {
		return nil, err
	}
	return blob.Classifier, nil
}

// Load 同时读取两份模型文件并组装评分器
func Load(scalerPath, classifierPath string) (*Scorer, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, fmt.Errorf("加载标准化器失败: %w", err)
	}
	classifier, err := LoadClassifier(classifierPath)
	if err != nil {
		return nil, fmt.Errorf("加载分类器失败: %w", err)
	}
	if scaler.Dim() != len(classifier.Coef) {
		return nil, fmt.Errorf("模型维度不匹配: scaler=%d classifier=%d", scaler.Dim(), len(classifier.Coef))
	}
	return NewScorer(scaler, classifier, OriginLoaded), nil
}

// BlobsExist 两份模型文件是否都存在
func BlobsExist(scalerPath, classifierPath string) bool {
	return fileExists(scalerPath) && fileExists(classifierPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// writeJSON 先写临时文件再重命名，避免读到半截文件
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return nil
}
