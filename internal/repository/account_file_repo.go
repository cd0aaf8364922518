package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"engagelens/internal/model"
	pkgerrors "engagelens/pkg/errors"
)

// fileAccount JSON 文件中的单个账户：{"<username>": {"password": "...", "email": "..."}}
type fileAccount struct {
	Password  string    `json:"password"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// accountFileRepo 以单个 JSON 文件保存全部账户
// 每次操作都读取整个文件、修改后整体写回；进程内串行，进程间后写者覆盖
type accountFileRepo struct {
	path string
	mu   sync.Mutex
}

// NewAccountFileRepo 创建基于 JSON 文件的 AccountRepository
func NewAccountFileRepo(path string) AccountRepository {
	return &accountFileRepo{path: path}
}

func (r *accountFileRepo) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load()
	if err != nil {
		return err
	}
	if _, exists := accounts[account.Username]; exists {
		return pkgerrors.ErrDuplicateKey
	}

	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	accounts[account.Username] = fileAccount{
		Password:  account.PasswordHash,
		Email:     account.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.save(accounts)
}

func (r *accountFileRepo) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load()
	if err != nil {
		return nil, err
	}
	a, ok := accounts[username]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	return &model.Account{
		Username:     username,
		PasswordHash: a.Password,
		Email:        a.Email,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}, nil
}

func (r *accountFileRepo) Update(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load()
	if err != nil {
		return err
	}
	existing, ok := accounts[account.Username]
	if !ok {
		return pkgerrors.ErrNotFound
	}

	account.UpdatedAt = time.Now().UTC()
	existing.Password = account.PasswordHash
	existing.Email = account.Email
	existing.UpdatedAt = account.UpdatedAt
	accounts[account.Username] = existing
	return r.save(accounts)
}

// load 文件不存在视为空存储
func (r *accountFileRepo) load() (map[string]fileAccount, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]fileAccount), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取账户文件失败: %w", err)
	}
	accounts := make(map[string]fileAccount)
	if len(data) == 0 {
		return accounts, nil
	}
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("解析账户文件失败: %w", err)
	}
	return accounts, nil
}

// save 写临时文件后原子替换
func (r *accountFileRepo) save(accounts map[string]fileAccount) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".accounts-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入账户文件失败: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
