package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"engagelens/internal/dto"
	"engagelens/internal/model"
	"engagelens/internal/repository"
	pkgerrors "engagelens/pkg/errors"
	"engagelens/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrMissingFields      = errors.New("用户名和密码不能为空")
	ErrAccountExists      = errors.New("用户名已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAccountNotFound    = errors.New("账户不存在")
	ErrStoreUnavailable   = errors.New("账户存储未配置")
	ErrTokenRevoked       = errors.New("token 已注销")
)

// TokenBlacklist Token 黑名单（Redis 实现），nil 表示不启用
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证与个人资料业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	// Authenticate 校验 Bearer Token，并确认其用户名对应的账户仍然存在
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, username string, req *dto.UpdateProfileRequest) error
}

type authService struct {
	accounts  repository.AccountRepository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		accounts:  repo.Account,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return ErrMissingFields
	}
	if s.accounts == nil {
		return ErrStoreUnavailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return ErrAccountExists
		}
		s.logger.Error("创建账户失败", zap.String("username", username), zap.Error(err))
		return err
	}

	s.logger.Info("账户注册成功", zap.String("username", username))
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if s.accounts == nil {
		return nil, ErrStoreUnavailable
	}

	// 1. 查询账户
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Access Token
	token, err := s.jwtMgr.GenerateAccessToken(account.Username)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: token}, nil
}

// Logout 将 Token 的 jti 加入黑名单直至其自然过期
// 未启用 Redis 或 Redis 出错时仅记录日志，Token 依然会按 TTL 失效
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("写入 Token 黑名单失败", zap.String("username", claims.Username()), zap.Error(err))
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 Token 黑名单失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	if s.accounts == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := s.accounts.GetByUsername(ctx, claims.Username()); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账户失败", zap.Error(err))
		return nil, err
	}

	return claims, nil
}

func (s *authService) GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	account, err := s.getAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		Username: account.Username,
		Email:    account.Email,
	}, nil
}

// UpdateProfile 合并 email / password 修改，提供新密码时重新哈希
func (s *authService) UpdateProfile(ctx context.Context, username string, req *dto.UpdateProfileRequest) error {
	account, err := s.getAccount(ctx, username)
	if err != nil {
		return err
	}

	if req.Email != nil {
		account.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return err
		}
		account.PasswordHash = string(hash)
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrAccountNotFound
		}
		s.logger.Error("更新账户失败", zap.String("username", username), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) getAccount(ctx context.Context, username string) (*model.Account, error) {
	if s.accounts == nil {
		return nil, ErrStoreUnavailable
	}
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return account, nil
}
