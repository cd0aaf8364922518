package service

import (
	"go.uber.org/zap"

	"engagelens/internal/engagement"
	"engagelens/internal/repository"
	"engagelens/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Student   StudentService
	Analytics AnalyticsService
	Report    ReportService
}

// NewService 创建 Service 聚合
// blacklist 为 nil 时不启用 Token 注销
func NewService(
	repo *repository.Repository,
	scorer *engagement.Scorer,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, blacklist, logger),
		Student:   NewStudentService(repo, scorer, logger),
		Analytics: NewAnalyticsService(repo, logger),
		Report:    NewReportService(repo, logger),
	}
}
