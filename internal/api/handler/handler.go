package handler

import "engagelens/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Student   *StudentHandler
	Analytics *AnalyticsHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Profile:   NewProfileHandler(svc.Auth),
		Student:   NewStudentHandler(svc.Student),
		Analytics: NewAnalyticsHandler(svc.Analytics),
		Export:    NewExportHandler(svc.Report),
	}
}
