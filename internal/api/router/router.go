package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"engagelens/config"
	"engagelens/internal/api/handler"
	"engagelens/internal/api/middleware"
	"engagelens/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.Authenticator,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("请求处理 panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.InternalError(c)
		c.Abort()
	}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", h.Student.Health)

	api := r.Group("/api")
	{
		// 账户（无需认证，按 IP 限流）
		if !cfg.RateLimit.Enabled {
			limiter = nil
		}
		rateLimit := middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)
		api.POST("/register", rateLimit, h.Auth.Register)
		api.POST("/login", rateLimit, h.Auth.Login)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(auth))
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.GET("/profile", h.Profile.GetProfile)
			authorized.PUT("/profile", h.Profile.UpdateProfile)

			authorized.GET("/students", h.Student.List)
			authorized.GET("/search", h.Student.Search)
			authorized.GET("/dashboard_stats", h.Analytics.DashboardStats)
			authorized.GET("/courses", h.Analytics.Courses)
			authorized.GET("/courses/*name", h.Student.CourseDetail)

			authorized.GET("/reports/students", h.Export.ExportStudents)
		}
	}

	return r
}
