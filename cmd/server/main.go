package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"engagelens/config"
	"engagelens/internal/api/handler"
	"engagelens/internal/api/middleware"
	"engagelens/internal/api/router"
	"engagelens/internal/dataset"
	"engagelens/internal/model"
	"engagelens/internal/repository"
	"engagelens/internal/service"
	"engagelens/pkg/database"
	"engagelens/pkg/jwt"
	applogger "engagelens/pkg/logger"
	pkgmongo "engagelens/pkg/mongo"
	"engagelens/pkg/redis"
	"engagelens/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ENGAGE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("model_mode", cfg.Model.Mode),
		zap.String("store", cfg.Store.Driver),
	)

	// 3. 链路追踪（可选）
	shutdownTracing, err := tracing.Init(context.Background(), &cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("初始化链路追踪失败", zap.Error(err))
	}

	// 4. 加载数据集（失败则不启动）
	data, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("加载数据集失败", zap.String("path", cfg.Dataset.Path), zap.Error(err))
	}
	logger.Info("数据集加载完成",
		zap.Int("rows", len(data.Records)),
		zap.Int("dropped", data.Dropped),
	)

	// 5. 准备评分模型并为全部记录打标签
	scorer, err := service.BuildScorer(&cfg.Model, data.Records, logger)
	if err != nil {
		logger.Fatal("准备评分模型失败", zap.Error(err))
	}
	service.LabelRecords(scorer, data.Records)
	logger.Info("参与度评分完成", zap.String("scorer", scorer.Origin()))

	// 6. 账户存储
	accounts, closeStore := openAccountStore(cfg, logger)

	// 7. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 注销与限流将不可用", zap.Error(err))
			rdb = nil
		}
	}
	var (
		blacklist service.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	// 8. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 9. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(repository.NewStudentTable(data.Records), accounts)
	svc := service.NewService(repo, scorer, jwtMgr, blacklist, logger)
	h := handler.NewHandler(svc)

	// 10. 初始化路由
	engine := router.Setup(cfg, h, svc.Auth, limiter, logger)

	// 11. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 12. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	closeStore(ctx)

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("关闭链路追踪失败", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}

// openAccountStore 按 store.driver 打开账户存储
// 连接失败时记录错误并以“未配置”状态继续运行，账户相关接口返回 500
func openAccountStore(cfg *config.Config, logger *zap.Logger) (repository.AccountRepository, func(context.Context)) {
	noop := func(context.Context) {}

	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		logger.Info("账户存储: JSON 文件", zap.String("path", cfg.Store.FilePath))
		return repository.NewAccountFileRepo(cfg.Store.FilePath), noop

	case config.StoreDriverMongo:
		client, err := pkgmongo.NewClient(context.Background(), &cfg.Store.Mongo, logger)
		if err != nil {
			logger.Error("MongoDB 不可用，账户功能已禁用", zap.Error(err))
			return nil, noop
		}
		coll := client.Collection(cfg.Store.Mongo.Collection)
		return repository.NewAccountMongoRepo(coll), func(ctx context.Context) {
			if err := client.Close(ctx); err != nil {
				logger.Warn("断开 MongoDB 失败", zap.Error(err))
			}
		}

	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Error("PostgreSQL 不可用，账户功能已禁用", zap.Error(err))
			return nil, noop
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		return repository.NewAccountSQLRepo(db), func(context.Context) { sqlDB.Close() }

	case config.StoreDriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath, cfg.Log.Level, logger)
		if err != nil {
			logger.Error("SQLite 不可用，账户功能已禁用", zap.Error(err))
			return nil, noop
		}
		if err := db.AutoMigrate(&model.Account{}); err != nil {
			logger.Fatal("SQLite 建表失败", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		return repository.NewAccountSQLRepo(db), func(context.Context) {
			if sqlDB != nil {
				sqlDB.Close()
			}
		}

	default:
		logger.Warn("未配置账户存储，注册/登录/资料接口将返回 500")
		return nil, noop
	}
}
