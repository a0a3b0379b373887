package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stagetrack/config"
	"stagetrack/internal/api/handler"
	"stagetrack/internal/api/router"
	"stagetrack/internal/jobs"
	"stagetrack/internal/repository"
	"stagetrack/internal/service"
	"stagetrack/pkg/database"
	"stagetrack/pkg/geocode"
	"stagetrack/pkg/jwt"
	applogger "stagetrack/pkg/logger"
	"stagetrack/pkg/redis"
	"stagetrack/pkg/webpush"
)

func main() {
	// 0. 本地开发加载 .env，文件不存在时忽略
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("STAGETRACK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting stagetrack",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.App.Timezone),
	)

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("load timezone", zap.Error(err))
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis 可选；不可用时 Token 无法吊销、设置不缓存、限流关闭
	var infra service.Infra
	var routerDeps router.Deps
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token blacklist, cache and rate limits", zap.Error(err))
		rdb = nil
	} else {
		infra.Tokens = rdb
		infra.Cache = rdb
		routerDeps.Blacklist = rdb
		routerDeps.Limiter = rdb
	}

	// 5. 外部集成
	if cfg.Geocode.BaseURL != "" {
		infra.Geocoder = geocode.NewClient(&cfg.Geocode)
	}
	if cfg.Push.Enabled() {
		infra.Sender = webpush.NewVAPIDSender(&cfg.Push, &http.Client{Timeout: 30 * time.Second})
		logger.Info("web push enabled")
	} else {
		logger.Warn("web push disabled: VAPID keys not configured")
	}

	// 6. 依赖注入：Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, infra, service.NewClock(loc, nil), logger)
	h := handler.NewHandler(svc)

	engine, err := router.Setup(cfg, h, jwtMgr, routerDeps, logger)
	if err != nil {
		logger.Fatal("setup router", zap.Error(err))
	}

	// 7. 后台提醒调度
	jobCtx, stopJobs := context.WithCancel(context.Background())
	jobDone := jobs.StartNotificationJob(jobCtx, &cfg.Notification, svc.Notification, logger)

	// 8. 启动 HTTP 服务并优雅关闭
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	stopJobs()
	if jobDone != nil {
		select {
		case <-jobDone:
		case <-ctx.Done():
			logger.Warn("notification job did not stop in time")
		}
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
