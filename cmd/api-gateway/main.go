// Package main 是应用程序入口
//
// @title Hotel Booking API
// @version 1.0
// @description 酒店预订生命周期与付款对账服务
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/cache"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/config"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/tracing"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/validator"
	"github.com/akhoa6204/booking-hotel-sub000/internal/scheduler"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting hotel booking service",
		zap.String("version", version),
		zap.String("env", cfg.Server.Mode),
	)

	tracer, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Server.Mode,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database migrated")
	}

	// 初始化 Redis 连接
	redisClient, err := cache.Init(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Redis connected successfully")

	if err := validator.RegisterGin(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	svcs, err := buildServices(cfg, log, db, redisClient)
	if err != nil {
		log.Fatal("Failed to build services", zap.Error(err))
	}

	engine := gin.New()
	setupRouter(engine, cfg, log, db, redisClient, svcs)

	// 定时任务
	sched := scheduler.NewScheduler(log)
	booking := cfg.Business.Booking
	scheduler.NewTaskHandler(svcs.bookings, booking.PendingTTL(), log).
		RegisterTasks(sched, booking.ExpireEnabled, booking.ExpireInterval())
	sched.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	sched.Stop()

	if err := tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		log.Warn("Database close failed", zap.Error(err))
	}

	log.Info("Server exited")
}
