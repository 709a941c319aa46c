//go:build integration

// Package integration 基于 testcontainers-go 的 PostgreSQL 与 Redis 集成测试
package integration

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	redisClient "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
)

const (
	postgresImage = "postgres:15-alpine"
	redisImage    = "redis:7-alpine"
	bookingDBName = "booking_hotel_test"
)

// bookingStack 集成测试依赖的数据库和缓存容器
type bookingStack struct {
	pg    *tcPostgres.PostgresContainer
	cache *tcRedis.RedisContainer
}

// startBookingStack 启动容器，任一失败时回收已启动的部分
func startBookingStack(ctx context.Context) (*bookingStack, error) {
	s := &bookingStack{}

	pg, err := tcPostgres.Run(ctx, postgresImage,
		tcPostgres.WithDatabase(bookingDBName),
		tcPostgres.WithUsername("booking"),
		tcPostgres.WithPassword("booking"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	s.pg = pg

	cache, err := tcRedis.Run(ctx, redisImage)
	if err != nil {
		_ = s.terminate(ctx)
		return nil, fmt.Errorf("start redis: %w", err)
	}
	s.cache = cache
	return s, nil
}

// openDB 连接并迁移，迁移会建立同房区间排它约束
func (s *bookingStack) openDB(ctx context.Context) (*gorm.DB, error) {
	dsn, err := s.pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (s *bookingStack) openRedis(ctx context.Context) (*redisClient.Client, error) {
	uri, err := s.cache.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis uri: %w", err)
	}
	opts, err := redisClient.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	client := redisClient.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *bookingStack) terminate(ctx context.Context) error {
	var errs []error
	if s.pg != nil {
		errs = append(errs, s.pg.Terminate(ctx))
	}
	if s.cache != nil {
		errs = append(errs, s.cache.Terminate(ctx))
	}
	return stderrors.Join(errs...)
}
