package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/akhoa6204/booking-hotel-sub000/docs"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/cache"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/config"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/jwt"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/metrics"
	commonMiddleware "github.com/akhoa6204/booking-hotel-sub000/internal/common/middleware"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/qrcode"
	adminHandler "github.com/akhoa6204/booking-hotel-sub000/internal/handler/admin"
	hotelHandler "github.com/akhoa6204/booking-hotel-sub000/internal/handler/hotel"
	paymentHandler "github.com/akhoa6204/booking-hotel-sub000/internal/handler/payment"
	"github.com/akhoa6204/booking-hotel-sub000/internal/middleware"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
	hotelService "github.com/akhoa6204/booking-hotel-sub000/internal/service/hotel"
	marketingService "github.com/akhoa6204/booking-hotel-sub000/internal/service/marketing"
	paymentService "github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
	userService "github.com/akhoa6204/booking-hotel-sub000/internal/service/user"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/mailer"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/sms"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/vnpay"
)

// services 业务服务集合
type services struct {
	metrics      *metrics.Metrics
	pricing      *marketingService.PricingService
	availability *hotelService.AvailabilityService
	bookings     *hotelService.BookingService
	ledger       *paymentService.LedgerService
	payments     *paymentService.PaymentService
}

// buildServices 按配置装配外部客户端与业务服务
func buildServices(cfg *config.Config, log *zap.Logger, db *gorm.DB, redisClient *redis.Client) (*services, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.Init(cfg.Metrics.Namespace)
	}

	// VNPAY 未配置时不能生成支付链接，回调统一按内部错误处理
	var gateway *vnpay.Client
	if cfg.VNPay.TmnCode != "" {
		c, err := vnpay.NewClient(&vnpay.Config{
			TmnCode:       cfg.VNPay.TmnCode,
			HashSecret:    cfg.VNPay.HashSecret,
			PayURL:        cfg.VNPay.PayURL,
			ReturnURL:     cfg.VNPay.ReturnURL,
			Version:       cfg.VNPay.Version,
			Locale:        cfg.VNPay.Locale,
			CurrCode:      cfg.VNPay.CurrCode,
			ExpireMinutes: cfg.VNPay.ExpireMinutes,
		})
		if err != nil {
			return nil, err
		}
		gateway = c
	} else {
		log.Warn("vnpay not configured, online payment disabled")
	}

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.Mail.Enabled {
		smtpMailer, err := mailer.NewSMTPMailer(&mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		})
		if err != nil {
			return nil, err
		}
		mail = smtpMailer
	}

	var smsSender sms.Sender
	if cfg.SMS.Enabled {
		sender, err := sms.NewAliyunSender(&sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
			TemplateID:      cfg.SMS.TemplateID,
		})
		if err != nil {
			return nil, err
		}
		smsSender = sender
	}

	var locker hotelService.Locker
	if redisClient != nil {
		locker = cache.NewLocker(redisClient, cfg.Business.Booking.LockTTL())
	}

	pricing := marketingService.NewPricingService(db, m, log)
	availability := hotelService.NewAvailabilityService(db)
	bookings := hotelService.NewBookingService(db, availability, pricing,
		userService.NewCustomerResolver(db, log), locker, m, log)

	ledger := paymentService.NewLedgerService(db, paymentService.NewNotifier(mail, smsSender, log), m, log)
	payments := paymentService.NewPaymentService(db, ledger, gateway, qrcode.NewGenerator(), paymentService.Options{
		DepositAmount:     cfg.Business.Booking.DepositAmount,
		FrontendReturnURL: cfg.VNPay.FrontendReturnURL,
	}, m, log)

	return &services{
		metrics:      m,
		pricing:      pricing,
		availability: availability,
		bookings:     bookings,
		ledger:       ledger,
		payments:     payments,
	}, nil
}

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	svcs *services,
) {
	jwtManager := jwt.NewManagerFromConfig(&cfg.JWT)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.AccessLog(logger))
	r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
		ServiceName: cfg.Tracing.ServiceName,
		SkipPaths:   []string{"/health", "/ping", "/ready", cfg.Metrics.Path},
	}))
	if svcs.metrics != nil {
		r.Use(svcs.metrics.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 报价按 IP 限流；下单在可选认证之后，登录用户按 ID 限流
	quoteLimit := func(c *gin.Context) { c.Next() }
	bookingLimit := quoteLimit
	if cfg.RateLimit.Enabled && redisClient != nil {
		quoteLimit = middleware.IPRateLimit(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window())
		bookingLimit = middleware.UserRateLimit(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window())
	}

	// 客人端
	v1 := r.Group("/api/v1")
	{
		hotel := v1.Group("/hotels/:hotel_id")
		hotelHandler.NewHotelHandler(svcs.pricing, svcs.availability).RegisterRoutes(hotel, quoteLimit)
		hotelHandler.NewBookingHandler(svcs.bookings, svcs.payments).RegisterRoutes(hotel,
			middleware.OptionalAuth(jwtManager), middleware.UserAuth(jwtManager), bookingLimit)

		// 支付回调（验签，不需要认证）
		paymentHandler.NewHandler(svcs.payments).RegisterCallbackRoutes(v1)
	}

	// 前台
	opLogger := commonMiddleware.NewOperationLogger(repository.NewOperationLogRepository(db), logger)
	desk := r.Group("/api/admin/hotels/:hotel_id",
		middleware.AdminAuth(jwtManager),
		middleware.RequireDeskStaff(),
		opLogger.Log(),
	)
	{
		adminHandler.NewBookingHandler(svcs.bookings).RegisterRoutes(desk)
		adminHandler.NewPaymentHandler(svcs.ledger, svcs.payments).RegisterRoutes(desk)
		adminHandler.NewPromotionHandler(svcs.pricing).RegisterRoutes(desk)
	}
}
