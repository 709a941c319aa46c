// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标收集器，nil 接收者上的记录方法为空操作
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	bookingsTotal        *prometheus.CounterVec
	paymentsTotal        *prometheus.CounterVec
	gatewayCallbacks     *prometheus.CounterVec
	promotionRejections  *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// Init 在默认注册表上初始化指标收集器
func Init(namespace string) *Metrics {
	initOnce.Do(func() {
		defaultMetrics = New(namespace, prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New 在指定注册表上创建指标收集器
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "booking_hotel"
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		bookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_total",
				Help:      "Booking lifecycle events by source and resulting status",
			},
			[]string{"source", "status"},
		),
		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Ledger entries by provider and status",
			},
			[]string{"provider", "status"},
		),
		gatewayCallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_callbacks_total",
				Help:      "Payment gateway callbacks by outcome",
			},
			[]string{"result"},
		),
		promotionRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "promotion_rejections_total",
				Help:      "Rejected promotion codes by reason",
			},
			[]string{"reason"},
		),
	}
}

// GetMetrics 获取默认指标收集器
func GetMetrics() *Metrics {
	return Init("")
}

// Middleware 返回 Gin 中间件
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 返回 Prometheus HTTP 处理器
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordBooking 记录预订事件
func (m *Metrics) RecordBooking(source, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(source, status).Inc()
}

// RecordPayment 记录账本流水
func (m *Metrics) RecordPayment(provider, status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(provider, status).Inc()
}

// RecordGatewayCallback 记录网关回调结果
func (m *Metrics) RecordGatewayCallback(result string) {
	if m == nil {
		return
	}
	m.gatewayCallbacks.WithLabelValues(result).Inc()
}

// RecordPromotionRejection 记录促销码拒绝原因
func (m *Metrics) RecordPromotionRejection(reason string) {
	if m == nil {
		return
	}
	m.promotionRejections.WithLabelValues(reason).Inc()
}
