// Package logger 日志模块单元测试
package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/config"
)

func TestInit(t *testing.T) {
	t.Run("控制台输出", func(t *testing.T) {
		err := Init(&config.LoggerConfig{Level: "debug", Format: "console", Output: "stdout", Caller: true})
		assert.NoError(t, err)
		assert.NotNil(t, GetLogger())
	})

	t.Run("文件输出", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "app.log")
		err := Init(&config.LoggerConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: logFile,
			MaxSize:  1,
		})
		require.NoError(t, err)

		Info("booking confirmed", BookingID(7), BookingNo("BK20260101"), HotelID(1))
		_ = Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)

		var entry map[string]interface{}
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "booking confirmed", entry["msg"])
		assert.Equal(t, float64(7), entry["booking_id"])
		assert.Equal(t, "BK20260101", entry["booking_no"])
		assert.Equal(t, "info", entry["level"])
	})
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("级别 "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.level))
		})
	}
}

func TestGetLogger_LazyInit(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, GetLogger())
}

func TestDomainFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Named("ledger").Info("gateway payment applied",
		BookingID(12),
		TxnRef("BOOK12_1700000000"),
		ProviderTxn("14123456"),
		Amount(500000),
		StaffID(3),
		RoomID(101),
		Module("payment"),
		Action("apply_gateway"),
	)
	Warn("signature mismatch", RequestID("req-1"))

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "ledger", first.LoggerName)

	fields := first.ContextMap()
	assert.Equal(t, int64(12), fields["booking_id"])
	assert.Equal(t, "BOOK12_1700000000", fields["txn_ref"])
	assert.Equal(t, "14123456", fields["provider_txn"])
	assert.Equal(t, 500000.0, fields["amount"])
	assert.Equal(t, int64(3), fields["staff_id"])
	assert.Equal(t, int64(101), fields["room_id"])
	assert.Equal(t, "payment", fields["module"])
	assert.Equal(t, "apply_gateway", fields["action"])

	second := logs.All()[1]
	assert.Equal(t, zapcore.WarnLevel, second.Level)
	assert.Equal(t, "req-1", second.ContextMap()["request_id"])
}

func TestSync_NilLogger(t *testing.T) {
	SetLogger(nil)
	assert.NoError(t, Sync())
}
