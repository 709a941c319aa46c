package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailer(t *testing.T) {
	t.Run("缺少主机", func(t *testing.T) {
		_, err := NewSMTPMailer(&Config{Port: 587})
		assert.Error(t, err)
	})

	t.Run("缺少发件人", func(t *testing.T) {
		_, err := NewSMTPMailer(&Config{Host: "smtp.example.com", Port: 587})
		assert.Error(t, err)
	})

	t.Run("发件人默认为用户名", func(t *testing.T) {
		m, err := NewSMTPMailer(&Config{Host: "smtp.example.com", Port: 587, Username: "noreply@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "noreply@example.com", m.cfg.From)
	})
}

func TestSMTPMailer_Send(t *testing.T) {
	m, err := NewSMTPMailer(&Config{
		Host: "smtp.example.com", Port: 587,
		Username: "noreply@example.com", Password: "pw",
		FromName: "Hotel",
	})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	t.Run("发送成功", func(t *testing.T) {
		err := m.Send(context.Background(), "guest@example.com", "Xác nhận thanh toán", "line1\nline2")
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "noreply@example.com", gotFrom)
		assert.Equal(t, []string{"guest@example.com"}, gotTo)

		msg := string(gotMsg)
		assert.Contains(t, msg, "To: guest@example.com\r\n")
		assert.Contains(t, msg, "Subject: =?utf-8?q?")
		assert.Contains(t, msg, "line1\r\nline2")
	})

	t.Run("收件人换行被清理", func(t *testing.T) {
		err := m.Send(context.Background(), "a@example.com\r\nBcc: x@evil.com", "s", "b")
		require.NoError(t, err)
		assert.NotContains(t, string(gotMsg), "\r\nBcc:")
	})

	t.Run("空收件人", func(t *testing.T) {
		assert.Error(t, m.Send(context.Background(), "  ", "s", "b"))
	})

	t.Run("ctx 已取消", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, m.Send(ctx, "a@example.com", "s", "b"), context.Canceled)
	})

	t.Run("SMTP 错误", func(t *testing.T) {
		m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
		err := m.Send(context.Background(), "a@example.com", "s", "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "535")
	})
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	msg := string(buildMessage("noreply@example.com", "", "g@example.com", "Hello", "Body", now))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, "Date: Wed, 01 May 2030 10:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nBody"))
}

func TestMockMailer(t *testing.T) {
	m := NewMockMailer()
	assert.Nil(t, m.Last())

	require.NoError(t, m.Send(context.Background(), "a@example.com", "s", "b"))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, "a@example.com", m.Last().To)

	m.Err = errors.New("down")
	assert.Error(t, m.Send(context.Background(), "a@example.com", "s", "b"))
	assert.Equal(t, 1, m.Count())
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer(nil).Send(context.Background(), "a@example.com", "s", "b"))
}
