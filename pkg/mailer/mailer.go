// Package mailer 邮件发送
package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config SMTP 配置
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer 基于 SMTP 的纯文本邮件发送器
type SMTPMailer struct {
	cfg  Config
	send sendFunc
}

// NewSMTPMailer 创建 SMTP 发送器，From 为空时使用 Username
func NewSMTPMailer(cfg *Config) (*SMTPMailer, error) {
	if cfg == nil || cfg.Host == "" || cfg.Port <= 0 {
		return nil, errors.New("mailer: host and port are required")
	}
	c := *cfg
	if c.From == "" {
		c.From = c.Username
	}
	if c.From == "" {
		return nil, errors.New("mailer: from address is required")
	}
	return &SMTPMailer{cfg: c, send: smtp.SendMail}, nil
}

// Send 发送邮件；smtp.SendMail 不支持 ctx，仅在发送前检查取消
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = headerSafe(to)
	if to == "" {
		return errors.New("mailer: empty recipient")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	msg := buildMessage(m.cfg.From, m.cfg.FromName, to, subject, body, time.Now())
	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, fromName, to, subject, body string, now time.Time) []byte {
	sender := from
	if name := headerSafe(fromName); name != "" {
		sender = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), from)
	}

	var sb strings.Builder
	sb.WriteString("From: " + sender + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerSafe(subject)) + "\r\n")
	sb.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(sb.String())
}

// headerSafe 去掉换行，防止头注入
func headerSafe(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// LogMailer 未配置 SMTP 时只记录日志
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志发送器
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{logger: log.Named("mailer")}
}

// Send 记录邮件摘要
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail not sent, smtp disabled", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// MockMailer 模拟发送器（用于测试）
type MockMailer struct {
	mu   sync.Mutex
	Sent []MockMail
	Err  error
}

// MockMail 模拟邮件
type MockMail struct {
	To      string
	Subject string
	Body    string
}

// NewMockMailer 创建模拟发送器
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// Send 模拟发送
func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MockMail{To: to, Subject: subject, Body: body})
	return nil
}

// Count 已发送封数
func (m *MockMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last 最后一封
func (m *MockMailer) Last() *MockMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	mail := m.Sent[len(m.Sent)-1]
	return &mail
}
