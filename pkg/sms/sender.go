// Package sms 短信服务
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v3/client"
	"github.com/alibabacloud-go/tea/tea"
)

// TemplatePaymentSuccess 付款成功模板键
const TemplatePaymentSuccess = "payment_success"

// Sender 短信发送器接口
type Sender interface {
	Send(ctx context.Context, phone, templateCode string, params map[string]string) error
	SendPaymentSuccess(ctx context.Context, phone, bookingNo, amount string) error
}

// AliyunConfig 阿里云短信配置
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateID      string // 付款成功模板
	Endpoint        string // 默认 dysmsapi.aliyuncs.com
}

// AliyunSender 阿里云短信发送器
type AliyunSender struct {
	client    *dysmsapi.Client
	signName  string
	templates map[string]string
}

// NewAliyunSender 创建阿里云短信发送器
func NewAliyunSender(config *AliyunConfig) (*AliyunSender, error) {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = "dysmsapi.aliyuncs.com"
	}

	client, err := dysmsapi.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(config.AccessKeyID),
		AccessKeySecret: tea.String(config.AccessKeySecret),
		Endpoint:        tea.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("create aliyun sms client: %w", err)
	}

	return &AliyunSender{
		client:    client,
		signName:  config.SignName,
		templates: map[string]string{TemplatePaymentSuccess: config.TemplateID},
	}, nil
}

// Send 发送短信
func (s *AliyunSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal sms params: %w", err)
	}

	resp, err := s.client.SendSms(&dysmsapi.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(s.signName),
		TemplateCode:  tea.String(templateCode),
		TemplateParam: tea.String(string(paramsJSON)),
	})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}

	if resp.Body == nil || resp.Body.Code == nil || *resp.Body.Code != "OK" {
		msg := "unknown error"
		if resp.Body != nil && resp.Body.Message != nil {
			msg = *resp.Body.Message
		}
		return fmt.Errorf("send sms failed: %s", msg)
	}
	return nil
}

// SendPaymentSuccess 发送付款成功通知
func (s *AliyunSender) SendPaymentSuccess(ctx context.Context, phone, bookingNo, amount string) error {
	templateCode := s.templates[TemplatePaymentSuccess]
	if templateCode == "" {
		return fmt.Errorf("sms template %s not configured", TemplatePaymentSuccess)
	}
	return s.Send(ctx, phone, templateCode, map[string]string{
		"booking_no": bookingNo,
		"amount":     amount,
	})
}

// MockSender 模拟短信发送器（用于开发/测试）
type MockSender struct {
	mu           sync.Mutex
	SentMessages []MockMessage
	Err          error // 非空时发送返回该错误
}

// MockMessage 模拟消息
type MockMessage struct {
	Phone        string
	TemplateCode string
	Params       map[string]string
	SentAt       time.Time
}

// NewMockSender 创建模拟发送器
func NewMockSender() *MockSender {
	return &MockSender{SentMessages: make([]MockMessage, 0)}
}

// Send 模拟发送
func (s *MockSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.SentMessages = append(s.SentMessages, MockMessage{
		Phone:        phone,
		TemplateCode: templateCode,
		Params:       params,
		SentAt:       time.Now(),
	})
	return nil
}

// SendPaymentSuccess 模拟发送付款成功通知
func (s *MockSender) SendPaymentSuccess(ctx context.Context, phone, bookingNo, amount string) error {
	return s.Send(ctx, phone, TemplatePaymentSuccess, map[string]string{
		"booking_no": bookingNo,
		"amount":     amount,
	})
}

// Count 已发送条数
func (s *MockSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.SentMessages)
}

// GetLastMessage 获取最后发送的消息
func (s *MockSender) GetLastMessage() *MockMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.SentMessages) == 0 {
		return nil
	}
	msg := s.SentMessages[len(s.SentMessages)-1]
	return &msg
}

// Clear 清空消息记录
func (s *MockSender) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentMessages = make([]MockMessage, 0)
}
