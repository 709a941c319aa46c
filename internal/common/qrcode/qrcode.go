// Package qrcode 生成支付链接二维码，供前台屏幕展示
package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// RecoveryLevel 纠错级别
type RecoveryLevel int

const (
	// Low 7% 纠错
	Low RecoveryLevel = iota
	// Medium 15% 纠错
	Medium
	// High 25% 纠错
	High
	// Highest 30% 纠错
	Highest
)

// Generator 二维码生成器
type Generator struct {
	size          int // 像素
	recoveryLevel RecoveryLevel
}

// Option 生成器选项
type Option func(*Generator)

// WithSize 设置二维码尺寸
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = size
	}
}

// WithRecoveryLevel 设置纠错级别
func WithRecoveryLevel(level RecoveryLevel) Option {
	return func(g *Generator) {
		g.recoveryLevel = level
	}
}

// NewGenerator 创建二维码生成器
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		size:          256,
		recoveryLevel: Medium,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) toQRCodeLevel() qrcode.RecoveryLevel {
	switch g.recoveryLevel {
	case Low:
		return qrcode.Low
	case High:
		return qrcode.High
	case Highest:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GeneratePNG 生成 PNG 格式二维码
func (g *Generator) GeneratePNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode content is empty")
	}
	return qrcode.Encode(content, g.toQRCodeLevel(), g.size)
}

// GenerateBase64 生成 Base64 编码的 PNG
func (g *Generator) GenerateBase64(content string) (string, error) {
	data, err := g.GeneratePNG(content)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
