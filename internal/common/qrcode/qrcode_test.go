// Package qrcode 二维码生成单元测试
package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_Amount=50000000&vnp_TxnRef=BOOK42_1700000000"

func TestNewGenerator(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, 256, g.size)
	assert.Equal(t, Medium, g.recoveryLevel)

	g = NewGenerator(WithSize(128), WithRecoveryLevel(High))
	assert.Equal(t, 128, g.size)
	assert.Equal(t, High, g.recoveryLevel)
}

func TestGenerator_GeneratePNG(t *testing.T) {
	for _, level := range []RecoveryLevel{Low, Medium, High, Highest} {
		g := NewGenerator(WithSize(200), WithRecoveryLevel(level))
		data, err := g.GeneratePNG(payURL)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestGenerator_GenerateBase64(t *testing.T) {
	g := NewGenerator()

	t.Run("可解码为 PNG", func(t *testing.T) {
		b64, err := g.GenerateBase64(payURL)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(b64)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(raw))
		assert.NoError(t, err)
	})

	t.Run("相同内容输出一致", func(t *testing.T) {
		a, err := g.GenerateBase64(payURL)
		require.NoError(t, err)
		b, err := g.GenerateBase64(payURL)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("空内容报错", func(t *testing.T) {
		_, err := g.GenerateBase64("")
		assert.Error(t, err)
	})
}
