package models

import (
	"time"

	"gorm.io/datatypes"
)

// Payment 账本流水，只追加
type Payment struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentNo   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"paymentNo"`
	BookingID   int64          `gorm:"index;not null" json:"bookingId"`
	Amount      float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method      string         `gorm:"type:varchar(20);not null" json:"method"`
	Status      string         `gorm:"type:varchar(20);not null" json:"status"`
	Provider    string         `gorm:"type:varchar(20);uniqueIndex:uk_payment_provider_txn;not null" json:"provider"`
	ProviderTxn *string        `gorm:"type:varchar(64);uniqueIndex:uk_payment_provider_txn" json:"providerTxn,omitempty"`
	TxnRef      *string        `gorm:"type:varchar(64);index" json:"txnRef,omitempty"`
	Note        *string        `gorm:"type:varchar(500)" json:"note,omitempty"`
	RawPayload  datatypes.JSON `gorm:"type:jsonb" json:"rawPayload,omitempty"`
	OperatorID  *int64         `json:"operatorId,omitempty"`
	PaidAt      *time.Time     `json:"paidAt,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}

// PaymentRecordStatus 流水状态
const (
	PaymentRecordPending  = "PENDING"
	PaymentRecordPaid     = "PAID"
	PaymentRecordFailed   = "FAILED"
	PaymentRecordRefunded = "REFUNDED"
)

// PaymentProvider 支付渠道
const (
	PaymentProviderVNPay   = "VNPAY"
	PaymentProviderOffline = "OFFLINE"
)

// PaymentMethod 支付方式
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodVNPay        = "VNPAY"
)

// OfflineMethods 前台可登记的线下支付方式
var OfflineMethods = []string{PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer}

// IsOfflineMethod 判断是否为线下支付方式
func IsOfflineMethod(method string) bool {
	for _, m := range OfflineMethods {
		if m == method {
			return true
		}
	}
	return false
}
