package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// PaymentRepository 支付流水仓储，只追加
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付流水仓储
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create 写入流水
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByPaymentNo 根据流水号获取
func (r *PaymentRepository) GetByPaymentNo(ctx context.Context, paymentNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("payment_no = ?", paymentNo).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByProviderTxn 根据渠道交易号获取
func (r *PaymentRepository) GetByProviderTxn(ctx context.Context, provider, providerTxn string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_txn = ?", provider, providerTxn).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ExistsByProviderTxn 渠道交易号是否已入账
func (r *PaymentRepository) ExistsByProviderTxn(ctx context.Context, provider, providerTxn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("provider = ? AND provider_txn = ?", provider, providerTxn).
		Count(&count).Error
	return count > 0, err
}

// ListByBooking 预订的全部流水，按写入顺序
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}

// SumByStatus 按状态汇总预订流水金额
func (r *PaymentRepository) SumByStatus(ctx context.Context, bookingID int64) (map[string]float64, error) {
	var rows []struct {
		Status string
		Total  float64
	}
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("status, COALESCE(SUM(amount), 0) AS total").
		Where("booking_id = ?", bookingID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(rows))
	for _, row := range rows {
		sums[row.Status] = row.Total
	}
	return sums, nil
}
