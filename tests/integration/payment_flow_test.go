//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
)

func reload(t *testing.T, id int64) *models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, testDB.First(&b, id).Error)
	return &b
}

func countPayments(t *testing.T, bookingID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(&models.Payment{}).Where("booking_id = ?", bookingID).Count(&n).Error)
	return n
}

// applyConcurrently 并发入账，返回成功入账次数与错误
func applyConcurrently(ledger *payment.LedgerService, inputs []*payment.GatewayPayment) (int, []error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		errs    []error
	)
	start := make(chan struct{})
	for _, in := range inputs {
		wg.Add(1)
		go func(in *payment.GatewayPayment) {
			defer wg.Done()
			<-start
			res, err := ledger.ApplyGatewayPayment(context.Background(), in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Applied {
				applied++
			}
		}(in)
	}
	close(start)
	wg.Wait()
	return applied, errs
}

func TestConcurrentDuplicateCallbacks(t *testing.T) {
	f := seed(t, "Duplicate Callback Hotel", 1)
	booking, err := f.booking(t, f.rooms[0], "2031-07-01", "2031-07-03", models.BookingStatusConfirmed)
	require.NoError(t, err)

	ledger := payment.NewLedgerService(testDB, nil, nil, nil)
	inputs := make([]*payment.GatewayPayment, 10)
	for i := range inputs {
		inputs[i] = &payment.GatewayPayment{
			BookingID:   booking.ID,
			ProviderTxn: "14230001",
			TxnRef:      fmt.Sprintf("%d-1", booking.ID),
			Amount:      500000,
			Raw:         map[string]string{"vnp_ResponseCode": "00"},
		}
	}

	applied, errs := applyConcurrently(ledger, inputs)
	assert.Empty(t, errs)
	assert.Equal(t, 1, applied)

	got := reload(t, booking.ID)
	assert.Equal(t, 500000.0, got.AmountPaid)
	assert.Equal(t, models.PaymentStatusPartial, got.PaymentStatus)
	assert.Equal(t, int64(1), countPayments(t, booking.ID))
}

func TestConcurrentDistinctCallbacks(t *testing.T) {
	f := seed(t, "Overpay Race Hotel", 1)
	booking, err := f.booking(t, f.rooms[0], "2031-08-01", "2031-08-03", models.BookingStatusConfirmed)
	require.NoError(t, err)

	ledger := payment.NewLedgerService(testDB, nil, nil, nil)
	inputs := make([]*payment.GatewayPayment, 5)
	for i := range inputs {
		inputs[i] = &payment.GatewayPayment{
			BookingID:   booking.ID,
			ProviderTxn: fmt.Sprintf("1424000%d", i),
			TxnRef:      fmt.Sprintf("%d-%d", booking.ID, i),
			Amount:      500000,
		}
	}

	// 总价 2000000，第五笔必然超付
	applied, errs := applyConcurrently(ledger, inputs)
	assert.Equal(t, 4, applied)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], appErrors.ErrPaymentAmountInvalid))

	got := reload(t, booking.ID)
	assert.Equal(t, 2000000.0, got.AmountPaid)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, int64(4), countPayments(t, booking.ID))

	res, err := ledger.Reconcile(context.Background(), f.hotel.ID, booking.ID)
	require.NoError(t, err)
	assert.False(t, res.Drift)
	assert.Equal(t, 2000000.0, res.LedgerAmountPaid)
}

func TestOfflineAndGatewayMixed(t *testing.T) {
	ctx := context.Background()
	f := seed(t, "Mixed Ledger Hotel", 1)
	booking, err := f.booking(t, f.rooms[0], "2031-09-01", "2031-09-03", models.BookingStatusConfirmed)
	require.NoError(t, err)

	ledger := payment.NewLedgerService(testDB, nil, nil, nil)

	_, err = ledger.RecordOffline(ctx, f.hotel.ID, 1, &payment.OfflinePaymentInput{
		BookingID: booking.ID,
		Method:    models.PaymentMethodCash,
		Status:    models.PaymentRecordPaid,
		Amount:    1500000,
	})
	require.NoError(t, err)

	res, err := ledger.ApplyGatewayPayment(ctx, &payment.GatewayPayment{
		BookingID:   booking.ID,
		ProviderTxn: "14250001",
		Amount:      500000,
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, models.PaymentStatusPaid, res.Booking.PaymentStatus)

	_, err = ledger.RecordOffline(ctx, f.hotel.ID, 1, &payment.OfflinePaymentInput{
		BookingID: booking.ID,
		Method:    models.PaymentMethodCash,
		Status:    models.PaymentRecordRefunded,
		Amount:    500000,
	})
	require.NoError(t, err)

	got := reload(t, booking.ID)
	assert.Equal(t, 1500000.0, got.AmountPaid)
	assert.Equal(t, models.PaymentStatusPartial, got.PaymentStatus)
}
