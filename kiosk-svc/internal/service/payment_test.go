package service_test

import (
	"context"
	"errors"
	"testing"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/mocks"
	"tableside-ordering/kiosk-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentFinalizer_Pay(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		orderID      string
		method       string
		prepareMocks func(b *mocks.Backend)
		expected     *domain.Receipt
		errField     string
		wantErr      bool
	}{
		{
			name:    "cash",
			orderID: "o1",
			method:  "CASH",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CreatePayment", mock.Anything, domain.PaymentRequest{OrderID: "o1", PaymentMethod: domain.PaymentCash}).
					Return(&domain.Receipt{ID: "p1", Amount: decimal.NewFromInt(75000), PaymentMethod: domain.PaymentCash, Status: "PAID"}, nil).Once()
			},
			expected: &domain.Receipt{ID: "p1", Amount: decimal.NewFromInt(75000), PaymentMethod: domain.PaymentCash, Status: "PAID"},
		},
		{
			name:    "wire_alias",
			orderID: "o1",
			method:  "mobile-wallet",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CreatePayment", mock.Anything, domain.PaymentRequest{OrderID: "o1", PaymentMethod: domain.PaymentEWallet}).
					Return(&domain.Receipt{ID: "p2", Amount: decimal.NewFromInt(1000)}, nil).Once()
			},
			expected: &domain.Receipt{ID: "p2", Amount: decimal.NewFromInt(1000), PaymentMethod: domain.PaymentEWallet},
		},
		{
			name:         "unknown_method",
			orderID:      "o1",
			method:       "CRYPTO",
			prepareMocks: func(b *mocks.Backend) {},
			errField:     "payment_method",
		},
		{
			name:         "empty_method",
			orderID:      "o1",
			method:       "",
			prepareMocks: func(b *mocks.Backend) {},
			errField:     "payment_method",
		},
		{
			name:         "missing_order",
			method:       "CASH",
			prepareMocks: func(b *mocks.Backend) {},
			errField:     "order_id",
		},
		{
			name:    "backend_rejects",
			orderID: "o1",
			method:  "BANK_TRANSFER",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CreatePayment", mock.Anything, mock.Anything).
					Return(nil, &domain.BackendError{Status: 409, Message: "Đơn hàng đã thanh toán"}).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := mocks.NewBackend(t)
			testCase.prepareMocks(backend)
			finalizer := service.NewPaymentFinalizer(backend)

			receipt, err := finalizer.Pay(ctx, testCase.orderID, testCase.method)
			switch {
			case testCase.errField != "":
				var vErr domain.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, testCase.errField, vErr.Field)
				backend.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
			case testCase.wantErr:
				require.Error(t, err)
				assert.Nil(t, receipt)
				assert.Equal(t, "Đơn hàng đã thanh toán", domain.UserMessage(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, testCase.expected, receipt)
			}
		})
	}
}
