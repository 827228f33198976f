package service

import (
	"context"
	"fmt"

	"tableside-ordering/kiosk-svc/internal/domain"
)

type PaymentFinalizer struct {
	creator PaymentCreator
}

func NewPaymentFinalizer(creator PaymentCreator) *PaymentFinalizer {
	return &PaymentFinalizer{creator: creator}
}

// Pay settles orderID with one method of the closed set. rawMethod may be a
// canonical tag or one of its wire aliases.
func (f *PaymentFinalizer) Pay(ctx context.Context, orderID, rawMethod string) (*domain.Receipt, error) {
	if orderID == "" {
		return nil, domain.ValidationError{Field: "order_id", Message: "Chưa có đơn hàng để thanh toán"}
	}
	method, ok := domain.ParsePaymentMethod(rawMethod)
	if !ok {
		return nil, domain.ValidationError{Field: "payment_method", Message: "Vui lòng chọn phương thức thanh toán"}
	}

	receipt, err := f.creator.CreatePayment(ctx, domain.PaymentRequest{OrderID: orderID, PaymentMethod: method})
	if err != nil {
		return nil, fmt.Errorf("pay order %s: %w", orderID, err)
	}
	if receipt.PaymentMethod == "" {
		receipt.PaymentMethod = method
	}
	return receipt, nil
}
