package service

import (
	"context"
	"fmt"
	"time"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultPriceTolerance is one unit of the smallest currency denomination.
var DefaultPriceTolerance = decimal.NewFromInt(1)

type SubmitResult struct {
	Order   domain.Order                    `json:"order"`
	Warning *domain.PriceDiscrepancyWarning `json:"warning,omitempty"`
}

type OrderSubmitter struct {
	creator   OrderCreator
	tolerance decimal.Decimal
}

func NewOrderSubmitter(creator OrderCreator, tolerance decimal.Decimal) *OrderSubmitter {
	if tolerance.IsNegative() {
		tolerance = DefaultPriceTolerance
	}
	return &OrderSubmitter{creator: creator, tolerance: tolerance}
}

// Submit sends ids and quantities only. A server total that differs from the
// local one yields a warning, never a rejection.
func (s *OrderSubmitter) Submit(ctx context.Context, branchID string, tableNumber int, lines []domain.CartLine) (*SubmitResult, error) {
	if branchID == "" {
		return nil, domain.ValidationError{Field: "branch_id", Message: "Vui lòng chọn chi nhánh"}
	}
	if len(lines) == 0 {
		return nil, domain.ValidationError{Field: "items", Message: "Giỏ hàng đang trống"}
	}

	req := domain.OrderRequest{BranchID: branchID, TableNumber: tableNumber}
	local := decimal.Zero
	for _, line := range lines {
		req.Items = append(req.Items, domain.OrderItem{MenuItemID: line.Item.ID, Quantity: line.Quantity})
		local = local.Add(line.Subtotal())
	}

	handle, err := s.creator.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	result := &SubmitResult{
		Order: domain.Order{
			ID:          handle.ID,
			BranchID:    branchID,
			TableNumber: tableNumber,
			Items:       req.Items,
			TotalPrice:  handle.TotalPrice,
			Status:      domain.StatusConfirmed,
			UpdatedAt:   time.Now(),
		},
	}
	if local.Sub(handle.TotalPrice).Abs().GreaterThan(s.tolerance) {
		result.Warning = &domain.PriceDiscrepancyWarning{Local: local, Server: handle.TotalPrice}
	}
	return result, nil
}
