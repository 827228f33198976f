package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableside-ordering/kiosk-svc/internal/domain"
)

const (
	tableAvailableMessage   = "Bàn hợp lệ, mời bạn tiếp tục"
	tableUnavailableMessage = "Bàn không khả dụng, vui lòng chọn bàn khác"
)

type GateResult struct {
	TableNumber int    `json:"table_number"`
	Available   bool   `json:"available"`
	Message     string `json:"message"`
}

// TableGate validates a branch+table pair against the backend.
type TableGate struct {
	checker TableChecker
}

func NewTableGate(checker TableChecker) *TableGate {
	return &TableGate{checker: checker}
}

// ParseTableNumber accepts only positive integers.
func ParseTableNumber(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, domain.ValidationError{Field: "table_number", Message: "Vui lòng nhập số bàn"}
	}
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return 0, domain.ValidationError{Field: "table_number", Message: "Số bàn phải là số nguyên dương"}
	}
	return n, nil
}

// Check never lets an unavailable table through; the backend message is kept verbatim.
func (g *TableGate) Check(ctx context.Context, branchID, tableInput string) (*GateResult, error) {
	if branchID == "" {
		return nil, domain.ValidationError{Field: "branch_id", Message: "Vui lòng chọn chi nhánh"}
	}
	tableNumber, err := ParseTableNumber(tableInput)
	if err != nil {
		return nil, err
	}

	availability, err := g.checker.CheckTable(ctx, tableNumber, branchID)
	if err != nil {
		return nil, fmt.Errorf("check table %d: %w", tableNumber, err)
	}

	result := &GateResult{
		TableNumber: tableNumber,
		Available:   availability.IsAvailable,
		Message:     availability.Message,
	}
	if result.Message == "" {
		if result.Available {
			result.Message = tableAvailableMessage
		} else {
			result.Message = tableUnavailableMessage
		}
	}
	return result, nil
}
