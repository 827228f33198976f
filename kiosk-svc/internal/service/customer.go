package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

var customerMessages = map[string]string{
	"Phone":       "Số điện thoại không hợp lệ",
	"FullName":    "Vui lòng nhập họ tên",
	"BranchID":    "Vui lòng chọn chi nhánh",
	"TableNumber": "Số bàn không hợp lệ",
}

var customerFields = map[string]string{
	"Phone":       "phone",
	"FullName":    "full_name",
	"BranchID":    "branch_id",
	"TableNumber": "table_number",
}

// CustomerIdentifier validates contact details and trades them for a token.
type CustomerIdentifier struct {
	auth     CustomerAuthenticator
	validate *validator.Validate
}

func NewCustomerIdentifier(auth CustomerAuthenticator) *CustomerIdentifier {
	return &CustomerIdentifier{
		auth:     auth,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *CustomerIdentifier) Validate(customer domain.Customer) error {
	err := c.validate.Struct(customer)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return domain.ValidationError{Field: customerFields[first.StructField()], Message: customerMessages[first.StructField()]}
	}
	return domain.ValidationError{Field: "customer", Message: domain.GenericErrorMessage}
}

// Identify returns the normalized customer and the session token. Storing the
// token is left to the caller, which knows whether the session is still live.
func (c *CustomerIdentifier) Identify(ctx context.Context, customer domain.Customer) (domain.Customer, string, error) {
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.FullName = strings.TrimSpace(customer.FullName)
	if err := c.Validate(customer); err != nil {
		return customer, "", err
	}

	token, err := c.auth.LoginCustomer(ctx, customer)
	if err != nil {
		return customer, "", fmt.Errorf("identify customer: %w", err)
	}
	return customer, token, nil
}
