package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const GenericErrorMessage = "Có lỗi xảy ra, vui lòng thử lại"

var (
	ErrBusy              = errors.New("another request is already in progress")
	ErrIllegalTransition = errors.New("action is not allowed at this step")
	ErrSessionReset      = errors.New("session was reset while the request was in flight")
)

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BackendError is a non-2xx response from the backend.
type BackendError struct {
	Op          string
	Status      int
	Message     string
	FieldErrors []FieldError
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.UserMessage())
}

// UserMessage prefers the first field error over the top-level message.
func (e *BackendError) UserMessage() string {
	if len(e.FieldErrors) > 0 && e.FieldErrors[0].Message != "" {
		return e.FieldErrors[0].Message
	}
	if e.Message != "" {
		return e.Message
	}
	return GenericErrorMessage
}

// PriceDiscrepancyWarning is informational; the server total still wins.
type PriceDiscrepancyWarning struct {
	Local  decimal.Decimal `json:"local"`
	Server decimal.Decimal `json:"server"`
}

func (w PriceDiscrepancyWarning) Message() string {
	return fmt.Sprintf("Tổng tiền đã được cập nhật theo giá hiện tại: %s (tạm tính %s)", w.Server.String(), w.Local.String())
}

func IsValidation(err error) bool {
	var vErr ValidationError
	return errors.As(err, &vErr) || errors.Is(err, ErrBusy) || errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrSessionReset)
}

// UserMessage resolves any error into the text shown in the notification.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	var bErr *BackendError
	if errors.As(err, &bErr) {
		return bErr.UserMessage()
	}

	switch {
	case errors.Is(err, ErrBusy):
		return "Đang xử lý yêu cầu trước, vui lòng chờ"
	case errors.Is(err, ErrIllegalTransition):
		return "Thao tác không hợp lệ ở bước này"
	case errors.Is(err, ErrSessionReset):
		return "Phiên đã được làm mới, vui lòng thao tác lại"
	}

	return GenericErrorMessage
}
