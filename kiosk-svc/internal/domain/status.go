package domain

import "strings"

type OrderStatus string

const (
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusPaid      OrderStatus = "PAID"
)

const defaultStatusLabel = "Đang xử lý"

var statusLabels = map[OrderStatus]string{
	StatusConfirmed: "Đã xác nhận",
	StatusPreparing: "Đang chuẩn bị",
	StatusReady:     "Sẵn sàng phục vụ",
	StatusPaid:      "Đã thanh toán",
}

var statusRank = map[OrderStatus]int{
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusPaid:      4,
}

// ParseOrderStatus canonicalizes a backend status. Unknown values are kept
// verbatim so they can still be displayed with the default label.
func ParseOrderStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func (s OrderStatus) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank orders known statuses; unknown statuses rank 0.
func (s OrderStatus) Rank() int {
	return statusRank[s]
}

// Settled reports whether polling has nothing more to observe.
func (s OrderStatus) Settled() bool {
	return s == StatusReady || s == StatusPaid
}

func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return defaultStatusLabel
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentEWallet      PaymentMethod = "E_WALLET"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:         "Tiền mặt",
	PaymentBankTransfer: "Chuyển khoản",
	PaymentEWallet:      "Ví điện tử",
}

var paymentAliases = map[string]PaymentMethod{
	"cash":          PaymentCash,
	"bank-transfer": PaymentBankTransfer,
	"bank_transfer": PaymentBankTransfer,
	"mobile-wallet": PaymentEWallet,
	"e_wallet":      PaymentEWallet,
	"e-wallet":      PaymentEWallet,
}

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentEWallet}
}

// ParsePaymentMethod maps a tag or one of its wire aliases onto the closed set.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	method, ok := paymentAliases[key]
	return method, ok
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

func (m PaymentMethod) Label() string {
	return paymentLabels[m]
}

type Phase string

const (
	PhaseSelectBranch Phase = "select-branch"
	PhaseCustomerInfo Phase = "customer-info"
	PhaseMenu         Phase = "menu"
	PhaseOrderStatus  Phase = "order-status"
	PhasePayment      Phase = "payment"
	PhaseComplete     Phase = "complete"
)
