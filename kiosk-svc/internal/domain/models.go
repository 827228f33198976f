package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type TableAvailability struct {
	IsAvailable bool   `json:"is_available"`
	Message     string `json:"message"`
}

type Customer struct {
	Phone       string `json:"phone" validate:"required,min=8,max=15,numeric"`
	FullName    string `json:"full_name" validate:"required,max=100"`
	BranchID    string `json:"branch_id" validate:"required"`
	TableNumber int    `json:"table_number" validate:"required,gt=0"`
}

// Rating is a read-only annotation joined from the feedback aggregate.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func (r Rating) Rated() bool {
	return r.Count > 0
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"available"`
	BestSeller  bool            `json:"best_seller"`
	New         bool            `json:"new"`
	Rating      *Rating         `json:"rating,omitempty"`
}

type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type OrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type OrderRequest struct {
	BranchID    string      `json:"branch_id"`
	TableNumber int         `json:"table_number"`
	Items       []OrderItem `json:"items"`
}

type OrderHandle struct {
	ID         string          `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderDetail struct {
	ID         string          `json:"id"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []OrderItem     `json:"items"`
}

type Order struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id"`
	TableNumber int             `json:"table_number"`
	Items       []OrderItem     `json:"items"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      OrderStatus     `json:"status"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PaymentRequest struct {
	OrderID       string        `json:"order_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

type Receipt struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        string          `json:"status"`
}

type Feedback struct {
	ID        string `json:"id"`
	DishID    string `json:"dish_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	IsVisible bool   `json:"is_visible"`
}

type SessionEvent struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"session_id"`
	BranchID    string          `json:"branch_id,omitempty"`
	TableNumber int             `json:"table_number,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	LocalTotal  decimal.Decimal `json:"local_total"`
	Method      PaymentMethod   `json:"payment_method,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

const (
	EventOrderSubmitted   = "order_submitted"
	EventPriceDiscrepancy = "price_discrepancy"
	EventPaymentCompleted = "payment_completed"
	EventSessionReset     = "session_reset"
)
