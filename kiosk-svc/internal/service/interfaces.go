package service

import (
	"context"

	"tableside-ordering/kiosk-svc/internal/backend"
	"tableside-ordering/kiosk-svc/internal/domain"
)

type BranchLister interface {
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

type TableChecker interface {
	CheckTable(ctx context.Context, tableNumber int, branchID string) (*domain.TableAvailability, error)
}

type CustomerAuthenticator interface {
	LoginCustomer(ctx context.Context, customer domain.Customer) (string, error)
}

type MenuLoader interface {
	LoadMenu(ctx context.Context, branchID string) ([]domain.MenuItem, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderHandle, error)
}

type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID string) (*domain.OrderDetail, error)
}

type PaymentCreator interface {
	CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.Receipt, error)
}

type FeedbackFetcher interface {
	DishFeedback(ctx context.Context, dishID string) ([]domain.Feedback, error)
}

// Backend is every remote operation the session needs.
type Backend interface {
	BranchLister
	TableChecker
	CustomerAuthenticator
	MenuLoader
	OrderCreator
	OrderFetcher
	PaymentCreator
	FeedbackFetcher
}

type RatingCache interface {
	Get(ctx context.Context, dishID string) (*domain.Rating, error)
	Set(ctx context.Context, dishID string, rating domain.Rating) error
}

type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event domain.SessionEvent) error
}

type QRGenerator interface {
	Generate(receiptID string) ([]byte, error)
}

var _ Backend = (*backend.Client)(nil)

// FlowController is the session surface exposed to transports.
type FlowController interface {
	Snapshot() Snapshot
	OnChange(fn func(Snapshot))
	Branches(ctx context.Context) ([]domain.Branch, error)
	SelectBranch(branchID string) error
	CheckTable(ctx context.Context, tableInput string) (*GateResult, error)
	SubmitCustomer(ctx context.Context, phone, fullName string) error
	Back() error
	Menu(category string) []domain.MenuItem
	AddToCart(menuItemID string) error
	UpdateCartQuantity(menuItemID string, delta int) error
	SubmitOrder(ctx context.Context) (*SubmitResult, error)
	RefreshStatus(ctx context.Context) error
	StartPayment() error
	Pay(ctx context.Context, method string) (*domain.Receipt, error)
	ReceiptQRCode() ([]byte, error)
	Reset(ctx context.Context) Snapshot
}

var _ FlowController = (*Controller)(nil)
