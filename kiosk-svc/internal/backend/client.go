package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/google/uuid"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the opaque customer token, empty when not signed in.
type TokenSource interface {
	Current() string
}

// Client calls the ordering backend. Every response is normalized into
// domain types before it leaves this package.
type Client struct {
	baseURL string
	client  HTTPClient
	tokens  TokenSource
}

func NewClient(baseURL string, client HTTPClient, tokens TokenSource) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
	}
}

func (c *Client) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	var wire []wireBranch
	if _, err := c.call(ctx, "list branches", http.MethodGet, "/branches?active=true", nil, &wire); err != nil {
		return nil, err
	}

	branches := make([]domain.Branch, 0, len(wire))
	for _, b := range wire {
		branches = append(branches, b.toDomain())
	}
	return branches, nil
}

func (c *Client) CheckTable(ctx context.Context, tableNumber int, branchID string) (*domain.TableAvailability, error) {
	payload := struct {
		TableNumber int    `json:"tableNumber"`
		BranchID    flexID `json:"branchId"`
	}{TableNumber: tableNumber, BranchID: flexID(branchID)}

	var wire wireAvailability
	envMessage, err := c.call(ctx, "check table", http.MethodPost, "/table/check-availability", payload, &wire)
	if err != nil {
		return nil, err
	}

	return &domain.TableAvailability{
		IsAvailable: firstBool(false, wire.IsAvailable, wire.IsAvailableSnake, wire.Available),
		Message:     firstString(wire.Message, envMessage),
	}, nil
}

func (c *Client) LoginCustomer(ctx context.Context, customer domain.Customer) (string, error) {
	payload := struct {
		Phone       string `json:"phone"`
		FullName    string `json:"fullName"`
		BranchID    flexID `json:"branchId"`
		TableNumber int    `json:"tableNumber"`
	}{
		Phone:       customer.Phone,
		FullName:    customer.FullName,
		BranchID:    flexID(customer.BranchID),
		TableNumber: customer.TableNumber,
	}

	var raw json.RawMessage
	if _, err := c.call(ctx, "customer login", http.MethodPost, "/auth/customer-login", payload, &raw); err != nil {
		return "", err
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		var wire wireLogin
		if err := json.Unmarshal(raw, &wire); err != nil {
			return "", fmt.Errorf("customer login: decode token: %w", err)
		}
		token = firstString(wire.Token, wire.AccessToken, wire.AccessTokenSnake)
	}
	if token == "" {
		return "", &domain.BackendError{Op: "customer login", Status: http.StatusOK, Message: "missing session token"}
	}
	return token, nil
}

func (c *Client) LoadMenu(ctx context.Context, branchID string) ([]domain.MenuItem, error) {
	var wire []wireMenuItem
	path := "/branch-dishes/" + url.PathEscape(branchID)
	if _, err := c.call(ctx, "load menu", http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(wire))
	for _, w := range wire {
		item := w.toDomain()
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderHandle, error) {
	var wire wireOrder
	if _, err := c.call(ctx, "create order", http.MethodPost, "/order", newWireOrderRequest(req), &wire); err != nil {
		return nil, err
	}
	if wire.id() == "" {
		return nil, &domain.BackendError{Op: "create order", Status: http.StatusOK, Message: "missing order id"}
	}
	return &domain.OrderHandle{ID: wire.id(), TotalPrice: wire.total()}, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	var wire wireOrder
	path := "/order/" + url.PathEscape(orderID)
	if _, err := c.call(ctx, "get order", http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	id := wire.id()
	if id == "" {
		id = orderID
	}
	return &domain.OrderDetail{
		ID:         id,
		Status:     domain.ParseOrderStatus(firstString(wire.Status, wire.OrderStatus, wire.OrderStatusSnake)),
		TotalPrice: wire.total(),
		Items:      wire.items(),
	}, nil
}

func (c *Client) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.Receipt, error) {
	payload := struct {
		OrderID       flexID `json:"orderId"`
		PaymentMethod string `json:"paymentMethod"`
	}{OrderID: flexID(req.OrderID), PaymentMethod: string(req.PaymentMethod)}

	var wire wirePayment
	if _, err := c.call(ctx, "create payment", http.MethodPost, "/payment", payload, &wire); err != nil {
		return nil, err
	}

	method, ok := domain.ParsePaymentMethod(firstString(wire.PaymentMethod, wire.PaymentMethodSnake))
	if !ok {
		method = req.PaymentMethod
	}
	return &domain.Receipt{
		ID:            firstID(wire.PaymentID, wire.PaymentIDSnake, wire.ID),
		Amount:        firstDecimal(wire.Amount),
		PaymentMethod: method,
		Status:        wire.Status,
	}, nil
}

func (c *Client) DishFeedback(ctx context.Context, dishID string) ([]domain.Feedback, error) {
	var wire []wireFeedback
	path := "/feedback/dish/" + url.PathEscape(dishID)
	if _, err := c.call(ctx, "dish feedback", http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	feedbacks := make([]domain.Feedback, 0, len(wire))
	for _, f := range wire {
		fb := f.toDomain()
		if fb.DishID == "" {
			fb.DishID = dishID
		}
		feedbacks = append(feedbacks, fb)
	}
	return feedbacks, nil
}

// call performs one request and decodes the (possibly enveloped) payload into out.
// It returns the envelope message, which some endpoints use instead of a payload field.
func (c *Client) call(ctx context.Context, op, method, path string, body, out interface{}) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Current(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeBackendError(op, resp.StatusCode, raw)
	}

	payload, message := unwrap(raw)
	if out == nil || len(payload) == 0 {
		return message, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return "", &domain.BackendError{Op: op, Status: resp.StatusCode, Message: "unexpected response format"}
	}
	return message, nil
}

func decodeBackendError(op string, status int, raw []byte) error {
	backendErr := &domain.BackendError{Op: op, Status: status}

	var wire wireError
	if err := json.Unmarshal(raw, &wire); err != nil {
		// plain-text bodies are surfaced; HTML error pages from proxies are not
		text := strings.TrimSpace(string(raw))
		if len(text) <= 200 && !strings.HasPrefix(text, "<") {
			backendErr.Message = text
		}
		return backendErr
	}

	backendErr.Message = firstString(wire.Message, wire.Error)
	backendErr.FieldErrors = parseFieldErrors(wire.Errors)
	return backendErr
}
