package backend

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// The backend is inconsistent across endpoints: some wrap payloads in
// {"data": ...}, some use snake_case, ids arrive as numbers or strings.
// Everything in this file folds those variants into the domain types.

// flexID accepts a JSON number or string and renders canonical integer ids back as numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// MarshalJSON emits a number only when the id round-trips through one, so
// "007" or "+5" stay strings.
func (f flexID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(f), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(f) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func firstID(ids ...flexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDecimal(values ...decimal.NullDecimal) decimal.Decimal {
	for _, v := range values {
		if v.Valid {
			return v.Decimal
		}
	}
	return decimal.Zero
}

func firstBool(fallback bool, values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return fallback
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// unwrap returns the payload inside a {"data": ...} envelope, or the body itself.
func unwrap(body []byte) (json.RawMessage, string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, ""
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed, ""
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || string(data) == "null" {
		return trimmed, env.Message
	}
	return data, env.Message
}

type wireBranch struct {
	ID         flexID `json:"id"`
	BranchID   flexID `json:"branchId"`
	BranchIDSn flexID `json:"branch_id"`
	Name       string `json:"name"`
	BranchName string `json:"branchName"`
	NameSnake  string `json:"branch_name"`
	Address    string `json:"address"`
}

func (w wireBranch) toDomain() domain.Branch {
	return domain.Branch{
		ID:      firstID(w.ID, w.BranchID, w.BranchIDSn),
		Name:    firstString(w.Name, w.BranchName, w.NameSnake),
		Address: w.Address,
	}
}

type wireAvailability struct {
	IsAvailable      *bool  `json:"isAvailable"`
	IsAvailableSnake *bool  `json:"is_available"`
	Available        *bool  `json:"available"`
	Message          string `json:"message"`
}

type wireCategory struct {
	Name string `json:"name"`
}

type wireMenuItem struct {
	ID            flexID              `json:"id"`
	DishID        flexID              `json:"dishId"`
	DishIDSnake   flexID              `json:"dish_id"`
	Name          string              `json:"name"`
	DishName      string              `json:"dishName"`
	DishNameSnake string              `json:"dish_name"`
	Description   string              `json:"description"`
	Price         decimal.NullDecimal `json:"price"`
	BranchPrice   decimal.NullDecimal `json:"branchPrice"`
	BranchPriceSn decimal.NullDecimal `json:"branch_price"`
	Category      json.RawMessage     `json:"category"`
	CategoryName  string              `json:"categoryName"`
	CategorySnake string              `json:"category_name"`
	ImageURL      string              `json:"imageUrl"`
	ImageURLSnake string              `json:"image_url"`
	IsAvailable   *bool               `json:"isAvailable"`
	IsAvailableSn *bool               `json:"is_available"`
	Available     *bool               `json:"available"`
	IsBestSeller  *bool               `json:"isBestSeller"`
	BestSellerSn  *bool               `json:"is_best_seller"`
	BestSeller    *bool               `json:"bestSeller"`
	IsNew         *bool               `json:"isNew"`
	IsNewSnake    *bool               `json:"is_new"`
	Dish          *wireMenuItem       `json:"dish"`
}

func (w wireMenuItem) category() string {
	raw := bytes.TrimSpace(w.Category)
	if len(raw) > 0 {
		var name string
		if raw[0] == '"' && json.Unmarshal(raw, &name) == nil {
			return name
		}
		var cat wireCategory
		if raw[0] == '{' && json.Unmarshal(raw, &cat) == nil && cat.Name != "" {
			return cat.Name
		}
	}
	return firstString(w.CategoryName, w.CategorySnake)
}

// toDomain merges a branch-dish row with its nested dish, the branch row winning
// for price and availability.
func (w wireMenuItem) toDomain() domain.MenuItem {
	item := domain.MenuItem{Available: true}
	if w.Dish != nil {
		item = w.Dish.toDomain()
	}

	if id := firstID(w.DishID, w.DishIDSnake); id != "" {
		item.ID = id
	} else if item.ID == "" {
		item.ID = string(w.ID)
	}
	item.Name = firstString(w.Name, w.DishName, w.DishNameSnake, item.Name)
	item.Description = firstString(w.Description, item.Description)
	item.Category = firstString(w.category(), item.Category)
	item.ImageURL = firstString(w.ImageURL, w.ImageURLSnake, item.ImageURL)

	if w.BranchPrice.Valid || w.BranchPriceSn.Valid || w.Price.Valid {
		item.Price = firstDecimal(w.BranchPrice, w.BranchPriceSn, w.Price)
	}
	item.Available = firstBool(item.Available, w.IsAvailable, w.IsAvailableSn, w.Available)
	item.BestSeller = firstBool(item.BestSeller, w.IsBestSeller, w.BestSellerSn, w.BestSeller)
	item.New = firstBool(item.New, w.IsNew, w.IsNewSnake)
	return item
}

type wireOrderItem struct {
	MenuItemID      flexID `json:"menuItemId"`
	MenuItemIDSnake flexID `json:"menu_item_id"`
	DishID          flexID `json:"dishId"`
	DishIDSnake     flexID `json:"dish_id"`
	Quantity        int    `json:"quantity"`
}

type wireOrderRequestItem struct {
	MenuItemID flexID `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type wireOrderRequest struct {
	BranchID    flexID                 `json:"branchId"`
	TableNumber int                    `json:"tableNumber"`
	Items       []wireOrderRequestItem `json:"items"`
}

func newWireOrderRequest(req domain.OrderRequest) wireOrderRequest {
	items := make([]wireOrderRequestItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, wireOrderRequestItem{MenuItemID: flexID(item.MenuItemID), Quantity: item.Quantity})
	}
	return wireOrderRequest{BranchID: flexID(req.BranchID), TableNumber: req.TableNumber, Items: items}
}

type wireOrder struct {
	ID               flexID              `json:"id"`
	OrderID          flexID              `json:"orderId"`
	OrderIDSnake     flexID              `json:"order_id"`
	TotalPrice       decimal.NullDecimal `json:"totalPrice"`
	TotalPriceSnake  decimal.NullDecimal `json:"total_price"`
	TotalAmount      decimal.NullDecimal `json:"totalAmount"`
	TotalAmountSnake decimal.NullDecimal `json:"total_amount"`
	Status           string              `json:"status"`
	OrderStatus      string              `json:"orderStatus"`
	OrderStatusSnake string              `json:"order_status"`
	Items            []wireOrderItem     `json:"items"`
	OrderItems       []wireOrderItem     `json:"orderItems"`
	OrderItemsSnake  []wireOrderItem     `json:"order_items"`
}

func (w wireOrder) id() string {
	return firstID(w.OrderID, w.OrderIDSnake, w.ID)
}

func (w wireOrder) total() decimal.Decimal {
	return firstDecimal(w.TotalPrice, w.TotalPriceSnake, w.TotalAmount, w.TotalAmountSnake)
}

func (w wireOrder) items() []domain.OrderItem {
	raw := w.Items
	if len(raw) == 0 {
		raw = w.OrderItems
	}
	if len(raw) == 0 {
		raw = w.OrderItemsSnake
	}
	items := make([]domain.OrderItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, domain.OrderItem{
			MenuItemID: firstID(item.MenuItemID, item.MenuItemIDSnake, item.DishID, item.DishIDSnake),
			Quantity:   item.Quantity,
		})
	}
	return items
}

type wirePayment struct {
	ID                 flexID              `json:"id"`
	PaymentID          flexID              `json:"paymentId"`
	PaymentIDSnake     flexID              `json:"payment_id"`
	Amount             decimal.NullDecimal `json:"amount"`
	PaymentMethod      string              `json:"paymentMethod"`
	PaymentMethodSnake string              `json:"payment_method"`
	Status             string              `json:"status"`
}

type wireFeedback struct {
	ID            flexID `json:"id"`
	DishID        flexID `json:"dishId"`
	DishIDSnake   flexID `json:"dish_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	IsVisible     *bool  `json:"isVisible"`
	IsVisibleSn   *bool  `json:"is_visible"`
	Visible       *bool  `json:"visible"`
	VisibilityRaw *bool  `json:"visibility"`
}

func (w wireFeedback) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:        string(w.ID),
		DishID:    firstID(w.DishID, w.DishIDSnake),
		Rating:    w.Rating,
		Comment:   w.Comment,
		IsVisible: firstBool(true, w.IsVisible, w.IsVisibleSn, w.Visible, w.VisibilityRaw),
	}
}

type wireLogin struct {
	Token            string `json:"token"`
	AccessToken      string `json:"accessToken"`
	AccessTokenSnake string `json:"access_token"`
}

type wireErrorItem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

type wireError struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// parseFieldErrors handles both [{field, message}] and {field: [messages]}.
func parseFieldErrors(raw json.RawMessage) []domain.FieldError {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		var list []wireErrorItem
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil
		}
		out := make([]domain.FieldError, 0, len(list))
		for _, item := range list {
			out = append(out, domain.FieldError{Field: item.Field, Message: firstString(item.Message, item.Msg)})
		}
		return out
	case '{':
		var byField map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byField); err != nil {
			return nil
		}
		fields := make([]string, 0, len(byField))
		for field := range byField {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		out := make([]domain.FieldError, 0, len(fields))
		for _, field := range fields {
			var messages []string
			if err := json.Unmarshal(byField[field], &messages); err != nil {
				var single string
				if err := json.Unmarshal(byField[field], &single); err != nil {
					continue
				}
				messages = []string{single}
			}
			if len(messages) > 0 {
				out = append(out, domain.FieldError{Field: field, Message: messages[0]})
			}
		}
		return out
	}
	return nil
}
