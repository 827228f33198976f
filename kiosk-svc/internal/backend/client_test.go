package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Current() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/", server.Client(), staticToken("tok-123"))
}

func TestClient_ListBranches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/branches", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Quận 1"},{"branch_id":"b-2","branch_name":"Thủ Đức"}]}`))
	})

	branches, err := client.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Branch{{ID: "1", Name: "Quận 1"}, {ID: "b-2", Name: "Thủ Đức"}}, branches)
}

func TestClient_CheckTable(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected domain.TableAvailability
	}{
		{
			name:     "camel_case",
			body:     `{"isAvailable":true,"message":"Bàn trống"}`,
			expected: domain.TableAvailability{IsAvailable: true, Message: "Bàn trống"},
		},
		{
			name:     "snake_case_wrapped",
			body:     `{"data":{"is_available":false},"message":"Bàn đang sử dụng"}`,
			expected: domain.TableAvailability{IsAvailable: false, Message: "Bàn đang sử dụng"},
		},
		{
			name:     "missing_message",
			body:     `{"available":true}`,
			expected: domain.TableAvailability{IsAvailable: true},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/table/check-availability", r.URL.Path)
				var payload map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, float64(5), payload["tableNumber"])
				assert.Equal(t, float64(7), payload["branchId"])
				w.Write([]byte(testCase.body))
			})

			result, err := client.CheckTable(context.Background(), 5, "7")
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, *result)
		})
	}
}

func TestClient_CheckTable_NonCanonicalBranchIDs(t *testing.T) {
	tests := []struct {
		branchID string
		expected interface{}
	}{
		{branchID: "007", expected: "007"},
		{branchID: "+5", expected: "+5"},
		{branchID: "-0", expected: "-0"},
		{branchID: "B1", expected: "B1"},
		{branchID: "42", expected: float64(42)},
		{branchID: "-3", expected: float64(-3)},
	}

	for _, testCase := range tests {
		t.Run(testCase.branchID, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, testCase.expected, payload["branchId"])
				w.Write([]byte(`{"isAvailable":true}`))
			})

			result, err := client.CheckTable(context.Background(), 5, testCase.branchID)
			require.NoError(t, err)
			assert.True(t, result.IsAvailable)
		})
	}
}

func TestFlexID_MarshalJSON(t *testing.T) {
	for id, expected := range map[flexID]string{
		"007": `"007"`,
		"+5":  `"+5"`,
		"12":  `12`,
		"o-1": `"o-1"`,
		"":    `""`,
	} {
		raw, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, expected, string(raw), "id %q", string(id))
	}
}

func TestClient_LoginCustomer(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		wantErr  bool
	}{
		{name: "token_field", body: `{"token":"abc"}`, expected: "abc"},
		{name: "wrapped_access_token", body: `{"data":{"accessToken":"def"}}`, expected: "def"},
		{name: "wrapped_string", body: `{"data":"ghi"}`, expected: "ghi"},
		{name: "missing_token", body: `{"ok":true}`, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "0901234567", payload["phone"])
				assert.Equal(t, "Nguyễn An", payload["fullName"])
				w.Write([]byte(testCase.body))
			})

			token, err := client.LoginCustomer(context.Background(), domain.Customer{
				Phone: "0901234567", FullName: "Nguyễn An", BranchID: "1", TableNumber: 5,
			})
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, token)
		})
	}
}

func TestClient_LoadMenu_NormalizesVariants(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branch-dishes/1", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id":10,"name":"Phở bò","price":55000,"category":"Món chính","isAvailable":true,"isBestSeller":true},
			{"dish_id":"11","dish_name":"Trà đá","price":"5000","category":{"name":"Đồ uống"},"is_available":false,"is_new":true},
			{"id":99,"branchPrice":30000,"isAvailable":true,"dish":{"id":12,"name":"Gỏi cuốn","price":25000,"categoryName":"Khai vị"}},
			{"name":"no id"}
		]`))
	})

	items, err := client.LoadMenu(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "10", items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(55000)))
	assert.True(t, items[0].Available)
	assert.True(t, items[0].BestSeller)

	assert.Equal(t, "11", items[1].ID)
	assert.Equal(t, "Trà đá", items[1].Name)
	assert.Equal(t, "Đồ uống", items[1].Category)
	assert.False(t, items[1].Available)
	assert.True(t, items[1].New)
	assert.True(t, items[1].Price.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, "12", items[2].ID)
	assert.Equal(t, "Gỏi cuốn", items[2].Name)
	assert.Equal(t, "Khai vị", items[2].Category)
	assert.True(t, items[2].Price.Equal(decimal.NewFromInt(30000)))
}

func TestClient_CreateOrder_SendsNoPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/order", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NotContains(t, string(raw), "price")
		assert.JSONEq(t, `{"branchId":1,"tableNumber":5,"items":[{"menuItemId":10,"quantity":2}]}`, string(raw))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"order_id":"o1","total_price":110000}}`))
	})

	handle, err := client.CreateOrder(context.Background(), domain.OrderRequest{
		BranchID: "1", TableNumber: 5, Items: []domain.OrderItem{{MenuItemID: "10", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", handle.ID)
	assert.True(t, handle.TotalPrice.Equal(decimal.NewFromInt(110000)))
}

func TestClient_GetOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/order/o1", r.URL.Path)
		w.Write([]byte(`{"orderStatus":"preparing","totalAmount":110000,"order_items":[{"dish_id":10,"quantity":2}]}`))
	})

	detail, err := client.GetOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", detail.ID)
	assert.Equal(t, domain.StatusPreparing, detail.Status)
	assert.True(t, detail.TotalPrice.Equal(decimal.NewFromInt(110000)))
	assert.Equal(t, []domain.OrderItem{{MenuItemID: "10", Quantity: 2}}, detail.Items)
}

func TestClient_CreatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "o1", payload["orderId"])
		assert.Equal(t, "CASH", payload["paymentMethod"])
		w.Write([]byte(`{"id":501,"amount":110000,"payment_method":"cash","status":"SUCCESS"}`))
	})

	receipt, err := client.CreatePayment(context.Background(), domain.PaymentRequest{OrderID: "o1", PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, "501", receipt.ID)
	assert.Equal(t, domain.PaymentCash, receipt.PaymentMethod)
	assert.Equal(t, "SUCCESS", receipt.Status)
	assert.True(t, receipt.Amount.Equal(decimal.NewFromInt(110000)))
}

func TestClient_DishFeedback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feedback/dish/10", r.URL.Path)
		w.Write([]byte(`[{"id":1,"rating":5,"isVisible":true},{"id":2,"rating":1,"is_visible":false},{"id":3,"rating":4}]`))
	})

	feedbacks, err := client.DishFeedback(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, feedbacks, 3)
	assert.True(t, feedbacks[0].IsVisible)
	assert.False(t, feedbacks[1].IsVisible)
	assert.True(t, feedbacks[2].IsVisible)
	assert.Equal(t, "10", feedbacks[2].DishID)
}

func TestClient_BackendErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedMsg string
	}{
		{name: "message", status: http.StatusBadRequest, body: `{"message":"Bàn không tồn tại"}`, expectedMsg: "Bàn không tồn tại"},
		{name: "field_error_list", status: http.StatusUnprocessableEntity, body: `{"message":"Invalid","errors":[{"field":"phone","message":"Số điện thoại không hợp lệ"}]}`, expectedMsg: "Số điện thoại không hợp lệ"},
		{name: "field_error_map", status: http.StatusUnprocessableEntity, body: `{"errors":{"phone":["Sai số"],"fullName":["Thiếu tên"]}}`, expectedMsg: "Thiếu tên"},
		{name: "error_key", status: http.StatusInternalServerError, body: `{"error":"Hệ thống bận"}`, expectedMsg: "Hệ thống bận"},
		{name: "html", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, expectedMsg: domain.GenericErrorMessage},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				w.Write([]byte(testCase.body))
			})

			_, err := client.ListBranches(context.Background())
			var backendErr *domain.BackendError
			require.True(t, errors.As(err, &backendErr))
			assert.Equal(t, testCase.status, backendErr.Status)
			assert.Equal(t, testCase.expectedMsg, domain.UserMessage(err))
		})
	}
}

type failingHTTPClient struct{}

func (failingHTTPClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestClient_TransportError(t *testing.T) {
	client := NewClient("http://backend.invalid", failingHTTPClient{}, nil)

	_, err := client.GetOrder(context.Background(), "o1")
	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "get order", transportErr.Op)
	assert.Equal(t, domain.GenericErrorMessage, domain.UserMessage(err))
}
