package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"
	"tableside-ordering/kiosk-svc/internal/service"

	"github.com/gorilla/mux"
)

const invalidBodyMessage = "Dữ liệu gửi lên không hợp lệ"

type Handler struct {
	Session service.FlowController
	Log     *logger.Logger
}

func NewHandler(session service.FlowController, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Session: session, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/branches", h.listBranches).Methods("GET")

	r.HandleFunc("/api/session", h.getSession).Methods("GET")
	r.HandleFunc("/api/session/branch", h.selectBranch).Methods("POST")
	r.HandleFunc("/api/session/table", h.checkTable).Methods("POST")
	r.HandleFunc("/api/session/customer", h.submitCustomer).Methods("POST")
	r.HandleFunc("/api/session/back", h.back).Methods("POST")
	r.HandleFunc("/api/session/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/session/cart", h.addToCart).Methods("POST")
	r.HandleFunc("/api/session/cart/{itemId}", h.updateCartLine).Methods("PATCH")
	r.HandleFunc("/api/session/order", h.submitOrder).Methods("POST")
	r.HandleFunc("/api/session/order/refresh", h.refreshStatus).Methods("POST")
	r.HandleFunc("/api/session/payment/start", h.startPayment).Methods("POST")
	r.HandleFunc("/api/session/payment", h.pay).Methods("POST")
	r.HandleFunc("/api/session/receipt/qrcode", h.getReceiptQRCode).Methods("GET")
	r.HandleFunc("/api/session/reset", h.reset).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "kiosk-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Session.Branches(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) selectBranch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BranchID json.RawMessage `json:"branch_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}
	if err := h.Session.SelectBranch(rawScalar(body.BranchID)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) checkTable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TableNumber json.RawMessage `json:"table_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}

	result, err := h.Session.CheckTable(r.Context(), rawScalar(body.TableNumber))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":  result,
		"session": h.Session.Snapshot(),
	})
}

func (h *Handler) submitCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone    string `json:"phone"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}
	if err := h.Session.SubmitCustomer(r.Context(), body.Phone, body.FullName); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Back(); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":      h.Session.Menu(category),
		"categories": h.Session.Snapshot().Categories,
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MenuItemID json.RawMessage `json:"menu_item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}
	if err := h.Session.AddToCart(rawScalar(body.MenuItemID)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}
	if err := h.Session.UpdateCartQuantity(mux.Vars(r)["itemId"], body.Delta); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.Session.SubmitOrder(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"order":   result.Order,
		"session": h.Session.Snapshot(),
	}
	if result.Warning != nil {
		response["warning"] = map[string]interface{}{
			"local":   result.Warning.Local,
			"server":  result.Warning.Server,
			"message": result.Warning.Message(),
		}
	}
	writeJSON(w, http.StatusCreated, response)
}

func (h *Handler) refreshStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RefreshStatus(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) startPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.StartPayment(); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"methods": paymentOptions(),
		"session": h.Session.Snapshot(),
	})
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, invalidBodyMessage, http.StatusBadRequest)
		return
	}

	receipt, err := h.Session.Pay(r.Context(), body.PaymentMethod)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"receipt":      receipt,
		"method_label": receipt.PaymentMethod.Label(),
		"session":      h.Session.Snapshot(),
	})
}

func (h *Handler) getReceiptQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Session.ReceiptQRCode()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Reset(r.Context()))
}

type paymentOption struct {
	Method domain.PaymentMethod `json:"method"`
	Label  string               `json:"label"`
}

func paymentOptions() []paymentOption {
	methods := domain.PaymentMethods()
	options := make([]paymentOption, 0, len(methods))
	for _, m := range methods {
		options = append(options, paymentOption{Method: m, Label: m.Label()})
	}
	return options
}

// rawScalar accepts a JSON string or number and returns its text.
func rawScalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func statusFor(err error) int {
	var vErr domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrSessionReset):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := map[string]interface{}{"error": domain.UserMessage(err)}

	var vErr domain.ValidationError
	if errors.As(err, &vErr) {
		body["field"] = vErr.Field
	}
	var bErr *domain.BackendError
	if errors.As(err, &bErr) {
		body["backend_status"] = bErr.Status
	}
	if status == http.StatusBadGateway && !errors.Is(err, context.Canceled) {
		h.Log.Error("http_request", "", "Request failed", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
