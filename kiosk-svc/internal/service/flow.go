package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	opBranches = "branches"
	opTable    = "table"
	opCustomer = "customer"
	opOrder    = "order"
	opRefresh  = "refresh"
	opPayment  = "payment"
)

type ControllerConfig struct {
	PollInterval   time.Duration
	PriceTolerance decimal.Decimal
}

// Snapshot is an immutable copy of the session handed to the presentation layer.
type Snapshot struct {
	SessionID     string                          `json:"session_id"`
	Revision      uint64                          `json:"revision"`
	Phase         domain.Phase                    `json:"phase"`
	Branch        *domain.Branch                  `json:"branch,omitempty"`
	TableNumber   int                             `json:"table_number,omitempty"`
	GateMessage   string                          `json:"gate_message,omitempty"`
	Customer      *domain.Customer                `json:"customer,omitempty"`
	Categories    []string                        `json:"categories,omitempty"`
	Cart          []domain.CartLine               `json:"cart"`
	CartTotal     decimal.Decimal                 `json:"cart_total"`
	CartCount     int                             `json:"cart_count"`
	Order         *domain.Order                   `json:"order,omitempty"`
	StatusLabel   string                          `json:"status_label,omitempty"`
	CanPay        bool                            `json:"can_pay"`
	Warning       *domain.PriceDiscrepancyWarning `json:"warning,omitempty"`
	PaymentMethod domain.PaymentMethod            `json:"payment_method,omitempty"`
	Receipt       *domain.Receipt                 `json:"receipt,omitempty"`
	Busy          []string                        `json:"busy,omitempty"`
}

// Controller owns one kiosk session. All state lives behind mu; network calls
// run unlocked and their results are applied only if the generation that
// issued them is still current.
type Controller struct {
	backend   Backend
	tokens    *TokenHolder
	ratings   *RatingService
	publisher EventPublisher
	qr        QRGenerator
	log       *logger.Logger

	gate      *TableGate
	customers *CustomerIdentifier
	submitter *OrderSubmitter
	poller    *Poller
	finalizer *PaymentFinalizer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	sessionID  string
	generation uint64
	revision   uint64
	phase      domain.Phase
	busy       map[string]bool
	branches   []domain.Branch
	branch     *domain.Branch
	table      int
	gateMsg    string
	customer   *domain.Customer
	menu       []domain.MenuItem
	menuRev    uint64
	cart       *Cart
	order      *domain.Order
	warning    *domain.PriceDiscrepancyWarning
	method     domain.PaymentMethod
	receipt    *domain.Receipt
	poll       *Subscription

	listenersMu sync.RWMutex
	listeners   []func(Snapshot)
}

// NewController accepts nil ratings, publisher and qr; the matching features
// are then disabled.
func NewController(backend Backend, tokens *TokenHolder, ratings *RatingService, publisher EventPublisher, qr QRGenerator, cfg ControllerConfig, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	if tokens == nil {
		tokens = NewTokenHolder()
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		backend:   backend,
		tokens:    tokens,
		ratings:   ratings,
		publisher: publisher,
		qr:        qr,
		log:       log,
		gate:      NewTableGate(backend),
		customers: NewCustomerIdentifier(backend),
		submitter: NewOrderSubmitter(backend, cfg.PriceTolerance),
		poller:    NewPoller(backend, cfg.PollInterval, log),
		finalizer: NewPaymentFinalizer(backend),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.resetLocked()
	return c
}

// OnChange registers fn to receive every committed snapshot. fn runs outside
// the controller lock and must not block for long.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenersMu.Unlock()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Branches(ctx context.Context) ([]domain.Branch, error) {
	c.mu.Lock()
	gen, err := c.beginLocked(opBranches)
	sessionID := c.sessionID
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	branches, err := c.backend.ListBranches(ctx)

	c.mu.Lock()
	if !c.finishLocked(opBranches, gen) {
		c.mu.Unlock()
		return nil, domain.ErrSessionReset
	}
	if err == nil {
		c.branches = append([]domain.Branch(nil), branches...)
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	if err != nil {
		c.log.Error("list_branches", sessionID, "Branch listing failed", err)
		return nil, err
	}
	return branches, nil
}

// SelectBranch picks one of the listed branches. A different branch clears
// the table selection.
func (c *Controller) SelectBranch(branchID string) error {
	c.mu.Lock()
	if c.phase != domain.PhaseSelectBranch {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	if c.busy[opTable] {
		c.mu.Unlock()
		return domain.ErrBusy
	}

	var picked *domain.Branch
	for i := range c.branches {
		if c.branches[i].ID == branchID {
			b := c.branches[i]
			picked = &b
			break
		}
	}
	if picked == nil {
		c.mu.Unlock()
		return domain.ValidationError{Field: "branch_id", Message: "Vui lòng chọn chi nhánh"}
	}

	if c.branch == nil || c.branch.ID != picked.ID {
		c.table = 0
		c.gateMsg = ""
	}
	c.branch = picked
	snap := c.commitLocked()
	c.mu.Unlock()

	c.log.Info("select_branch", snap.SessionID, "Branch selected", slog.String("branch_id", branchID))
	c.notify(snap)
	return nil
}

// CheckTable advances to customer-info only when the table is available. An
// unavailable table is a normal result, not an error.
func (c *Controller) CheckTable(ctx context.Context, tableInput string) (*GateResult, error) {
	c.mu.Lock()
	if c.phase != domain.PhaseSelectBranch {
		c.mu.Unlock()
		return nil, domain.ErrIllegalTransition
	}
	branchID := ""
	if c.branch != nil {
		branchID = c.branch.ID
	}
	gen, err := c.beginLocked(opTable)
	sessionID := c.sessionID
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result, err := c.gate.Check(ctx, branchID, tableInput)

	c.mu.Lock()
	if !c.finishLocked(opTable, gen) {
		c.mu.Unlock()
		return nil, domain.ErrSessionReset
	}
	if err != nil {
		snap := c.commitLocked()
		c.mu.Unlock()
		c.notify(snap)
		c.logFailure("check_table", sessionID, "Table check failed", err)
		return nil, err
	}

	c.gateMsg = result.Message
	if result.Available {
		c.table = result.TableNumber
		c.transitionLocked(domain.PhaseCustomerInfo)
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	return result, nil
}

// SubmitCustomer identifies the customer and loads the branch menu. Both must
// succeed before the menu phase is entered.
func (c *Controller) SubmitCustomer(ctx context.Context, phone, fullName string) error {
	c.mu.Lock()
	if c.phase != domain.PhaseCustomerInfo {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	customer := domain.Customer{Phone: phone, FullName: fullName, TableNumber: c.table}
	if c.branch != nil {
		customer.BranchID = c.branch.ID
	}
	gen, err := c.beginLocked(opCustomer)
	sessionID := c.sessionID
	c.mu.Unlock()
	if err != nil {
		return err
	}

	identified, token, err := c.customers.Identify(ctx, customer)
	if err == nil {
		// the menu request already needs the token; a reset since begin wins
		c.mu.Lock()
		stale := c.generation != gen
		if !stale {
			c.tokens.Set(token)
		}
		c.mu.Unlock()
		if stale {
			err = domain.ErrSessionReset
		}
	}
	var menu []domain.MenuItem
	if err == nil {
		menu, err = c.backend.LoadMenu(ctx, customer.BranchID)
	}

	c.mu.Lock()
	if !c.finishLocked(opCustomer, gen) {
		c.mu.Unlock()
		return domain.ErrSessionReset
	}
	if err != nil {
		snap := c.commitLocked()
		c.mu.Unlock()
		c.notify(snap)
		c.logFailure("submit_customer", sessionID, "Customer step failed", err)
		return err
	}

	c.customer = &identified
	c.menu = menu
	c.menuRev++
	menuRev := c.menuRev
	c.transitionLocked(domain.PhaseMenu)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	if c.ratings != nil && len(menu) > 0 {
		go c.annotate(gen, menuRev, sessionID, menu)
	}
	return nil
}

func (c *Controller) annotate(gen, menuRev uint64, sessionID string, menu []domain.MenuItem) {
	annotated := c.ratings.Annotate(c.ctx, sessionID, menu)

	c.mu.Lock()
	if c.generation != gen || c.menuRev != menuRev {
		c.mu.Unlock()
		return
	}
	c.menu = annotated
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Back steps one phase backwards from customer-info or menu.
func (c *Controller) Back() error {
	c.mu.Lock()
	if len(c.busy) > 0 {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	switch c.phase {
	case domain.PhaseCustomerInfo:
		c.table = 0
		c.gateMsg = ""
		c.transitionLocked(domain.PhaseSelectBranch)
	case domain.PhaseMenu:
		c.transitionLocked(domain.PhaseCustomerInfo)
	default:
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// Menu returns the loaded menu, optionally restricted to one category.
func (c *Controller) Menu(category string) []domain.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.MenuItem, 0, len(c.menu))
	for _, item := range c.menu {
		if category == "" || item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

func (c *Controller) AddToCart(menuItemID string) error {
	return c.mutateCart(func() error {
		item, ok := c.menuItemLocked(menuItemID)
		if !ok {
			return domain.ValidationError{Field: "menu_item_id", Message: "Món không có trong thực đơn"}
		}
		if !item.Available {
			return domain.ValidationError{Field: "menu_item_id", Message: "Món này hiện đã hết"}
		}
		c.cart.Add(item)
		return nil
	})
}

func (c *Controller) UpdateCartQuantity(menuItemID string, delta int) error {
	return c.mutateCart(func() error {
		c.cart.UpdateQuantity(menuItemID, delta)
		return nil
	})
}

func (c *Controller) mutateCart(apply func() error) error {
	c.mu.Lock()
	if c.phase != domain.PhaseMenu {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	if c.busy[opOrder] {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	if err := apply(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// SubmitOrder places the cart as the session's order and starts tracking it.
// The cart is kept on failure so the customer can retry.
func (c *Controller) SubmitOrder(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	if c.phase != domain.PhaseMenu {
		c.mu.Unlock()
		return nil, domain.ErrIllegalTransition
	}
	branchID := ""
	if c.branch != nil {
		branchID = c.branch.ID
	}
	table := c.table
	lines := c.cart.Lines()
	local := c.cart.Total()
	gen, err := c.beginLocked(opOrder)
	sessionID := c.sessionID
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result, err := c.submitter.Submit(ctx, branchID, table, lines)

	c.mu.Lock()
	if !c.finishLocked(opOrder, gen) {
		c.mu.Unlock()
		return nil, domain.ErrSessionReset
	}
	if err != nil {
		snap := c.commitLocked()
		c.mu.Unlock()
		c.notify(snap)
		c.logFailure("submit_order", sessionID, "Order submission failed", err)
		return nil, err
	}

	order := result.Order
	c.order = &order
	c.warning = result.Warning
	c.transitionLocked(domain.PhaseOrderStatus)
	c.startPollingLocked(order.ID)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.publish(ctx, domain.SessionEvent{
		Type:        domain.EventOrderSubmitted,
		SessionID:   sessionID,
		BranchID:    branchID,
		TableNumber: table,
		OrderID:     order.ID,
		Amount:      order.TotalPrice,
		LocalTotal:  local,
	})
	if result.Warning != nil {
		c.log.Warn("price_discrepancy", sessionID, result.Warning.Message(),
			slog.String("order_id", order.ID),
			slog.String("local", result.Warning.Local.String()),
			slog.String("server", result.Warning.Server.String()))
		c.publish(ctx, domain.SessionEvent{
			Type:        domain.EventPriceDiscrepancy,
			SessionID:   sessionID,
			BranchID:    branchID,
			TableNumber: table,
			OrderID:     order.ID,
			Amount:      result.Warning.Server,
			LocalTotal:  result.Warning.Local,
		})
	}
	return result, nil
}

// startPollingLocked stops any previous subscription before the new one
// becomes active.
func (c *Controller) startPollingLocked(orderID string) {
	c.stopPollingLocked()
	c.poll = c.poller.Start(c.ctx, c.sessionID, orderID, c.applyPolled)
}

func (c *Controller) stopPollingLocked() {
	if c.poll != nil {
		c.poll.Stop()
		c.poll = nil
	}
}

func (c *Controller) applyPolled(sub *Subscription, detail *domain.OrderDetail) {
	c.mu.Lock()
	if c.poll != sub || !sub.Active() {
		c.mu.Unlock()
		return
	}
	c.applyDetailLocked(detail)
	if c.order != nil && c.order.Status.Settled() {
		c.poll = nil
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// applyDetailLocked ignores regressions between known statuses; unknown
// statuses are kept for display with the default label.
func (c *Controller) applyDetailLocked(detail *domain.OrderDetail) {
	if c.order == nil || (detail.ID != "" && detail.ID != c.order.ID) {
		return
	}
	current := c.order.Status
	next := detail.Status
	if next.Known() && current.Known() && next.Rank() < current.Rank() {
		c.log.Debug("status_regression", c.sessionID, "Ignoring status regression",
			slog.String("current", string(current)), slog.String("reported", string(next)))
		return
	}
	if next != "" {
		c.order.Status = next
	}
	if !detail.TotalPrice.IsZero() {
		c.order.TotalPrice = detail.TotalPrice
	}
	c.order.UpdatedAt = time.Now()
}

// RefreshStatus performs one fetch on demand. Unlike a poll tick the error is
// returned to the caller.
func (c *Controller) RefreshStatus(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != domain.PhaseOrderStatus || c.order == nil {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	orderID := c.order.ID
	gen, err := c.beginLocked(opRefresh)
	sessionID := c.sessionID
	c.mu.Unlock()
	if err != nil {
		return err
	}

	detail, err := c.backend.GetOrder(ctx, orderID)

	c.mu.Lock()
	if !c.finishLocked(opRefresh, gen) {
		c.mu.Unlock()
		return domain.ErrSessionReset
	}
	if err == nil && c.phase == domain.PhaseOrderStatus {
		c.applyDetailLocked(detail)
		if c.order.Status.Settled() {
			c.stopPollingLocked()
		}
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	if err != nil {
		c.log.Warn("refresh_status", sessionID, "Manual status refresh failed",
			slog.String("order_id", orderID), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// StartPayment is allowed once the order has been observed READY.
func (c *Controller) StartPayment() error {
	c.mu.Lock()
	if c.phase != domain.PhaseOrderStatus || c.order == nil || c.order.Status != domain.StatusReady {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	if c.busy[opRefresh] {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	c.stopPollingLocked()
	c.transitionLocked(domain.PhasePayment)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// Pay settles the order. On failure the phase and the chosen method are kept.
func (c *Controller) Pay(ctx context.Context, rawMethod string) (*domain.Receipt, error) {
	c.mu.Lock()
	if c.phase != domain.PhasePayment || c.order == nil {
		c.mu.Unlock()
		return nil, domain.ErrIllegalTransition
	}
	orderID := c.order.ID
	branchID := c.order.BranchID
	table := c.order.TableNumber
	gen, err := c.beginLocked(opPayment)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if method, ok := domain.ParsePaymentMethod(rawMethod); ok {
		c.method = method
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	receipt, err := c.finalizer.Pay(ctx, orderID, rawMethod)

	c.mu.Lock()
	if !c.finishLocked(opPayment, gen) {
		c.mu.Unlock()
		return nil, domain.ErrSessionReset
	}
	if err != nil {
		snap := c.commitLocked()
		c.mu.Unlock()
		c.notify(snap)
		c.logFailure("pay", sessionID, "Payment failed", err)
		return nil, err
	}

	c.receipt = receipt
	c.order.Status = domain.StatusPaid
	c.transitionLocked(domain.PhaseComplete)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.publish(ctx, domain.SessionEvent{
		Type:        domain.EventPaymentCompleted,
		SessionID:   sessionID,
		BranchID:    branchID,
		TableNumber: table,
		OrderID:     orderID,
		Amount:      receipt.Amount,
		Method:      receipt.PaymentMethod,
	})
	return receipt, nil
}

// ReceiptQRCode renders the receipt link as a PNG once the session is complete.
func (c *Controller) ReceiptQRCode() ([]byte, error) {
	c.mu.Lock()
	if c.phase != domain.PhaseComplete || c.receipt == nil || c.qr == nil {
		c.mu.Unlock()
		return nil, domain.ErrIllegalTransition
	}
	receiptID := c.receipt.ID
	c.mu.Unlock()

	return c.qr.Generate(receiptID)
}

// Reset discards the whole session, from any phase, and starts a new one.
// Requests still in flight for the old session are dropped when they return.
func (c *Controller) Reset(ctx context.Context) Snapshot {
	c.mu.Lock()
	previous := c.sessionID
	event := domain.SessionEvent{Type: domain.EventSessionReset, SessionID: previous}
	if c.branch != nil {
		event.BranchID = c.branch.ID
	}
	if c.order != nil {
		event.OrderID = c.order.ID
	}
	c.resetLocked()
	c.tokens.Clear()
	snap := c.commitLocked()
	c.mu.Unlock()

	c.log.Info("session_reset", previous, "Session reset", slog.String("next_session_id", snap.SessionID))
	c.notify(snap)
	c.publish(ctx, event)
	return snap
}

// Close stops background work. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopPollingLocked()
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) resetLocked() {
	c.stopPollingLocked()
	c.generation++
	c.sessionID = uuid.NewString()
	c.phase = domain.PhaseSelectBranch
	c.busy = make(map[string]bool)
	c.branch = nil
	c.table = 0
	c.gateMsg = ""
	c.customer = nil
	c.menu = nil
	c.menuRev++
	c.cart = NewCart()
	c.order = nil
	c.warning = nil
	c.method = ""
	c.receipt = nil
}

func (c *Controller) beginLocked(op string) (uint64, error) {
	if c.busy[op] {
		return 0, domain.ErrBusy
	}
	c.busy[op] = true
	return c.generation, nil
}

// finishLocked clears the busy flag and reports whether gen is still current.
func (c *Controller) finishLocked(op string, gen uint64) bool {
	if c.generation != gen {
		return false
	}
	delete(c.busy, op)
	return true
}

func (c *Controller) transitionLocked(next domain.Phase) {
	c.log.Info("phase_transition", c.sessionID, "Session phase changed",
		slog.String("from", string(c.phase)), slog.String("to", string(next)))
	c.phase = next
}

func (c *Controller) menuItemLocked(id string) (domain.MenuItem, bool) {
	for _, item := range c.menu {
		if item.ID == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

func (c *Controller) commitLocked() Snapshot {
	c.revision++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:     c.sessionID,
		Revision:      c.revision,
		Phase:         c.phase,
		TableNumber:   c.table,
		GateMessage:   c.gateMsg,
		Categories:    categories(c.menu),
		Cart:          c.cart.Lines(),
		CartTotal:     c.cart.Total(),
		CartCount:     c.cart.Count(),
		PaymentMethod: c.method,
	}
	if c.branch != nil {
		b := *c.branch
		snap.Branch = &b
	}
	if c.customer != nil {
		cu := *c.customer
		snap.Customer = &cu
	}
	if c.order != nil {
		o := *c.order
		snap.Order = &o
		snap.StatusLabel = o.Status.Label()
		snap.CanPay = c.phase == domain.PhaseOrderStatus && o.Status == domain.StatusReady
	}
	if c.warning != nil {
		w := *c.warning
		snap.Warning = &w
	}
	if c.receipt != nil {
		r := *c.receipt
		snap.Receipt = &r
	}
	for op := range c.busy {
		snap.Busy = append(snap.Busy, op)
	}
	sort.Strings(snap.Busy)
	return snap
}

func categories(menu []domain.MenuItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range menu {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}

func (c *Controller) notify(snap Snapshot) {
	c.listenersMu.RLock()
	listeners := make([]func(Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (c *Controller) publish(ctx context.Context, event domain.SessionEvent) {
	if c.publisher == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := c.publisher.PublishSessionEvent(context.WithoutCancel(ctx), event); err != nil {
		c.log.Warn("publish_event", event.SessionID, "Session event not published",
			slog.String("type", event.Type), slog.String("error", err.Error()))
	}
}

// logFailure keeps validation failures out of the error log.
func (c *Controller) logFailure(action, sessionID, message string, err error) {
	if domain.IsValidation(err) {
		c.log.Debug(action, sessionID, message, slog.String("error", err.Error()))
		return
	}
	c.log.Error(action, sessionID, message, err)
}
