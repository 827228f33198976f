package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"
)

const DefaultPollInterval = 20 * time.Second

// StatusHandler receives each fetched order detail. It may run after Stop
// has been called concurrently, so receivers must check sub.Active() under
// their own lock before applying anything.
type StatusHandler func(sub *Subscription, detail *domain.OrderDetail)

// Subscription is one running poll loop for one order.
type Subscription struct {
	orderID string
	cancel  context.CancelFunc
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

func (s *Subscription) OrderID() string {
	return s.orderID
}

// Stop is idempotent and returns without waiting for an in-flight fetch;
// that fetch's result is dropped.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.stopped.Store(true)
		s.cancel()
	})
}

func (s *Subscription) Active() bool {
	return !s.stopped.Load()
}

// Done is closed once the loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Poller refreshes a single order on a fixed interval. Fetches are strictly
// sequential: the next one is never issued before the previous returned.
type Poller struct {
	fetcher  OrderFetcher
	interval time.Duration
	log      *logger.Logger
}

func NewPoller(fetcher OrderFetcher, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Poller{fetcher: fetcher, interval: interval, log: log}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start fetches immediately, then once per interval, until a READY/PAID
// status is seen or the subscription is stopped.
func (p *Poller) Start(parent context.Context, sessionID, orderID string, handle StatusHandler) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	sub := &Subscription{
		orderID: orderID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go p.run(ctx, sub, sessionID, handle)
	return sub
}

func (p *Poller) run(ctx context.Context, sub *Subscription, sessionID string, handle StatusHandler) {
	defer close(sub.done)
	defer sub.Stop()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if settled := p.fetch(ctx, sub, sessionID, handle); settled {
			p.log.Debug("poll_stopped", sessionID, "Order reached a settled status", slog.String("order_id", sub.orderID))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// fetch reports whether polling should end.
func (p *Poller) fetch(ctx context.Context, sub *Subscription, sessionID string, handle StatusHandler) bool {
	detail, err := p.fetcher.GetOrder(ctx, sub.orderID)
	if !sub.Active() || ctx.Err() != nil {
		return true
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.log.Warn("poll_failed", sessionID, "Order status refresh failed, retrying on next tick",
				slog.String("order_id", sub.orderID), slog.String("error", err.Error()))
		}
		return false
	}

	p.log.Debug("poll_tick", sessionID, "Order status fetched",
		slog.String("order_id", sub.orderID), slog.String("status", string(detail.Status)))
	handle(sub, detail)
	return detail.Status.Settled()
}
