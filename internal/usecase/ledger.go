package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pix-checkout/internal/domain"
)

type OrderRepo interface {
	PutOrder(ctx context.Context, o *domain.Order) (domain.Order, bool, error)
	GetOrder(ctx context.Context, id string) (domain.Order, bool, error)
	SwapOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (bool, error)
	SetOrderMethod(ctx context.Context, id string, method domain.PaymentMethod, at time.Time) error
	PutPayment(ctx context.Context, p *domain.PaymentAttempt) error
	ListPayments(ctx context.Context, orderID string) ([]domain.PaymentAttempt, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e domain.OrderEvent) error
}

type NewOrder struct {
	SessionID string
	ProductID string
	Amount    decimal.Decimal
	Buyer     domain.Buyer
	Method    domain.PaymentMethod
}

// Ledger owns order and payment attempt persistence.
type Ledger struct {
	Repo   OrderRepo
	Events EventPublisher
	Logger *slog.Logger
	Now    func() time.Time
}

// CreateOrder opens a pending order. A session owns at most one order, so a
// repeated call for the same session returns the order already stored.
func (l *Ledger) CreateOrder(ctx context.Context, in NewOrder) (domain.Order, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.Order{}, fmt.Errorf("create order: %w", domain.ErrProductNotFound)
	}
	now := l.now()
	o := &domain.Order{
		ID:            uuid.NewString(),
		SessionID:     in.SessionID,
		ProductID:     in.ProductID,
		Status:        domain.OrderPending,
		Amount:        in.Amount,
		Buyer:         in.Buyer,
		PaymentMethod: in.Method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stored, created, err := l.Repo.PutOrder(ctx, o)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if created {
		l.publish(ctx, domain.OrderEvent{
			Type:      domain.EventOrderCreated,
			OrderID:   stored.ID,
			ProductID: stored.ProductID,
			Status:    stored.Status,
			Method:    stored.PaymentMethod,
			At:        now,
		})
	}
	return stored, nil
}

// RecordPayment appends an attempt to an existing order. The order's payment
// method follows the latest attempt.
func (l *Ledger) RecordPayment(ctx context.Context, orderID string, p domain.PaymentAttempt) (domain.PaymentAttempt, error) {
	o, err := l.Order(ctx, orderID)
	if err != nil {
		return domain.PaymentAttempt{}, err
	}
	p.ID = uuid.NewString()
	p.OrderID = orderID
	p.CreatedAt = l.now()
	if p.Installments < 1 {
		p.Installments = 1
	}
	if err := l.Repo.PutPayment(ctx, &p); err != nil {
		return domain.PaymentAttempt{}, fmt.Errorf("record payment: %w", err)
	}
	if p.Method != "" && p.Method != o.PaymentMethod {
		if err := l.Repo.SetOrderMethod(ctx, orderID, p.Method, p.CreatedAt); err != nil {
			logger(l.Logger).WarnContext(ctx, "order payment method not updated", "order_id", orderID, "method", p.Method, "err", err)
		}
	}
	l.publish(ctx, domain.OrderEvent{
		Type:      domain.EventOrderPaymentRecorded,
		OrderID:   orderID,
		Method:    p.Method,
		PaymentID: p.ID,
		At:        p.CreatedAt,
	})
	return p, nil
}

// SetStatus moves an order to status. It reports false when the order does
// not exist. Setting the current status again succeeds without a write.
func (l *Ledger) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}
	// The swap only applies against the status we read; retry if another
	// writer got in between.
	for attempt := 0; attempt < 3; attempt++ {
		o, ok, err := l.Repo.GetOrder(ctx, orderID)
		if err != nil {
			return false, fmt.Errorf("set status: %w", err)
		}
		if !ok {
			return false, nil
		}
		if o.Status == status {
			return true, nil
		}
		if !o.Status.CanTransition(status) {
			return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, status)
		}
		now := l.now()
		swapped, err := l.Repo.SwapOrderStatus(ctx, orderID, o.Status, status, now)
		if err != nil {
			return false, fmt.Errorf("set status: %w", err)
		}
		if swapped {
			l.publish(ctx, domain.OrderEvent{
				Type:       domain.EventOrderStatusChanged,
				OrderID:    orderID,
				ProductID:  o.ProductID,
				Status:     status,
				PrevStatus: o.Status,
				At:         now,
			})
			return true, nil
		}
	}
	return false, fmt.Errorf("set status: order %s changed concurrently", orderID)
}

func (l *Ledger) Order(ctx context.Context, id string) (domain.Order, error) {
	o, ok, err := l.Repo.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (l *Ledger) Payments(ctx context.Context, orderID string) ([]domain.PaymentAttempt, error) {
	if _, err := l.Order(ctx, orderID); err != nil {
		return nil, err
	}
	return l.Repo.ListPayments(ctx, orderID)
}

func (l *Ledger) publish(ctx context.Context, e domain.OrderEvent) {
	if l.Events == nil {
		return
	}
	if err := l.Events.Publish(ctx, e); err != nil {
		logger(l.Logger).WarnContext(ctx, "order event not published", "type", e.Type, "order_id", e.OrderID, "err", err)
	}
}

func (l *Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now().UTC()
	}
	return time.Now().UTC()
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
