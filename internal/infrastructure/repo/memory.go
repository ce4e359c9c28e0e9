package repo

import (
	"context"
	"sync"
	"time"

	"pix-checkout/internal/domain"
)

type MemorySettingsRepo struct {
	mu       sync.RWMutex
	global   *domain.GlobalRecord
	checkout map[string]*domain.CheckoutRecord
}

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{checkout: make(map[string]*domain.CheckoutRecord)}
}

func (r *MemorySettingsRepo) PutGlobal(_ context.Context, g *domain.GlobalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.global = &cp
	return nil
}

func (r *MemorySettingsRepo) PutCheckout(_ context.Context, productID string, c *domain.CheckoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.checkout[productID] = &cp
	return nil
}

func (r *MemorySettingsRepo) GlobalSettings(context.Context) (*domain.GlobalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.global == nil {
		return nil, nil
	}
	cp := *r.global
	return &cp, nil
}

func (r *MemorySettingsRepo) CheckoutSettings(_ context.Context, productID string) (*domain.CheckoutRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checkout[productID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type MemoryProductRepo struct {
	mu sync.RWMutex
	m  map[string]domain.Product
}

func NewMemoryProductRepo() *MemoryProductRepo {
	return &MemoryProductRepo{m: make(map[string]domain.Product)}
}

func (r *MemoryProductRepo) PutProduct(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[p.ID] = p
	return nil
}

// GetProduct looks ref up as an id first, then as a slug.
func (r *MemoryProductRepo) GetProduct(_ context.Context, ref string) (domain.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.m[ref]; ok {
		return p, true, nil
	}
	for _, p := range r.m {
		if p.Slug != "" && p.Slug == ref {
			return p, true, nil
		}
	}
	return domain.Product{}, false, nil
}

type MemoryOrderRepo struct {
	mu        sync.RWMutex
	m         map[string]*domain.Order
	bySession map[string]string
	payments  map[string][]domain.PaymentAttempt
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{
		m:         make(map[string]*domain.Order),
		bySession: make(map[string]string),
		payments:  make(map[string][]domain.PaymentAttempt),
	}
}

// PutOrder stores o unless an order already exists for its session, in which
// case the stored order is returned with created=false.
func (r *MemoryOrderRepo) PutOrder(_ context.Context, o *domain.Order) (domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.SessionID != "" {
		if id, ok := r.bySession[o.SessionID]; ok {
			return *r.m[id], false, nil
		}
		r.bySession[o.SessionID] = o.ID
	}
	cp := *o
	r.m[o.ID] = &cp
	return cp, true, nil
}

func (r *MemoryOrderRepo) GetOrder(_ context.Context, id string) (domain.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.m[id]
	if !ok {
		return domain.Order{}, false, nil
	}
	return *o, true, nil
}

func (r *MemoryOrderRepo) SwapOrderStatus(_ context.Context, id string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	return true, nil
}

func (r *MemoryOrderRepo) SetOrderMethod(_ context.Context, id string, method domain.PaymentMethod, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.PaymentMethod = method
	o.UpdatedAt = at
	return nil
}

func (r *MemoryOrderRepo) PutPayment(_ context.Context, p *domain.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[p.OrderID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.payments[p.OrderID] = append(r.payments[p.OrderID], *p)
	return nil
}

func (r *MemoryOrderRepo) ListPayments(_ context.Context, orderID string) ([]domain.PaymentAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.payments[orderID]
	out := make([]domain.PaymentAttempt, len(src))
	copy(out, src)
	return out, nil
}

// MemoryStore bundles the in-memory repositories behind one value.
type MemoryStore struct {
	*MemorySettingsRepo
	*MemoryProductRepo
	*MemoryOrderRepo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		MemorySettingsRepo: NewMemorySettingsRepo(),
		MemoryProductRepo:  NewMemoryProductRepo(),
		MemoryOrderRepo:    NewMemoryOrderRepo(),
	}
}
