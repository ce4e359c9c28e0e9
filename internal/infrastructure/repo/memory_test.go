package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

func TestMemoryProductLookupByIDThenSlug(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryProductRepo()
	require.NoError(t, r.PutProduct(ctx, domain.Product{ID: "p1", Slug: "curso-x", Price: decimal.NewFromInt(97)}))
	require.NoError(t, r.PutProduct(ctx, domain.Product{ID: "curso-x-legacy", Slug: "p1"}))

	p, ok, err := r.GetProduct(ctx, "curso-x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)

	p, ok, err = r.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID, "id match wins over slug match")

	_, ok, err = r.GetProduct(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryOrderOnePerSession(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryOrderRepo()
	first, created, err := r.PutOrder(ctx, &domain.Order{ID: "o1", SessionID: "s1", Status: domain.OrderPending})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := r.PutOrder(ctx, &domain.Order{ID: "o2", SessionID: "s1", Status: domain.OrderPending})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, ok, _ := r.GetOrder(ctx, "o2")
	assert.False(t, ok)
}

func TestMemorySwapOrderStatus(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryOrderRepo()
	_, _, err := r.PutOrder(ctx, &domain.Order{ID: "o1", Status: domain.OrderPending})
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ok, err := r.SwapOrderStatus(ctx, "o1", domain.OrderPending, domain.OrderDeclined, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SwapOrderStatus(ctx, "o1", domain.OrderPending, domain.OrderPaid, at)
	require.NoError(t, err)
	assert.False(t, ok, "stale from status")

	o, _, _ := r.GetOrder(ctx, "o1")
	assert.Equal(t, domain.OrderDeclined, o.Status)
	assert.Equal(t, at, o.UpdatedAt)
}

func TestMemoryPaymentNeedsOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryOrderRepo()
	err := r.PutPayment(ctx, &domain.PaymentAttempt{ID: "p1", OrderID: "nope"})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, _, err = r.PutOrder(ctx, &domain.Order{ID: "o1"})
	require.NoError(t, err)
	require.NoError(t, r.PutPayment(ctx, &domain.PaymentAttempt{ID: "p1", OrderID: "o1"}))
	require.NoError(t, r.PutPayment(ctx, &domain.PaymentAttempt{ID: "p2", OrderID: "o1"}))
	ps, err := r.ListPayments(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}

func TestMemorySettingsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySettingsRepo()
	g, err := r.GlobalSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, g)

	on := true
	require.NoError(t, r.PutGlobal(ctx, &domain.GlobalRecord{GatewayEnabled: &on}))
	g, err = r.GlobalSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.True(t, *g.GatewayEnabled)

	c, err := r.CheckoutSettings(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, c)
}
