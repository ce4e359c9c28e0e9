package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

type fakeStore struct {
	global    *domain.GlobalRecord
	globalErr error
	checkout  map[string]*domain.CheckoutRecord
	calls     int
}

func (s *fakeStore) GlobalSettings(context.Context) (*domain.GlobalRecord, error) {
	s.calls++
	return s.global, s.globalErr
}

func (s *fakeStore) CheckoutSettings(_ context.Context, productID string) (*domain.CheckoutRecord, error) {
	s.calls++
	return s.checkout[productID], nil
}

func ptr[T any](v T) *T { return &v }

func TestLoadGlobalConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   *fakeStore
		want    domain.GlobalConfig
		wantErr error
	}{
		{
			name: "full_row",
			store: &fakeStore{global: &domain.GlobalRecord{
				GatewayEnabled: ptr(true),
				GatewayToken:   ptr("tok_abc"),
				GatewaySandbox: ptr(true),
			}},
			want: domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok_abc", GatewaySandbox: true},
		},
		{
			name:  "unset_fields_default_to_disabled",
			store: &fakeStore{global: &domain.GlobalRecord{}},
			want:  domain.GlobalConfig{},
		},
		{
			name:    "no_row",
			store:   &fakeStore{},
			wantErr: domain.ErrConfigUnavailable,
		},
		{
			name:    "read_error",
			store:   &fakeStore{globalErr: errors.New("connection refused")},
			wantErr: domain.ErrConfigUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &Resolver{Store: tt.store}
			got, err := r.LoadGlobalConfig(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadGlobalConfigReadsEveryCall(t *testing.T) {
	t.Parallel()

	store := &fakeStore{global: &domain.GlobalRecord{GatewayEnabled: ptr(false)}}
	r := &Resolver{Store: store}

	g, err := r.LoadGlobalConfig(context.Background())
	require.NoError(t, err)
	assert.False(t, g.GatewayUsable())

	store.global = &domain.GlobalRecord{GatewayEnabled: ptr(true), GatewayToken: ptr("tok")}
	g, err = r.LoadGlobalConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, g.GatewayUsable())
	assert.Equal(t, 2, store.calls)
}

func TestLoadCheckoutConfigAppliesDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeStore{checkout: map[string]*domain.CheckoutRecord{
		"p1": {},
		"p2": {
			CorFundo:           ptr("#000000"),
			ExibirTestemunhos:  ptr(false),
			OneCheckoutEnabled: ptr(true),
			PaymentMethods:     []string{"cartao", "boleto", "cartao"},
			ChavePix:           ptr("loja@example.com"),
			TempoExpiracao:     ptr(30),
		},
	}}
	r := &Resolver{Store: store}

	cfg, err := r.LoadCheckoutConfig(context.Background(), "p1")
	require.NoError(t, err)
	def := Defaults()
	def.ProductID = "p1"
	assert.Equal(t, def, cfg)

	cfg, err = r.LoadCheckoutConfig(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "#000000", cfg.BackgroundColor)
	assert.False(t, cfg.ShowTestimonials)
	assert.True(t, cfg.OneCheckoutEnabled)
	assert.Equal(t, []domain.PaymentMethod{domain.MethodCard}, cfg.PaymentMethods)
	assert.Equal(t, "loja@example.com", cfg.ManualPix.Key)
	assert.Equal(t, 30, cfg.ManualPix.ExpiryMinutes)
	assert.Equal(t, "#22c55e", cfg.ButtonColor)
	assert.Len(t, cfg.PixPage.Instructions, 4)
}

func TestLoadCheckoutConfigMissingRow(t *testing.T) {
	t.Parallel()

	r := &Resolver{Store: &fakeStore{}}
	_, err := r.LoadCheckoutConfig(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrConfigUnavailable)
}

func TestPaymentMethodsFallback(t *testing.T) {
	t.Parallel()

	got := paymentMethods([]string{"boleto"}, Defaults().PaymentMethods)
	assert.Equal(t, []domain.PaymentMethod{domain.MethodPix, domain.MethodCard}, got)
}
