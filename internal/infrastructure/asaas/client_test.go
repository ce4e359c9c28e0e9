package asaas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

type staticConfig struct {
	cfg domain.GlobalConfig
	err error
}

func (s staticConfig) LoadGlobalConfig(context.Context) (domain.GlobalConfig, error) {
	return s.cfg, s.err
}

type recorded struct {
	path  string
	token string
	body  map[string]any
}

type gateway struct {
	mu       sync.Mutex
	calls    []recorded
	customer string
	payment  string
}

func (g *gateway) handler(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	_ = dec.Decode(&body)
	g.mu.Lock()
	g.calls = append(g.calls, recorded{path: r.URL.Path, token: r.Header.Get("access_token"), body: body})
	g.mu.Unlock()
	switch {
	case strings.HasSuffix(r.URL.Path, "/customers"):
		_, _ = io.WriteString(w, g.customer)
	case strings.HasSuffix(r.URL.Path, "/payments"):
		_, _ = io.WriteString(w, g.payment)
	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, g *gateway, cfg domain.GlobalConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(g.handler))
	t.Cleanup(srv.Close)
	return &Client{
		Config:        staticConfig{cfg: cfg},
		HTTP:          srv.Client(),
		Now:           func() time.Time { return time.Date(2026, 3, 9, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600)) },
		SandboxURL:    srv.URL + "/sandbox",
		ProductionURL: srv.URL + "/prod",
	}
}

const okPayment = `{"id":"pay_1","invoiceUrl":"https://asaas/i/1","pixQrCode":"000201","pixQrCodeImageUrl":"https://asaas/qr.png"}`

func TestCreatePixChargeSandbox(t *testing.T) {
	t.Parallel()
	g := &gateway{customer: `{"id":"cus_1"}`, payment: okPayment}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok", GatewaySandbox: true})

	charge, err := c.CreatePixCharge(context.Background(),
		domain.Customer{Name: "Ana Souza", TaxID: "529.982.247-25"},
		decimal.RequireFromString("97"), "Curso X")
	require.NoError(t, err)

	assert.Equal(t, "pay_1", charge.ID)
	assert.Equal(t, "https://asaas/i/1", charge.InvoiceURL)
	assert.Equal(t, "000201", charge.CopyPasteCode)
	assert.Equal(t, "https://asaas/qr.png", charge.QRCodeImage)
	assert.JSONEq(t, okPayment, string(charge.Raw))

	require.Len(t, g.calls, 2)
	cust, pay := g.calls[0], g.calls[1]
	assert.Equal(t, "/sandbox/customers", cust.path)
	assert.Equal(t, "tok", cust.token)
	assert.Equal(t, "52998224725", cust.body["cpfCnpj"])
	assert.Equal(t, "teste@email.com", cust.body["email"])

	assert.Equal(t, "/sandbox/payments", pay.path)
	assert.Equal(t, "cus_1", pay.body["customer"])
	assert.Equal(t, "PIX", pay.body["billingType"])
	assert.Equal(t, json.Number("97.00"), pay.body["value"])
	assert.Equal(t, "Curso X", pay.body["description"])
	assert.Equal(t, "2026-03-10", pay.body["dueDate"])
}

func TestCreatePixChargeProduction(t *testing.T) {
	t.Parallel()
	g := &gateway{customer: `{"id":"cus_1"}`, payment: okPayment}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok"})

	_, err := c.CreatePixCharge(context.Background(),
		domain.Customer{Name: "Ana", TaxID: "52998224725", Email: "ana@example.com"},
		decimal.RequireFromString("10.5"), "")
	require.NoError(t, err)
	require.Len(t, g.calls, 2)
	assert.Equal(t, "/prod/customers", g.calls[0].path)
	assert.Equal(t, "ana@example.com", g.calls[0].body["email"])
	assert.Equal(t, "Cobrança via PIX", g.calls[1].body["description"])
	assert.Equal(t, json.Number("10.50"), g.calls[1].body["value"])
}

func TestCreatePixChargeMissingCustomerID(t *testing.T) {
	t.Parallel()
	g := &gateway{customer: `{"errors":[{"code":"invalid_cpfCnpj"}]}`, payment: okPayment}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok"})

	_, err := c.CreatePixCharge(context.Background(), domain.Customer{Name: "Ana", TaxID: "1"}, decimal.NewFromInt(1), "")
	require.ErrorIs(t, err, domain.ErrGatewayCustomer)
	assert.NotErrorIs(t, err, domain.ErrGatewayCharge)

	var gerr *domain.GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Contains(t, gerr.Body, "invalid_cpfCnpj")
	assert.Len(t, g.calls, 1, "no payment call after customer failure")
}

func TestCreatePixChargeMissingInvoiceURL(t *testing.T) {
	t.Parallel()
	g := &gateway{customer: `{"id":"cus_1"}`, payment: `{"id":"pay_1","status":"PENDING"}`}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok"})

	_, err := c.CreatePixCharge(context.Background(), domain.Customer{Name: "Ana", TaxID: "52998224725"}, decimal.NewFromInt(1), "")
	require.ErrorIs(t, err, domain.ErrGatewayCharge)

	var gerr *domain.GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusOK, gerr.Status)
	assert.NotContains(t, err.Error(), "tok")
}

func TestCreatePixChargeNotConfigured(t *testing.T) {
	t.Parallel()
	g := &gateway{customer: `{"id":"cus_1"}`, payment: okPayment}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "  "})

	_, err := c.CreatePixCharge(context.Background(), domain.Customer{Name: "Ana", TaxID: "52998224725"}, decimal.NewFromInt(1), "")
	require.ErrorIs(t, err, domain.ErrGatewayNotConfigured)
	assert.Empty(t, g.calls)
}

func TestCreatePixChargeConfigUnavailable(t *testing.T) {
	t.Parallel()
	c := &Client{Config: staticConfig{err: domain.ErrConfigUnavailable}}
	_, err := c.CreatePixCharge(context.Background(), domain.Customer{}, decimal.NewFromInt(1), "")
	require.ErrorIs(t, err, domain.ErrConfigUnavailable)
}

func TestCreateChargeKnownCustomer(t *testing.T) {
	t.Parallel()
	g := &gateway{payment: okPayment}
	c := newClient(t, g, domain.GlobalConfig{GatewayEnabled: true, GatewayToken: "tok", GatewaySandbox: true})

	charge, err := c.CreateCharge(context.Background(), "cus_9", decimal.RequireFromString("5"), "Teste")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", charge.ID)
	require.Len(t, g.calls, 1)
	assert.Equal(t, "/sandbox/payments", g.calls[0].path)
	assert.Equal(t, "cus_9", g.calls[0].body["customer"])
}

func TestBaseURLDefaults(t *testing.T) {
	t.Parallel()
	var c Client
	assert.Equal(t, "https://sandbox.asaas.com/api/v3", c.baseURL(true))
	assert.Equal(t, "https://www.asaas.com/api/v3", c.baseURL(false))
}
