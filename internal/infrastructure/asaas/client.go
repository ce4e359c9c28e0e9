// Package asaas issues PIX charges through the Asaas v3 API.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pix-checkout/internal/domain"
)

const (
	SandboxURL    = "https://sandbox.asaas.com/api/v3"
	ProductionURL = "https://www.asaas.com/api/v3"

	placeholderEmail   = "teste@email.com"
	defaultDescription = "Cobrança via PIX"
	maxBodyBytes       = 1 << 20
)

// ConfigSource returns the current platform settings. It is consulted on
// every call.
type ConfigSource interface {
	LoadGlobalConfig(ctx context.Context) (domain.GlobalConfig, error)
}

type Client struct {
	Config ConfigSource
	HTTP   *http.Client
	Logger *slog.Logger
	Now    func() time.Time

	// Base URL overrides, empty means the public Asaas hosts.
	SandboxURL    string
	ProductionURL string
}

type credentials struct {
	token   string
	baseURL string
}

type customerReq struct {
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
	Email   string `json:"email"`
}

type customerResp struct {
	ID string `json:"id"`
}

type paymentReq struct {
	Customer    string      `json:"customer"`
	BillingType string      `json:"billingType"`
	Value       json.Number `json:"value"`
	Description string      `json:"description"`
	DueDate     string      `json:"dueDate"`
}

type paymentResp struct {
	ID                string `json:"id"`
	InvoiceURL        string `json:"invoiceUrl"`
	PixQrCode         string `json:"pixQrCode"`
	PixQrCodeImageURL string `json:"pixQrCodeImageUrl"`
}

// CreatePixCharge registers the buyer as a gateway customer and issues a PIX
// charge for amount. Nothing is retried.
func (c *Client) CreatePixCharge(ctx context.Context, customer domain.Customer, amount decimal.Decimal, description string) (domain.Charge, error) {
	var out domain.Charge
	err := c.withCredentials(ctx, func(cred credentials) error {
		id, err := c.createCustomer(ctx, cred, customer)
		if err != nil {
			return err
		}
		out, err = c.createPayment(ctx, cred, id, amount, description)
		return err
	})
	return out, err
}

// CreateCharge issues a PIX charge for a customer already registered at the
// gateway.
func (c *Client) CreateCharge(ctx context.Context, customerID string, amount decimal.Decimal, description string) (domain.Charge, error) {
	var out domain.Charge
	err := c.withCredentials(ctx, func(cred credentials) error {
		var err error
		out, err = c.createPayment(ctx, cred, customerID, amount, description)
		return err
	})
	return out, err
}

// withCredentials resolves the token and environment for a single call. The
// credentials only live for the duration of fn.
func (c *Client) withCredentials(ctx context.Context, fn func(credentials) error) error {
	g, err := c.Config.LoadGlobalConfig(ctx)
	if err != nil {
		return err
	}
	token := strings.TrimSpace(g.GatewayToken.Reveal())
	if token == "" {
		return domain.ErrGatewayNotConfigured
	}
	return fn(credentials{token: token, baseURL: c.baseURL(g.GatewaySandbox)})
}

func (c *Client) baseURL(sandbox bool) string {
	if sandbox {
		if c.SandboxURL != "" {
			return strings.TrimRight(c.SandboxURL, "/")
		}
		return SandboxURL
	}
	if c.ProductionURL != "" {
		return strings.TrimRight(c.ProductionURL, "/")
	}
	return ProductionURL
}

func (c *Client) createCustomer(ctx context.Context, cred credentials, cust domain.Customer) (string, error) {
	email := strings.TrimSpace(cust.Email)
	if email == "" {
		email = placeholderEmail
	}
	status, body, err := c.post(ctx, cred, "/customers", customerReq{
		Name:    cust.Name,
		CpfCnpj: domain.Digits(cust.TaxID),
		Email:   email,
	})
	if err != nil {
		return "", &domain.GatewayError{Op: domain.GatewayOpCustomer, Err: err}
	}
	var out customerResp
	if err := json.Unmarshal(body, &out); err != nil || strings.TrimSpace(out.ID) == "" || !ok(status) {
		return "", &domain.GatewayError{Op: domain.GatewayOpCustomer, Status: status, Body: string(body)}
	}
	return out.ID, nil
}

func (c *Client) createPayment(ctx context.Context, cred credentials, customerID string, amount decimal.Decimal, description string) (domain.Charge, error) {
	if strings.TrimSpace(description) == "" {
		description = defaultDescription
	}
	status, body, err := c.post(ctx, cred, "/payments", paymentReq{
		Customer:    customerID,
		BillingType: "PIX",
		Value:       json.Number(amount.StringFixed(2)),
		Description: description,
		DueDate:     c.now().UTC().Format(time.DateOnly),
	})
	if err != nil {
		return domain.Charge{}, &domain.GatewayError{Op: domain.GatewayOpCharge, Err: err}
	}
	// A 200 without invoiceUrl is still a failed charge.
	var out paymentResp
	if err := json.Unmarshal(body, &out); err != nil || strings.TrimSpace(out.InvoiceURL) == "" || !ok(status) {
		return domain.Charge{}, &domain.GatewayError{Op: domain.GatewayOpCharge, Status: status, Body: string(body)}
	}
	c.logger().InfoContext(ctx, "asaas charge created", "payment_id", out.ID, "customer", customerID)
	return domain.Charge{
		ID:            out.ID,
		InvoiceURL:    out.InvoiceURL,
		QRCodeImage:   out.PixQrCodeImageURL,
		CopyPasteCode: out.PixQrCode,
		Raw:           json.RawMessage(body),
	}, nil
}

func (c *Client) post(ctx context.Context, cred credentials, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", cred.token)
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, bytes.TrimSpace(body), nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
