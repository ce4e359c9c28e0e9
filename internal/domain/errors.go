package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrConfigUnavailable    = errors.New("checkout configuration unavailable")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrGatewayCustomer      = errors.New("gateway customer creation failed")
	ErrGatewayCharge        = errors.New("gateway charge creation failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrInvalidStep          = errors.New("action not allowed at this checkout step")
	ErrSessionInvalid       = errors.New("checkout session invalid or expired")
)

const (
	GatewayOpCustomer = "customer"
	GatewayOpCharge   = "charge"
)

// GatewayError describes a failed or malformed gateway response. Body keeps
// the raw upstream payload for diagnostics.
type GatewayError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *GatewayError) Error() string {
	var b strings.Builder
	b.WriteString("gateway ")
	b.WriteString(e.Op)
	b.WriteString(" request failed")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrGatewayCustomer:
		return e.Op == GatewayOpCustomer
	case ErrGatewayCharge:
		return e.Op == GatewayOpCharge
	}
	return false
}

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// Kind classifies err for logs and transport status mapping.
func Kind(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, ErrConfigUnavailable):
		return "config_unavailable"
	case errors.Is(err, ErrGatewayNotConfigured):
		return "gateway_not_configured"
	case errors.Is(err, ErrGatewayCustomer):
		return "gateway_customer"
	case errors.Is(err, ErrGatewayCharge):
		return "gateway_charge"
	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidStep):
		return "invalid_step"
	case errors.Is(err, ErrSessionInvalid):
		return "session_invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
