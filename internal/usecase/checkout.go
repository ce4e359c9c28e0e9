package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"pix-checkout/internal/domain"
)

type ProductRepo interface {
	GetProduct(ctx context.Context, ref string) (domain.Product, bool, error)
}

type ConfigLoader interface {
	LoadGlobalConfig(ctx context.Context) (domain.GlobalConfig, error)
	LoadCheckoutConfig(ctx context.Context, productID string) (domain.CheckoutConfig, error)
}

type PixGateway interface {
	CreatePixCharge(ctx context.Context, customer domain.Customer, amount decimal.Decimal, description string) (domain.Charge, error)
}

type View string

const (
	ViewIdentification View = "identification"
	ViewPaymentMethod  View = "payment_method"
	ViewConfirm        View = "confirm"
	ViewPixManual      View = "pix_manual"
	ViewPixGateway     View = "pix_gateway"
	ViewPaymentFailed  View = "payment_failed"
)

// Outcome is what the caller renders next. Session is always the state to
// hand back on the following action, also when an error is returned.
type Outcome struct {
	Session    Session
	View       View
	Charge     *domain.Charge
	ProductRef string
	OrderID    string
}

// CheckoutError is returned for every failure that is not a validation
// problem. Fallback carries the product reference for the manual PIX page
// when the gateway path failed.
type CheckoutError struct {
	Kind      string
	Message   string
	Retryable bool
	Fallback  string
	Err       error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CheckoutError) Unwrap() error { return e.Err }

var userMessages = map[string]string{
	"config_unavailable":     "Não foi possível carregar o checkout. Tente novamente.",
	"gateway_not_configured": "Pagamento via PIX indisponível no momento.",
	"gateway_customer":       "Não foi possível registrar seus dados para o PIX. Tente novamente.",
	"gateway_charge":         "Não foi possível gerar a cobrança PIX. Tente novamente.",
	"order_not_found":        "Pedido não encontrado.",
	"product_not_found":      "Produto não encontrado.",
	"invalid_transition":     "Este pedido já foi finalizado.",
	"invalid_step":           "Etapa do checkout inválida.",
	"timeout":                "O pagamento demorou demais para responder. Tente novamente.",
}

// Checkout drives one buyer through identification, payment method and
// confirmation. It holds no per-session state of its own.
type Checkout struct {
	Products ProductRepo
	Config   ConfigLoader
	Gateway  PixGateway
	Ledger   *Ledger
	Logger   *slog.Logger

	inflight singleflight.Group
}

func (c *Checkout) Start(ctx context.Context, productRef string) (Outcome, error) {
	p, err := c.product(ctx, productRef)
	if err != nil {
		return Outcome{}, c.fail(ctx, Session{ProductRef: productRef}, err, false, "")
	}
	cfg, err := c.Config.LoadCheckoutConfig(ctx, p.ID)
	if err != nil {
		return Outcome{}, c.fail(ctx, Session{ProductRef: productRef}, err, true, "")
	}
	sess := Session{
		ID:          uuid.NewString(),
		ProductRef:  p.Ref(),
		ProductID:   p.ID,
		OneCheckout: cfg.OneCheckoutEnabled,
		Step:        StepIdentification,
	}
	return Outcome{Session: sess, View: ViewIdentification, ProductRef: sess.ProductRef}, nil
}

// Describe returns the product behind ref and its resolved checkout
// configuration.
func (c *Checkout) Describe(ctx context.Context, ref string) (domain.Product, domain.CheckoutConfig, error) {
	p, err := c.product(ctx, ref)
	if err != nil {
		return domain.Product{}, domain.CheckoutConfig{}, c.fail(ctx, Session{ProductRef: ref}, err, false, "")
	}
	cfg, err := c.Config.LoadCheckoutConfig(ctx, p.ID)
	if err != nil {
		return domain.Product{}, domain.CheckoutConfig{}, c.fail(ctx, Session{ProductRef: ref}, err, true, "")
	}
	return p, cfg, nil
}

// SubmitIdentification validates the buyer as a unit. On failure the session
// stays on the identification step.
func (c *Checkout) SubmitIdentification(ctx context.Context, sess Session, buyer domain.Buyer) (Outcome, error) {
	if sess.after(StepIdentification) {
		return c.current(sess), nil
	}
	b := normalizeBuyer(buyer)
	if err := validateStruct(b); err != nil {
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	cfg, err := c.Config.LoadCheckoutConfig(ctx, sess.ProductID)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, "")
	}
	if cfg.Blocks(b.TaxID) {
		err := &domain.ValidationError{Fields: map[string]string{"taxId": "CPF/CNPJ não autorizado para esta compra"}}
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	sess.Buyer = &b
	sess.Step = StepPaymentMethod
	return c.current(sess), nil
}

// SelectPaymentMethod records the method. Choosing PIX runs the PIX branch
// right away.
func (c *Checkout) SelectPaymentMethod(ctx context.Context, sess Session, method domain.PaymentMethod) (Outcome, error) {
	if sess.Buyer == nil || !sess.after(StepIdentification) {
		return c.current(sess), c.fail(ctx, sess, fmt.Errorf("select payment method: %w", domain.ErrInvalidStep), false, "")
	}
	cfg, err := c.Config.LoadCheckoutConfig(ctx, sess.ProductID)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, "")
	}
	if !method.Valid() || !cfg.Accepts(method) {
		err := &domain.ValidationError{Fields: map[string]string{"method": "forma de pagamento indisponível"}}
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	sess.Method = method
	if method == domain.MethodPix {
		return c.PayWithPix(ctx, sess)
	}
	return c.current(sess), nil
}

// Continue moves from payment method to confirmation. Only the three step
// flow has a confirmation step.
func (c *Checkout) Continue(ctx context.Context, sess Session) (Outcome, error) {
	next, ok := sess.Flow().Next(sess.Step)
	if sess.Step != StepPaymentMethod || !ok {
		return c.current(sess), c.fail(ctx, sess, fmt.Errorf("continue from %s: %w", sess.Step, domain.ErrInvalidStep), false, "")
	}
	sess.Step = next
	return c.current(sess), nil
}

// PayWithPix issues a gateway charge when the gateway is usable and falls
// back to the merchant's static PIX data otherwise. The gateway settings are
// read again on every attempt.
func (c *Checkout) PayWithPix(ctx context.Context, sess Session) (Outcome, error) {
	if sess.Buyer == nil || !sess.after(StepIdentification) {
		return c.current(sess), c.fail(ctx, sess, fmt.Errorf("pay with pix: %w", domain.ErrInvalidStep), false, "")
	}
	sess.Method = domain.MethodPix
	return c.once(sess, func() (Outcome, error) { return c.payWithPix(ctx, sess) })
}

func (c *Checkout) payWithPix(ctx context.Context, sess Session) (Outcome, error) {
	p, err := c.product(ctx, sess.ProductID)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	global, err := c.Config.LoadGlobalConfig(ctx)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, sess.ProductRef)
	}
	order, err := c.ensureOrder(ctx, &sess, p)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, sess.ProductRef)
	}
	if order.Status.Terminal() && order.Status != domain.OrderAwaitingPayment {
		err := fmt.Errorf("pix for order in status %s: %w", order.Status, domain.ErrInvalidTransition)
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}

	if !global.GatewayUsable() {
		return Outcome{Session: sess, View: ViewPixManual, ProductRef: sess.ProductRef, OrderID: order.ID}, nil
	}

	customer := domain.Customer{Name: sess.Buyer.Name, TaxID: sess.Buyer.TaxID, Email: sess.Buyer.Email}
	charge, err := c.Gateway.CreatePixCharge(ctx, customer, p.Price, p.Name)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, sess.ProductRef)
	}
	if _, err := c.Ledger.SetStatus(ctx, order.ID, domain.OrderAwaitingPayment); err != nil {
		// The charge exists at the gateway; the buyer can still pay it.
		logger(c.Logger).ErrorContext(ctx, "order status not updated after charge",
			"session_id", sess.ID, "order_id", order.ID, "charge_id", charge.ID, "err", err)
	}
	return Outcome{Session: sess, View: ViewPixGateway, Charge: &charge, ProductRef: sess.ProductRef, OrderID: order.ID}, nil
}

// PayWithCard records the card attempt and declines the order. Cards are
// never sent to an acquirer.
func (c *Checkout) PayWithCard(ctx context.Context, sess Session, card CardInput) (Outcome, error) {
	if sess.Buyer == nil || sess.Step != sess.Flow().Last() {
		return c.current(sess), c.fail(ctx, sess, fmt.Errorf("pay with card: %w", domain.ErrInvalidStep), false, "")
	}
	sess.Method = domain.MethodCard
	return c.once(sess, func() (Outcome, error) { return c.payWithCard(ctx, sess, card) })
}

func (c *Checkout) payWithCard(ctx context.Context, sess Session, card CardInput) (Outcome, error) {
	cfg, err := c.Config.LoadCheckoutConfig(ctx, sess.ProductID)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, "")
	}
	if !cfg.Accepts(domain.MethodCard) {
		err := &domain.ValidationError{Fields: map[string]string{"method": "forma de pagamento indisponível"}}
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	if err := validateStruct(card); err != nil {
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	p, err := c.product(ctx, sess.ProductID)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	if card.Installments > p.Installments() {
		err := &domain.ValidationError{Fields: map[string]string{"installments": fmt.Sprintf("máximo de %d parcelas", p.Installments())}}
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}

	order, err := c.ensureOrder(ctx, &sess, p)
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, "")
	}
	// A declined order takes further attempts; any other closed order does not.
	if order.Status.Terminal() && order.Status != domain.OrderDeclined {
		err := fmt.Errorf("card for order in status %s: %w", order.Status, domain.ErrInvalidTransition)
		return c.current(sess), c.fail(ctx, sess, err, false, "")
	}
	_, err = c.Ledger.RecordPayment(ctx, order.ID, domain.PaymentAttempt{
		Method:           domain.MethodCard,
		CardNumberMasked: domain.MaskCardNumber(card.Number),
		CardHolder:       card.Holder,
		CardExpiry:       card.Expiry,
		Installments:     card.Installments,
	})
	if err != nil {
		return c.current(sess), c.fail(ctx, sess, err, true, "")
	}
	if _, err := c.Ledger.SetStatus(ctx, order.ID, domain.OrderDeclined); err != nil {
		return c.current(sess), c.fail(ctx, sess, err, !errors.Is(err, domain.ErrInvalidTransition), "")
	}
	return Outcome{Session: sess, View: ViewPaymentFailed, ProductRef: sess.ProductRef, OrderID: order.ID}, nil
}

// once collapses concurrent payment actions on one session into a single
// execution whose result every caller shares.
func (c *Checkout) once(sess Session, fn func() (Outcome, error)) (Outcome, error) {
	type result struct {
		out Outcome
		err error
	}
	v, _, _ := c.inflight.Do(sess.ID, func() (any, error) {
		out, err := fn()
		return result{out: out, err: err}, nil
	})
	r := v.(result)
	return r.out, r.err
}

// ensureOrder returns the session's order, creating it on first use. The
// order id is written into sess as soon as it exists.
func (c *Checkout) ensureOrder(ctx context.Context, sess *Session, p domain.Product) (domain.Order, error) {
	if sess.OrderID != "" {
		o, err := c.Ledger.Order(ctx, sess.OrderID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, err
		}
	}
	o, err := c.Ledger.CreateOrder(ctx, NewOrder{
		SessionID: sess.ID,
		ProductID: p.ID,
		Amount:    p.Price,
		Buyer:     *sess.Buyer,
		Method:    sess.Method,
	})
	if err != nil {
		return domain.Order{}, err
	}
	sess.OrderID = o.ID
	return o, nil
}

func (c *Checkout) product(ctx context.Context, ref string) (domain.Product, error) {
	p, ok, err := c.Products.GetProduct(ctx, ref)
	if err != nil {
		return domain.Product{}, fmt.Errorf("load product %s: %w", ref, err)
	}
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, ref)
	}
	return p, nil
}

func (c *Checkout) current(sess Session) Outcome {
	v := ViewIdentification
	switch sess.Step {
	case StepPaymentMethod:
		v = ViewPaymentMethod
	case StepConfirm:
		v = ViewConfirm
	}
	return Outcome{Session: sess, View: v, ProductRef: sess.ProductRef, OrderID: sess.OrderID}
}

// fail logs err once and converts it into the error returned to callers.
func (c *Checkout) fail(ctx context.Context, sess Session, err error, retryable bool, fallback string) error {
	kind := domain.Kind(err)
	log := logger(c.Logger).With("session_id", sess.ID, "order_id", sess.OrderID, "kind", kind)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		log.InfoContext(ctx, "checkout input rejected", "fields", ve.Fields)
		return ve
	}
	if kind == "timeout" || kind == "canceled" {
		retryable = true
	}
	log.ErrorContext(ctx, "checkout action failed", "retryable", retryable, "err", err)
	msg, ok := userMessages[kind]
	if !ok {
		msg = "Erro inesperado no checkout. Tente novamente."
	}
	return &CheckoutError{Kind: kind, Message: msg, Retryable: retryable, Fallback: fallback, Err: err}
}
