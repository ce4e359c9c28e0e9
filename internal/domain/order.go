package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderDeclined        OrderStatus = "declined"
	OrderPaid            OrderStatus = "paid"
)

// transitions lists the statuses reachable from each status. Anything not
// listed as a key is terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderAwaitingPayment, OrderDeclined, OrderPaid},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAwaitingPayment, OrderDeclined, OrderPaid:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransition reports whether an order in status s may move to next.
// Setting the current status again is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	MethodPix  PaymentMethod = "pix"
	MethodCard PaymentMethod = "cartao"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodPix || m == MethodCard
}

type Buyer struct {
	Name  string `json:"name" validate:"required,min=3,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phonebr"`
	TaxID string `json:"taxId" validate:"required,cpfcnpj"`
}

type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"-"`
	ProductID     string          `json:"productId"`
	Status        OrderStatus     `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Buyer         Buyer           `json:"buyer"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type PaymentAttempt struct {
	ID               string        `json:"id"`
	OrderID          string        `json:"orderId"`
	Method           PaymentMethod `json:"method"`
	CardNumberMasked string        `json:"cardNumberMasked,omitempty"`
	CardHolder       string        `json:"cardHolder,omitempty"`
	CardExpiry       string        `json:"cardExpiry,omitempty"`
	Installments     int           `json:"installments"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// MaskCardNumber keeps the last four digits of a card number.
func MaskCardNumber(number string) string {
	d := Digits(number)
	if len(d) <= 4 {
		return d
	}
	return strings.Repeat("*", len(d)-4) + d[len(d)-4:]
}
