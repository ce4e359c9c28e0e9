package domain

import "time"

const (
	EventOrderCreated         = "order.created"
	EventOrderPaymentRecorded = "order.payment_recorded"
	EventOrderStatusChanged   = "order.status_changed"
)

type OrderEvent struct {
	Type       string        `json:"type"`
	OrderID    string        `json:"orderId"`
	ProductID  string        `json:"productId,omitempty"`
	Status     OrderStatus   `json:"status,omitempty"`
	PrevStatus OrderStatus   `json:"prevStatus,omitempty"`
	Method     PaymentMethod `json:"method,omitempty"`
	PaymentID  string        `json:"paymentId,omitempty"`
	At         time.Time     `json:"at"`
}
