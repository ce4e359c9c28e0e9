package domain

import "encoding/json"

// Charge is a gateway-issued PIX charge. It lives only as long as the PIX
// wait screen and is never stored.
type Charge struct {
	ID            string          `json:"id,omitempty"`
	InvoiceURL    string          `json:"invoiceUrl"`
	QRCodeImage   string          `json:"pixQrCodeImageUrl,omitempty"`
	CopyPasteCode string          `json:"pixQrCode,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

type Customer struct {
	Name  string
	TaxID string
	Email string
}
