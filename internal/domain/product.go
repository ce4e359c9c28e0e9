package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Price           decimal.Decimal `json:"price"`
	MaxInstallments int             `json:"maxInstallments"`
}

// Ref is the identifier used in checkout URLs: the slug when present,
// otherwise the id.
func (p Product) Ref() string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.ID
}

func (p Product) Installments() int {
	if p.MaxInstallments < 1 {
		return 1
	}
	return p.MaxInstallments
}
