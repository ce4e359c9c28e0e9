package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"pix-checkout/internal/domain"
)

type Seeder interface {
	PutGlobal(ctx context.Context, g *domain.GlobalRecord) error
	PutProduct(ctx context.Context, p domain.Product) error
	PutCheckout(ctx context.Context, productID string, c *domain.CheckoutRecord) error
}

// Seed is a settings and catalog snapshot, keyed the same way as storage.
type Seed struct {
	Global   *domain.GlobalRecord              `json:"global"`
	Products []domain.Product                  `json:"products"`
	Checkout map[string]*domain.CheckoutRecord `json:"checkout"`
}

func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed: %w", err)
	}
	var s Seed
	if err := json.Unmarshal(raw, &s); err != nil {
		return Seed{}, fmt.Errorf("failed to decode seed %s: %w", path, err)
	}
	return s, nil
}

func (s Seed) Apply(ctx context.Context, dst Seeder) error {
	if s.Global != nil {
		if err := dst.PutGlobal(ctx, s.Global); err != nil {
			return err
		}
	}
	for _, p := range s.Products {
		if err := dst.PutProduct(ctx, p); err != nil {
			return err
		}
	}
	for id, c := range s.Checkout {
		if c == nil {
			c = &domain.CheckoutRecord{}
		}
		if err := dst.PutCheckout(ctx, id, c); err != nil {
			return err
		}
	}
	return nil
}
