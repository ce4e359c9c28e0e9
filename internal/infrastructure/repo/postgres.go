package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pix-checkout/internal/domain"
)

// SQLSTATE 23503, raised when a payment references a missing order.
const foreignKeyViolation = "foreign_key_violation"

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

func (r *PostgresRepo) Close() error { return r.db.Close() }

func (r *PostgresRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS platform_settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		gateway_enabled BOOLEAN,
		gateway_token TEXT,
		gateway_sandbox BOOLEAN,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL,
		max_installments INT NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS checkout_settings (
		product_id TEXT PRIMARY KEY,
		settings JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		session_id TEXT UNIQUE,
		product_id TEXT NOT NULL,
		status TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		buyer_name TEXT NOT NULL,
		buyer_email TEXT NOT NULL,
		buyer_phone TEXT NOT NULL,
		buyer_tax_id TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		method TEXT NOT NULL,
		card_number_masked TEXT NOT NULL DEFAULT '',
		card_holder TEXT NOT NULL DEFAULT '',
		card_expiry TEXT NOT NULL DEFAULT '',
		installments INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS payments_order_id_idx ON payments (order_id);`,
}

// Migrate creates the tables if they do not exist.
func (r *PostgresRepo) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepo) GlobalSettings(ctx context.Context) (*domain.GlobalRecord, error) {
	var enabled, sandbox sql.NullBool
	var token sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT gateway_enabled, gateway_token, gateway_sandbox FROM platform_settings WHERE id = 1`).
		Scan(&enabled, &token, &sandbox)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}
	rec := &domain.GlobalRecord{}
	if enabled.Valid {
		rec.GatewayEnabled = &enabled.Bool
	}
	if token.Valid {
		rec.GatewayToken = &token.String
	}
	if sandbox.Valid {
		rec.GatewaySandbox = &sandbox.Bool
	}
	return rec, nil
}

func (r *PostgresRepo) PutGlobal(ctx context.Context, g *domain.GlobalRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO platform_settings (id, gateway_enabled, gateway_token, gateway_sandbox, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET gateway_enabled=$1, gateway_token=$2, gateway_sandbox=$3, updated_at=now()`,
		nullBool(g.GatewayEnabled), nullString(g.GatewayToken), nullBool(g.GatewaySandbox))
	if err != nil {
		return fmt.Errorf("failed to write platform settings: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CheckoutSettings(ctx context.Context, productID string) (*domain.CheckoutRecord, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT settings FROM checkout_settings WHERE product_id = $1`, productID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout settings: %w", err)
	}
	var rec domain.CheckoutRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode checkout settings: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepo) PutCheckout(ctx context.Context, productID string, c *domain.CheckoutRecord) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO checkout_settings (product_id, settings, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id) DO UPDATE SET settings=$2, updated_at=now()`, productID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write checkout settings: %w", err)
	}
	return nil
}

func (r *PostgresRepo) PutProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO products (id, slug, name, description, image_url, price, max_installments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET slug=$2, name=$3, description=$4, image_url=$5, price=$6, max_installments=$7`,
		p.ID, sql.NullString{String: p.Slug, Valid: p.Slug != ""}, p.Name, p.Description, p.ImageURL, p.Price, p.MaxInstallments)
	if err != nil {
		return fmt.Errorf("failed to write product: %w", err)
	}
	return nil
}

// GetProduct looks ref up as an id first, then as a slug.
func (r *PostgresRepo) GetProduct(ctx context.Context, ref string) (domain.Product, bool, error) {
	var p domain.Product
	var slug sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT id, slug, name, description, image_url, price, max_installments
		FROM products WHERE id = $1 OR slug = $1
		ORDER BY (id = $1) DESC LIMIT 1`, ref).
		Scan(&p.ID, &slug, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.MaxInstallments)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("failed to read product: %w", err)
	}
	p.Slug = slug.String
	return p, true, nil
}

const orderColumns = `id, session_id, product_id, status, amount, buyer_name, buyer_email, buyer_phone, buyer_tax_id, payment_method, created_at, updated_at`

func (r *PostgresRepo) PutOrder(ctx context.Context, o *domain.Order) (domain.Order, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id`,
		o.ID, sql.NullString{String: o.SessionID, Valid: o.SessionID != ""}, o.ProductID, string(o.Status), o.Amount,
		o.Buyer.Name, o.Buyer.Email, o.Buyer.Phone, o.Buyer.TaxID, string(o.PaymentMethod), o.CreatedAt, o.UpdatedAt).
		Scan(&id)
	if err == nil {
		return *o, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, fmt.Errorf("failed to insert order: %w", err)
	}
	// Conflict on session_id: hand back the order the session already owns.
	existing, err := r.scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE session_id = $1`, o.SessionID))
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to read order for session: %w", err)
	}
	return existing, false, nil
}

func (r *PostgresRepo) GetOrder(ctx context.Context, id string) (domain.Order, bool, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to read order: %w", err)
	}
	return o, true, nil
}

func (r *PostgresRepo) scanOrder(row *sql.Row) (domain.Order, error) {
	var o domain.Order
	var session sql.NullString
	err := row.Scan(&o.ID, &session, &o.ProductID, (*string)(&o.Status), &o.Amount,
		&o.Buyer.Name, &o.Buyer.Email, &o.Buyer.Phone, &o.Buyer.TaxID, (*string)(&o.PaymentMethod),
		&o.CreatedAt, &o.UpdatedAt)
	o.SessionID = session.String
	return o, err
}

func (r *PostgresRepo) SwapOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepo) SetOrderMethod(ctx context.Context, id string, method domain.PaymentMethod, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_method = $2, updated_at = $3 WHERE id = $1`, id, string(method), at)
	if err != nil {
		return fmt.Errorf("failed to update order payment method: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepo) PutPayment(ctx context.Context, p *domain.PaymentAttempt) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO payments (id, order_id, method, card_number_masked, card_holder, card_expiry, installments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OrderID, string(p.Method), p.CardNumberMasked, p.CardHolder, p.CardExpiry, p.Installments, p.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == foreignKeyViolation {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListPayments(ctx context.Context, orderID string) ([]domain.PaymentAttempt, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, method, card_number_masked, card_holder, card_expiry, installments, created_at
		FROM payments WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()
	var out []domain.PaymentAttempt
	for rows.Next() {
		var p domain.PaymentAttempt
		if err := rows.Scan(&p.ID, &p.OrderID, (*string)(&p.Method), &p.CardNumberMasked, &p.CardHolder, &p.CardExpiry, &p.Installments, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
