package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	seq           BIGSERIAL,
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL CHECK (category IN ('interface', 'som', 'alarme', 'acessorio')),
	vehicle_model TEXT NOT NULL,
	year_start    INTEGER NOT NULL,
	year_end      INTEGER NOT NULL,
	price         NUMERIC(12, 2) NOT NULL,
	stock         INTEGER NOT NULL CHECK (stock >= 0),
	description   TEXT NOT NULL DEFAULT '',
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	product_id       TEXT NOT NULL REFERENCES products (id),
	product_name     TEXT NOT NULL,
	quantity         INTEGER NOT NULL DEFAULT 1,
	total            NUMERIC(12, 2) NOT NULL,
	status           TEXT NOT NULL,
	customer_name    TEXT NOT NULL DEFAULT '',
	customer_address TEXT NOT NULL DEFAULT '',
	customer_phone   TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS conversation_logs (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	message        TEXT NOT NULL,
	response       TEXT NOT NULL,
	intent         JSONB NOT NULL DEFAULT '{}',
	shown_products TEXT[] NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS conversation_logs_user_idx ON conversation_logs (user_id, created_at);
`

const productColumns = `id, name, category, vehicle_model, year_start, year_end, price, stock, description, active, created_at, updated_at`

const orderColumns = `id, user_id, product_id, product_name, quantity, total, status, customer_name, customer_address, customer_phone, created_at, updated_at`

// PostgresConfig holds PostgreSQL connection pool settings.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Postgres is a Gateway backed by PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// ConnectPostgres opens the pool, checks connectivity and applies the schema.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	pg := NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return pg, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates tables and indexes if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// FindProducts builds the filter into a WHERE clause.
func (p *Postgres) FindProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Available {
		where = append(where, "active = TRUE", "stock > 0")
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.VehicleModel != "" {
		where = append(where, fmt.Sprintf("vehicle_model IN (%s, %s)", arg(filter.VehicleModel), arg(model.UniversalModel)))
	}
	if filter.Year != nil {
		y := arg(*filter.Year)
		where = append(where, "year_start <= "+y, "year_end >= "+y)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY price ASC, seq ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *prod)
	}
	return products, rows.Err()
}

// GetProduct loads a product by id.
func (p *Postgres) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	prod, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return prod, err
}

// DecrementStockIfPositive relies on a single conditional UPDATE so that
// concurrent buyers of the last unit cannot both succeed.
func (p *Postgres) DecrementStockIfPositive(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - 1, updated_at = now() WHERE id = $1 AND stock > 0", id)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return n == 1, nil
}

// IncrementStock gives one unit back.
func (p *Postgres) IncrementStock(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE products SET stock = stock + 1, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapStock sets the stock to next only if it currently equals expected.
func (p *Postgres) SwapStock(ctx context.Context, id string, expected, next int) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		"UPDATE products SET stock = $3, updated_at = now() WHERE id = $1 AND stock = $2", id, expected, next)
	if err != nil {
		return false, fmt.Errorf("swap stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swap stock: %w", err)
	}
	return n == 1, nil
}

// CountProducts returns the catalog size.
func (p *Postgres) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, "SELECT count(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// InsertProducts inserts products in one transaction.
func (p *Postgres) InsertProducts(ctx context.Context, products []model.Product) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, prod := range products {
		id := prod.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO products
			(id, name, category, vehicle_model, year_start, year_end, price, stock, description, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, prod.Name, string(prod.Category), prod.VehicleModel, prod.YearStart, prod.YearEnd,
			prod.Price, prod.Stock, prod.Description, prod.Active)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", prod.Name, err)
		}
	}
	return tx.Commit()
}

// CreateOrder inserts an order.
func (p *Postgres) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	o := *order
	if o.ID == "" {
		o.ID = uuid.Must(uuid.NewV7()).String()
	}
	row := p.db.QueryRowContext(ctx, `INSERT INTO orders
		(id, user_id, product_id, product_name, quantity, total, status, customer_name, customer_address, customer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.ProductID, o.ProductName, o.Quantity, o.Total, string(o.Status),
		o.Customer.Name, o.Customer.Address, o.Customer.Phone)
	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &o, nil
}

// GetOrder loads an order by id.
func (p *Postgres) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// UpdateOrderStatus performs a conditional status change.
func (p *Postgres) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (*model.Order, error) {
	row := p.db.QueryRowContext(ctx, `UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2 RETURNING `+orderColumns, id, string(from), string(to))
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := p.GetOrder(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	return o, err
}

// FindOrdersByUser returns the user's most recent orders first.
func (p *Postgres) FindOrdersByUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	return p.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limitOrAll(limit))
}

// ListOrders returns the most recent orders first.
func (p *Postgres) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return p.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT $1",
		limitOrAll(limit))
}

func (p *Postgres) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// AppendConversationLog inserts a log entry.
func (p *Postgres) AppendConversationLog(ctx context.Context, entry *model.ConversationLog) error {
	intent, err := json.Marshal(entry.Intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	id := entry.ID
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	shown := entry.ShownProducts
	if shown == nil {
		shown = []string{}
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO conversation_logs
		(id, user_id, message, response, intent, shown_products, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, entry.UserID, entry.Message, entry.Response, intent, pq.Array(shown), createdAtOrNow(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("append conversation log: %w", err)
	}
	return nil
}

// ListConversationLogs returns the user's most recent entries, oldest first.
func (p *Postgres) ListConversationLogs(ctx context.Context, userID string, limit int) ([]model.ConversationLog, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, user_id, message, response, intent, shown_products, created_at
		FROM (
			SELECT * FROM conversation_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
		) recent ORDER BY created_at ASC`, userID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("list conversation logs: %w", err)
	}
	defer rows.Close()

	var logs []model.ConversationLog
	for rows.Next() {
		var (
			e      model.ConversationLog
			intent []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Message, &e.Response, &intent, pq.Array(&e.ShownProducts), &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation log: %w", err)
		}
		if err := json.Unmarshal(intent, &e.Intent); err != nil {
			return nil, fmt.Errorf("unmarshal intent: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

// Analytics aggregates conversation and order counters.
func (p *Postgres) Analytics(ctx context.Context) (*model.Analytics, error) {
	var a model.Analytics
	err := p.db.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM conversation_logs),
		(SELECT count(*) FROM orders),
		(SELECT COALESCE(sum(total), 0) FROM orders)`).Scan(&a.Conversations, &a.Orders, &a.SalesTotal)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return &a, nil
}

// Ping checks the connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	var (
		p        model.Product
		category string
	)
	err := s.Scan(&p.ID, &p.Name, &category, &p.VehicleModel, &p.YearStart, &p.YearEnd,
		&p.Price, &p.Stock, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Category = model.Category(category)
	return &p, nil
}

func scanOrder(s scanner) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	err := s.Scan(&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.Quantity, &o.Total, &status,
		&o.Customer.Name, &o.Customer.Address, &o.Customer.Phone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

// limitOrAll maps "no limit" onto a LIMIT argument Postgres accepts.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
