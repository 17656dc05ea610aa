package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type postgresDialect struct{}

func (postgresDialect) Rebind(query string) string { return rebindPositional(query) }

func (postgresDialect) InsertOrder(ctx context.Context, tx *sql.Tx, createdAt time.Time) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (created_at) VALUES ($1) RETURNING id`, createdAt).Scan(&id)
	return id, err
}

func (postgresDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			in_stock BOOLEAN NOT NULL DEFAULT TRUE,
			description TEXT,
			brand TEXT,
			category_id BIGINT NOT NULL REFERENCES categories(id)
		)`,
		`CREATE TABLE IF NOT EXISTS prices (
			product_id BIGINT PRIMARY KEY REFERENCES products(id),
			amount NUMERIC(12,2) NOT NULL,
			currency TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_gallery (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			image_url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_attributes (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			name TEXT NOT NULL,
			kind TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attribute_items (
			id BIGSERIAL PRIMARY KEY,
			attribute_id BIGINT NOT NULL REFERENCES product_attributes(id),
			value TEXT NOT NULL,
			display_value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id),
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			options TEXT
		)`,
	}
}

// OpenPostgres connects to a Postgres storefront database.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &SQLStore{db: db, dialect: postgresDialect{}}, nil
}
