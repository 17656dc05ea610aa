package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) Rebind(query string) string { return query }

func (mysqlDialect) InsertOrder(ctx context.Context, tx *sql.Tx, createdAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO orders (created_at) VALUES (?)`, createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (mysqlDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			in_stock BOOLEAN NOT NULL DEFAULT TRUE,
			description TEXT,
			brand VARCHAR(255),
			category_id BIGINT NOT NULL,
			INDEX idx_products_category (category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS prices (
			product_id BIGINT PRIMARY KEY,
			amount DECIMAL(12,2) NOT NULL,
			currency VARCHAR(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_gallery (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			image_url TEXT NOT NULL,
			INDEX idx_gallery_product (product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_attributes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			kind VARCHAR(32) NOT NULL,
			INDEX idx_attributes_product (product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attribute_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			attribute_id BIGINT NOT NULL,
			value VARCHAR(255) NOT NULL,
			display_value VARCHAR(255) NOT NULL,
			INDEX idx_items_attribute (attribute_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			options TEXT,
			INDEX idx_items_order (order_id)
		)`,
	}
}

// OpenMySQL connects to a MySQL storefront database. The DSN needs
// parseTime=true so created_at scans into time.Time.
func OpenMySQL(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return &SQLStore{db: db, dialect: mysqlDialect{}}, nil
}
