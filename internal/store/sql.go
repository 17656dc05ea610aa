package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// dialect covers the few places Postgres and MySQL genuinely differ.
type dialect interface {
	// Rebind rewrites '?' placeholders into the driver's style.
	Rebind(query string) string
	// InsertOrder inserts the order row and returns its generated id.
	InsertOrder(ctx context.Context, tx *sql.Tx, createdAt time.Time) (int64, error)
	// Schema is the dialect-flavored DDL for EnsureSchema.
	Schema() []string
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }

// EnsureSchema creates the storefront tables if they do not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const productColumns = `p.id, p.name, p.in_stock, p.description, p.brand, c.id, c.name`

func (s *SQLStore) Products(ctx context.Context, categoryFilter string) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id`
	var args []any
	if categoryFilter != "" {
		query += ` WHERE c.name = ?`
		args = append(args, categoryFilter)
	}
	query += ` ORDER BY p.id`

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	for i := range products {
		if err := s.fillProduct(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *SQLStore) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	query := s.dialect.Rebind(`SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`)

	row := s.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.fillProduct(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLStore) CreateOrder(ctx context.Context, items []OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyOrder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	orderID, err := s.dialect.InsertOrder(ctx, tx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	insertItem := s.dialect.Rebind(
		`INSERT INTO order_items (order_id, product_id, quantity, options) VALUES (?, ?, ?, ?)`)
	for _, item := range items {
		var options sql.NullString
		if item.Options != "" {
			options = sql.NullString{String: item.Options, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertItem, orderID, item.ProductID, item.Quantity, options); err != nil {
			return 0, fmt.Errorf("insert order item (product %d): %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

func (s *SQLStore) Orders(ctx context.Context) ([]OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.ID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	itemQuery := s.dialect.Rebind(
		`SELECT product_id, quantity, options FROM order_items WHERE order_id = ? ORDER BY id`)
	for i := range orders {
		itemRows, err := s.db.QueryContext(ctx, itemQuery, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("select order items: %w", err)
		}
		for itemRows.Next() {
			var item OrderItem
			var options sql.NullString
			if err := itemRows.Scan(&item.ProductID, &item.Quantity, &options); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("scan order item: %w", err)
			}
			item.Options = options.String
			orders[i].Items = append(orders[i].Items, item)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("select order items: %w", err)
		}
		itemRows.Close()
	}
	return orders, nil
}

func (s *SQLStore) AddGalleryImage(ctx context.Context, productID int64, url string) error {
	query := s.dialect.Rebind(`INSERT INTO product_gallery (product_id, image_url) VALUES (?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, productID, url); err != nil {
		return fmt.Errorf("insert gallery image: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var p catalog.Product
	var description, brand sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.InStock, &description, &brand, &p.Category.ID, &p.Category.Name)
	if err != nil {
		return catalog.Product{}, err
	}
	p.Description = description.String
	p.Brand = brand.String
	return p, nil
}

// fillProduct loads price, gallery and attributes, mirroring the original
// resolvers' per-table selects.
func (s *SQLStore) fillProduct(ctx context.Context, p *catalog.Product) error {
	var amount decimal.Decimal
	var code string
	priceQuery := s.dialect.Rebind(`SELECT amount, currency FROM prices WHERE product_id = ?`)
	err := s.db.QueryRowContext(ctx, priceQuery, p.ID).Scan(&amount, &code)
	switch {
	case err == sql.ErrNoRows:
		// Unpriced products stay zero-valued, as in the original schema.
	case err != nil:
		return fmt.Errorf("select price for product %d: %w", p.ID, err)
	default:
		unit, err := currency.ParseISO(code)
		if err != nil {
			return fmt.Errorf("product %d currency: %w", p.ID, err)
		}
		p.Price = catalog.Money{Amount: amount, Currency: unit}
	}

	galleryQuery := s.dialect.Rebind(
		`SELECT image_url FROM product_gallery WHERE product_id = ? ORDER BY id`)
	rows, err := s.db.QueryContext(ctx, galleryQuery, p.ID)
	if err != nil {
		return fmt.Errorf("select gallery for product %d: %w", p.ID, err)
	}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			rows.Close()
			return fmt.Errorf("scan gallery row: %w", err)
		}
		p.Gallery = append(p.Gallery, url)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("select gallery for product %d: %w", p.ID, err)
	}
	rows.Close()

	return s.fillAttributes(ctx, p)
}

func (s *SQLStore) fillAttributes(ctx context.Context, p *catalog.Product) error {
	attrQuery := s.dialect.Rebind(
		`SELECT id, name, kind FROM product_attributes WHERE product_id = ? ORDER BY id`)
	rows, err := s.db.QueryContext(ctx, attrQuery, p.ID)
	if err != nil {
		return fmt.Errorf("select attributes for product %d: %w", p.ID, err)
	}
	for rows.Next() {
		var attr catalog.Attribute
		var kind string
		if err := rows.Scan(&attr.ID, &attr.Name, &kind); err != nil {
			rows.Close()
			return fmt.Errorf("scan attribute: %w", err)
		}
		attr.Kind = catalog.AttributeKind(kind)
		p.Attributes = append(p.Attributes, attr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("select attributes for product %d: %w", p.ID, err)
	}
	rows.Close()

	itemQuery := s.dialect.Rebind(
		`SELECT id, value, display_value FROM attribute_items WHERE attribute_id = ? ORDER BY id`)
	for i := range p.Attributes {
		itemRows, err := s.db.QueryContext(ctx, itemQuery, p.Attributes[i].ID)
		if err != nil {
			return fmt.Errorf("select items for attribute %d: %w", p.Attributes[i].ID, err)
		}
		for itemRows.Next() {
			var item catalog.AttributeItem
			if err := itemRows.Scan(&item.ID, &item.Value, &item.DisplayValue); err != nil {
				itemRows.Close()
				return fmt.Errorf("scan attribute item: %w", err)
			}
			p.Attributes[i].Items = append(p.Attributes[i].Items, item)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return fmt.Errorf("select items for attribute %d: %w", p.Attributes[i].ID, err)
		}
		itemRows.Close()
	}
	return nil
}

// rebindPositional rewrites '?' placeholders to $1..$n for drivers that
// need it.
func rebindPositional(query string) string {
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
