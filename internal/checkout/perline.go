package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/storefront/internal/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PerLineSubmitter speaks the older per-line contract: one POST per cart
// line, all lines of an attempt sharing a client-generated order number.
// The first rejected line aborts the rest of the attempt; nothing is
// rolled back server-side.
type PerLineSubmitter struct {
	endpoint   string
	httpClient *http.Client

	// Overridable for tests.
	now            func() time.Time
	newOrderNumber func() string
}

func NewPerLineSubmitter(endpoint string, httpClient *http.Client) *PerLineSubmitter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PerLineSubmitter{
		endpoint:       endpoint,
		httpClient:     httpClient,
		now:            time.Now,
		newOrderNumber: func() string { return uuid.New().String() },
	}
}

type lineOrder struct {
	OrderNumber   string          `json:"orderNumber"`
	ProductName   string          `json:"productName"`
	ProductOption string          `json:"productOption"`
	Price         decimal.Decimal `json:"price"` // unit price times quantity
	OrderDate     string          `json:"orderDate"`
}

type lineResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *PerLineSubmitter) Submit(ctx context.Context, items []cart.LineItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	orderNumber := s.newOrderNumber()
	orderDate := s.now().UTC().Format(time.RFC3339)

	for i := range items {
		item := items[i]
		opts, err := json.Marshal(item.Options)
		if err != nil {
			return &Error{Reason: "encode options", FailedItem: &items[i], Err: err}
		}
		line := lineOrder{
			OrderNumber:   orderNumber,
			ProductName:   item.Product.Name,
			ProductOption: string(opts),
			Price:         item.Subtotal().Amount,
			OrderDate:     orderDate,
		}
		if err := s.postLine(ctx, line); err != nil {
			return &Error{Reason: err.Error(), FailedItem: &items[i], Err: err}
		}
	}
	return nil
}

func (s *PerLineSubmitter) postLine(ctx context.Context, line lineOrder) error {
	body, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("encode line: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, snippet)
	}
	var result lineResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("rejected: %s", result.Message)
		}
		return fmt.Errorf("rejected")
	}
	return nil
}
