package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is a decimal amount in a single currency. The storefront is
// single-currency end to end; Money exists so prices never touch floats.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney parses an amount string ("10.99") and an ISO 4217 code.
func NewMoney(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return Money{Amount: d, Currency: unit}, nil
}

// Mul scales the amount by an integer quantity.
func (m Money) Mul(qty int) Money {
	m.Amount = m.Amount.Mul(decimal.NewFromInt(int64(qty)))
	return m
}

// Add sums two amounts. A zero-value receiver adopts the other side's
// currency so that summing a slice can start from Money{}. The storefront
// never mixes currencies; adding two different non-zero units is a caller
// bug and panics rather than producing a silent cross-currency sum.
func (m Money) Add(o Money) Money {
	if m.Currency == (currency.Unit{}) {
		m.Currency = o.Currency
	} else if o.Currency != (currency.Unit{}) && m.Currency != o.Currency {
		panic(fmt.Sprintf("money: cannot add %s to %s", o.Currency, m.Currency))
	}
	m.Amount = m.Amount.Add(o.Amount)
	return m
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	if m.Currency == (currency.Unit{}) {
		return m.Amount.StringFixed(2)
	}
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	code := ""
	if m.Currency != (currency.Unit{}) {
		code = m.Currency.String()
	}
	return json.Marshal(moneyJSON{Amount: m.Amount, Currency: code})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Amount = raw.Amount
	m.Currency = currency.Unit{}
	if raw.Currency != "" {
		unit, err := currency.ParseISO(raw.Currency)
		if err != nil {
			return fmt.Errorf("parse currency %q: %w", raw.Currency, err)
		}
		m.Currency = unit
	}
	return nil
}
