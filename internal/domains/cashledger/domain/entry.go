package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tells whether money came in or went out of the register.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// CategoryOrderPayment groups income collected for laundry orders.
const CategoryOrderPayment = "order_payment"

var (
	ErrInvalidType   = errors.New("entry type is invalid")
	ErrInvalidAmount = errors.New("entry amount must be greater than zero")
	ErrEmptyCategory = errors.New("entry category is required")
)

// Entry is an append-only cash register record.
type Entry struct {
	ID             string
	Type           EntryType
	Amount         decimal.Decimal
	Category       string
	Description    string
	OrderID        string
	Method         string
	IdempotencyKey string
	CreatedAt      time.Time
}

// NewIncome builds an income entry tied to an order.
func NewIncome(amount decimal.Decimal, category, description, orderID, method, key string) (*Entry, error) {
	e := &Entry{
		Type:           EntryIncome,
		Amount:         amount,
		Category:       strings.TrimSpace(category),
		Description:    description,
		OrderID:        orderID,
		Method:         method,
		IdempotencyKey: strings.TrimSpace(key),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate enforces invariants on the entry.
func (e *Entry) Validate() error {
	if e.Type != EntryIncome && e.Type != EntryExpense {
		return ErrInvalidType
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.Category == "" {
		return ErrEmptyCategory
	}
	return nil
}

// SameRequest reports whether other records the same movement as e.
func (e *Entry) SameRequest(other *Entry) bool {
	if other == nil {
		return false
	}
	return e.Type == other.Type && e.Amount.Equal(other.Amount) && e.OrderID == other.OrderID
}

// Summary aggregates entries by type.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Balance is income minus expense.
func (s Summary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Summarize totals the provided entries.
func Summarize(entries []*Entry) Summary {
	summary := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		if e == nil {
			continue
		}
		summary.Count++
		switch e.Type {
		case EntryIncome:
			summary.Income = summary.Income.Add(e.Amount)
		case EntryExpense:
			summary.Expense = summary.Expense.Add(e.Amount)
		}
	}
	return summary
}
