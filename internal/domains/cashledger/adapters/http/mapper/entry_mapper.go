package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
)

// Entry is the HTTP representation of a cash register record.
type Entry struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	OrderID     string          `json:"orderId,omitempty"`
	Method      string          `json:"method,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Summary totals the register over a range.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

func FromDomainEntries(entries []*domain.Entry) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		result = append(result, Entry{
			ID:          e.ID,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
			OrderID:     e.OrderID,
			Method:      e.Method,
			CreatedAt:   e.CreatedAt,
		})
	}
	return result
}

func FromDomainSummary(s domain.Summary) Summary {
	return Summary{Income: s.Income, Expense: s.Expense, Balance: s.Balance(), Count: s.Count}
}
