package laundryserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ledgerhttpmapper "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/http/mapper"
	ledgerdomain "github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
)

// LedgerAPI exposes cash register queries.
type LedgerAPI struct {
	service ledgerports.Service
}

func NewLedgerAPI(service ledgerports.Service) LedgerAPI {
	return LedgerAPI{service: service}
}

// Get /v1/ledger/entries
// List cash entries by order, type and RFC 3339 range
func (api *LedgerAPI) ListEntries(c *gin.Context) {
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	entries, err := api.service.ListEntries(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerhttpmapper.FromDomainEntries(entries))
}

// Get /v1/ledger/summary
// Total income and expense over the same filters
func (api *LedgerAPI) Summary(c *gin.Context) {
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	summary, err := api.service.Summary(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerhttpmapper.FromDomainSummary(summary))
}

func ledgerFilter(c *gin.Context) (ledgerports.ListFilter, bool) {
	filter := ledgerports.ListFilter{
		OrderID: c.Query("orderId"),
		Type:    ledgerdomain.EntryType(c.Query("type")),
	}
	var err error
	if filter.From, err = parseTime(c.Query("from")); err != nil {
		respondBadRequest(c, fmt.Errorf("from: %w", err))
		return ledgerports.ListFilter{}, false
	}
	if filter.To, err = parseTime(c.Query("to")); err != nil {
		respondBadRequest(c, fmt.Errorf("to: %w", err))
		return ledgerports.ListFilter{}, false
	}
	return filter, true
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
