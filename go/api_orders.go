package laundryserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/freshfold/laundry-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the order lifecycle service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Take in a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), orderhttpmapper.ToCreateOrderInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusCreated, order)
}

// Get /v1/orders
// List orders, optionally filtered by repeated status parameters
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context(), orderstypes.ListOrdersInput{Statuses: c.QueryArray("status")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /v1/orders/:orderId
// Find order by id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

// Post /v1/orders/:orderId/advance
// Move the order to the next active step
func (api *OrderAPI) Advance(c *gin.Context) {
	api.transition(c, api.service.Advance)
}

// Post /v1/orders/:orderId/regress
// Move the order back to the previous active step
func (api *OrderAPI) Regress(c *gin.Context) {
	api.transition(c, api.service.Regress)
}

// Post /v1/orders/:orderId/handoff
// Hand a paid order over at the counter
func (api *OrderAPI) MarkHandedOffAtStore(c *gin.Context) {
	api.transition(c, api.service.MarkHandedOffAtStore)
}

// Post /v1/orders/:orderId/payment
// Collect the outstanding balance and complete the order
func (api *OrderAPI) CollectPaymentAndComplete(c *gin.Context) {
	ref, ok := orderRef(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.Payment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderstypes.PaymentInput{Order: ref, Amount: payload.Amount, Method: payload.Method}
	order, err := api.collect(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

func (api *OrderAPI) collect(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CollectPaymentAndComplete(ctx, input)
	}
	return api.service.CollectPaymentAndComplete(ctx, input)
}

func (api *OrderAPI) transition(c *gin.Context, call func(context.Context, orderstypes.OrderRef) (*domain.Order, error)) {
	ref, ok := orderRef(c)
	if !ok {
		return
	}
	order, err := call(c.Request.Context(), ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

func respondOrder(c *gin.Context, status int, order *domain.Order) {
	c.Header("ETag", strconv.Quote(strconv.FormatInt(order.Version, 10)))
	c.JSON(status, orderhttpmapper.FromDomainOrder(order))
}

// orderRef reads the order id and the optional If-Match version.
func orderRef(c *gin.Context) (orderstypes.OrderRef, bool) {
	version, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		respondBadRequest(c, err)
		return orderstypes.OrderRef{}, false
	}
	return orderstypes.OrderRef{ID: c.Param("orderId"), Version: version}, true
}

// parseIfMatch accepts a bare or quoted version; empty and "*" mean any version.
func parseIfMatch(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	if raw == "" || raw == "*" {
		return 0, nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("If-Match must carry a positive order version, got %q", raw)
	}
	return version, nil
}
