package laundryserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerhttpmapper "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/http/mapper"
	ledgermemory "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/memory"
	ledgerapp "github.com/freshfold/laundry-api/internal/domains/cashledger/application"
	driverhttpmapper "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/http/mapper"
	driversmemory "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/memory"
	driversapp "github.com/freshfold/laundry-api/internal/domains/drivers/application"
	orderhttpmapper "github.com/freshfold/laundry-api/internal/domains/orders/adapters/http/mapper"
	ordersmemory "github.com/freshfold/laundry-api/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/freshfold/laundry-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/freshfold/laundry-api/internal/domains/orders/application"
	apierrors "github.com/freshfold/laundry-api/internal/shared/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	orders := ordersmemory.NewRepository()
	drivers := driversmemory.NewRepository()
	ledger := ledgermemory.NewRepository()
	orderService := ordersapp.NewService(orders, ordersmemory.NewUnitOfWork(orders, drivers, ledger), ordersmemory.NewFlowStore())
	handlers := ApiHandleFunctions{
		OrderAPI:  NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService)),
		TaskAPI:   NewTaskAPI(orderService),
		DriverAPI: NewDriverAPI(driversapp.NewService(drivers)),
		LedgerAPI: NewLedgerAPI(ledgerapp.NewService(ledger)),
		FlowAPI:   NewFlowAPI(orderService),
	}
	return NewRouterWithGinEngine(gin.New(), handlers)
}

func call(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createOrder(t *testing.T, router *gin.Engine, withDelivery bool) orderhttpmapper.Order {
	t.Helper()
	body := map[string]any{
		"customer": map[string]any{"name": "Ana", "phone": "555-0199", "address": "12 Elm St"},
		"items": []map[string]any{
			{"name": "Shirt", "unit": "piece", "quantity": 2, "unitPrice": "6.50"},
		},
	}
	if withDelivery {
		body["delivery"] = map[string]any{"slot": "18:00-20:00"}
	}
	rec := call(t, router, http.MethodPost, "/v1/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))
	return decode[orderhttpmapper.Order](t, rec)
}

func advanceToReady(t *testing.T, router *gin.Engine, id string) orderhttpmapper.Order {
	t.Helper()
	var order orderhttpmapper.Order
	for i := 0; i < 4; i++ {
		rec := call(t, router, http.MethodPost, "/v1/orders/"+id+"/advance", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		order = decode[orderhttpmapper.Order](t, rec)
	}
	require.Equal(t, "ready_delivery", order.Status)
	return order
}

func TestOrderAPI_StoreHandoffLifecycle(t *testing.T) {
	router := newTestRouter(t)
	order := createOrder(t, router, false)
	assert.Equal(t, "in_store", order.Status)
	assert.True(t, decimal.NewFromInt(13).Equal(order.TotalAmount))
	assert.NotEmpty(t, order.TicketCode)

	ready := advanceToReady(t, router, order.ID)

	rec := call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/handoff", nil, nil)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	assert.Equal(t, apierrors.TypePaymentRequired, problem.Type)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/advance", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	problem = decode[apierrors.ProblemDetail](t, rec)
	assert.Equal(t, apierrors.TypeInvalidTransition, problem.Type)
	assert.Equal(t, string(ordersapp.ReasonHandoffStep), problem.Extensions["reason"])

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/payment", map[string]any{"amount": "13", "method": "cash"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[orderhttpmapper.Order](t, rec)
	assert.Equal(t, "delivered", done.Status)
	assert.True(t, done.IsPaid)
	assert.Greater(t, done.Version, ready.Version)

	rec = call(t, router, http.MethodGet, "/v1/ledger/summary?orderId="+order.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[ledgerhttpmapper.Summary](t, rec)
	assert.True(t, decimal.NewFromInt(13).Equal(summary.Income))
	assert.Equal(t, 1, summary.Count)
}

func TestOrderAPI_IfMatchGuardsVersion(t *testing.T) {
	router := newTestRouter(t)
	order := createOrder(t, router, false)

	rec := call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/advance", nil, map[string]string{"If-Match": `"1"`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/advance", nil, map[string]string{"If-Match": `"1"`})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apierrors.TypeVersionConflict, decode[apierrors.ProblemDetail](t, rec).Type)

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/advance", nil, map[string]string{"If-Match": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	assert.Equal(t, apierrors.TypeBadRequest, problem.Type)
	assert.Equal(t, "/v1/orders/"+order.ID+"/advance", problem.Instance)
}

func TestOrderAPI_ValidationAndNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodPost, "/v1/orders", map[string]any{"customer": map[string]any{"name": "Ana"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, router, http.MethodPost, "/v1/orders", map[string]any{
		"customer": map[string]any{"name": "Ana", "phone": "555"},
		"items":    []map[string]any{{"name": "Duvet", "unit": "weight", "quantity": "0.3", "unitPrice": 4}},
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decode[apierrors.ProblemDetail](t, rec).Type)

	rec = call(t, router, http.MethodGet, "/v1/orders/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, router, http.MethodGet, "/v1/orders?status=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskAPI_DeliveryFlow(t *testing.T) {
	router := newTestRouter(t)
	rec := call(t, router, http.MethodPut, "/v1/drivers/d1", map[string]any{"name": "Dana", "phone": "555-0101"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := createOrder(t, router, true)
	advanceToReady(t, router, order.ID)

	rec = call(t, router, http.MethodPut, "/v1/orders/"+order.ID+"/tasks/laundry/driver", map[string]any{"driverId": "d1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, router, http.MethodPut, "/v1/orders/"+order.ID+"/tasks/delivery/driver", map[string]any{"driverId": "d1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodGet, "/v1/tasks?driverId=d1&open=true", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]orderhttpmapper.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "delivery", tasks[0].Kind)

	rec = call(t, router, http.MethodGet, "/v1/drivers/d1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	driver := decode[driverhttpmapper.Driver](t, rec)
	assert.Equal(t, "delivering", driver.Status)
	assert.Equal(t, 1, driver.CurrentOrders)

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/tasks/delivery/start", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "in_transit", decode[orderhttpmapper.Order](t, rec).Status)

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/tasks/delivery/complete", nil, nil)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = call(t, router, http.MethodPost, "/v1/orders/"+order.ID+"/payment", map[string]any{"amount": 13}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[orderhttpmapper.Order](t, rec)
	assert.Equal(t, "delivered", done.Status)
	assert.Equal(t, "delivered", done.Delivery.Status)

	rec = call(t, router, http.MethodGet, "/v1/drivers/candidates", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	candidates := decode[[]driverhttpmapper.Driver](t, rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, candidates[0].CompletedToday)
	assert.Equal(t, "available", candidates[0].Status)
}

func TestFlowAPI_ReplaceAndRead(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodPut, "/v1/flow", []map[string]any{
		{"key": "ironing", "active": false, "order": 50},
		{"key": "ready_delivery", "active": false, "order": 60},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodGet, "/v1/flow", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decode[[]orderhttpmapper.Step](t, rec)
	byKey := map[string]orderhttpmapper.Step{}
	for _, s := range steps {
		byKey[s.Key] = s
	}
	assert.False(t, byKey["ironing"].Active)
	assert.True(t, byKey["ready_delivery"].Active)
	assert.True(t, byKey["ready_delivery"].Required)

	rec = call(t, router, http.MethodPut, "/v1/flow", []map[string]any{{"key": "folding", "active": true}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerAPI_RejectsBadRange(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/v1/ledger/entries?from=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, router, http.MethodGet, "/v1/ledger/entries?from=2024-03-05T00:00:00Z&to=2024-03-04T00:00:00Z", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, router, http.MethodGet, "/v1/ledger/entries", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]ledgerhttpmapper.Entry](t, rec))
}
