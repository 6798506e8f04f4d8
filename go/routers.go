package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers of every API section.
type ApiHandleFunctions struct {
	OrderAPI  OrderAPI
	TaskAPI   TaskAPI
	DriverAPI DriverAPI
	LedgerAPI LedgerAPI
	FlowAPI   FlowAPI
}

// NewRouter returns a new router. Middleware is installed before the API
// routes so every route runs through it.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"CreateOrder", http.MethodPost, "/v1/orders", h.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/v1/orders", h.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", h.OrderAPI.GetOrder},
		{"AdvanceOrder", http.MethodPost, "/v1/orders/:orderId/advance", h.OrderAPI.Advance},
		{"RegressOrder", http.MethodPost, "/v1/orders/:orderId/regress", h.OrderAPI.Regress},
		{"HandOffOrder", http.MethodPost, "/v1/orders/:orderId/handoff", h.OrderAPI.MarkHandedOffAtStore},
		{"CollectPayment", http.MethodPost, "/v1/orders/:orderId/payment", h.OrderAPI.CollectPaymentAndComplete},
		{"AssignDriver", http.MethodPut, "/v1/orders/:orderId/tasks/:kind/driver", h.TaskAPI.AssignDriver},
		{"StartTask", http.MethodPost, "/v1/orders/:orderId/tasks/:kind/start", h.TaskAPI.StartTask},
		{"CompleteTask", http.MethodPost, "/v1/orders/:orderId/tasks/:kind/complete", h.TaskAPI.CompleteTask},
		{"ListTasks", http.MethodGet, "/v1/tasks", h.TaskAPI.ListTasks},
		{"ListDrivers", http.MethodGet, "/v1/drivers", h.DriverAPI.ListDrivers},
		{"DriverCandidates", http.MethodGet, "/v1/drivers/candidates", h.DriverAPI.Candidates},
		{"GetDriver", http.MethodGet, "/v1/drivers/:driverId", h.DriverAPI.GetDriver},
		{"RegisterDriver", http.MethodPut, "/v1/drivers/:driverId", h.DriverAPI.RegisterDriver},
		{"ListLedgerEntries", http.MethodGet, "/v1/ledger/entries", h.LedgerAPI.ListEntries},
		{"LedgerSummary", http.MethodGet, "/v1/ledger/summary", h.LedgerAPI.Summary},
		{"GetFlow", http.MethodGet, "/v1/flow", h.FlowAPI.GetFlow},
		{"ReplaceFlow", http.MethodPut, "/v1/flow", h.FlowAPI.ReplaceFlow},
	}
}
