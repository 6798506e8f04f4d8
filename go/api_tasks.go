package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/freshfold/laundry-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

// TaskAPI exposes the pickup and delivery sub-workflows to drivers and dispatch.
type TaskAPI struct {
	service ordersports.Service
}

func NewTaskAPI(service ordersports.Service) TaskAPI {
	return TaskAPI{service: service}
}

// Get /v1/tasks
// List driver tasks projected from orders
func (api *TaskAPI) ListTasks(c *gin.Context) {
	input := orderstypes.ListTasksInput{
		Kind:     c.Query("kind"),
		DriverID: c.Query("driverId"),
		OpenOnly: c.Query("open") == "true",
	}
	tasks, err := api.service.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainTasks(tasks))
}

// Put /v1/orders/:orderId/tasks/:kind/driver
// Assign a driver to the pickup or delivery
func (api *TaskAPI) AssignDriver(c *gin.Context) {
	ref, ok := taskRef(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.Assignment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.AssignDriver(c.Request.Context(), orderstypes.AssignDriverInput{Task: ref, DriverID: payload.DriverID})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

// Post /v1/orders/:orderId/tasks/:kind/start
// Driver sets off
func (api *TaskAPI) StartTask(c *gin.Context) {
	ref, ok := taskRef(c)
	if !ok {
		return
	}
	order, err := api.service.StartTask(c.Request.Context(), ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

// Post /v1/orders/:orderId/tasks/:kind/complete
// Driver finishes the trip
func (api *TaskAPI) CompleteTask(c *gin.Context) {
	ref, ok := taskRef(c)
	if !ok {
		return
	}
	order, err := api.service.CompleteTask(c.Request.Context(), ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOrder(c, http.StatusOK, order)
}

func taskRef(c *gin.Context) (orderstypes.TaskRef, bool) {
	kind, err := domain.ParseTaskKind(c.Param("kind"))
	if err != nil {
		respondBadRequest(c, err)
		return orderstypes.TaskRef{}, false
	}
	ref, ok := orderRef(c)
	if !ok {
		return orderstypes.TaskRef{}, false
	}
	return orderstypes.TaskRef{OrderID: ref.ID, Kind: kind, Version: ref.Version}, true
}
