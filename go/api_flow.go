package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/freshfold/laundry-api/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

// FlowAPI reads and rewrites the pipeline configuration.
type FlowAPI struct {
	service ordersports.Service
}

func NewFlowAPI(service ordersports.Service) FlowAPI {
	return FlowAPI{service: service}
}

// Get /v1/flow
// Current pipeline steps in order
func (api *FlowAPI) GetFlow(c *gin.Context) {
	steps, err := api.service.FlowSteps(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainSteps(steps))
}

// Put /v1/flow
// Replace the pipeline configuration; required steps stay active
func (api *FlowAPI) ReplaceFlow(c *gin.Context) {
	var payload []orderhttpmapper.Step
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	steps, err := api.service.ReplaceFlow(c.Request.Context(), orderhttpmapper.ToDomainSteps(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainSteps(steps))
}
