package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	driverhttpmapper "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/http/mapper"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

// DriverAPI exposes the driver registry.
type DriverAPI struct {
	service driverports.Service
}

func NewDriverAPI(service driverports.Service) DriverAPI {
	return DriverAPI{service: service}
}

// Get /v1/drivers
// List drivers
func (api *DriverAPI) ListDrivers(c *gin.Context) {
	drivers, err := api.service.ListDrivers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromDomainDrivers(drivers))
}

// Get /v1/drivers/candidates
// Drivers who can take a task, least busy first
func (api *DriverAPI) Candidates(c *gin.Context) {
	drivers, err := api.service.Candidates(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromDomainDrivers(drivers))
}

// Get /v1/drivers/:driverId
// Find driver by id
func (api *DriverAPI) GetDriver(c *gin.Context) {
	driver, err := api.service.GetDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromDomainDriver(driver))
}

// Put /v1/drivers/:driverId
// Register a driver or update contact details
func (api *DriverAPI) RegisterDriver(c *gin.Context) {
	var payload driverhttpmapper.Driver
	payload.ID = c.Param("driverId")
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	payload.ID = c.Param("driverId")
	driver, err := api.service.Register(c.Request.Context(), driverhttpmapper.ToDomainDriver(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverhttpmapper.FromDomainDriver(driver))
}
