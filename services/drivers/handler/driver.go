package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/drivers"
)

// DriverHandler handles HTTP requests for driver operations
type DriverHandler struct {
	driverUC drivers.DriverUC
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(driverUC drivers.DriverUC) *DriverHandler {
	return &DriverHandler{driverUC: driverUC}
}

// RegisterRoutes registers all driver HTTP routes
func (h *DriverHandler) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/drivers")
	group.POST("", h.CreateDriver)
	group.GET("", h.ListDrivers)
	group.GET("/:driverID", h.GetDriver)
	group.PUT("/:driverID", h.UpdateDriver)
	group.DELETE("/:driverID", h.DeleteDriver)
}

// CreateDriver registers a new driver
func (h *DriverHandler) CreateDriver(c echo.Context) error {
	var req models.DriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driver, err := h.driverUC.CreateDriver(c.Request().Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Driver created", driver)
}

// ListDrivers returns all registered drivers
func (h *DriverHandler) ListDrivers(c echo.Context) error {
	list, err := h.driverUC.ListDrivers(c.Request().Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// GetDriver returns a driver by id
func (h *DriverHandler) GetDriver(c echo.Context) error {
	driver, err := h.driverUC.GetDriverByID(c.Request().Context(), c.Param("driverID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", driver)
}

// UpdateDriver updates a driver's name
func (h *DriverHandler) UpdateDriver(c echo.Context) error {
	var req models.DriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driver, err := h.driverUC.UpdateDriver(c.Request().Context(), c.Param("driverID"), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver updated", driver)
}

// DeleteDriver removes a driver
func (h *DriverHandler) DeleteDriver(c echo.Context) error {
	if err := h.driverUC.DeleteDriver(c.Request().Context(), c.Param("driverID")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver deleted", nil)
}
