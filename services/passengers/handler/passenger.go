package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/passengers"
)

// PassengerHandler handles HTTP requests for passenger operations
type PassengerHandler struct {
	passengerUC passengers.PassengerUC
}

// NewPassengerHandler creates a new passenger handler
func NewPassengerHandler(passengerUC passengers.PassengerUC) *PassengerHandler {
	return &PassengerHandler{passengerUC: passengerUC}
}

// RegisterRoutes registers all passenger HTTP routes
func (h *PassengerHandler) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/passengers")
	group.POST("", h.CreatePassenger)
	group.GET("", h.ListPassengers)
	group.GET("/:passengerID", h.GetPassenger)
	group.PUT("/:passengerID", h.UpdatePassenger)
	group.DELETE("/:passengerID", h.DeletePassenger)
}

// CreatePassenger registers a new passenger
func (h *PassengerHandler) CreatePassenger(c echo.Context) error {
	var req models.PassengerRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	passenger, err := h.passengerUC.CreatePassenger(c.Request().Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Passenger created", passenger)
}

// ListPassengers returns all registered passengers
func (h *PassengerHandler) ListPassengers(c echo.Context) error {
	list, err := h.passengerUC.ListPassengers(c.Request().Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// GetPassenger returns a passenger by id
func (h *PassengerHandler) GetPassenger(c echo.Context) error {
	passenger, err := h.passengerUC.GetPassengerByID(c.Request().Context(), c.Param("passengerID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", passenger)
}

// UpdatePassenger updates a passenger's name
func (h *PassengerHandler) UpdatePassenger(c echo.Context) error {
	var req models.PassengerRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	passenger, err := h.passengerUC.UpdatePassenger(c.Request().Context(), c.Param("passengerID"), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Passenger updated", passenger)
}

// DeletePassenger removes a passenger
func (h *PassengerHandler) DeletePassenger(c echo.Context) error {
	if err := h.passengerUC.DeletePassenger(c.Request().Context(), c.Param("passengerID")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Passenger deleted", nil)
}
