package http

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
)

// RidesHandler handles HTTP requests for ride operations
type RidesHandler struct {
	rideUC rides.RideUC
}

// NewRidesHandler creates a new ride HTTP handler
func NewRidesHandler(rideUC rides.RideUC) *RidesHandler {
	return &RidesHandler{rideUC: rideUC}
}

// CreateRide handles a new ride request
func (h *RidesHandler) CreateRide(c echo.Context) error {
	var req models.CreateRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.PassengerID == "" {
		return utils.BadRequestResponse(c, "Passenger ID is required")
	}

	ride, err := h.rideUC.CreateRide(c.Request().Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusCreated, "Ride requested", ride)
}

// GetRide returns a ride by id
func (h *RidesHandler) GetRide(c echo.Context) error {
	ride, err := h.rideUC.GetRideByID(c.Request().Context(), c.Param("rideID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "", ride)
}

// AssignVehicle assigns a vehicle to a requested ride
func (h *RidesHandler) AssignVehicle(c echo.Context) error {
	var req models.AssignVehicleRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.VehicleID == "" {
		return utils.BadRequestResponse(c, "Vehicle ID is required")
	}

	ride, err := h.rideUC.AssignVehicle(c.Request().Context(), c.Param("rideID"), req.VehicleID, req.DriverID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "Vehicle assigned", ride)
}

// StartRide marks an accepted ride as in progress
func (h *RidesHandler) StartRide(c echo.Context) error {
	ride, err := h.rideUC.StartRide(c.Request().Context(), c.Param("rideID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "Ride started", ride)
}

// CompleteRide marks an in-progress ride as finished
func (h *RidesHandler) CompleteRide(c echo.Context) error {
	ride, err := h.rideUC.CompleteRide(c.Request().Context(), c.Param("rideID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "Ride completed", ride)
}

// CancelRide cancels a ride that has not started
func (h *RidesHandler) CancelRide(c echo.Context) error {
	var req models.CancelRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	ride, err := h.rideUC.CancelRide(c.Request().Context(), c.Param("rideID"), req.Reason)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "Ride cancelled", ride)
}

// DeleteRide removes a ride record
func (h *RidesHandler) DeleteRide(c echo.Context) error {
	if err := h.rideUC.DeleteRide(c.Request().Context(), c.Param("rideID")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "Ride deleted", nil)
}

// GetActiveRideByPassenger resolves a passenger's current ride
func (h *RidesHandler) GetActiveRideByPassenger(c echo.Context) error {
	ride, err := h.rideUC.GetActiveRideByPassenger(c.Request().Context(), c.Param("passengerID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "", ride)
}

// GetActiveRideByDriver resolves a driver's current ride
func (h *RidesHandler) GetActiveRideByDriver(c echo.Context) error {
	ride, err := h.rideUC.GetActiveRideByDriver(c.Request().Context(), c.Param("driverID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "", ride)
}

// GetActiveRideByVehicle resolves a vehicle's current ride
func (h *RidesHandler) GetActiveRideByVehicle(c echo.Context) error {
	ride, err := h.rideUC.GetActiveRideByVehicle(c.Request().Context(), c.Param("vehicleID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, nethttp.StatusOK, "", ride)
}
