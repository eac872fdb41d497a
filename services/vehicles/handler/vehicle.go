package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles"
)

// Defaults for nearby queries when the caller omits them
const (
	defaultNearbyRadiusKm = 5.0
	defaultNearbyCount    = 10
)

// VehicleHandler handles HTTP requests for vehicle operations
type VehicleHandler struct {
	vehicleUC vehicles.VehicleUC
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleUC vehicles.VehicleUC) *VehicleHandler {
	return &VehicleHandler{vehicleUC: vehicleUC}
}

// RegisterRoutes registers all vehicle HTTP routes
func (h *VehicleHandler) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/vehicles")
	group.POST("", h.CreateVehicle)
	group.GET("", h.ListVehicles)
	group.GET("/nearby", h.GetNearbyVehicles)
	group.GET("/:vehicleID", h.GetVehicle)
	group.GET("/:vehicleID/driver", h.GetDriverForVehicle)
	group.PUT("/:vehicleID/location", h.UpdateLocation)
	group.PUT("/:vehicleID/availability", h.UpdateAvailability)
	group.DELETE("/:vehicleID", h.DeleteVehicle)
}

// CreateVehicle registers a new vehicle
func (h *VehicleHandler) CreateVehicle(c echo.Context) error {
	var req models.CreateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.DriverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	vehicle, err := h.vehicleUC.CreateVehicle(c.Request().Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Vehicle created", vehicle)
}

// GetVehicle returns a vehicle by id
func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	vehicle, err := h.vehicleUC.GetVehicleByID(c.Request().Context(), c.Param("vehicleID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", vehicle)
}

// ListVehicles returns all registered vehicles
func (h *VehicleHandler) ListVehicles(c echo.Context) error {
	list, err := h.vehicleUC.ListVehicles(c.Request().Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// GetDriverForVehicle returns the driver a vehicle is registered to
func (h *VehicleHandler) GetDriverForVehicle(c echo.Context) error {
	driver, err := h.vehicleUC.GetDriverForVehicle(c.Request().Context(), c.Param("vehicleID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", driver)
}

// GetNearbyVehicles returns available vehicles around a point, nearest first
func (h *VehicleHandler) GetNearbyVehicles(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil {
		return utils.BadRequestResponse(c, "lat and lng query parameters are required")
	}

	radiusKm := defaultNearbyRadiusKm
	if v := c.QueryParam("radius_km"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			radiusKm = parsed
		}
	}
	count := defaultNearbyCount
	if v := c.QueryParam("count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			count = parsed
		}
	}

	nearby, err := h.vehicleUC.GetNearbyVehicles(c.Request().Context(), lat, lng, radiusKm, count)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", nearby)
}

// UpdateLocation updates a vehicle's coordinates and optionally its availability
func (h *VehicleHandler) UpdateLocation(c echo.Context) error {
	var req models.UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.Latitude == nil || req.Longitude == nil {
		return utils.BadRequestResponse(c, "Latitude and longitude are required")
	}

	location := models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	vehicle, err := h.vehicleUC.SetLocation(c.Request().Context(), c.Param("vehicleID"), location, req.Availability)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Location updated", vehicle)
}

// UpdateAvailability moves a vehicle to a different availability state
func (h *VehicleHandler) UpdateAvailability(c echo.Context) error {
	var req models.UpdateAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.Availability == "" {
		return utils.BadRequestResponse(c, "Availability is required")
	}

	vehicle, err := h.vehicleUC.SetAvailability(c.Request().Context(), c.Param("vehicleID"), req.Availability)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Availability updated", vehicle)
}

// DeleteVehicle removes a vehicle
func (h *VehicleHandler) DeleteVehicle(c echo.Context) error {
	if err := h.vehicleUC.DeleteVehicle(c.Request().Context(), c.Param("vehicleID")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted", nil)
}
