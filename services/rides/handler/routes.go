package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
	httpHandler "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/handler/http"
)

// Handler combines all handlers for the rides service
type Handler struct {
	ridesHTTP *httpHandler.RidesHandler
}

// NewHandler creates a new combined handler
func NewHandler(rideUC rides.RideUC) *Handler {
	return &Handler{
		ridesHTTP: httpHandler.NewRidesHandler(rideUC),
	}
}

// RegisterRoutes registers all ride HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/rides")
	group.POST("", h.ridesHTTP.CreateRide)
	group.GET("/:rideID", h.ridesHTTP.GetRide)
	group.POST("/:rideID/assign", h.ridesHTTP.AssignVehicle)
	group.POST("/:rideID/start", h.ridesHTTP.StartRide)
	group.POST("/:rideID/complete", h.ridesHTTP.CompleteRide)
	group.POST("/:rideID/cancel", h.ridesHTTP.CancelRide)
	group.DELETE("/:rideID", h.ridesHTTP.DeleteRide)

	active := group.Group("/active")
	active.GET("/passenger/:passengerID", h.ridesHTTP.GetActiveRideByPassenger)
	active.GET("/driver/:driverID", h.ridesHTTP.GetActiveRideByDriver)
	active.GET("/vehicle/:vehicleID", h.ridesHTTP.GetActiveRideByVehicle)
}
