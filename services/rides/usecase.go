package rides

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// RideUC defines the ride lifecycle manager operations
type RideUC interface {
	CreateRide(ctx context.Context, req models.CreateRideRequest) (*models.Ride, error)
	GetRideByID(ctx context.Context, id string) (*models.Ride, error)
	AssignVehicle(ctx context.Context, rideID, vehicleID, driverID string) (*models.Ride, error)
	StartRide(ctx context.Context, rideID string) (*models.Ride, error)
	CompleteRide(ctx context.Context, rideID string) (*models.Ride, error)
	CancelRide(ctx context.Context, rideID, reason string) (*models.Ride, error)
	DeleteRide(ctx context.Context, rideID string) error
	GetActiveRideByPassenger(ctx context.Context, passengerID string) (*models.Ride, error)
	GetActiveRideByDriver(ctx context.Context, driverID string) (*models.Ride, error)
	GetActiveRideByVehicle(ctx context.Context, vehicleID string) (*models.Ride, error)
}

// PassengerChecker verifies a referenced passenger exists
type PassengerChecker interface {
	PassengerExists(ctx context.Context, passengerID string) (bool, error)
}

// VehicleManager is the slice of the vehicle service the ride lifecycle needs
// to keep vehicle availability consistent with ride transitions
type VehicleManager interface {
	GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	// OccupyVehicle conditionally moves an available vehicle to occupied,
	// failing with ErrVehicleInUse when another ride took it first
	OccupyVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	SetAvailability(ctx context.Context, id string, availability models.VehicleAvailability) (*models.Vehicle, error)
}
