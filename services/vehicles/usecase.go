package vehicles

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// VehicleUC defines the vehicle availability manager operations
type VehicleUC interface {
	CreateVehicle(ctx context.Context, req models.CreateVehicleRequest) (*models.Vehicle, error)
	GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	GetDriverForVehicle(ctx context.Context, vehicleID string) (*models.Driver, error)
	GetNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64, maxCount int) ([]models.NearbyVehicle, error)
	SetLocation(ctx context.Context, id string, location models.Location, availability models.VehicleAvailability) (*models.Vehicle, error)
	SetAvailability(ctx context.Context, id string, availability models.VehicleAvailability) (*models.Vehicle, error)
	OccupyVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// DriverChecker resolves the drivers referenced by vehicles
type DriverChecker interface {
	DriverExists(ctx context.Context, driverID string) (bool, error)
	GetDriver(ctx context.Context, driverID string) (*models.Driver, error)
}

// ActiveRideChecker reports whether an actor is referenced by an active ride
type ActiveRideChecker interface {
	HasActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (bool, error)
}
