package vehicles

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// VehicleRepo defines persistence for vehicle records and the
// availability-partitioned geo index
type VehicleRepo interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
	UpdateAvailability(ctx context.Context, id string, availability models.VehicleAvailability) error
	UpdateLocationFields(ctx context.Context, id string, location models.Location) error
	// TransitionAvailability moves the vehicle to next under optimistic
	// locking on the vehicle key, only while its current availability is one
	// of expected (any when expected is empty). It reports whether the
	// availability actually changed; a failed precondition yields
	// ErrVehicleInUse.
	TransitionAvailability(ctx context.Context, id string, expected []models.VehicleAvailability, next models.VehicleAvailability) (*models.Vehicle, bool, error)

	UpsertBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string, location models.Location) error
	RemoveFromBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string) (bool, error)
	NearbyInBucket(ctx context.Context, bucket models.VehicleAvailability, center models.Location, radiusKm float64, maxCount int) ([]models.NearbyVehicle, error)
	PositionInBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string) (*models.Location, error)
}
