package drivers

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// DriverUC defines driver operations
type DriverUC interface {
	CreateDriver(ctx context.Context, req models.DriverRequest) (*models.Driver, error)
	GetDriverByID(ctx context.Context, id string) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, id string, req models.DriverRequest) (*models.Driver, error)
	DeleteDriver(ctx context.Context, id string) error
	DriverExists(ctx context.Context, id string) (bool, error)
}

// ActiveRideChecker reports whether a driver is referenced by an active ride
type ActiveRideChecker interface {
	HasActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (bool, error)
}
