package drivers

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// DriverRepo defines persistence for driver reference entities
type DriverRepo interface {
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, id string) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, driver *models.Driver) error
	DeleteDriver(ctx context.Context, id string) error
	DriverExists(ctx context.Context, id string) (bool, error)
}
