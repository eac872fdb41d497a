package passengers

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// PassengerUC defines passenger operations
type PassengerUC interface {
	CreatePassenger(ctx context.Context, req models.PassengerRequest) (*models.Passenger, error)
	GetPassengerByID(ctx context.Context, id string) (*models.Passenger, error)
	ListPassengers(ctx context.Context) ([]*models.Passenger, error)
	UpdatePassenger(ctx context.Context, id string, req models.PassengerRequest) (*models.Passenger, error)
	DeletePassenger(ctx context.Context, id string) error
	PassengerExists(ctx context.Context, id string) (bool, error)
}
