package passengers

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// PassengerRepo defines persistence for passenger reference entities
type PassengerRepo interface {
	CreatePassenger(ctx context.Context, passenger *models.Passenger) error
	GetPassenger(ctx context.Context, id string) (*models.Passenger, error)
	ListPassengers(ctx context.Context) ([]*models.Passenger, error)
	UpdatePassenger(ctx context.Context, passenger *models.Passenger) error
	DeletePassenger(ctx context.Context, id string) error
	PassengerExists(ctx context.Context, id string) (bool, error)
}
