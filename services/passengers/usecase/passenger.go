package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/passengers"
)

// PassengerUC implements passenger operations
type PassengerUC struct {
	passengerRepo passengers.PassengerRepo
}

// NewPassengerUC creates a new passenger usecase
func NewPassengerUC(passengerRepo passengers.PassengerRepo) *PassengerUC {
	return &PassengerUC{passengerRepo: passengerRepo}
}

// CreatePassenger registers a new passenger
func (uc *PassengerUC) CreatePassenger(ctx context.Context, req models.PassengerRequest) (*models.Passenger, error) {
	passenger := &models.Passenger{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := uc.passengerRepo.CreatePassenger(ctx, passenger); err != nil {
		return nil, err
	}

	logger.Info("passenger created", logger.Fields{"passenger_id": passenger.ID})
	return passenger, nil
}

// GetPassengerByID returns a passenger by id
func (uc *PassengerUC) GetPassengerByID(ctx context.Context, id string) (*models.Passenger, error) {
	return uc.passengerRepo.GetPassenger(ctx, id)
}

// ListPassengers returns all registered passengers
func (uc *PassengerUC) ListPassengers(ctx context.Context) ([]*models.Passenger, error) {
	return uc.passengerRepo.ListPassengers(ctx)
}

// UpdatePassenger updates a passenger's name
func (uc *PassengerUC) UpdatePassenger(ctx context.Context, id string, req models.PassengerRequest) (*models.Passenger, error) {
	passenger, err := uc.passengerRepo.GetPassenger(ctx, id)
	if err != nil {
		return nil, err
	}

	passenger.FirstName = req.FirstName
	passenger.LastName = req.LastName
	if err := uc.passengerRepo.UpdatePassenger(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

// DeletePassenger removes a passenger
func (uc *PassengerUC) DeletePassenger(ctx context.Context, id string) error {
	return uc.passengerRepo.DeletePassenger(ctx, id)
}

// PassengerExists reports whether a passenger exists
func (uc *PassengerUC) PassengerExists(ctx context.Context, id string) (bool, error) {
	return uc.passengerRepo.PassengerExists(ctx, id)
}
