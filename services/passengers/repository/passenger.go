package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/passengers"
)

type passengerRepo struct {
	redisClient *database.RedisClient
}

// NewPassengerRepository creates a new passenger repository
func NewPassengerRepository(redisClient *database.RedisClient) passengers.PassengerRepo {
	return &passengerRepo{redisClient: redisClient}
}

func passengerKey(id string) string {
	return fmt.Sprintf(constants.KeyPassenger, id)
}

func (r *passengerRepo) CreatePassenger(ctx context.Context, passenger *models.Passenger) error {
	fields := map[string]interface{}{
		constants.FieldID:        passenger.ID,
		constants.FieldFirstName: passenger.FirstName,
		constants.FieldLastName:  passenger.LastName,
	}
	if err := r.redisClient.HSetFields(ctx, passengerKey(passenger.ID), fields); err != nil {
		return fmt.Errorf("failed to store passenger: %w", err)
	}
	return nil
}

func (r *passengerRepo) GetPassenger(ctx context.Context, id string) (*models.Passenger, error) {
	data, err := r.redisClient.HGetAll(ctx, passengerKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("passenger %s: %w", id, domain.ErrNotFound)
	}
	return &models.Passenger{
		ID:        data[constants.FieldID],
		FirstName: data[constants.FieldFirstName],
		LastName:  data[constants.FieldLastName],
	}, nil
}

func (r *passengerRepo) ListPassengers(ctx context.Context) ([]*models.Passenger, error) {
	keys, err := r.redisClient.ScanKeys(ctx, "passengers:*")
	if err != nil {
		return nil, fmt.Errorf("failed to list passengers: %w", err)
	}

	list := make([]*models.Passenger, 0, len(keys))
	for _, key := range keys {
		// Skip active-ride entries living under the same prefix
		if strings.Contains(key, ":active-ride") {
			continue
		}
		data, err := r.redisClient.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read passenger %s: %w", key, err)
		}
		if len(data) == 0 {
			continue
		}
		list = append(list, &models.Passenger{
			ID:        data[constants.FieldID],
			FirstName: data[constants.FieldFirstName],
			LastName:  data[constants.FieldLastName],
		})
	}
	return list, nil
}

func (r *passengerRepo) UpdatePassenger(ctx context.Context, passenger *models.Passenger) error {
	fields := map[string]interface{}{
		constants.FieldFirstName: passenger.FirstName,
		constants.FieldLastName:  passenger.LastName,
	}
	if err := r.redisClient.HSetFields(ctx, passengerKey(passenger.ID), fields); err != nil {
		return fmt.Errorf("failed to update passenger: %w", err)
	}
	return nil
}

func (r *passengerRepo) DeletePassenger(ctx context.Context, id string) error {
	if err := r.redisClient.Delete(ctx, passengerKey(id)); err != nil {
		return fmt.Errorf("failed to delete passenger: %w", err)
	}
	return nil
}

func (r *passengerRepo) PassengerExists(ctx context.Context, id string) (bool, error) {
	exists, err := r.redisClient.Exists(ctx, passengerKey(id))
	if err != nil {
		return false, fmt.Errorf("failed to check passenger: %w", err)
	}
	return exists, nil
}
