package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/drivers"
)

type driverRepo struct {
	redisClient *database.RedisClient
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(redisClient *database.RedisClient) drivers.DriverRepo {
	return &driverRepo{redisClient: redisClient}
}

func driverKey(id string) string {
	return fmt.Sprintf(constants.KeyDriver, id)
}

func (r *driverRepo) CreateDriver(ctx context.Context, driver *models.Driver) error {
	fields := map[string]interface{}{
		constants.FieldID:        driver.ID,
		constants.FieldFirstName: driver.FirstName,
		constants.FieldLastName:  driver.LastName,
	}
	if err := r.redisClient.HSetFields(ctx, driverKey(driver.ID), fields); err != nil {
		return fmt.Errorf("failed to store driver: %w", err)
	}
	return nil
}

func (r *driverRepo) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	data, err := r.redisClient.HGetAll(ctx, driverKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("driver %s: %w", id, domain.ErrNotFound)
	}
	return &models.Driver{
		ID:        data[constants.FieldID],
		FirstName: data[constants.FieldFirstName],
		LastName:  data[constants.FieldLastName],
	}, nil
}

func (r *driverRepo) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	keys, err := r.redisClient.ScanKeys(ctx, "drivers:*")
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	list := make([]*models.Driver, 0, len(keys))
	for _, key := range keys {
		// Skip active-ride entries living under the same prefix
		if strings.Contains(key, ":active-ride") {
			continue
		}
		data, err := r.redisClient.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read driver %s: %w", key, err)
		}
		if len(data) == 0 {
			continue
		}
		list = append(list, &models.Driver{
			ID:        data[constants.FieldID],
			FirstName: data[constants.FieldFirstName],
			LastName:  data[constants.FieldLastName],
		})
	}
	return list, nil
}

func (r *driverRepo) UpdateDriver(ctx context.Context, driver *models.Driver) error {
	fields := map[string]interface{}{
		constants.FieldFirstName: driver.FirstName,
		constants.FieldLastName:  driver.LastName,
	}
	if err := r.redisClient.HSetFields(ctx, driverKey(driver.ID), fields); err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	return nil
}

func (r *driverRepo) DeleteDriver(ctx context.Context, id string) error {
	if err := r.redisClient.Delete(ctx, driverKey(id)); err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	return nil
}

func (r *driverRepo) DriverExists(ctx context.Context, id string) (bool, error) {
	exists, err := r.redisClient.Exists(ctx, driverKey(id))
	if err != nil {
		return false, fmt.Errorf("failed to check driver: %w", err)
	}
	return exists, nil
}
