package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/drivers"
)

// DriverUC implements driver operations
type DriverUC struct {
	driverRepo  drivers.DriverRepo
	activeRides drivers.ActiveRideChecker
}

// NewDriverUC creates a new driver usecase
func NewDriverUC(driverRepo drivers.DriverRepo, activeRides drivers.ActiveRideChecker) *DriverUC {
	return &DriverUC{driverRepo: driverRepo, activeRides: activeRides}
}

// CreateDriver registers a new driver
func (uc *DriverUC) CreateDriver(ctx context.Context, req models.DriverRequest) (*models.Driver, error) {
	driver := &models.Driver{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := uc.driverRepo.CreateDriver(ctx, driver); err != nil {
		return nil, err
	}

	logger.Info("driver created", logger.Fields{"driver_id": driver.ID})
	return driver, nil
}

// GetDriverByID returns a driver by id
func (uc *DriverUC) GetDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	return uc.driverRepo.GetDriver(ctx, id)
}

// ListDrivers returns all registered drivers
func (uc *DriverUC) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	return uc.driverRepo.ListDrivers(ctx)
}

// UpdateDriver updates a driver's name
func (uc *DriverUC) UpdateDriver(ctx context.Context, id string, req models.DriverRequest) (*models.Driver, error) {
	driver, err := uc.driverRepo.GetDriver(ctx, id)
	if err != nil {
		return nil, err
	}

	driver.FirstName = req.FirstName
	driver.LastName = req.LastName
	if err := uc.driverRepo.UpdateDriver(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver removes a driver unless an active ride still references them
func (uc *DriverUC) DeleteDriver(ctx context.Context, id string) error {
	inUse, err := uc.activeRides.HasActiveRide(ctx, models.ActorDriver, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("driver %s: %w", id, domain.ErrVehicleInUse)
	}
	return uc.driverRepo.DeleteDriver(ctx, id)
}

// DriverExists reports whether a driver exists
func (uc *DriverUC) DriverExists(ctx context.Context, id string) (bool, error) {
	return uc.driverRepo.DriverExists(ctx, id)
}
