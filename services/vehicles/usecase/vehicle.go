package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles"
)

// VehicleUC implements the vehicle availability manager
type VehicleUC struct {
	cfg         *models.Config
	vehicleRepo vehicles.VehicleRepo
	drivers     vehicles.DriverChecker
	activeRides vehicles.ActiveRideChecker
	vehicleGW   vehicles.VehicleGW
}

// NewVehicleUC creates a new vehicle usecase
func NewVehicleUC(
	cfg *models.Config,
	vehicleRepo vehicles.VehicleRepo,
	drivers vehicles.DriverChecker,
	activeRides vehicles.ActiveRideChecker,
	vehicleGW vehicles.VehicleGW,
) *VehicleUC {
	return &VehicleUC{
		cfg:         cfg,
		vehicleRepo: vehicleRepo,
		drivers:     drivers,
		activeRides: activeRides,
		vehicleGW:   vehicleGW,
	}
}

// CreateVehicle registers a new vehicle for an existing driver
func (uc *VehicleUC) CreateVehicle(ctx context.Context, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	exists, err := uc.drivers.DriverExists(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("driver %s: %w", req.DriverID, domain.ErrNotFound)
	}

	availability := req.Availability
	if availability == "" {
		availability = models.VehicleOffline
	}
	if !availability.IsValid() {
		return nil, fmt.Errorf("unknown availability %q", availability)
	}

	vehicle := &models.Vehicle{
		ID:           uuid.New().String(),
		DriverID:     req.DriverID,
		Make:         req.Make,
		Model:        req.Model,
		Registration: req.Registration,
		Availability: availability,
		Location:     req.Location,
	}

	if err := uc.vehicleRepo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	logger.Info("vehicle created", logger.Fields{
		"vehicle_id":   vehicle.ID,
		"driver_id":    vehicle.DriverID,
		"availability": vehicle.Availability,
	})

	if availability == models.VehicleAvailable && vehicle.Location != nil {
		uc.notifyAvailable(ctx, vehicle.ID, vehicle.Location)
	}

	return vehicle, nil
}

// GetVehicleByID returns a vehicle with its current coordinates
func (uc *VehicleUC) GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return uc.vehicleRepo.GetVehicle(ctx, id)
}

// ListVehicles returns every registered vehicle
func (uc *VehicleUC) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return uc.vehicleRepo.ListVehicles(ctx)
}

// GetDriverForVehicle resolves a vehicle to the driver it is registered to
func (uc *VehicleUC) GetDriverForVehicle(ctx context.Context, vehicleID string) (*models.Driver, error) {
	vehicle, err := uc.vehicleRepo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return uc.drivers.GetDriver(ctx, vehicle.DriverID)
}

// GetNearbyVehicles queries the available bucket for vehicles around a point,
// ascending by distance
func (uc *VehicleUC) GetNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64, maxCount int) ([]models.NearbyVehicle, error) {
	center := models.Location{Latitude: lat, Longitude: lng}
	return uc.vehicleRepo.NearbyInBucket(ctx, models.VehicleAvailable, center, radiusKm, maxCount)
}

// SetAvailability moves a vehicle between availability buckets. The hash
// update and the bucket move commit as one conditional write, so a vehicle
// is visible in at most one bucket at all times. An unchanged status is a
// no-op.
func (uc *VehicleUC) SetAvailability(ctx context.Context, id string, availability models.VehicleAvailability) (*models.Vehicle, error) {
	if !availability.IsValid() {
		return nil, fmt.Errorf("unknown availability %q", availability)
	}

	vehicle, changed, err := uc.vehicleRepo.TransitionAvailability(ctx, id, nil, availability)
	if err != nil {
		return nil, err
	}
	if !changed {
		return vehicle, nil
	}

	logger.Info("vehicle availability changed", logger.Fields{
		"vehicle_id": id,
		"to":         availability,
	})

	if availability == models.VehicleAvailable {
		uc.notifyAvailable(ctx, id, vehicle.Location)
	}

	return vehicle, nil
}

// OccupyVehicle conditionally moves an available vehicle to occupied. The
// transition only commits while the vehicle is still available, so two rides
// racing over one vehicle resolve to a single winner; the loser gets
// ErrVehicleInUse.
func (uc *VehicleUC) OccupyVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, _, err := uc.vehicleRepo.TransitionAvailability(ctx, id,
		[]models.VehicleAvailability{models.VehicleAvailable}, models.VehicleOccupied)
	if err != nil {
		return nil, err
	}

	logger.Info("vehicle occupied", logger.Fields{"vehicle_id": id})
	return vehicle, nil
}

// SetLocation updates a vehicle's coordinates, re-bucketing it first when the
// requested availability differs from the current one
func (uc *VehicleUC) SetLocation(ctx context.Context, id string, location models.Location, availability models.VehicleAvailability) (*models.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if availability == "" {
		availability = vehicle.Availability
	}
	if !availability.IsValid() {
		return nil, fmt.Errorf("unknown availability %q", availability)
	}

	becameAvailable := false
	if vehicle.Availability != availability {
		// remove from the old bucket first so the vehicle never appears in two
		if _, err := uc.vehicleRepo.RemoveFromBucket(ctx, vehicle.Availability, id); err != nil {
			return nil, err
		}
		becameAvailable = availability == models.VehicleAvailable
	}

	if err := uc.vehicleRepo.UpsertBucket(ctx, availability, id, location); err != nil {
		return nil, err
	}
	if err := uc.vehicleRepo.UpdateLocationFields(ctx, id, location); err != nil {
		return nil, err
	}
	if vehicle.Availability != availability {
		if err := uc.vehicleRepo.UpdateAvailability(ctx, id, availability); err != nil {
			return nil, err
		}
	}

	vehicle.Availability = availability
	vehicle.Location = &location

	if becameAvailable {
		uc.notifyAvailable(ctx, id, &location)
	}

	return vehicle, nil
}

// DeleteVehicle removes a vehicle unless an active ride still references it
func (uc *VehicleUC) DeleteVehicle(ctx context.Context, id string) error {
	inUse, err := uc.activeRides.HasActiveRide(ctx, models.ActorVehicle, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("vehicle %s: %w", id, domain.ErrVehicleInUse)
	}
	return uc.vehicleRepo.DeleteVehicle(ctx, id)
}

// notifyAvailable publishes a wake-up event for waiting dispatch loops.
// Publishing is best-effort: dispatch falls back to its backoff interval.
func (uc *VehicleUC) notifyAvailable(ctx context.Context, vehicleID string, location *models.Location) {
	if uc.vehicleGW == nil {
		return
	}
	event := models.VehicleAvailableEvent{VehicleID: vehicleID, Location: location}
	if err := uc.vehicleGW.PublishVehicleAvailable(ctx, event); err != nil {
		logger.Warn("failed to publish vehicle available event", logger.Fields{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
	}
}
