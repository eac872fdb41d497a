package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
)

// Transition event names, surfaced inside InvalidTransitionError
const (
	eventAssign   = "assign"
	eventStart    = "start"
	eventComplete = "complete"
	eventCancel   = "cancel"
)

// RideUC implements the ride lifecycle manager
type RideUC struct {
	cfg        *models.Config
	rideRepo   rides.RideRepo
	passengers rides.PassengerChecker
	vehicles   rides.VehicleManager
	rideGW     rides.RideGW
}

// NewRideUC creates a new ride usecase
func NewRideUC(
	cfg *models.Config,
	rideRepo rides.RideRepo,
	passengers rides.PassengerChecker,
	vehicles rides.VehicleManager,
	rideGW rides.RideGW,
) *RideUC {
	return &RideUC{
		cfg:        cfg,
		rideRepo:   rideRepo,
		passengers: passengers,
		vehicles:   vehicles,
		rideGW:     rideGW,
	}
}

// CreateRide registers a new ride in requested status, prices it and
// enqueues a dispatch task
func (uc *RideUC) CreateRide(ctx context.Context, req models.CreateRideRequest) (*models.Ride, error) {
	if req.Destination == nil {
		return nil, fmt.Errorf("destination: %w", domain.ErrMissingLocation)
	}

	exists, err := uc.passengers.PassengerExists(ctx, req.PassengerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("passenger %s: %w", req.PassengerID, domain.ErrNotFound)
	}

	ride := &models.Ride{
		ID:            uuid.New().String(),
		PassengerID:   req.PassengerID,
		Status:        models.RideStatusRequested,
		StartLocation: req.Start,
		Destination:   req.Destination,
		Price:         uc.computePrice(req.Start, *req.Destination),
		CreatedAt:     time.Now(),
	}

	if err := uc.rideRepo.CreateRide(ctx, ride); err != nil {
		return nil, err
	}
	if err := uc.rideRepo.SetActiveRide(ctx, models.ActorPassenger, ride.PassengerID, ride.ID); err != nil {
		return nil, err
	}

	logger.Info("ride created", logger.Fields{
		"ride_id":      ride.ID,
		"passenger_id": ride.PassengerID,
		"price":        ride.Price,
	})

	event := models.RideRequestedEvent{
		RideID:        ride.ID,
		PassengerID:   ride.PassengerID,
		StartLocation: ride.StartLocation,
	}
	if err := uc.rideGW.PublishRideRequested(ctx, event); err != nil {
		// The ride record stands; dispatch can still be reached by re-publishing
		logger.Error("failed to publish ride requested event", logger.Fields{
			"ride_id": ride.ID,
			"error":   err.Error(),
		})
	}

	return ride, nil
}

// GetRideByID returns a ride by id
func (uc *RideUC) GetRideByID(ctx context.Context, id string) (*models.Ride, error) {
	return uc.rideRepo.GetRide(ctx, id)
}

// AssignVehicle transitions a requested ride to accepted and marks the
// vehicle occupied. Steps run in a fixed order: ride transition first, then
// the conditional vehicle claim, then the active-ride index. A ride whose
// vehicle claim loses to a concurrent assignment is reverted to requested.
func (uc *RideUC) AssignVehicle(ctx context.Context, rideID, vehicleID, driverID string) (*models.Ride, error) {
	vehicle, err := uc.vehicles.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Availability != models.VehicleAvailable {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleID, domain.ErrVehicleInUse)
	}
	if driverID == "" {
		driverID = vehicle.DriverID
	}

	ride, err := uc.rideRepo.UpdateRideStatus(ctx, rideID,
		[]models.RideStatus{models.RideStatusRequested}, eventAssign,
		func(r *models.Ride) error {
			r.Status = models.RideStatusAccepted
			r.VehicleID = vehicleID
			r.DriverID = driverID
			return nil
		})
	if err != nil {
		return nil, err
	}

	if _, err := uc.vehicles.OccupyVehicle(ctx, vehicleID); err != nil {
		uc.revertAssignment(ctx, rideID)
		return nil, err
	}
	if err := uc.rideRepo.SetActiveRide(ctx, models.ActorDriver, driverID, rideID); err != nil {
		return nil, err
	}
	if err := uc.rideRepo.SetActiveRide(ctx, models.ActorVehicle, vehicleID, rideID); err != nil {
		return nil, err
	}

	logger.Info("vehicle assigned to ride", logger.Fields{
		"ride_id":    rideID,
		"vehicle_id": vehicleID,
		"driver_id":  driverID,
	})

	return ride, nil
}

// StartRide transitions an accepted ride to in progress
func (uc *RideUC) StartRide(ctx context.Context, rideID string) (*models.Ride, error) {
	ride, err := uc.rideRepo.UpdateRideStatus(ctx, rideID,
		[]models.RideStatus{models.RideStatusAccepted}, eventStart,
		func(r *models.Ride) error {
			now := time.Now()
			r.Status = models.RideStatusInProgress
			r.StartingTime = &now
			return nil
		})
	if err != nil {
		return nil, err
	}

	// Re-assert the passenger's active-ride entry; set at creation, this is
	// idempotent
	if err := uc.rideRepo.SetActiveRide(ctx, models.ActorPassenger, ride.PassengerID, rideID); err != nil {
		return nil, err
	}

	logger.Info("ride started", logger.Fields{"ride_id": rideID})
	return ride, nil
}

// CompleteRide transitions an in-progress ride to finished, returns the
// vehicle to the available bucket at its current coordinates and clears all
// active-ride entries
func (uc *RideUC) CompleteRide(ctx context.Context, rideID string) (*models.Ride, error) {
	ride, err := uc.rideRepo.UpdateRideStatus(ctx, rideID,
		[]models.RideStatus{models.RideStatusInProgress}, eventComplete,
		func(r *models.Ride) error {
			if r.VehicleID == "" {
				return fmt.Errorf("ride %s: %w", r.ID, domain.ErrNoVehicleAssigned)
			}
			now := time.Now()
			r.Status = models.RideStatusFinished
			r.CompletionTime = &now
			return nil
		})
	if err != nil {
		return nil, err
	}

	if _, err := uc.vehicles.SetAvailability(ctx, ride.VehicleID, models.VehicleAvailable); err != nil {
		return nil, err
	}
	if err := uc.clearActiveRideRefs(ctx, ride); err != nil {
		return nil, err
	}
	uc.applyRetention(ctx, rideID)

	logger.Info("ride completed", logger.Fields{
		"ride_id":    rideID,
		"vehicle_id": ride.VehicleID,
	})

	return ride, nil
}

// CancelRide cancels a ride that has not started yet. A vehicle already
// assigned is returned to the available bucket.
func (uc *RideUC) CancelRide(ctx context.Context, rideID, reason string) (*models.Ride, error) {
	ride, err := uc.rideRepo.UpdateRideStatus(ctx, rideID,
		[]models.RideStatus{models.RideStatusRequested, models.RideStatusAccepted}, eventCancel,
		func(r *models.Ride) error {
			r.Status = models.RideStatusCancelled
			r.CancelReason = reason
			return nil
		})
	if err != nil {
		return nil, err
	}

	if ride.VehicleID != "" {
		if _, err := uc.vehicles.SetAvailability(ctx, ride.VehicleID, models.VehicleAvailable); err != nil {
			return nil, err
		}
	}
	if err := uc.clearActiveRideRefs(ctx, ride); err != nil {
		return nil, err
	}
	uc.applyRetention(ctx, rideID)

	logger.Info("ride cancelled", logger.Fields{
		"ride_id": rideID,
		"reason":  reason,
	})

	event := models.RideCancelledEvent{RideID: rideID, Reason: reason}
	if err := uc.rideGW.PublishRideCancelled(ctx, event); err != nil {
		// Best-effort wake-up; the dispatch loop observes the status anyway
		logger.Warn("failed to publish ride cancelled event", logger.Fields{
			"ride_id": rideID,
			"error":   err.Error(),
		})
	}

	return ride, nil
}

// DeleteRide removes a ride record and purges any active-ride entries still
// pointing at it
func (uc *RideUC) DeleteRide(ctx context.Context, rideID string) error {
	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return err
	}

	if err := uc.clearActiveRideRefs(ctx, ride); err != nil {
		return err
	}
	if err := uc.rideRepo.DeleteRide(ctx, rideID); err != nil {
		return err
	}

	logger.Info("ride deleted", logger.Fields{"ride_id": rideID})
	return nil
}

// GetActiveRideByPassenger resolves a passenger to their current ride
func (uc *RideUC) GetActiveRideByPassenger(ctx context.Context, passengerID string) (*models.Ride, error) {
	return uc.getActiveRide(ctx, models.ActorPassenger, passengerID)
}

// GetActiveRideByDriver resolves a driver to their current ride
func (uc *RideUC) GetActiveRideByDriver(ctx context.Context, driverID string) (*models.Ride, error) {
	return uc.getActiveRide(ctx, models.ActorDriver, driverID)
}

// GetActiveRideByVehicle resolves a vehicle to its current ride
func (uc *RideUC) GetActiveRideByVehicle(ctx context.Context, vehicleID string) (*models.Ride, error) {
	return uc.getActiveRide(ctx, models.ActorVehicle, vehicleID)
}

func (uc *RideUC) getActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (*models.Ride, error) {
	rideID, err := uc.rideRepo.GetActiveRide(ctx, actor, actorID)
	if err != nil {
		return nil, err
	}
	return uc.rideRepo.GetRide(ctx, rideID)
}

// revertAssignment returns a ride to requested after its vehicle claim lost
// to a concurrent assignment, so dispatch can keep looking
func (uc *RideUC) revertAssignment(ctx context.Context, rideID string) {
	_, err := uc.rideRepo.UpdateRideStatus(ctx, rideID,
		[]models.RideStatus{models.RideStatusAccepted}, eventAssign,
		func(r *models.Ride) error {
			r.Status = models.RideStatusRequested
			r.VehicleID = ""
			r.DriverID = ""
			return nil
		})
	if err != nil {
		logger.Error("failed to revert ride after losing vehicle claim", logger.Fields{
			"ride_id": rideID,
			"error":   err.Error(),
		})
	}
}

// clearActiveRideRefs removes the entries for every actor on the ride. Each
// clear only fires while the entry still points at this ride, so a newer
// ride's entry under the same actor is left alone. Each step is idempotent
// so partial completion can be retried.
func (uc *RideUC) clearActiveRideRefs(ctx context.Context, ride *models.Ride) error {
	if err := uc.rideRepo.ClearActiveRide(ctx, models.ActorPassenger, ride.PassengerID, ride.ID); err != nil {
		return err
	}
	if ride.DriverID != "" {
		if err := uc.rideRepo.ClearActiveRide(ctx, models.ActorDriver, ride.DriverID, ride.ID); err != nil {
			return err
		}
	}
	if ride.VehicleID != "" {
		if err := uc.rideRepo.ClearActiveRide(ctx, models.ActorVehicle, ride.VehicleID, ride.ID); err != nil {
			return err
		}
	}
	return nil
}

// applyRetention schedules a terminal ride for expiry; failure to set the
// TTL never fails the transition
func (uc *RideUC) applyRetention(ctx context.Context, rideID string) {
	if uc.cfg.Rides.RetentionHours <= 0 {
		return
	}
	ttl := time.Duration(uc.cfg.Rides.RetentionHours) * time.Hour
	if err := uc.rideRepo.ExpireRide(ctx, rideID, ttl); err != nil {
		logger.Warn("failed to set ride retention", logger.Fields{
			"ride_id": rideID,
			"error":   err.Error(),
		})
	}
}

// computePrice is the opaque price function: base fare plus a per-kilometer
// rate over the haversine distance
func (uc *RideUC) computePrice(start, destination models.Location) float64 {
	distance := utils.CalculateDistanceKm(start, destination)
	return uc.cfg.Pricing.BaseFare + uc.cfg.Pricing.PerKmRate*distance
}
