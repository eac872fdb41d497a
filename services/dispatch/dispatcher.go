package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// RideManager is the slice of the ride service the dispatcher drives
type RideManager interface {
	GetRideByID(ctx context.Context, id string) (*models.Ride, error)
	AssignVehicle(ctx context.Context, rideID, vehicleID, driverID string) (*models.Ride, error)
	CancelRide(ctx context.Context, rideID, reason string) (*models.Ride, error)
}

// VehicleFinder answers proximity queries against the available bucket
type VehicleFinder interface {
	GetNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64, maxCount int) ([]models.NearbyVehicle, error)
	GetVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// Dispatcher runs one matching loop per requested ride. Loops poll the
// available bucket on a fixed backoff and are woken early when a vehicle
// becomes available or the ride is cancelled.
type Dispatcher struct {
	cfg      *models.Config
	rides    RideManager
	vehicles VehicleFinder

	mu   sync.Mutex
	wake chan struct{}
	wg   sync.WaitGroup
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(cfg *models.Config, rides RideManager, vehicles VehicleFinder) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		rides:    rides,
		vehicles: vehicles,
		wake:     make(chan struct{}),
	}
}

// Wake signals every waiting loop to retry immediately instead of sleeping
// out its backoff interval
func (d *Dispatcher) Wake() {
	d.mu.Lock()
	close(d.wake)
	d.wake = make(chan struct{})
	d.mu.Unlock()
}

func (d *Dispatcher) wakeCh() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wake
}

// DispatchAsync starts a detached matching loop for the ride. It never
// blocks the caller.
func (d *Dispatcher) DispatchAsync(ctx context.Context, rideID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Dispatch(ctx, rideID)
	}()
}

// Dispatch runs the matching loop for one ride until the ride is assigned,
// leaves the requested status, exhausts its retry budget or ctx is done
func (d *Dispatcher) Dispatch(ctx context.Context, rideID string) {
	backoff := time.Duration(d.cfg.Dispatch.BackoffSeconds) * time.Second
	attempts := 0

	for {
		ride, err := d.rides.GetRideByID(ctx, rideID)
		if err != nil {
			// A deleted ride simply ends the loop
			logger.Warn("dispatch stopped: ride unavailable", logger.Fields{
				"ride_id": rideID,
				"error":   err.Error(),
			})
			return
		}
		if ride.Status != models.RideStatusRequested {
			logger.Debug("dispatch stopped: ride no longer requested", logger.Fields{
				"ride_id": rideID,
				"status":  ride.Status,
			})
			return
		}

		candidates, err := d.vehicles.GetNearbyVehicles(ctx,
			ride.StartLocation.Latitude, ride.StartLocation.Longitude,
			d.cfg.Dispatch.SearchRadiusKm, 1)
		if err != nil {
			logger.Error("dispatch lookup failed", logger.Fields{
				"ride_id": rideID,
				"error":   err.Error(),
			})
			if !d.wait(ctx, backoff) {
				return
			}
			continue
		}

		if len(candidates) == 0 {
			// Not an error: no vehicle nearby yet
			attempts++
			if d.cfg.Dispatch.MaxAttempts > 0 && attempts >= d.cfg.Dispatch.MaxAttempts {
				d.autoCancel(ctx, rideID)
				return
			}
			if !d.wait(ctx, backoff) {
				return
			}
			continue
		}

		if d.tryAssign(ctx, rideID, candidates[0]) {
			return
		}
		// Lost the candidate to another ride; look again right away
	}
}

// tryAssign attempts to assign the candidate to the ride. It reports true
// when the loop should stop: the assignment succeeded or the ride already
// left the requested status.
func (d *Dispatcher) tryAssign(ctx context.Context, rideID string, candidate models.NearbyVehicle) bool {
	vehicle, err := d.vehicles.GetVehicleByID(ctx, candidate.VehicleID)
	if err != nil {
		logger.Warn("dispatch candidate vanished", logger.Fields{
			"ride_id":    rideID,
			"vehicle_id": candidate.VehicleID,
		})
		return false
	}

	_, err = d.rides.AssignVehicle(ctx, rideID, vehicle.ID, vehicle.DriverID)
	if err != nil {
		if domain.IsInvalidTransition(err) {
			// Lost race: the ride was assigned or cancelled elsewhere
			return true
		}
		if errors.Is(err, domain.ErrVehicleInUse) {
			// The candidate was claimed by a concurrent assignment; look again
			return false
		}
		logger.Warn("dispatch assignment failed", logger.Fields{
			"ride_id":    rideID,
			"vehicle_id": vehicle.ID,
			"error":      err.Error(),
		})
		return false
	}

	logger.Info("ride dispatched", logger.Fields{
		"ride_id":     rideID,
		"vehicle_id":  vehicle.ID,
		"driver_id":   vehicle.DriverID,
		"distance_km": candidate.DistanceKm,
	})
	return true
}

// wait blocks until the backoff elapses, a wake signal fires or ctx is
// done. It reports false when the loop should stop.
func (d *Dispatcher) wait(ctx context.Context, backoff time.Duration) bool {
	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-d.wakeCh():
		return true
	case <-timer.C:
		return true
	}
}

// autoCancel ends a ride whose retry budget ran out
func (d *Dispatcher) autoCancel(ctx context.Context, rideID string) {
	if _, err := d.rides.CancelRide(ctx, rideID, "no vehicles available"); err != nil {
		if domain.IsInvalidTransition(err) {
			return
		}
		logger.Error("failed to auto-cancel ride", logger.Fields{
			"ride_id": rideID,
			"error":   err.Error(),
		})
		return
	}
	logger.Info("ride auto-cancelled after retry budget", logger.Fields{
		"ride_id":  rideID,
		"attempts": d.cfg.Dispatch.MaxAttempts,
	})
}

// WaitIdle blocks until all running loops finish; used during shutdown and
// in tests
func (d *Dispatcher) WaitIdle() {
	d.wg.Wait()
}
