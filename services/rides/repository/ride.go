package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
)

// casRetries bounds optimistic-lock retries when a watched ride key changes
// between read and write
const casRetries = 5

type rideRepo struct {
	redisClient *database.RedisClient
}

// NewRideRepository creates a new ride repository
func NewRideRepository(redisClient *database.RedisClient) rides.RideRepo {
	return &rideRepo{redisClient: redisClient}
}

func rideKey(id string) string {
	return fmt.Sprintf(constants.KeyRide, id)
}

func activeRideKey(actor models.ActorKind, actorID string) string {
	switch actor {
	case models.ActorDriver:
		return fmt.Sprintf(constants.KeyDriverActiveRide, actorID)
	case models.ActorVehicle:
		return fmt.Sprintf(constants.KeyVehicleActiveRide, actorID)
	default:
		return fmt.Sprintf(constants.KeyPassengerActiveRide, actorID)
	}
}

// CreateRide persists a new ride hash
func (r *rideRepo) CreateRide(ctx context.Context, ride *models.Ride) error {
	if err := r.redisClient.HSetFields(ctx, rideKey(ride.ID), rideToFields(ride)); err != nil {
		return fmt.Errorf("failed to store ride: %w", err)
	}
	return nil
}

// GetRide retrieves a ride by id
func (r *rideRepo) GetRide(ctx context.Context, id string) (*models.Ride, error) {
	data, err := r.redisClient.HGetAll(ctx, rideKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ride %s: %w", id, domain.ErrNotFound)
	}
	return rideFromFields(data)
}

// DeleteRide removes the ride hash
func (r *rideRepo) DeleteRide(ctx context.Context, id string) error {
	if err := r.redisClient.Delete(ctx, rideKey(id)); err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}
	return nil
}

// UpdateRideStatus applies mutate to the ride under optimistic locking. The
// ride key is watched; the write only commits if no concurrent transition
// landed first, so racing callers resolve to exactly one winner.
func (r *rideRepo) UpdateRideStatus(ctx context.Context, rideID string, expected []models.RideStatus, event string, mutate func(*models.Ride) error) (*models.Ride, error) {
	key := rideKey(rideID)
	var updated *models.Ride

	txFn := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to read ride: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("ride %s: %w", rideID, domain.ErrNotFound)
		}

		ride, err := rideFromFields(data)
		if err != nil {
			return err
		}

		if !statusIn(ride.Status, expected) {
			return domain.NewInvalidTransition(ride.Status, event)
		}

		if err := mutate(ride); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, rideToFields(ride))
			return nil
		})
		if err != nil {
			return err
		}

		updated = ride
		return nil
	}

	for i := 0; i < casRetries; i++ {
		err := r.redisClient.Watch(ctx, txFn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("ride %s: too many concurrent updates", rideID)
}

// ExpireRide sets a retention TTL on a terminal ride
func (r *rideRepo) ExpireRide(ctx context.Context, id string, ttl time.Duration) error {
	if err := r.redisClient.Expire(ctx, rideKey(id), ttl); err != nil {
		return fmt.Errorf("failed to set ride TTL: %w", err)
	}
	return nil
}

// SetActiveRide points an actor's active-ride entry at a ride
func (r *rideRepo) SetActiveRide(ctx context.Context, actor models.ActorKind, actorID, rideID string) error {
	if err := r.redisClient.Set(ctx, activeRideKey(actor, actorID), rideID, 0); err != nil {
		return fmt.Errorf("failed to set active ride for %s %s: %w", actor, actorID, err)
	}
	return nil
}

// GetActiveRide resolves an actor to its current active ride id
func (r *rideRepo) GetActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (string, error) {
	rideID, err := r.redisClient.Get(ctx, activeRideKey(actor, actorID))
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("no active ride for %s %s: %w", actor, actorID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active ride: %w", err)
	}
	return rideID, nil
}

// ClearActiveRide removes an actor's active-ride entry while it still points
// at rideID. Entries pointing at another ride and absent entries are left
// alone. The compare and the delete run under optimistic locking so a
// concurrent re-point is never lost.
func (r *rideRepo) ClearActiveRide(ctx context.Context, actor models.ActorKind, actorID, rideID string) error {
	key := activeRideKey(actor, actorID)

	txFn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != rideID {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for i := 0; i < casRetries; i++ {
		err := r.redisClient.Watch(ctx, txFn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to clear active ride for %s %s: %w", actor, actorID, err)
	}
	return fmt.Errorf("failed to clear active ride for %s %s: too many concurrent updates", actor, actorID)
}

// HasActiveRide reports whether an actor has an active-ride entry
func (r *rideRepo) HasActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (bool, error) {
	exists, err := r.redisClient.Exists(ctx, activeRideKey(actor, actorID))
	if err != nil {
		return false, fmt.Errorf("failed to check active ride: %w", err)
	}
	return exists, nil
}

func statusIn(status models.RideStatus, set []models.RideStatus) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}

func rideToFields(ride *models.Ride) map[string]interface{} {
	fields := map[string]interface{}{
		constants.FieldID:          ride.ID,
		constants.FieldPassengerID: ride.PassengerID,
		constants.FieldDriverID:    ride.DriverID,
		constants.FieldVehicleID:   ride.VehicleID,
		constants.FieldStatus:      string(ride.Status),
		constants.FieldStartLat:    formatCoord(ride.StartLocation.Latitude),
		constants.FieldStartLng:    formatCoord(ride.StartLocation.Longitude),
		constants.FieldPrice:       strconv.FormatFloat(ride.Price, 'f', 2, 64),
		constants.FieldCreatedAt:   ride.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if ride.Destination != nil {
		fields[constants.FieldDestLat] = formatCoord(ride.Destination.Latitude)
		fields[constants.FieldDestLng] = formatCoord(ride.Destination.Longitude)
	}
	if ride.CancelReason != "" {
		fields[constants.FieldCancelReason] = ride.CancelReason
	}
	if ride.StartingTime != nil {
		fields[constants.FieldStartingTime] = ride.StartingTime.UTC().Format(time.RFC3339Nano)
	}
	if ride.CompletionTime != nil {
		fields[constants.FieldCompletionTime] = ride.CompletionTime.UTC().Format(time.RFC3339Nano)
	}
	return fields
}

func rideFromFields(data map[string]string) (*models.Ride, error) {
	ride := &models.Ride{
		ID:           data[constants.FieldID],
		PassengerID:  data[constants.FieldPassengerID],
		DriverID:     data[constants.FieldDriverID],
		VehicleID:    data[constants.FieldVehicleID],
		Status:       models.RideStatus(data[constants.FieldStatus]),
		CancelReason: data[constants.FieldCancelReason],
	}

	var err error
	if ride.StartLocation.Latitude, err = strconv.ParseFloat(data[constants.FieldStartLat], 64); err != nil {
		return nil, fmt.Errorf("invalid start latitude: %w", err)
	}
	if ride.StartLocation.Longitude, err = strconv.ParseFloat(data[constants.FieldStartLng], 64); err != nil {
		return nil, fmt.Errorf("invalid start longitude: %w", err)
	}

	if latStr, ok := data[constants.FieldDestLat]; ok {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(data[constants.FieldDestLng], 64)
		if errLat != nil || errLng != nil {
			return nil, fmt.Errorf("invalid destination coordinates")
		}
		ride.Destination = &models.Location{Latitude: lat, Longitude: lng}
	}

	if priceStr, ok := data[constants.FieldPrice]; ok {
		if ride.Price, err = strconv.ParseFloat(priceStr, 64); err != nil {
			return nil, fmt.Errorf("invalid price: %w", err)
		}
	}

	if ride.CreatedAt, err = time.Parse(time.RFC3339Nano, data[constants.FieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if tsStr, ok := data[constants.FieldStartingTime]; ok {
		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid starting_time: %w", err)
		}
		ride.StartingTime = &ts
	}
	if tsStr, ok := data[constants.FieldCompletionTime]; ok {
		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid completion_time: %w", err)
		}
		ride.CompletionTime = &ts
	}

	return ride, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
