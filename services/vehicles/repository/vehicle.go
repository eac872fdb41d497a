package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles"
)

// casRetries bounds optimistic-lock retries when a watched vehicle key
// changes between read and write
const casRetries = 5

type vehicleRepo struct {
	redisClient *database.RedisClient
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(redisClient *database.RedisClient) vehicles.VehicleRepo {
	return &vehicleRepo{redisClient: redisClient}
}

func bucketKey(bucket models.VehicleAvailability) string {
	return fmt.Sprintf(constants.KeyVehicleGeoBucket, string(bucket))
}

// CreateVehicle persists the vehicle hash and, when a location is present,
// places it in the geo bucket matching its availability
func (r *vehicleRepo) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	key := fmt.Sprintf(constants.KeyVehicle, vehicle.ID)

	fields := map[string]interface{}{
		constants.FieldID:           vehicle.ID,
		constants.FieldDriverID:     vehicle.DriverID,
		constants.FieldMake:         vehicle.Make,
		constants.FieldModel:        vehicle.Model,
		constants.FieldRegistration: vehicle.Registration,
		constants.FieldAvailability: string(vehicle.Availability),
	}
	if vehicle.Location != nil {
		fields[constants.FieldLatitude] = formatCoord(vehicle.Location.Latitude)
		fields[constants.FieldLongitude] = formatCoord(vehicle.Location.Longitude)
		fields[constants.FieldGeohash] = utils.EncodeLocation(*vehicle.Location)
	}

	if err := r.redisClient.HSetFields(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store vehicle: %w", err)
	}

	if vehicle.Location != nil {
		if err := r.UpsertBucket(ctx, vehicle.Availability, vehicle.ID, *vehicle.Location); err != nil {
			return err
		}
	}
	return nil
}

// GetVehicle reads the vehicle hash and resolves its current coordinates
// from the geo bucket matching its availability, falling back to the last
// known coordinates stored on the hash
func (r *vehicleRepo) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	key := fmt.Sprintf(constants.KeyVehicle, id)

	data, err := r.redisClient.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
	}

	vehicle := vehicleFromFields(data)

	location, err := r.PositionInBucket(ctx, vehicle.Availability, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = locationFromFields(data)
	}
	vehicle.Location = location

	return vehicle, nil
}

// DeleteVehicle removes the vehicle hash and any geo bucket entries
func (r *vehicleRepo) DeleteVehicle(ctx context.Context, id string) error {
	vehicle, err := r.GetVehicle(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.RemoveFromBucket(ctx, vehicle.Availability, id); err != nil {
		return err
	}

	key := fmt.Sprintf(constants.KeyVehicle, id)
	if err := r.redisClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}

// ListVehicles returns every vehicle record with its last known coordinates
func (r *vehicleRepo) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	keys, err := r.redisClient.ScanKeys(ctx, "vehicles:*")
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	list := make([]*models.Vehicle, 0, len(keys))
	for _, key := range keys {
		// Skip the geo buckets and active-ride entries living under the same prefix
		if strings.HasPrefix(key, "vehicles:geo:") || strings.Contains(key, ":active-ride") {
			continue
		}
		data, err := r.redisClient.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read vehicle %s: %w", key, err)
		}
		if len(data) == 0 {
			continue
		}
		vehicle := vehicleFromFields(data)
		vehicle.Location = locationFromFields(data)
		list = append(list, vehicle)
	}
	return list, nil
}

// TransitionAvailability moves the vehicle to next under optimistic locking
// on the vehicle key. When expected is non-empty the transition only commits
// while the current availability is one of expected; otherwise it fails with
// ErrVehicleInUse. The hash update and the geo bucket move land in one
// transaction, so racing transitions resolve to exactly one winner. An
// unchanged availability is a no-op, reported through the changed flag.
func (r *vehicleRepo) TransitionAvailability(ctx context.Context, id string, expected []models.VehicleAvailability, next models.VehicleAvailability) (*models.Vehicle, bool, error) {
	key := fmt.Sprintf(constants.KeyVehicle, id)
	var updated *models.Vehicle
	var changed bool

	txFn := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to read vehicle: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
		}

		vehicle := vehicleFromFields(data)
		if len(expected) > 0 && !availabilityIn(vehicle.Availability, expected) {
			return fmt.Errorf("vehicle %s is %s: %w", id, vehicle.Availability, domain.ErrVehicleInUse)
		}

		positions, err := tx.GeoPos(ctx, bucketKey(vehicle.Availability), id).Result()
		if err != nil {
			return fmt.Errorf("failed to get vehicle position: %w", err)
		}
		if len(positions) > 0 && positions[0] != nil {
			vehicle.Location = &models.Location{
				Latitude:  positions[0].Latitude,
				Longitude: positions[0].Longitude,
			}
		} else {
			vehicle.Location = locationFromFields(data)
		}

		if vehicle.Availability == next {
			updated = vehicle
			changed = false
			return nil
		}

		oldBucket := vehicle.Availability
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, constants.FieldAvailability, string(next))
			if vehicle.Location != nil {
				pipe.GeoAdd(ctx, bucketKey(next), &redis.GeoLocation{
					Name:      id,
					Latitude:  vehicle.Location.Latitude,
					Longitude: vehicle.Location.Longitude,
				})
				pipe.ZRem(ctx, bucketKey(oldBucket), id)
			}
			return nil
		})
		if err != nil {
			return err
		}

		vehicle.Availability = next
		updated = vehicle
		changed = true
		return nil
	}

	for i := 0; i < casRetries; i++ {
		err := r.redisClient.Watch(ctx, txFn, key)
		if err == nil {
			return updated, changed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, false, err
	}
	return nil, false, fmt.Errorf("vehicle %s: too many concurrent updates", id)
}

func availabilityIn(availability models.VehicleAvailability, set []models.VehicleAvailability) bool {
	for _, a := range set {
		if availability == a {
			return true
		}
	}
	return false
}

// UpdateAvailability persists the availability field on the vehicle hash
func (r *vehicleRepo) UpdateAvailability(ctx context.Context, id string, availability models.VehicleAvailability) error {
	key := fmt.Sprintf(constants.KeyVehicle, id)
	err := r.redisClient.HSetFields(ctx, key, map[string]interface{}{
		constants.FieldAvailability: string(availability),
	})
	if err != nil {
		return fmt.Errorf("failed to update vehicle availability: %w", err)
	}
	return nil
}

// UpdateLocationFields persists the last known coordinates on the vehicle hash
func (r *vehicleRepo) UpdateLocationFields(ctx context.Context, id string, location models.Location) error {
	key := fmt.Sprintf(constants.KeyVehicle, id)
	err := r.redisClient.HSetFields(ctx, key, map[string]interface{}{
		constants.FieldLatitude:  formatCoord(location.Latitude),
		constants.FieldLongitude: formatCoord(location.Longitude),
		constants.FieldGeohash:   utils.EncodeLocation(location),
	})
	if err != nil {
		return fmt.Errorf("failed to update vehicle location: %w", err)
	}
	return nil
}

// UpsertBucket adds or overwrites the vehicle's coordinates in a bucket.
// Buckets are created lazily by Redis.
func (r *vehicleRepo) UpsertBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string, location models.Location) error {
	err := r.redisClient.GeoUpsert(ctx, bucketKey(bucket), vehicleID, location.Latitude, location.Longitude)
	if err != nil {
		return fmt.Errorf("failed to upsert vehicle into %s bucket: %w", bucket, err)
	}
	return nil
}

// RemoveFromBucket removes the vehicle from a bucket, reporting whether a
// removal occurred. Removing an absent member is a no-op.
func (r *vehicleRepo) RemoveFromBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string) (bool, error) {
	removed, err := r.redisClient.GeoRemove(ctx, bucketKey(bucket), vehicleID)
	if err != nil {
		return false, fmt.Errorf("failed to remove vehicle from %s bucket: %w", bucket, err)
	}
	return removed, nil
}

// NearbyInBucket finds up to maxCount vehicles within radiusKm of center in
// the given bucket, ascending by distance. No vehicles found yields an empty
// slice, not an error.
func (r *vehicleRepo) NearbyInBucket(ctx context.Context, bucket models.VehicleAvailability, center models.Location, radiusKm float64, maxCount int) ([]models.NearbyVehicle, error) {
	results, err := r.redisClient.GeoNearby(ctx, bucketKey(bucket), center.Latitude, center.Longitude, radiusKm, maxCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s bucket: %w", bucket, err)
	}

	nearby := make([]models.NearbyVehicle, 0, len(results))
	for _, res := range results {
		nearby = append(nearby, models.NearbyVehicle{
			VehicleID: res.Name,
			Location: models.Location{
				Latitude:  res.Latitude,
				Longitude: res.Longitude,
			},
			DistanceKm: res.Dist,
		})
	}
	return nearby, nil
}

// PositionInBucket returns the vehicle's coordinates in a bucket, or nil
// when the vehicle is not in it
func (r *vehicleRepo) PositionInBucket(ctx context.Context, bucket models.VehicleAvailability, vehicleID string) (*models.Location, error) {
	location, err := r.redisClient.GeoPosition(ctx, bucketKey(bucket), vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle position: %w", err)
	}
	return location, nil
}

func vehicleFromFields(data map[string]string) *models.Vehicle {
	return &models.Vehicle{
		ID:           data[constants.FieldID],
		DriverID:     data[constants.FieldDriverID],
		Make:         data[constants.FieldMake],
		Model:        data[constants.FieldModel],
		Registration: data[constants.FieldRegistration],
		Availability: models.VehicleAvailability(data[constants.FieldAvailability]),
	}
}

func locationFromFields(data map[string]string) *models.Location {
	latStr, okLat := data[constants.FieldLatitude]
	lngStr, okLng := data[constants.FieldLongitude]
	if !okLat || !okLng {
		return nil
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	return &models.Location{Latitude: lat, Longitude: lng}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
