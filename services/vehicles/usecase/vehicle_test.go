package usecase

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/repository"
)

type fakeDrivers struct {
	exists bool
}

func (f *fakeDrivers) DriverExists(ctx context.Context, driverID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeDrivers) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	if !f.exists {
		return nil, domain.ErrNotFound
	}
	return &models.Driver{ID: driverID, FirstName: "Mihajlo", LastName: "Milanovic"}, nil
}

type fakeActiveRides struct {
	active bool
}

func (f *fakeActiveRides) HasActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (bool, error) {
	return f.active, nil
}

type testEnv struct {
	uc          *VehicleUC
	repo        vehicles.VehicleRepo
	drivers     *fakeDrivers
	activeRides *fakeActiveRides
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := repository.NewVehicleRepository(&database.RedisClient{Client: client})
	drivers := &fakeDrivers{exists: true}
	activeRides := &fakeActiveRides{}
	cfg := &models.Config{}

	return &testEnv{
		uc:          NewVehicleUC(cfg, repo, drivers, activeRides, nil),
		repo:        repo,
		drivers:     drivers,
		activeRides: activeRides,
	}
}

func TestCreateVehicleDefaultsOffline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID: "driver-1",
		Make:     "Zastava",
		Model:    "101",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, vehicle.ID)
	assert.Equal(t, models.VehicleOffline, vehicle.Availability)
	assert.Nil(t, vehicle.Location)
}

func TestCreateVehicleUnknownDriver(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.drivers.exists = false

	_, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateVehicleInvalidAvailability(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: "parked",
	})
	assert.Error(t, err)
}

func TestSetAvailabilityMovesBetweenBuckets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	location := &models.Location{Latitude: 44.8125, Longitude: 20.4612}
	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: models.VehicleAvailable,
		Location:     location,
	})
	require.NoError(t, err)

	updated, err := env.uc.SetAvailability(ctx, vehicle.ID, models.VehicleOccupied)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOccupied, updated.Availability)

	// The vehicle must appear in exactly one bucket
	position, err := env.repo.PositionInBucket(ctx, models.VehicleAvailable, vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, position)

	position, err = env.repo.PositionInBucket(ctx, models.VehicleOccupied, vehicle.ID)
	require.NoError(t, err)
	assert.NotNil(t, position)
}

func TestSetAvailabilityUnchangedIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	location := &models.Location{Latitude: 44.8125, Longitude: 20.4612}
	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: models.VehicleAvailable,
		Location:     location,
	})
	require.NoError(t, err)

	updated, err := env.uc.SetAvailability(ctx, vehicle.ID, models.VehicleAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, updated.Availability)

	position, err := env.repo.PositionInBucket(ctx, models.VehicleAvailable, vehicle.ID)
	require.NoError(t, err)
	assert.NotNil(t, position)
}

func TestSetAvailabilityUnknownState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.uc.SetAvailability(ctx, "v1", "parked")
	assert.Error(t, err)
}

func TestOccupyVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	location := &models.Location{Latitude: 44.8125, Longitude: 20.4612}
	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: models.VehicleAvailable,
		Location:     location,
	})
	require.NoError(t, err)

	occupied, err := env.uc.OccupyVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOccupied, occupied.Availability)

	// A second claim finds the vehicle already taken
	_, err = env.uc.OccupyVehicle(ctx, vehicle.ID)
	assert.ErrorIs(t, err, domain.ErrVehicleInUse)
}

func TestListVehicles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	list, err := env.uc.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "driver-1"})
	require.NoError(t, err)
	_, err = env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-2",
		Availability: models.VehicleAvailable,
		Location:     &models.Location{Latitude: 44.8125, Longitude: 20.4612},
	})
	require.NoError(t, err)

	list, err = env.uc.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetDriverForVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "driver-1"})
	require.NoError(t, err)

	driver, err := env.uc.GetDriverForVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, "driver-1", driver.ID)

	_, err = env.uc.GetDriverForVehicle(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetLocationFirstPlacement(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "driver-1"})
	require.NoError(t, err)

	location := models.Location{Latitude: 44.8125, Longitude: 20.4612}
	updated, err := env.uc.SetLocation(ctx, vehicle.ID, location, "")
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOffline, updated.Availability)
	require.NotNil(t, updated.Location)

	position, err := env.repo.PositionInBucket(ctx, models.VehicleOffline, vehicle.ID)
	require.NoError(t, err)
	assert.NotNil(t, position)
}

func TestSetLocationWithRebucket(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	location := &models.Location{Latitude: 44.8125, Longitude: 20.4612}
	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: models.VehicleOccupied,
		Location:     location,
	})
	require.NoError(t, err)

	newLocation := models.Location{Latitude: 44.8200, Longitude: 20.4700}
	updated, err := env.uc.SetLocation(ctx, vehicle.ID, newLocation, models.VehicleAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, updated.Availability)

	position, err := env.repo.PositionInBucket(ctx, models.VehicleOccupied, vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, position)

	position, err = env.repo.PositionInBucket(ctx, models.VehicleAvailable, vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, position)
	assert.InDelta(t, newLocation.Latitude, position.Latitude, 0.001)
}

func TestGetNearbyVehiclesOnlyAvailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	location := &models.Location{Latitude: 44.8125, Longitude: 20.4612}
	available, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-1",
		Availability: models.VehicleAvailable,
		Location:     location,
	})
	require.NoError(t, err)

	nearby := &models.Location{Latitude: 44.8130, Longitude: 20.4615}
	_, err = env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{
		DriverID:     "driver-2",
		Availability: models.VehicleOccupied,
		Location:     nearby,
	})
	require.NoError(t, err)

	found, err := env.uc.GetNearbyVehicles(ctx, 44.8125, 20.4612, 5, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, available.ID, found[0].VehicleID)
}

func TestDeleteVehicleBlockedByActiveRide(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.activeRides.active = true

	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "driver-1"})
	require.NoError(t, err)

	err = env.uc.DeleteVehicle(ctx, vehicle.ID)
	assert.ErrorIs(t, err, domain.ErrVehicleInUse)
}

func TestDeleteVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle, err := env.uc.CreateVehicle(ctx, models.CreateVehicleRequest{DriverID: "driver-1"})
	require.NoError(t, err)
	require.NoError(t, env.uc.DeleteVehicle(ctx, vehicle.ID))

	_, err = env.uc.GetVehicleByID(ctx, vehicle.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
