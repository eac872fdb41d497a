package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/domain"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
	rideRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/repository"
	vehicleRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/repository"
	vehicleUsecase "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/usecase"
)

type fakePassengers struct {
	exists bool
}

func (f *fakePassengers) PassengerExists(ctx context.Context, passengerID string) (bool, error) {
	return f.exists, nil
}

type fakeDrivers struct{}

func (f *fakeDrivers) DriverExists(ctx context.Context, driverID string) (bool, error) {
	return true, nil
}

func (f *fakeDrivers) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	return &models.Driver{ID: driverID}, nil
}

type fakeRideGW struct {
	mu        sync.Mutex
	requested []models.RideRequestedEvent
	cancelled []models.RideCancelledEvent
}

func (f *fakeRideGW) PublishRideRequested(ctx context.Context, event models.RideRequestedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, event)
	return nil
}

func (f *fakeRideGW) PublishRideCancelled(ctx context.Context, event models.RideCancelledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, event)
	return nil
}

type testEnv struct {
	rideUC     *RideUC
	vehicleUC  *vehicleUsecase.VehicleUC
	rideRepo   rides.RideRepo
	passengers *fakePassengers
	gw         *fakeRideGW
	mr         *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	redisClient := &database.RedisClient{Client: client}
	rideRepo := rideRepository.NewRideRepository(redisClient)
	vehicleRepo := vehicleRepository.NewVehicleRepository(redisClient)

	cfg := &models.Config{
		Pricing: models.PricingConfig{BaseFare: 150.0, PerKmRate: 85.0},
		Rides:   models.RidesConfig{RetentionHours: 24},
	}

	passengers := &fakePassengers{exists: true}
	gw := &fakeRideGW{}
	vehicleUC := vehicleUsecase.NewVehicleUC(cfg, vehicleRepo, &fakeDrivers{}, rideRepo, nil)
	rideUC := NewRideUC(cfg, rideRepo, passengers, vehicleUC, gw)

	return &testEnv{
		rideUC:     rideUC,
		vehicleUC:  vehicleUC,
		rideRepo:   rideRepo,
		passengers: passengers,
		gw:         gw,
		mr:         mr,
	}
}

func (env *testEnv) createAvailableVehicle(t *testing.T, driverID string) *models.Vehicle {
	t.Helper()

	vehicle, err := env.vehicleUC.CreateVehicle(context.Background(), models.CreateVehicleRequest{
		DriverID:     driverID,
		Make:         "Zastava",
		Model:        "101",
		Availability: models.VehicleAvailable,
		Location:     &models.Location{Latitude: 44.8130, Longitude: 20.4615},
	})
	require.NoError(t, err)
	return vehicle
}

func rideRequest() models.CreateRideRequest {
	return models.CreateRideRequest{
		PassengerID: "passenger-1",
		Start:       models.Location{Latitude: 44.8125, Longitude: 20.4612},
		Destination: &models.Location{Latitude: 44.7866, Longitude: 20.4489},
	}
}

func TestCreateRide(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, ride.ID)
	assert.Equal(t, models.RideStatusRequested, ride.Status)
	assert.Greater(t, ride.Price, 150.0)

	has, err := env.rideRepo.HasActiveRide(ctx, models.ActorPassenger, "passenger-1")
	require.NoError(t, err)
	assert.True(t, has)

	require.Len(t, env.gw.requested, 1)
	assert.Equal(t, ride.ID, env.gw.requested[0].RideID)
}

func TestCreateRideMissingDestination(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := rideRequest()
	req.Destination = nil

	_, err := env.rideUC.CreateRide(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingLocation)
}

func TestCreateRideUnknownPassenger(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.passengers.exists = false

	_, err := env.rideUC.CreateRide(ctx, rideRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRideLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	// assign
	ride, err = env.rideUC.AssignVehicle(ctx, ride.ID, vehicle.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAccepted, ride.Status)
	assert.Equal(t, vehicle.ID, ride.VehicleID)
	assert.Equal(t, "driver-1", ride.DriverID)

	got, err := env.vehicleUC.GetVehicleByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOccupied, got.Availability)

	for _, actor := range []models.ActorKind{models.ActorDriver, models.ActorVehicle} {
		has, err := env.rideRepo.HasActiveRide(ctx, actor, actorID(actor, ride))
		require.NoError(t, err)
		assert.True(t, has)
	}

	// start
	ride, err = env.rideUC.StartRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusInProgress, ride.Status)
	assert.NotNil(t, ride.StartingTime)

	// complete
	ride, err = env.rideUC.CompleteRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusFinished, ride.Status)
	assert.NotNil(t, ride.CompletionTime)

	got, err = env.vehicleUC.GetVehicleByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, got.Availability)

	for _, actor := range []models.ActorKind{models.ActorPassenger, models.ActorDriver, models.ActorVehicle} {
		has, err := env.rideRepo.HasActiveRide(ctx, actor, actorID(actor, ride))
		require.NoError(t, err)
		assert.False(t, has)
	}

	assert.Greater(t, env.mr.TTL("rides:"+ride.ID), time.Duration(0))
}

func actorID(actor models.ActorKind, ride *models.Ride) string {
	switch actor {
	case models.ActorDriver:
		return ride.DriverID
	case models.ActorVehicle:
		return ride.VehicleID
	default:
		return ride.PassengerID
	}
}

func TestAssignVehicleNotAvailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	_, err := env.vehicleUC.SetAvailability(ctx, vehicle.ID, models.VehicleOccupied)
	require.NoError(t, err)

	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	_, err = env.rideUC.AssignVehicle(ctx, ride.ID, vehicle.ID, "")
	assert.ErrorIs(t, err, domain.ErrVehicleInUse)
}

func TestStartRideNotAccepted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	_, err = env.rideUC.StartRide(ctx, ride.ID)
	assert.True(t, domain.IsInvalidTransition(err))
}

func TestCancelRideInProgress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	_, err = env.rideUC.AssignVehicle(ctx, ride.ID, vehicle.ID, "")
	require.NoError(t, err)
	_, err = env.rideUC.StartRide(ctx, ride.ID)
	require.NoError(t, err)

	_, err = env.rideUC.CancelRide(ctx, ride.ID, "changed my mind")
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))

	got, err := env.rideUC.GetRideByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusInProgress, got.Status)
}

func TestCancelRequestedRide(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	cancelled, err := env.rideUC.CancelRide(ctx, ride.ID, "waited too long")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, cancelled.Status)
	assert.Equal(t, "waited too long", cancelled.CancelReason)

	has, err := env.rideRepo.HasActiveRide(ctx, models.ActorPassenger, ride.PassengerID)
	require.NoError(t, err)
	assert.False(t, has)

	require.Len(t, env.gw.cancelled, 1)
	assert.Equal(t, ride.ID, env.gw.cancelled[0].RideID)
}

func TestCancelAcceptedRideFreesVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	_, err = env.rideUC.AssignVehicle(ctx, ride.ID, vehicle.ID, "")
	require.NoError(t, err)

	_, err = env.rideUC.CancelRide(ctx, ride.ID, "")
	require.NoError(t, err)

	got, err := env.vehicleUC.GetVehicleByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, got.Availability)
}

func TestCompleteRideWithoutVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// An in-progress ride with no vehicle should never exist, but the
	// completion path still refuses to finish it
	ride := &models.Ride{
		ID:            "ride-broken",
		PassengerID:   "passenger-1",
		Status:        models.RideStatusInProgress,
		StartLocation: models.Location{Latitude: 44.8125, Longitude: 20.4612},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, env.rideRepo.CreateRide(ctx, ride))

	_, err := env.rideUC.CompleteRide(ctx, ride.ID)
	assert.ErrorIs(t, err, domain.ErrNoVehicleAssigned)

	got, err := env.rideUC.GetRideByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusInProgress, got.Status)
}

func TestConcurrentAssignExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicleA := env.createAvailableVehicle(t, "driver-a")
	vehicleB := env.createAvailableVehicle(t, "driver-b")
	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, vehicleID := range []string{vehicleA.ID, vehicleB.ID} {
		wg.Add(1)
		go func(i int, vehicleID string) {
			defer wg.Done()
			_, errs[i] = env.rideUC.AssignVehicle(ctx, ride.ID, vehicleID, "")
		}(i, vehicleID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		// The loser observes either the settled ride or the occupied vehicle,
		// depending on how far the winner got
		lostRace := domain.IsInvalidTransition(err) || errors.Is(err, domain.ErrVehicleInUse)
		assert.True(t, lostRace, "unexpected loser error: %v", err)
	}
	assert.Equal(t, 1, winners)

	got, err := env.rideUC.GetRideByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAccepted, got.Status)
}

func TestConcurrentAssignSameVehicle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	ride1, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)
	req2 := rideRequest()
	req2.PassengerID = "passenger-2"
	ride2, err := env.rideUC.CreateRide(ctx, req2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, rideID := range []string{ride1.ID, ride2.ID} {
		wg.Add(1)
		go func(i int, rideID string) {
			defer wg.Done()
			_, errs[i] = env.rideUC.AssignVehicle(ctx, rideID, vehicle.ID, "")
		}(i, rideID)
	}
	wg.Wait()

	winners := 0
	var winnerID string
	for i, err := range errs {
		rideID := []string{ride1.ID, ride2.ID}[i]
		if err == nil {
			winners++
			winnerID = rideID
			continue
		}
		assert.ErrorIs(t, err, domain.ErrVehicleInUse)

		// The loser's ride is back in requested with no vehicle attached
		got, gerr := env.rideUC.GetRideByID(ctx, rideID)
		require.NoError(t, gerr)
		assert.Equal(t, models.RideStatusRequested, got.Status)
		assert.Empty(t, got.VehicleID)
	}
	require.Equal(t, 1, winners)

	winner, err := env.rideUC.GetRideByID(ctx, winnerID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAccepted, winner.Status)
	assert.Equal(t, vehicle.ID, winner.VehicleID)

	got, err := env.vehicleUC.GetVehicleByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOccupied, got.Availability)

	byVehicle, err := env.rideUC.GetActiveRideByVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, winnerID, byVehicle.ID)
}

func TestGetActiveRideResolution(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	vehicle := env.createAvailableVehicle(t, "driver-1")
	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	_, err = env.rideUC.AssignVehicle(ctx, ride.ID, vehicle.ID, "")
	require.NoError(t, err)

	byPassenger, err := env.rideUC.GetActiveRideByPassenger(ctx, ride.PassengerID)
	require.NoError(t, err)
	assert.Equal(t, ride.ID, byPassenger.ID)

	byDriver, err := env.rideUC.GetActiveRideByDriver(ctx, "driver-1")
	require.NoError(t, err)
	assert.Equal(t, ride.ID, byDriver.ID)

	byVehicle, err := env.rideUC.GetActiveRideByVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.ID, byVehicle.ID)
}

func TestGetActiveRideNone(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.rideUC.GetActiveRideByPassenger(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteRideClearsRefs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ride, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	require.NoError(t, env.rideUC.DeleteRide(ctx, ride.ID))

	_, err = env.rideUC.GetRideByID(ctx, ride.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	has, err := env.rideRepo.HasActiveRide(ctx, models.ActorPassenger, ride.PassengerID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDeleteRetainedRideKeepsNewerRef(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// A cancelled ride lingers under its retention TTL while the passenger
	// requests again
	ride1, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)
	_, err = env.rideUC.CancelRide(ctx, ride1.ID, "waited too long")
	require.NoError(t, err)

	ride2, err := env.rideUC.CreateRide(ctx, rideRequest())
	require.NoError(t, err)

	require.NoError(t, env.rideUC.DeleteRide(ctx, ride1.ID))

	active, err := env.rideUC.GetActiveRideByPassenger(ctx, "passenger-1")
	require.NoError(t, err)
	assert.Equal(t, ride2.ID, active.ID)
}
