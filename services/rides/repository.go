package rides

import (
	"context"
	"time"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// RideRepo defines persistence for ride records and the active-ride index
type RideRepo interface {
	CreateRide(ctx context.Context, ride *models.Ride) error
	GetRide(ctx context.Context, id string) (*models.Ride, error)
	DeleteRide(ctx context.Context, id string) error
	// UpdateRideStatus applies mutate to the ride only while its current
	// status is one of expected, under optimistic per-key locking. It returns
	// the updated ride, ErrNotFound when the ride is absent, or an
	// InvalidTransitionError carrying the current status and the event.
	UpdateRideStatus(ctx context.Context, rideID string, expected []models.RideStatus, event string, mutate func(*models.Ride) error) (*models.Ride, error)
	ExpireRide(ctx context.Context, id string, ttl time.Duration) error

	SetActiveRide(ctx context.Context, actor models.ActorKind, actorID, rideID string) error
	GetActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (string, error)
	// ClearActiveRide removes the actor's entry only while it still points
	// at rideID; entries re-pointed at a newer ride are left alone
	ClearActiveRide(ctx context.Context, actor models.ActorKind, actorID, rideID string) error
	HasActiveRide(ctx context.Context, actor models.ActorKind, actorID string) (bool, error)
}
