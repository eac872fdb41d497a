package rides

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// RideGW defines the events the ride service publishes
type RideGW interface {
	PublishRideRequested(ctx context.Context, event models.RideRequestedEvent) error
	PublishRideCancelled(ctx context.Context, event models.RideCancelledEvent) error
}
