package gateway

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	nsqpkg "github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/nsq"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/rides"
)

// RideGW publishes ride lifecycle events to NSQ
type RideGW struct {
	producer *nsqpkg.Producer
}

// NewRideGW creates a new ride gateway
func NewRideGW(producer *nsqpkg.Producer) rides.RideGW {
	return &RideGW{producer: producer}
}

// PublishRideRequested enqueues a dispatch task for a newly created ride
func (g *RideGW) PublishRideRequested(ctx context.Context, event models.RideRequestedEvent) error {
	return g.producer.Publish(constants.TopicRideRequested, event)
}

// PublishRideCancelled signals waiting dispatch loops that a ride was cancelled
func (g *RideGW) PublishRideCancelled(ctx context.Context, event models.RideCancelledEvent) error {
	return g.producer.Publish(constants.TopicRideCancelled, event)
}
