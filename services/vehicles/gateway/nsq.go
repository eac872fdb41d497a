package gateway

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	nsqpkg "github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/nsq"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles"
)

// VehicleGW publishes vehicle availability events to NSQ
type VehicleGW struct {
	producer *nsqpkg.Producer
}

// NewVehicleGW creates a new vehicle gateway
func NewVehicleGW(producer *nsqpkg.Producer) vehicles.VehicleGW {
	return &VehicleGW{producer: producer}
}

// PublishVehicleAvailable wakes waiting dispatch loops when a vehicle
// becomes available
func (g *VehicleGW) PublishVehicleAvailable(ctx context.Context, event models.VehicleAvailableEvent) error {
	return g.producer.Publish(constants.TopicVehicleAvailable, event)
}
