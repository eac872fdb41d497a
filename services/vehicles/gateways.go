package vehicles

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// VehicleGW defines the events the vehicle service publishes
type VehicleGW interface {
	PublishVehicleAvailable(ctx context.Context, event models.VehicleAvailableEvent) error
}
