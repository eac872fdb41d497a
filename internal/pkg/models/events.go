package models

// RideRequestedEvent is published when a new ride is created and enqueues a
// dispatch task for it
type RideRequestedEvent struct {
	RideID        string   `json:"ride_id"`
	PassengerID   string   `json:"passenger_id"`
	StartLocation Location `json:"start_location"`
}

// RideCancelledEvent is published when a ride is cancelled so waiting
// dispatch loops can stop without sleeping out a full backoff interval
type RideCancelledEvent struct {
	RideID string `json:"ride_id"`
	Reason string `json:"reason,omitempty"`
}

// VehicleAvailableEvent is published when a vehicle becomes available so
// waiting dispatch loops retry immediately
type VehicleAvailableEvent struct {
	VehicleID string    `json:"vehicle_id"`
	Location  *Location `json:"location,omitempty"`
}
