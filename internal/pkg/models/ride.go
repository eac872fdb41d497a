package models

import "time"

// RideStatus represents the status of a ride
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusFinished   RideStatus = "finished"
	RideStatusCancelled  RideStatus = "cancelled"
)

// IsTerminal reports whether the status is a terminal state
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusFinished || s == RideStatusCancelled
}

// IsCancellable reports whether a ride in this status may still be cancelled
func (s RideStatus) IsCancellable() bool {
	return s == RideStatusRequested || s == RideStatusAccepted
}

// ActorKind identifies which side of a ride an active-ride index entry belongs to
type ActorKind string

const (
	ActorPassenger ActorKind = "passenger"
	ActorDriver    ActorKind = "driver"
	ActorVehicle   ActorKind = "vehicle"
)

// Ride represents a ride record.
// DriverID and VehicleID are empty while the ride is still requested and are
// set together when a vehicle is assigned.
type Ride struct {
	ID             string     `json:"id"`
	PassengerID    string     `json:"passenger_id"`
	DriverID       string     `json:"driver_id,omitempty"`
	VehicleID      string     `json:"vehicle_id,omitempty"`
	Status         RideStatus `json:"status"`
	StartLocation  Location   `json:"start_location"`
	Destination    *Location  `json:"destination,omitempty"`
	Price          float64    `json:"price"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartingTime   *time.Time `json:"starting_time,omitempty"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`
}

// CreateRideRequest is the payload for requesting a new ride
type CreateRideRequest struct {
	PassengerID string    `json:"passenger_id"`
	Start       Location  `json:"start_location"`
	Destination *Location `json:"destination,omitempty"`
}

// AssignVehicleRequest is the payload for assigning a vehicle to a requested ride
type AssignVehicleRequest struct {
	VehicleID string `json:"vehicle_id"`
	DriverID  string `json:"driver_id"`
}

// CancelRideRequest is the payload for cancelling a ride
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}
