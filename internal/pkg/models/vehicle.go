package models

// VehicleAvailability represents the availability state of a vehicle.
// Each state maps to one geo index bucket.
type VehicleAvailability string

const (
	VehicleOffline   VehicleAvailability = "offline"
	VehicleAvailable VehicleAvailability = "available"
	VehicleOccupied  VehicleAvailability = "occupied"
)

// IsValid reports whether av is a known availability state
func (av VehicleAvailability) IsValid() bool {
	switch av {
	case VehicleOffline, VehicleAvailable, VehicleOccupied:
		return true
	}
	return false
}

// CreateVehicleRequest is the payload for registering a new vehicle
type CreateVehicleRequest struct {
	DriverID     string              `json:"driver_id"`
	Make         string              `json:"make"`
	Model        string              `json:"model"`
	Registration string              `json:"registration"`
	Availability VehicleAvailability `json:"availability,omitempty"`
	Location     *Location           `json:"location,omitempty"`
}

// UpdateLocationRequest is the payload for a vehicle location update.
// Coordinates are pointers so an omitted field is distinguishable from zero.
// Availability is optional; when set, the vehicle is re-bucketed as well.
type UpdateLocationRequest struct {
	Latitude     *float64            `json:"latitude"`
	Longitude    *float64            `json:"longitude"`
	Availability VehicleAvailability `json:"availability,omitempty"`
}

// UpdateAvailabilityRequest is the payload for a vehicle availability change
type UpdateAvailabilityRequest struct {
	Availability VehicleAvailability `json:"availability"`
}

// Vehicle represents a vehicle record.
// Location is nil until the vehicle is first placed in a geo bucket.
type Vehicle struct {
	ID           string              `json:"id"`
	DriverID     string              `json:"driver_id"`
	Make         string              `json:"make"`
	Model        string              `json:"model"`
	Registration string              `json:"registration"`
	Availability VehicleAvailability `json:"availability"`
	Location     *Location           `json:"location,omitempty"`
}
