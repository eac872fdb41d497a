package models

// Location represents a geographical point
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyVehicle represents a vehicle returned by a proximity query,
// with its coordinates and distance from the query point
type NearbyVehicle struct {
	VehicleID  string   `json:"vehicle_id"`
	Location   Location `json:"location"`
	DistanceKm float64  `json:"distance_km"`
}
