package constants

// Redis key formats
const (
	KeyDriver    = "drivers:%s"    // Format: drivers:{driver_id}
	KeyPassenger = "passengers:%s" // Format: passengers:{passenger_id}
	KeyVehicle   = "vehicles:%s"   // Format: vehicles:{vehicle_id}
	KeyRide      = "rides:%s"      // Format: rides:{ride_id}

	// Geo Availability Index buckets, one per vehicle availability state
	KeyVehicleGeoBucket = "vehicles:geo:%s" // Format: vehicles:geo:{availability}

	// Active-Ride Index
	KeyPassengerActiveRide = "passengers:%s:active-ride" // Format: passengers:{passenger_id}:active-ride
	KeyDriverActiveRide    = "drivers:%s:active-ride"    // Format: drivers:{driver_id}:active-ride
	KeyVehicleActiveRide   = "vehicles:%s:active-ride"   // Format: vehicles:{vehicle_id}:active-ride
)

// Redis hash fields
const (
	FieldID             = "id"
	FieldDriverID       = "driver_id"
	FieldPassengerID    = "passenger_id"
	FieldVehicleID      = "vehicle_id"
	FieldStatus         = "status"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldMake           = "make"
	FieldModel          = "model"
	FieldRegistration   = "registration"
	FieldAvailability   = "availability"
	FieldLatitude       = "lat"
	FieldLongitude      = "lng"
	FieldGeohash        = "geohash"
	FieldStartLat       = "start_lat"
	FieldStartLng       = "start_lng"
	FieldDestLat        = "dest_lat"
	FieldDestLng        = "dest_lng"
	FieldPrice          = "price"
	FieldCancelReason   = "cancel_reason"
	FieldCreatedAt      = "created_at"
	FieldStartingTime   = "starting_time"
	FieldCompletionTime = "completion_time"
)
