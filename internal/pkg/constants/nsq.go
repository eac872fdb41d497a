package constants

// NSQ topics
const (
	TopicRideRequested    = "ride.requested"
	TopicRideCancelled    = "ride.cancelled"
	TopicVehicleAvailable = "vehicle.available"
)

// NSQ channels
const (
	ChannelDispatch = "dispatch"
)
