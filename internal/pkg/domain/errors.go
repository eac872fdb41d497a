package domain

import (
	"errors"
	"fmt"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

var (
	// ErrNotFound indicates a referenced ride, vehicle, driver or passenger does not exist
	ErrNotFound = errors.New("not found")
	// ErrNoVehicleAssigned indicates a ride operation that requires an assigned vehicle
	ErrNoVehicleAssigned = errors.New("no vehicle assigned")
	// ErrVehicleInUse indicates a vehicle or driver is still referenced by an active ride
	ErrVehicleInUse = errors.New("referenced by an active ride")
	// ErrMissingLocation indicates latitude and longitude were not supplied together
	ErrMissingLocation = errors.New("latitude and longitude are required together")
)

// InvalidTransitionError indicates a state machine precondition violation.
// It carries the ride's current status and the attempted event.
type InvalidTransitionError struct {
	Status models.RideStatus
	Event  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s a ride in status %q", e.Event, e.Status)
}

// NewInvalidTransition creates an InvalidTransitionError for the given status and event
func NewInvalidTransition(status models.RideStatus, event string) error {
	return &InvalidTransitionError{Status: status, Event: event}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
