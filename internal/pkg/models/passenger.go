package models

// Passenger represents a passenger reference entity
type Passenger struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PassengerRequest is the payload for creating or updating a passenger
type PassengerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
