package models

// Driver represents a driver reference entity
type Driver struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DriverRequest is the payload for creating or updating a driver
type DriverRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
