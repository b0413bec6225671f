package models

import "time"

// Truck is identified by its matricule (registration plate), which is how
// the dashboard and the trip records reference it.
type Truck struct {
	ID        int       `json:"id"`
	Matricule string    `json:"matricule"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTruckRequest struct {
	Matricule string `json:"matricule"`
	Capacity  int    `json:"capacity"`
}
