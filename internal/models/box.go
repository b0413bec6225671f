package models

import "time"

// Box is a reusable crate type. Full/Empty track the depot stock of filled
// and empty crates; Capacity is informational (units per crate for generic
// crates, products carry their own capacityByBox).
type Box struct {
	ID          int       `json:"id"`
	Designation string    `json:"designation"`
	Full        int       `json:"full"`
	Empty       int       `json:"empty"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateBoxRequest struct {
	Designation string `json:"designation"`
	Full        int    `json:"full"`
	Empty       int    `json:"empty"`
	Capacity    int    `json:"capacity"`
}
