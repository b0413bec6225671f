package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TripStatusActive   = "active"
	TripStatusFinished = "finished"
)

// TripProduct is one product line of a trip. Quantities are tracked in two
// units: sealed crates (QttOut/QttReutour) and loose units (QttOutUnite/
// QttReutourUnite). PriceUnite and CapacityByBox are snapshotted from the
// catalog at dispatch time so a later catalog edit cannot change the math
// of an open trip.
type TripProduct struct {
	ID              int             `json:"id,omitempty"`
	TripID          int             `json:"trip_id,omitempty"`
	ProductID       int             `json:"product_id"`
	Designation     string          `json:"designation"`
	PriceUnite      decimal.Decimal `json:"priceUnite"`
	CapacityByBox   int             `json:"capacityByBox"`
	QttOut          int             `json:"qttOut"`
	QttOutUnite     int             `json:"qttOutUnite"`
	QttReutour      int             `json:"qttReutour"`
	QttReutourUnite int             `json:"qttReutourUnite"`
	QttVendu        int             `json:"qttVendu"`
}

// TripBox is one crate line: empty crates of a given type loaded in the
// morning and counted back in the evening. Crates carry no money; the
// deficit is only an operational figure.
type TripBox struct {
	ID          int    `json:"id,omitempty"`
	TripID      int    `json:"trip_id,omitempty"`
	BoxID       int    `json:"box_id"`
	Designation string `json:"designation"`
	QttOut      int    `json:"qttOut"`
	QttIn       int    `json:"qttIn"`
}

// Deficit is the number of crates that did not come back.
func (b TripBox) Deficit() int { return b.QttOut - b.QttIn }

// TripWaste is a driver-reported loss, valued at the product's unit price.
type TripWaste struct {
	ID          int             `json:"id,omitempty"`
	TripID      int             `json:"trip_id,omitempty"`
	ProductID   int             `json:"product"`
	Designation string          `json:"designation"`
	PriceUnite  decimal.Decimal `json:"priceUnite"`
	Type        string          `json:"type"`
	Qtt         int             `json:"qtt"`
}

// TripCharge is an incidental expense (fuel, toll, ...) incurred on the road.
type TripCharge struct {
	ID     int             `json:"id,omitempty"`
	TripID int             `json:"trip_id,omitempty"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Trip is one truck's delivery round for a day. The settlement fields
// (ReceivedAmount, WaitedAmount, Benefit, Deff) are only meaningful once
// Status is finished.
type Trip struct {
	ID             int             `json:"id"`
	TruckMatricule string          `json:"truck_matricule"`
	DriverCIN      string          `json:"driver_id"`
	SellerCIN      string          `json:"seller_id"`
	AssistantCIN   string          `json:"assistant_id"`
	Date           time.Time       `json:"date"`
	Zone           string          `json:"zone"`
	Status         string          `json:"status"`
	Products       []TripProduct   `json:"tripProducts"`
	Boxes          []TripBox       `json:"tripBoxes"`
	Wastes         []TripWaste     `json:"tripWastes"`
	Charges        []TripCharge    `json:"tripCharges"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	WaitedAmount   decimal.Decimal `json:"waitedAmount"`
	Benefit        decimal.Decimal `json:"benefit"`
	Deff           decimal.Decimal `json:"deff"`
	CreatedAt      time.Time       `json:"created_at"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
}

// StartTripRequest mirrors the dashboard's start-trip wizard payload.
type StartTripRequest struct {
	TruckMatricule string                   `json:"truck_matricule"`
	DriverCIN      string                   `json:"driver_id"`
	SellerCIN      string                   `json:"seller_id"`
	AssistantCIN   string                   `json:"assistant_id"`
	Date           string                   `json:"date"`
	Zone           string                   `json:"zone"`
	Products       []StartTripProductInput  `json:"tripProducts"`
	Boxes          []StartTripBoxInput      `json:"tripBoxes"`
}

type StartTripProductInput struct {
	ProductID   int `json:"product_id"`
	QttOut      int `json:"qttOut"`
	QttOutUnite int `json:"qttOutUnite"`
}

type StartTripBoxInput struct {
	BoxID  int `json:"box_id"`
	QttOut int `json:"qttOut"`
}

// FinishTripRequest mirrors the dashboard's finish-trip form payload.
type FinishTripRequest struct {
	Products       []FinishTripProductInput `json:"tripProducts"`
	Boxes          []FinishTripBoxInput     `json:"tripBoxes"`
	Wastes         []TripWasteInput         `json:"tripWastes"`
	Charges        []TripChargeInput        `json:"tripCharges"`
	ReceivedAmount decimal.Decimal          `json:"receivedAmount"`
}

type FinishTripProductInput struct {
	ProductID       int `json:"product_id"`
	QttReutour      int `json:"qttReutour"`
	QttReutourUnite int `json:"qttReutourUnite"`
}

type FinishTripBoxInput struct {
	BoxID int `json:"box_id"`
	QttIn int `json:"qttIn"`
}

type TripWasteInput struct {
	ProductID int    `json:"product"`
	Type      string `json:"type"`
	Qtt       int    `json:"qtt"`
}

type TripChargeInput struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// TripPage is one page of the trip listing.
type TripPage struct {
	Trips       []*Trip `json:"trips"`
	TotalItems  int     `json:"totalItems"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
}
