package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is referenced by CIN (national ID) from trips, where one person
// can act as driver, seller or assistant.
type Employee struct {
	ID        int             `json:"id"`
	CIN       string          `json:"cin"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Role      string          `json:"role"`
	Salary    decimal.Decimal `json:"salary"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateEmployeeRequest struct {
	CIN    string          `json:"cin"`
	Name   string          `json:"name"`
	Phone  string          `json:"phone"`
	Role   string          `json:"role"`
	Salary decimal.Decimal `json:"salary"`
}
