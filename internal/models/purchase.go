package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseProduct is one product line of a supplier purchase. Price is the
// negotiated buy price per unit, not the catalog sell price; Designation
// and CapacityByBox are snapshotted from the catalog like trip lines.
type PurchaseProduct struct {
	ID            int             `json:"id,omitempty"`
	PurchaseID    int             `json:"purchase_id,omitempty"`
	ProductID     int             `json:"product_id"`
	Designation   string          `json:"designation"`
	Price         decimal.Decimal `json:"price"`
	CapacityByBox int             `json:"capacityByBox"`
	Qtt           int             `json:"qtt"`
	QttUnite      int             `json:"qttUnite"`
}

// PurchaseBox is a crate exchange with the supplier: full crates received
// (QttIn) against empties handed back (QttOut).
type PurchaseBox struct {
	ID          int    `json:"id,omitempty"`
	PurchaseID  int    `json:"purchase_id,omitempty"`
	BoxID       int    `json:"box_id"`
	Designation string `json:"designation"`
	QttIn       int    `json:"qttIn"`
	QttOut      int    `json:"qttOut"`
}

// PurchaseWaste is stock rejected at reception (broken bottles, expired
// lots). It carries no money; the deduction is settled with the supplier
// off the books.
type PurchaseWaste struct {
	ID          int    `json:"id,omitempty"`
	PurchaseID  int    `json:"purchase_id,omitempty"`
	ProductID   int    `json:"product"`
	Designation string `json:"designation"`
	Type        string `json:"type"`
	Qtt         int    `json:"qtt"`
}

// Purchase is one restock delivery from a supplier. Total is computed from
// the product lines at creation and never recomputed.
type Purchase struct {
	ID           int               `json:"id"`
	SupplierID   int               `json:"supplier_id"`
	SupplierName string            `json:"supplier_name"`
	Date         time.Time         `json:"date"`
	Total        decimal.Decimal   `json:"total"`
	Products     []PurchaseProduct `json:"purchaseProducts"`
	Boxes        []PurchaseBox     `json:"purchaseBoxes"`
	Wastes       []PurchaseWaste   `json:"purchaseWastes"`
	CreatedAt    time.Time         `json:"created_at"`
}

// CreatePurchaseRequest mirrors the dashboard's new-purchase form payload.
type CreatePurchaseRequest struct {
	SupplierID int                    `json:"supplier_id"`
	Date       string                 `json:"date"`
	Products   []PurchaseProductInput `json:"purchaseProducts"`
	Boxes      []PurchaseBoxInput     `json:"purchaseBoxes"`
	Wastes     []PurchaseWasteInput   `json:"purchaseWastes"`
}

type PurchaseProductInput struct {
	ProductID int             `json:"product_id"`
	Qtt       int             `json:"qtt"`
	QttUnite  int             `json:"qttUnite"`
	Price     decimal.Decimal `json:"price"`
}

type PurchaseBoxInput struct {
	BoxID  int `json:"box_id"`
	QttIn  int `json:"qttIn"`
	QttOut int `json:"qttOut"`
}

type PurchaseWasteInput struct {
	ProductID int    `json:"product"`
	Type      string `json:"type"`
	Qtt       int    `json:"qtt"`
}

// PurchasePage is one page of the purchase listing.
type PurchasePage struct {
	Purchases   []*Purchase `json:"purchases"`
	TotalItems  int         `json:"totalItems"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}
