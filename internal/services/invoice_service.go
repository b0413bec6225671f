package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

const (
	InvoiceLoading    = "loading"
	InvoiceSettlement = "settlement"
)

// ErrInvalidInvoiceType is returned for an invoice type other than
// loading or settlement.
var ErrInvalidInvoiceType = errors.New("invoice type must be 'loading' or 'settlement'")

// InvoiceArchiver stores a rendered invoice durably. The S3 archiver
// implements it; nil means archiving is off.
type InvoiceArchiver interface {
	Store(ctx context.Context, key string, pdf []byte) error
}

type InvoiceService struct {
	Trips    TripStore
	Archiver InvoiceArchiver
}

func NewInvoiceService(trips TripStore) *InvoiceService {
	return &InvoiceService{Trips: trips}
}

// SetArchiver attaches the durable archive. Optional.
func (s *InvoiceService) SetArchiver(a InvoiceArchiver) {
	s.Archiver = a
}

// Generate renders the invoice PDF for a trip. Loading invoices list what
// left the depot; settlement invoices require a finished trip and add the
// returns and the money reconciliation. Rendered PDFs are cached, and
// settlement invoices are pushed to the archive when one is configured.
func (s *InvoiceService) Generate(ctx context.Context, tripID int, kind string) ([]byte, error) {
	if kind != InvoiceLoading && kind != InvoiceSettlement {
		return nil, ErrInvalidInvoiceType
	}

	if pdf, ok := cache.Get(ctx, cache.InvoiceKey(tripID, kind)); ok {
		return pdf, nil
	}

	t, err := s.Trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, trip.ErrNotFound
		}
		return nil, err
	}
	if kind == InvoiceSettlement && t.Status != models.TripStatusFinished {
		return nil, trip.ErrNotSettled
	}

	var pdf []byte
	if kind == InvoiceLoading {
		pdf, err = renderLoadingInvoice(t)
	} else {
		pdf, err = renderSettlementInvoice(t)
	}
	if err != nil {
		return nil, err
	}

	cache.SetInvoice(ctx, tripID, kind, pdf)
	if kind == InvoiceSettlement && s.Archiver != nil {
		key := fmt.Sprintf("settlements/%s/trip-%d.pdf", t.Date.Format("2006-01"), t.ID)
		if err := s.Archiver.Store(ctx, key, pdf); err != nil {
			// Archiving is best effort; the caller still gets the PDF.
			log.Printf("[InvoiceService] Failed to archive settlement for trip %d: %v", t.ID, err)
		}
	}
	return pdf, nil
}

func renderLoadingInvoice(t *models.Trip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Loading Invoice", "", 1, "C", false, 0, "")
	renderTripHeader(pdf, t)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Products Loaded", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(80, 7, "Designation", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Crates", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Units", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Unit Price (MAD)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, p := range t.Products {
		pdf.CellFormat(80, 6, p.Designation, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(p.QttOut), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(p.QttOutUnite), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, p.PriceUnite.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if len(t.Boxes) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Empty Crates Loaded", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(140, 7, "Crate Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Count", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, b := range t.Boxes {
			pdf.CellFormat(140, 6, b.Designation, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, strconv.Itoa(b.QttOut), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSettlementInvoice(t *models.Trip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Settlement Invoice", "", 1, "C", false, 0, "")
	renderTripHeader(pdf, t)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Products", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Designation", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Out", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Returned", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Sold", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Revenue", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, p := range t.Products {
		out := fmt.Sprintf("%d + %d", p.QttOut, p.QttOutUnite)
		ret := fmt.Sprintf("%d + %d", p.QttReutour, p.QttReutourUnite)
		revenue := p.PriceUnite.Mul(decimalFromInt(p.QttVendu))
		pdf.CellFormat(60, 6, p.Designation, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, out, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, ret, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(p.QttVendu), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, p.PriceUnite.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, revenue.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if len(t.Boxes) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(100, 7, "Crate Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Out", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "In", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Deficit", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, b := range t.Boxes {
			pdf.CellFormat(100, 6, b.Designation, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(b.QttOut), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(b.QttIn), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(b.Deficit()), "1", 1, "C", false, 0, "")
		}
	}

	if len(t.Wastes) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(80, 7, "Waste", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Cost", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, w := range t.Wastes {
			cost := w.PriceUnite.Mul(decimalFromInt(w.Qtt))
			pdf.CellFormat(80, 6, w.Designation, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, w.Type, "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(w.Qtt), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, cost.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}

	if len(t.Charges) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(140, 7, "Charge", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, c := range t.Charges {
			pdf.CellFormat(140, 6, c.Type, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, c.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Cash Reconciliation (MAD)", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Expected: %s", t.WaitedAmount.StringFixed(2)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Received: %s", t.ReceivedAmount.StringFixed(2)), "1", 1, "L", false, 0, "")

	if t.Deff.IsNegative() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Variance: %s", t.Deff.StringFixed(2)), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func renderTripHeader(pdf *gofpdf.Fpdf, t *models.Trip) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Trip #%d - %s", t.ID, t.Date.Format("02-Jan-2006")), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Trip Information", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Truck: %s", t.TruckMatricule), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Zone: %s", t.Zone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Driver: %s", t.DriverCIN), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Seller: %s", t.SellerCIN), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)
}
