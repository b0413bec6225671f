package trip

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
)

// Ledger holds the raw, unreconciled facts of one trip: what left the depot
// in the morning and, once RecordReturn has run, what came back in the
// evening. All validation of driver-reported numbers happens here, before
// anything is written, so a rejected return leaves the ledger untouched.
type Ledger struct {
	Products       []models.TripProduct
	Boxes          []models.TripBox
	Wastes         []models.TripWaste
	Charges        []models.TripCharge
	ReceivedAmount decimal.Decimal

	sealed bool
}

// ReturnInput is the evening settlement as reported by the driver. Waste
// lines arrive already resolved against the catalog (designation and unit
// price filled in) because the ledger itself does no catalog lookups.
type ReturnInput struct {
	Products       []models.FinishTripProductInput
	Boxes          []models.FinishTripBoxInput
	Wastes         []models.TripWaste
	Charges        []models.TripCharge
	ReceivedAmount decimal.Decimal
}

// NewLedger records the morning dispatch. A trip must move at least one
// product or crate line, every quantity must be non-negative, and a
// product or crate may appear on at most one line: the conservation check
// matches returns to dispatch lines by catalog id, so a duplicate would
// make it ambiguous.
func NewLedger(products []models.TripProduct, boxes []models.TripBox) (*Ledger, error) {
	if len(products) == 0 && len(boxes) == 0 {
		return nil, ErrEmptyDispatch
	}
	seenProducts := make(map[int]bool, len(products))
	for i, p := range products {
		if seenProducts[p.ProductID] {
			return nil, &DuplicateLineError{Kind: "product", Ref: strconv.Itoa(p.ProductID)}
		}
		seenProducts[p.ProductID] = true
		if p.QttOut < 0 {
			return nil, &InvalidQuantityError{Field: fmt.Sprintf("tripProducts[%d].qttOut", i)}
		}
		if p.QttOutUnite < 0 {
			return nil, &InvalidQuantityError{Field: fmt.Sprintf("tripProducts[%d].qttOutUnite", i)}
		}
		if p.CapacityByBox < 0 {
			return nil, &InvalidQuantityError{Field: fmt.Sprintf("tripProducts[%d].capacityByBox", i)}
		}
	}
	seenBoxes := make(map[int]bool, len(boxes))
	for i, b := range boxes {
		if seenBoxes[b.BoxID] {
			return nil, &DuplicateLineError{Kind: "box", Ref: strconv.Itoa(b.BoxID)}
		}
		seenBoxes[b.BoxID] = true
		if b.QttOut < 0 {
			return nil, &InvalidQuantityError{Field: fmt.Sprintf("tripBoxes[%d].qttOut", i)}
		}
	}

	l := &Ledger{
		Products: make([]models.TripProduct, len(products)),
		Boxes:    make([]models.TripBox, len(boxes)),
	}
	copy(l.Products, products)
	copy(l.Boxes, boxes)
	return l, nil
}

// Sealed reports whether the evening return has been recorded.
func (l *Ledger) Sealed() bool { return l.sealed }

// RecordReturn validates and records the settlement. The binding invariant
// on products is on total units, not per field: a driver may return 0
// crates + 40 loose units against 1 crate (capacity 24) + 16 units. All
// checks run before any write; on the first successful call the ledger is
// sealed and further calls fail with ErrAlreadyFinished.
func (l *Ledger) RecordReturn(in ReturnInput) error {
	if l.sealed {
		return ErrAlreadyFinished
	}
	if in.ReceivedAmount.IsNegative() {
		return &InvalidQuantityError{Field: "receivedAmount"}
	}

	productIdx := make(map[int]int, len(l.Products))
	for i, p := range l.Products {
		productIdx[p.ProductID] = i
	}
	boxIdx := make(map[int]int, len(l.Boxes))
	for i, b := range l.Boxes {
		boxIdx[b.BoxID] = i
	}

	// Product returns: total-units conservation per line.
	returnedUnits := make(map[int]models.FinishTripProductInput, len(in.Products))
	for i, r := range in.Products {
		idx, ok := productIdx[r.ProductID]
		if !ok {
			return &UnknownReferenceError{Kind: "product", Ref: strconv.Itoa(r.ProductID)}
		}
		if _, dup := returnedUnits[r.ProductID]; dup {
			return &DuplicateLineError{Kind: "product", Ref: strconv.Itoa(r.ProductID)}
		}
		if r.QttReutour < 0 {
			return &InvalidQuantityError{Field: fmt.Sprintf("tripProducts[%d].qttReutour", i)}
		}
		if r.QttReutourUnite < 0 {
			return &InvalidQuantityError{Field: fmt.Sprintf("tripProducts[%d].qttReutourUnite", i)}
		}
		line := l.Products[idx]
		out, err := ToUnits(line.QttOut, line.QttOutUnite, line.CapacityByBox)
		if err != nil {
			return err
		}
		ret, err := ToUnits(r.QttReutour, r.QttReutourUnite, line.CapacityByBox)
		if err != nil {
			return err
		}
		if ret > out {
			return &OverReturnError{
				Kind:          "product",
				Designation:   line.Designation,
				UnitsOut:      out,
				UnitsReturned: ret,
			}
		}
		returnedUnits[r.ProductID] = r
	}

	// Crate returns: plain count conservation per line.
	returnedBoxes := make(map[int]int, len(in.Boxes))
	for i, r := range in.Boxes {
		idx, ok := boxIdx[r.BoxID]
		if !ok {
			return &UnknownReferenceError{Kind: "box", Ref: strconv.Itoa(r.BoxID)}
		}
		if _, dup := returnedBoxes[r.BoxID]; dup {
			return &DuplicateLineError{Kind: "box", Ref: strconv.Itoa(r.BoxID)}
		}
		if r.QttIn < 0 {
			return &InvalidQuantityError{Field: fmt.Sprintf("tripBoxes[%d].qttIn", i)}
		}
		line := l.Boxes[idx]
		if r.QttIn > line.QttOut {
			return &OverReturnError{
				Kind:          "box",
				Designation:   line.Designation,
				UnitsOut:      line.QttOut,
				UnitsReturned: r.QttIn,
			}
		}
		returnedBoxes[r.BoxID] = r.QttIn
	}

	for i, w := range in.Wastes {
		switch {
		case w.ProductID == 0:
			return &InvalidWasteError{Index: i, Reason: "missing product reference"}
		case w.Type == "":
			return &InvalidWasteError{Index: i, Reason: "missing waste type"}
		case w.Qtt <= 0:
			return &InvalidWasteError{Index: i, Reason: "quantity must be positive"}
		}
	}
	for i, c := range in.Charges {
		switch {
		case c.Type == "":
			return &InvalidChargeError{Index: i, Reason: "missing charge type"}
		case !c.Amount.IsPositive():
			return &InvalidChargeError{Index: i, Reason: "amount must be positive"}
		}
	}

	// Everything checked out; commit. A dispatched line with no matching
	// return entry counts as fully sold (zero returned).
	for i := range l.Products {
		if r, ok := returnedUnits[l.Products[i].ProductID]; ok {
			l.Products[i].QttReutour = r.QttReutour
			l.Products[i].QttReutourUnite = r.QttReutourUnite
		}
	}
	for i := range l.Boxes {
		if qttIn, ok := returnedBoxes[l.Boxes[i].BoxID]; ok {
			l.Boxes[i].QttIn = qttIn
		}
	}
	l.Wastes = make([]models.TripWaste, len(in.Wastes))
	copy(l.Wastes, in.Wastes)
	l.Charges = make([]models.TripCharge, len(in.Charges))
	copy(l.Charges, in.Charges)
	l.ReceivedAmount = in.ReceivedAmount
	l.sealed = true
	return nil
}

// FullReturn builds the ReturnInput that gives every product and crate line
// back exactly as dispatched, with no wastes, charges or cash. It is what
// the empty-truck recovery path feeds through the normal finish flow.
func (l *Ledger) FullReturn() ReturnInput {
	in := ReturnInput{ReceivedAmount: decimal.Zero}
	for _, p := range l.Products {
		in.Products = append(in.Products, models.FinishTripProductInput{
			ProductID:       p.ProductID,
			QttReutour:      p.QttOut,
			QttReutourUnite: p.QttOutUnite,
		})
	}
	for _, b := range l.Boxes {
		in.Boxes = append(in.Boxes, models.FinishTripBoxInput{
			BoxID: b.BoxID,
			QttIn: b.QttOut,
		})
	}
	return in
}
