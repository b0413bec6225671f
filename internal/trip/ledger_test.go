package trip_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
	"bev-backend/internal/trip"
)

func productLine(id int, designation string, price float64, capacity, qttOut, qttOutUnite int) models.TripProduct {
	return models.TripProduct{
		ProductID:     id,
		Designation:   designation,
		PriceUnite:    decimal.NewFromFloat(price),
		CapacityByBox: capacity,
		QttOut:        qttOut,
		QttOutUnite:   qttOutUnite,
	}
}

func boxLine(id int, designation string, qttOut int) models.TripBox {
	return models.TripBox{BoxID: id, Designation: designation, QttOut: qttOut}
}

func TestNewLedger_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		products []models.TripProduct
		boxes    []models.TripBox
		wantErr  error
	}{
		{
			name:    "both lists empty",
			wantErr: trip.ErrEmptyDispatch,
		},
		{
			name:     "products only",
			products: []models.TripProduct{productLine(1, "Sidi Ali 1.5L", 5, 12, 2, 0)},
		},
		{
			name:  "boxes only",
			boxes: []models.TripBox{boxLine(9, "Crate 24", 10)},
		},
		{
			name:     "negative crate quantity",
			products: []models.TripProduct{productLine(1, "Sidi Ali 1.5L", 5, 12, -1, 0)},
			wantErr:  &trip.InvalidQuantityError{},
		},
		{
			name:  "negative box quantity",
			boxes: []models.TripBox{boxLine(9, "Crate 24", -3)},
			wantErr: &trip.InvalidQuantityError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trip.NewLedger(tt.products, tt.boxes)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			case *trip.InvalidQuantityError:
				var iq *trip.InvalidQuantityError
				if !errors.As(err, &iq) {
					t.Fatalf("expected InvalidQuantityError, got %v", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("expected %v, got %v", want, err)
				}
			}
		})
	}
}

func TestNewLedger_RejectsDuplicateLines(t *testing.T) {
	// Two dispatch lines for the same product would let a return validated
	// against one line be written onto the other, so the dispatch itself
	// must refuse the duplicate.
	t.Run("duplicate product", func(t *testing.T) {
		_, err := trip.NewLedger([]models.TripProduct{
			productLine(1, "Coca 33cl", 3.5, 24, 1, 0),
			productLine(1, "Coca 33cl", 3.5, 24, 5, 0),
		}, nil)
		var dup *trip.DuplicateLineError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateLineError, got %v", err)
		}
		if dup.Kind != "product" || dup.Ref != "1" {
			t.Errorf("got kind %q ref %q, want product 1", dup.Kind, dup.Ref)
		}
	})

	t.Run("duplicate box", func(t *testing.T) {
		_, err := trip.NewLedger(nil, []models.TripBox{
			boxLine(4, "Crate 24", 3),
			boxLine(4, "Crate 24", 7),
		})
		var dup *trip.DuplicateLineError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateLineError, got %v", err)
		}
		if dup.Kind != "box" {
			t.Errorf("kind = %q, want box", dup.Kind)
		}
	})

	t.Run("distinct products accepted", func(t *testing.T) {
		if _, err := trip.NewLedger([]models.TripProduct{
			productLine(1, "Coca 33cl", 3.5, 24, 1, 0),
			productLine(2, "Sidi Ali 1.5L", 5, 6, 2, 0),
		}, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRecordReturn_RejectsDuplicateEntries(t *testing.T) {
	newLedger := func(t *testing.T) *trip.Ledger {
		t.Helper()
		l, err := trip.NewLedger(
			[]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 2, 0)},
			[]models.TripBox{boxLine(4, "Crate 24", 10)},
		)
		if err != nil {
			t.Fatalf("NewLedger: %v", err)
		}
		return l
	}

	t.Run("duplicate product entry", func(t *testing.T) {
		l := newLedger(t)
		err := l.RecordReturn(trip.ReturnInput{
			Products: []models.FinishTripProductInput{
				{ProductID: 1, QttReutour: 1},
				{ProductID: 1, QttReutour: 1},
			},
		})
		var dup *trip.DuplicateLineError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateLineError, got %v", err)
		}
		if l.Sealed() {
			t.Error("ledger must stay unsealed after a rejected return")
		}
	})

	t.Run("duplicate box entry", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Boxes: []models.FinishTripBoxInput{
				{BoxID: 4, QttIn: 5},
				{BoxID: 4, QttIn: 5},
			},
		})
		var dup *trip.DuplicateLineError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateLineError, got %v", err)
		}
	})
}

func TestRecordReturn_UnitConservation(t *testing.T) {
	// Dispatched 2 crates x 24 + 5 loose = 53 units. Any crate/loose split
	// summing to at most 53 must pass; 54 must fail.
	tests := []struct {
		name            string
		qttReutour      int
		qttReutourUnite int
		wantOverReturn  bool
	}{
		{name: "full return same split", qttReutour: 2, qttReutourUnite: 5},
		{name: "full return all loose", qttReutour: 0, qttReutourUnite: 53},
		{name: "partial return", qttReutour: 1, qttReutourUnite: 3},
		{name: "zero return", qttReutour: 0, qttReutourUnite: 0},
		{name: "one unit too many all loose", qttReutour: 0, qttReutourUnite: 54, wantOverReturn: true},
		{name: "one crate too many", qttReutour: 3, qttReutourUnite: 0, wantOverReturn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := trip.NewLedger(
				[]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 2, 5)}, nil)
			if err != nil {
				t.Fatalf("NewLedger: %v", err)
			}
			err = l.RecordReturn(trip.ReturnInput{
				Products: []models.FinishTripProductInput{{
					ProductID:       1,
					QttReutour:      tt.qttReutour,
					QttReutourUnite: tt.qttReutourUnite,
				}},
			})
			if tt.wantOverReturn {
				var or *trip.OverReturnError
				if !errors.As(err, &or) {
					t.Fatalf("expected OverReturnError, got %v", err)
				}
				if or.Designation != "Coca 33cl" {
					t.Errorf("error should name the product, got %q", or.Designation)
				}
				if l.Sealed() {
					t.Error("ledger must stay unsealed after a rejected return")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Sealed() {
				t.Error("ledger should be sealed after a successful return")
			}
		})
	}
}

func TestRecordReturn_BoxConservation(t *testing.T) {
	l, err := trip.NewLedger(nil, []models.TripBox{boxLine(4, "Crate 24", 10)})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	err = l.RecordReturn(trip.ReturnInput{
		Boxes: []models.FinishTripBoxInput{{BoxID: 4, QttIn: 11}},
	})
	var or *trip.OverReturnError
	if !errors.As(err, &or) {
		t.Fatalf("expected OverReturnError, got %v", err)
	}
	if or.Kind != "box" {
		t.Errorf("expected box over-return, got kind %q", or.Kind)
	}

	if err := l.RecordReturn(trip.ReturnInput{
		Boxes: []models.FinishTripBoxInput{{BoxID: 4, QttIn: 7}},
	}); err != nil {
		t.Fatalf("valid return rejected: %v", err)
	}
	if l.Boxes[0].Deficit() != 3 {
		t.Errorf("deficit = %d, want 3", l.Boxes[0].Deficit())
	}
}

func TestRecordReturn_UnknownReferences(t *testing.T) {
	l, _ := trip.NewLedger([]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 1, 0)}, nil)

	err := l.RecordReturn(trip.ReturnInput{
		Products: []models.FinishTripProductInput{{ProductID: 99}},
	})
	var ur *trip.UnknownReferenceError
	if !errors.As(err, &ur) {
		t.Fatalf("expected UnknownReferenceError, got %v", err)
	}
	if ur.Kind != "product" {
		t.Errorf("kind = %q, want product", ur.Kind)
	}
}

func TestRecordReturn_WasteAndChargeValidation(t *testing.T) {
	newLedger := func(t *testing.T) *trip.Ledger {
		t.Helper()
		l, err := trip.NewLedger([]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 1, 0)}, nil)
		if err != nil {
			t.Fatalf("NewLedger: %v", err)
		}
		return l
	}

	t.Run("waste with zero quantity", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Wastes: []models.TripWaste{{ProductID: 1, Type: "Damaged", Qtt: 0}},
		})
		var iw *trip.InvalidWasteError
		if !errors.As(err, &iw) {
			t.Fatalf("expected InvalidWasteError, got %v", err)
		}
	})

	t.Run("waste with no product", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Wastes: []models.TripWaste{{Type: "Damaged", Qtt: 2}},
		})
		var iw *trip.InvalidWasteError
		if !errors.As(err, &iw) {
			t.Fatalf("expected InvalidWasteError, got %v", err)
		}
	})

	t.Run("waste with empty type", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Wastes: []models.TripWaste{{ProductID: 1, Qtt: 2}},
		})
		var iw *trip.InvalidWasteError
		if !errors.As(err, &iw) {
			t.Fatalf("expected InvalidWasteError, got %v", err)
		}
	})

	t.Run("charge with zero amount", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Charges: []models.TripCharge{{Type: "fuel", Amount: decimal.Zero}},
		})
		var ic *trip.InvalidChargeError
		if !errors.As(err, &ic) {
			t.Fatalf("expected InvalidChargeError, got %v", err)
		}
	})

	t.Run("charge with empty type", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			Charges: []models.TripCharge{{Amount: decimal.NewFromInt(20)}},
		})
		var ic *trip.InvalidChargeError
		if !errors.As(err, &ic) {
			t.Fatalf("expected InvalidChargeError, got %v", err)
		}
	})

	t.Run("negative received amount", func(t *testing.T) {
		err := newLedger(t).RecordReturn(trip.ReturnInput{
			ReceivedAmount: decimal.NewFromInt(-1),
		})
		var iq *trip.InvalidQuantityError
		if !errors.As(err, &iq) {
			t.Fatalf("expected InvalidQuantityError, got %v", err)
		}
	})
}

func TestRecordReturn_SealsLedger(t *testing.T) {
	l, _ := trip.NewLedger([]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 1, 0)}, nil)

	if err := l.RecordReturn(trip.ReturnInput{}); err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	if err := l.RecordReturn(trip.ReturnInput{}); !errors.Is(err, trip.ErrAlreadyFinished) {
		t.Fatalf("second return: expected ErrAlreadyFinished, got %v", err)
	}
}

func TestFullReturn(t *testing.T) {
	l, _ := trip.NewLedger(
		[]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 2, 5)},
		[]models.TripBox{boxLine(4, "Crate 24", 10)},
	)

	if err := l.RecordReturn(l.FullReturn()); err != nil {
		t.Fatalf("full return rejected: %v", err)
	}
	if l.Products[0].QttReutour != 2 || l.Products[0].QttReutourUnite != 5 {
		t.Errorf("product return = (%d, %d), want (2, 5)",
			l.Products[0].QttReutour, l.Products[0].QttReutourUnite)
	}
	if l.Boxes[0].QttIn != 10 {
		t.Errorf("box return = %d, want 10", l.Boxes[0].QttIn)
	}
	if !l.ReceivedAmount.IsZero() {
		t.Errorf("received amount = %s, want 0", l.ReceivedAmount)
	}
}
