package trip_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
	"bev-backend/internal/trip"
)

func TestReconcile_RequiresSealedLedger(t *testing.T) {
	l, _ := trip.NewLedger([]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 1, 0)}, nil)
	if _, err := l.Reconcile(); !errors.Is(err, trip.ErrNotSealed) {
		t.Fatalf("expected ErrNotSealed, got %v", err)
	}
}

func TestReconcile_SoldQuantityIdentity(t *testing.T) {
	// qttVendu + unitsReturned == unitsOut must hold for every line.
	l, _ := trip.NewLedger([]models.TripProduct{
		productLine(1, "Coca 33cl", 3.5, 24, 2, 5),  // 53 out
		productLine(2, "Sidi Ali 1.5L", 5, 6, 4, 2), // 26 out
	}, nil)

	err := l.RecordReturn(trip.ReturnInput{
		Products: []models.FinishTripProductInput{
			{ProductID: 1, QttReutour: 0, QttReutourUnite: 13},
			{ProductID: 2, QttReutour: 2, QttReutourUnite: 1},
		},
	})
	if err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}
	if _, err := l.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	for _, p := range l.Products {
		out, _ := trip.ToUnits(p.QttOut, p.QttOutUnite, p.CapacityByBox)
		ret, _ := trip.ToUnits(p.QttReutour, p.QttReutourUnite, p.CapacityByBox)
		if p.QttVendu+ret != out {
			t.Errorf("%s: qttVendu %d + returned %d != out %d",
				p.Designation, p.QttVendu, ret, out)
		}
	}
	if l.Products[0].QttVendu != 40 {
		t.Errorf("product 1 sold = %d, want 40", l.Products[0].QttVendu)
	}
	if l.Products[1].QttVendu != 13 {
		t.Errorf("product 2 sold = %d, want 13", l.Products[1].QttVendu)
	}
}

func TestReconcile_MonetaryTotals(t *testing.T) {
	// Gross revenue 1000 (100 units x 10), charges 50, waste cost 30:
	// waitedAmount = 920, received 900 => deff = -20.
	l, _ := trip.NewLedger([]models.TripProduct{
		productLine(1, "Sidi Ali 1.5L", 10, 10, 10, 0), // 100 units out
	}, nil)

	err := l.RecordReturn(trip.ReturnInput{
		Products: []models.FinishTripProductInput{{ProductID: 1}}, // nothing back
		Wastes: []models.TripWaste{
			{ProductID: 1, Designation: "Sidi Ali 1.5L", PriceUnite: decimal.NewFromInt(10), Type: "Damaged", Qtt: 3},
		},
		Charges: []models.TripCharge{
			{Type: "fuel", Amount: decimal.NewFromInt(30)},
			{Type: "toll", Amount: decimal.NewFromInt(20)},
		},
		ReceivedAmount: decimal.NewFromInt(900),
	})
	if err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}

	sum, err := l.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	assertDecimal(t, "grossRevenue", sum.GrossRevenue, 1000)
	assertDecimal(t, "totalCharges", sum.TotalCharges, 50)
	assertDecimal(t, "totalWasteCost", sum.TotalWasteCost, 30)
	assertDecimal(t, "waitedAmount", sum.WaitedAmount, 920)
	assertDecimal(t, "deff", sum.Deff, -20)
	assertDecimal(t, "benefit", sum.Benefit, 920)
}

func TestReconcile_EmptyTruckNeutrality(t *testing.T) {
	l, _ := trip.NewLedger(
		[]models.TripProduct{productLine(1, "Coca 33cl", 3.5, 24, 2, 0)},
		[]models.TripBox{boxLine(4, "Crate 24", 10)},
	)

	if err := l.RecordReturn(l.FullReturn()); err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}
	sum, err := l.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if l.Products[0].QttVendu != 0 {
		t.Errorf("qttVendu = %d, want 0", l.Products[0].QttVendu)
	}
	assertDecimal(t, "waitedAmount", sum.WaitedAmount, 0)
	assertDecimal(t, "deff", sum.Deff, 0)
	if d := sum.CrateDeficit[4]; d != 0 {
		t.Errorf("crate deficit = %d, want 0", d)
	}
}

func TestReconcile_CrateDeficit(t *testing.T) {
	l, _ := trip.NewLedger(nil, []models.TripBox{
		boxLine(4, "Crate 24", 10),
		boxLine(5, "Crate 12", 6),
	})

	err := l.RecordReturn(trip.ReturnInput{
		Boxes: []models.FinishTripBoxInput{
			{BoxID: 4, QttIn: 8},
			{BoxID: 5, QttIn: 6},
		},
	})
	if err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}
	sum, err := l.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if sum.CrateDeficit[4] != 2 {
		t.Errorf("deficit for box 4 = %d, want 2", sum.CrateDeficit[4])
	}
	if sum.CrateDeficit[5] != 0 {
		t.Errorf("deficit for box 5 = %d, want 0", sum.CrateDeficit[5])
	}
	assertDecimal(t, "grossRevenue", sum.GrossRevenue, 0)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}
