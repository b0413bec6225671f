package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/services"
	"bev-backend/internal/trip"
)

type fakeTripStore struct {
	trips  map[int]*models.Trip
	nextID int
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[int]*models.Trip), nextID: 1}
}

func (f *fakeTripStore) Create(_ context.Context, t *models.Trip) error {
	t.ID = f.nextID
	f.nextID++
	stored := *t
	f.trips[t.ID] = &stored
	return nil
}

func (f *fakeTripStore) GetByID(_ context.Context, id int) (*models.Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return nil, repositories.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTripStore) List(_ context.Context, page, limit int) ([]*models.Trip, int, error) {
	var all []*models.Trip
	for _, t := range f.trips {
		all = append(all, t)
	}
	return all, len(all), nil
}

func (f *fakeTripStore) ListActive(_ context.Context) ([]*models.Trip, error) {
	var active []*models.Trip
	for _, t := range f.trips {
		if t.Status == models.TripStatusActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (f *fakeTripStore) FindActiveByTruck(_ context.Context, matricule string) (*models.Trip, error) {
	for _, t := range f.trips {
		if t.TruckMatricule == matricule && t.Status == models.TripStatusActive {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrNoRows
}

func (f *fakeTripStore) Finish(_ context.Context, t *models.Trip) error {
	stored, ok := f.trips[t.ID]
	if !ok {
		return repositories.ErrNoRows
	}
	if stored.Status == models.TripStatusFinished {
		return trip.ErrAlreadyFinished
	}
	cp := *t
	f.trips[t.ID] = &cp
	return nil
}

type fakeCatalog struct {
	products  map[int]*models.Product
	boxes     map[int]*models.Box
	trucks    map[string]*models.Truck
	employees map[string]*models.Employee
}

func (f *fakeCatalog) GetByID(_ context.Context, id int) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrNoRows
}

type fakeBoxes struct{ c *fakeCatalog }

func (f fakeBoxes) GetByID(_ context.Context, id int) (*models.Box, error) {
	if b, ok := f.c.boxes[id]; ok {
		return b, nil
	}
	return nil, repositories.ErrNoRows
}

type fakeTrucks struct{ c *fakeCatalog }

func (f fakeTrucks) GetByMatricule(_ context.Context, matricule string) (*models.Truck, error) {
	if t, ok := f.c.trucks[matricule]; ok {
		return t, nil
	}
	return nil, repositories.ErrNoRows
}

type fakeEmployees struct{ c *fakeCatalog }

func (f fakeEmployees) GetByCIN(_ context.Context, cin string) (*models.Employee, error) {
	if e, ok := f.c.employees[cin]; ok {
		return e, nil
	}
	return nil, repositories.ErrNoRows
}

func newService() (*services.TripService, *fakeTripStore) {
	intPtr := func(v int) *int { return &v }
	catalog := &fakeCatalog{
		products: map[int]*models.Product{
			1: {ID: 1, Designation: "Cola 33cl", PriceUnite: decimal.NewFromInt(5), BoxID: intPtr(1), CapacityByBox: 24},
			2: {ID: 2, Designation: "Water 1.5L", PriceUnite: decimal.NewFromFloat(6.5), CapacityByBox: 6},
		},
		boxes: map[int]*models.Box{
			1: {ID: 1, Designation: "Glass crate 24"},
		},
		trucks: map[string]*models.Truck{
			"A-1234": {ID: 1, Matricule: "A-1234", Capacity: 900},
		},
		employees: map[string]*models.Employee{
			"K111": {ID: 1, CIN: "K111", Name: "Driver", Role: "driver"},
			"K222": {ID: 2, CIN: "K222", Name: "Seller", Role: "seller"},
		},
	}
	store := newFakeTripStore()
	svc := services.NewTripService(store, catalog, fakeBoxes{catalog}, fakeTrucks{catalog}, fakeEmployees{catalog})
	return svc, store
}

func startRequest() *models.StartTripRequest {
	return &models.StartTripRequest{
		TruckMatricule: "A-1234",
		DriverCIN:      "K111",
		SellerCIN:      "K222",
		Date:           "2026-08-30",
		Zone:           "Gueliz",
		Products: []models.StartTripProductInput{
			{ProductID: 1, QttOut: 2, QttOutUnite: 5}, // 53 units at 5.00
		},
		Boxes: []models.StartTripBoxInput{
			{BoxID: 1, QttOut: 2},
		},
	}
}

func TestStartTripValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.StartTripRequest)
		field  string
	}{
		{"missing truck", func(r *models.StartTripRequest) { r.TruckMatricule = "" }, "truck_matricule"},
		{"missing driver", func(r *models.StartTripRequest) { r.DriverCIN = "" }, "driver_id"},
		{"missing seller", func(r *models.StartTripRequest) { r.SellerCIN = "" }, "seller_id"},
		{"missing zone", func(r *models.StartTripRequest) { r.Zone = "" }, "zone"},
		{"missing date", func(r *models.StartTripRequest) { r.Date = "" }, "date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := startRequest()
			tc.mutate(req)
			_, err := svc.StartTrip(ctx, req)
			var missing *trip.MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != tc.field {
				t.Errorf("field = %q, want %q", missing.Field, tc.field)
			}
		})
	}
}

func TestStartTripUnknownReferences(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.StartTripRequest)
		kind   string
	}{
		{"unknown truck", func(r *models.StartTripRequest) { r.TruckMatricule = "Z-9999" }, "truck"},
		{"unknown driver", func(r *models.StartTripRequest) { r.DriverCIN = "K999" }, "employee"},
		{"unknown product", func(r *models.StartTripRequest) { r.Products[0].ProductID = 77 }, "product"},
		{"unknown box", func(r *models.StartTripRequest) { r.Boxes[0].BoxID = 77 }, "box"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := startRequest()
			tc.mutate(req)
			_, err := svc.StartTrip(ctx, req)
			var unknown *trip.UnknownReferenceError
			if !errors.As(err, &unknown) {
				t.Fatalf("expected UnknownReferenceError, got %v", err)
			}
			if unknown.Kind != tc.kind {
				t.Errorf("kind = %q, want %q", unknown.Kind, tc.kind)
			}
		})
	}
}

func TestStartTripRejectsBadDate(t *testing.T) {
	svc, _ := newService()
	req := startRequest()
	req.Date = "30/08/2026"
	_, err := svc.StartTrip(context.Background(), req)
	var bad *trip.InvalidDateError
	if !errors.As(err, &bad) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
}

func TestStartTripRejectsEmptyDispatch(t *testing.T) {
	svc, _ := newService()
	req := startRequest()
	req.Products = nil
	req.Boxes = nil
	_, err := svc.StartTrip(context.Background(), req)
	if !errors.Is(err, trip.ErrEmptyDispatch) {
		t.Fatalf("expected ErrEmptyDispatch, got %v", err)
	}
}

func TestStartTripRejectsDuplicateProductLines(t *testing.T) {
	// Two dispatch lines for the same product would let a return validated
	// against one line land on the other. The trip never reaches the store.
	svc, store := newService()
	req := startRequest()
	req.Products = append(req.Products, models.StartTripProductInput{ProductID: 1, QttOut: 5})

	_, err := svc.StartTrip(context.Background(), req)
	var dup *trip.DuplicateLineError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateLineError, got %v", err)
	}
	if len(store.trips) != 0 {
		t.Error("rejected dispatch must not be stored")
	}
}

func TestStartTripRejectsBusyTruck(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.StartTrip(ctx, startRequest()); err != nil {
		t.Fatalf("first StartTrip: %v", err)
	}
	_, err := svc.StartTrip(ctx, startRequest())
	if !errors.Is(err, trip.ErrTruckBusy) {
		t.Fatalf("expected ErrTruckBusy, got %v", err)
	}
}

func TestStartTripSnapshotsCatalog(t *testing.T) {
	svc, store := newService()
	created, err := svc.StartTrip(context.Background(), startRequest())
	if err != nil {
		t.Fatalf("StartTrip: %v", err)
	}
	if created.Status != models.TripStatusActive {
		t.Errorf("status = %q, want active", created.Status)
	}
	stored := store.trips[created.ID]
	line := stored.Products[0]
	if !line.PriceUnite.Equal(decimal.NewFromInt(5)) {
		t.Errorf("priceUnite = %s, want 5", line.PriceUnite)
	}
	if line.CapacityByBox != 24 {
		t.Errorf("capacityByBox = %d, want 24", line.CapacityByBox)
	}
	if line.Designation != "Cola 33cl" {
		t.Errorf("designation = %q", line.Designation)
	}
}

func TestFinishTripSettlement(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	created, err := svc.StartTrip(ctx, startRequest())
	if err != nil {
		t.Fatalf("StartTrip: %v", err)
	}

	// 53 units out; 1 crate + 2 loose back = 26 returned, 27 sold at 5.00.
	// Gross 135, waste 2x5=10, charges 20 => waited 105; received 100 => deff -5.
	finished, err := svc.FinishTrip(ctx, created.ID, &models.FinishTripRequest{
		Products: []models.FinishTripProductInput{
			{ProductID: 1, QttReutour: 1, QttReutourUnite: 2},
		},
		Boxes: []models.FinishTripBoxInput{
			{BoxID: 1, QttIn: 1},
		},
		Wastes: []models.TripWasteInput{
			{ProductID: 1, Type: "broken", Qtt: 2},
		},
		Charges: []models.TripChargeInput{
			{Type: "fuel", Amount: decimal.NewFromInt(20)},
		},
		ReceivedAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("FinishTrip: %v", err)
	}

	if finished.Status != models.TripStatusFinished {
		t.Errorf("status = %q, want finished", finished.Status)
	}
	if got := finished.Products[0].QttVendu; got != 27 {
		t.Errorf("qttVendu = %d, want 27", got)
	}
	if !finished.WaitedAmount.Equal(decimal.NewFromInt(105)) {
		t.Errorf("waitedAmount = %s, want 105", finished.WaitedAmount)
	}
	if !finished.Deff.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("deff = %s, want -5", finished.Deff)
	}
	if !finished.Benefit.Equal(finished.WaitedAmount) {
		t.Errorf("benefit = %s, want %s", finished.Benefit, finished.WaitedAmount)
	}
	if finished.Wastes[0].Designation != "Cola 33cl" {
		t.Errorf("waste designation = %q, want snapshot from trip line", finished.Wastes[0].Designation)
	}
	if store.trips[created.ID].Status != models.TripStatusFinished {
		t.Error("store was not updated")
	}
}

func TestFinishTripOnlyOnce(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	created, _ := svc.StartTrip(ctx, startRequest())

	req := &models.FinishTripRequest{
		Products: []models.FinishTripProductInput{{ProductID: 1, QttReutour: 2, QttReutourUnite: 5}},
		Boxes:    []models.FinishTripBoxInput{{BoxID: 1, QttIn: 2}},
	}
	if _, err := svc.FinishTrip(ctx, created.ID, req); err != nil {
		t.Fatalf("first FinishTrip: %v", err)
	}
	_, err := svc.FinishTrip(ctx, created.ID, req)
	if !errors.Is(err, trip.ErrAlreadyFinished) {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}
}

func TestFinishTripNotFound(t *testing.T) {
	svc, _ := newService()
	_, err := svc.FinishTrip(context.Background(), 404, &models.FinishTripRequest{})
	if !errors.Is(err, trip.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFinishTripRejectedReturnLeavesTripActive(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	created, _ := svc.StartTrip(ctx, startRequest())

	_, err := svc.FinishTrip(ctx, created.ID, &models.FinishTripRequest{
		Products: []models.FinishTripProductInput{
			{ProductID: 1, QttReutour: 2, QttReutourUnite: 6}, // 54 > 53 out
		},
	})
	var over *trip.OverReturnError
	if !errors.As(err, &over) {
		t.Fatalf("expected OverReturnError, got %v", err)
	}
	if store.trips[created.ID].Status != models.TripStatusActive {
		t.Error("rejected settlement must leave the trip active")
	}
}

func TestEmptyTruck(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	created, _ := svc.StartTrip(ctx, startRequest())

	settled, err := svc.EmptyTruck(ctx, "A-1234")
	if err != nil {
		t.Fatalf("EmptyTruck: %v", err)
	}
	if settled.ID != created.ID {
		t.Fatalf("settled trip %d, want %d", settled.ID, created.ID)
	}
	if !settled.WaitedAmount.IsZero() || !settled.Deff.IsZero() || !settled.ReceivedAmount.IsZero() {
		t.Errorf("empty truck must settle to zero, got waited %s received %s deff %s",
			settled.WaitedAmount, settled.ReceivedAmount, settled.Deff)
	}
	if got := settled.Products[0].QttVendu; got != 0 {
		t.Errorf("qttVendu = %d, want 0", got)
	}
	if got := settled.Boxes[0].Deficit(); got != 0 {
		t.Errorf("crate deficit = %d, want 0", got)
	}
	if store.trips[created.ID].Status != models.TripStatusFinished {
		t.Error("trip was not closed")
	}
}

func TestEmptyTruckNoActiveTrip(t *testing.T) {
	svc, _ := newService()
	_, err := svc.EmptyTruck(context.Background(), "A-1234")
	if !errors.Is(err, trip.ErrNoActiveTrip) {
		t.Fatalf("expected ErrNoActiveTrip, got %v", err)
	}
}

func TestListTripsPaging(t *testing.T) {
	svc, store := newService()
	for i := 0; i < 23; i++ {
		store.trips[i+1] = &models.Trip{ID: i + 1, Status: models.TripStatusFinished}
	}
	store.nextID = 24

	page, err := svc.ListTrips(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if page.TotalItems != 23 {
		t.Errorf("totalItems = %d, want 23", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Errorf("currentPage = %d, want 1", page.CurrentPage)
	}
}
