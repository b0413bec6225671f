package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/services"
	"bev-backend/internal/trip"
)

type fakePurchaseStore struct {
	purchases map[int]*models.Purchase
	nextID    int
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: make(map[int]*models.Purchase), nextID: 1}
}

func (f *fakePurchaseStore) Create(_ context.Context, p *models.Purchase) error {
	p.ID = f.nextID
	f.nextID++
	stored := *p
	f.purchases[p.ID] = &stored
	return nil
}

func (f *fakePurchaseStore) GetByID(_ context.Context, id int) (*models.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, repositories.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePurchaseStore) List(_ context.Context, page, limit int) ([]*models.Purchase, int, error) {
	var all []*models.Purchase
	for _, p := range f.purchases {
		all = append(all, p)
	}
	return all, len(all), nil
}

type fakeSuppliers struct {
	suppliers map[int]*models.Supplier
}

func (f fakeSuppliers) GetByID(_ context.Context, id int) (*models.Supplier, error) {
	if s, ok := f.suppliers[id]; ok {
		return s, nil
	}
	return nil, repositories.ErrNoRows
}

func newPurchaseService() (*services.PurchaseService, *fakePurchaseStore) {
	intPtr := func(v int) *int { return &v }
	catalog := &fakeCatalog{
		products: map[int]*models.Product{
			1: {ID: 1, Designation: "Cola 33cl", PriceUnite: decimal.NewFromInt(5), BoxID: intPtr(1), CapacityByBox: 24},
			2: {ID: 2, Designation: "Water 1.5L", PriceUnite: decimal.NewFromFloat(6.5), CapacityByBox: 6},
		},
		boxes: map[int]*models.Box{
			1: {ID: 1, Designation: "Glass crate 24"},
		},
	}
	suppliers := fakeSuppliers{suppliers: map[int]*models.Supplier{
		3: {ID: 3, Name: "Atlas Drinks"},
	}}
	store := newFakePurchaseStore()
	svc := services.NewPurchaseService(store, suppliers, catalog, fakeBoxes{catalog})
	return svc, store
}

func purchaseRequest() *models.CreatePurchaseRequest {
	return &models.CreatePurchaseRequest{
		SupplierID: 3,
		Date:       "2026-08-30",
		Products: []models.PurchaseProductInput{
			{ProductID: 1, Qtt: 2, QttUnite: 5, Price: decimal.NewFromInt(4)}, // 53 units at 4.00
		},
		Boxes: []models.PurchaseBoxInput{
			{BoxID: 1, QttIn: 2, QttOut: 3},
		},
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	asMissing := func(t *testing.T, err error) {
		t.Helper()
		var e *trip.MissingFieldError
		if !errors.As(err, &e) {
			t.Fatalf("expected MissingFieldError, got %v", err)
		}
	}
	asQuantity := func(t *testing.T, err error) {
		t.Helper()
		var e *trip.InvalidQuantityError
		if !errors.As(err, &e) {
			t.Fatalf("expected InvalidQuantityError, got %v", err)
		}
	}
	asUnknown := func(t *testing.T, err error) {
		t.Helper()
		var e *trip.UnknownReferenceError
		if !errors.As(err, &e) {
			t.Fatalf("expected UnknownReferenceError, got %v", err)
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.CreatePurchaseRequest)
		check  func(*testing.T, error)
	}{
		{
			name:   "missing supplier",
			mutate: func(r *models.CreatePurchaseRequest) { r.SupplierID = 0 },
			check:  asMissing,
		},
		{
			name:   "missing date",
			mutate: func(r *models.CreatePurchaseRequest) { r.Date = "" },
			check:  asMissing,
		},
		{
			name:   "no product lines",
			mutate: func(r *models.CreatePurchaseRequest) { r.Products = nil },
			check:  asMissing,
		},
		{
			name:   "unparseable date",
			mutate: func(r *models.CreatePurchaseRequest) { r.Date = "30/08/2026" },
			check: func(t *testing.T, err error) {
				t.Helper()
				var e *trip.InvalidDateError
				if !errors.As(err, &e) {
					t.Fatalf("expected InvalidDateError, got %v", err)
				}
			},
		},
		{
			name:   "negative crate quantity",
			mutate: func(r *models.CreatePurchaseRequest) { r.Products[0].Qtt = -1 },
			check:  asQuantity,
		},
		{
			name:   "negative price",
			mutate: func(r *models.CreatePurchaseRequest) { r.Products[0].Price = decimal.NewFromInt(-4) },
			check:  asQuantity,
		},
		{
			name: "duplicate product line",
			mutate: func(r *models.CreatePurchaseRequest) {
				r.Products = append(r.Products, r.Products[0])
			},
			check: func(t *testing.T, err error) {
				t.Helper()
				var e *trip.DuplicateLineError
				if !errors.As(err, &e) {
					t.Fatalf("expected DuplicateLineError, got %v", err)
				}
			},
		},
		{
			name:   "unknown supplier",
			mutate: func(r *models.CreatePurchaseRequest) { r.SupplierID = 99 },
			check:  asUnknown,
		},
		{
			name:   "unknown product",
			mutate: func(r *models.CreatePurchaseRequest) { r.Products[0].ProductID = 99 },
			check:  asUnknown,
		},
		{
			name:   "unknown box",
			mutate: func(r *models.CreatePurchaseRequest) { r.Boxes[0].BoxID = 99 },
			check:  asUnknown,
		},
		{
			name: "waste without type",
			mutate: func(r *models.CreatePurchaseRequest) {
				r.Wastes = []models.PurchaseWasteInput{{ProductID: 1, Qtt: 2}}
			},
			check: func(t *testing.T, err error) {
				t.Helper()
				var e *trip.InvalidWasteError
				if !errors.As(err, &e) {
					t.Fatalf("expected InvalidWasteError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newPurchaseService()
			req := purchaseRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
			if len(store.purchases) != 0 {
				t.Error("rejected purchase must not be stored")
			}
		})
	}
}

func TestCreatePurchaseTotalAndSnapshot(t *testing.T) {
	svc, _ := newPurchaseService()
	req := purchaseRequest()
	req.Products = append(req.Products, models.PurchaseProductInput{
		ProductID: 2, Qtt: 1, Price: decimal.NewFromFloat(5.5), // 6 units at 5.50
	})
	req.Wastes = []models.PurchaseWasteInput{
		{ProductID: 1, Type: "Broken", Qtt: 3},
	}

	p, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 53 units x 4.00 + 6 units x 5.50 = 245.00
	if want := decimal.NewFromInt(245); !p.Total.Equal(want) {
		t.Errorf("total = %s, want %s", p.Total, want)
	}
	if p.SupplierName != "Atlas Drinks" {
		t.Errorf("supplier name = %q, want Atlas Drinks", p.SupplierName)
	}
	if p.Products[0].Designation != "Cola 33cl" || p.Products[0].CapacityByBox != 24 {
		t.Errorf("line 0 snapshot = %q/%d, want Cola 33cl/24",
			p.Products[0].Designation, p.Products[0].CapacityByBox)
	}
	if p.Wastes[0].Designation != "Cola 33cl" {
		t.Errorf("waste designation = %q, want Cola 33cl", p.Wastes[0].Designation)
	}
	if p.Boxes[0].QttIn != 2 || p.Boxes[0].QttOut != 3 {
		t.Errorf("box line = in %d out %d, want in 2 out 3", p.Boxes[0].QttIn, p.Boxes[0].QttOut)
	}
}

func TestGetPurchaseNotFound(t *testing.T) {
	svc, _ := newPurchaseService()
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, trip.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPurchasesPaging(t *testing.T) {
	svc, _ := newPurchaseService()
	for i := 0; i < 12; i++ {
		req := purchaseRequest()
		req.Date = fmt.Sprintf("2026-08-%02d", i+1)
		if _, err := svc.Create(context.Background(), req); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, err := svc.List(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalItems != 12 {
		t.Errorf("totalItems = %d, want 12", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Errorf("currentPage = %d, want 1", page.CurrentPage)
	}
}
