package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"bev-backend/internal/cache"
	"bev-backend/internal/metrics"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/timeutil"
	"bev-backend/internal/trip"
)

// TripStore is the persistence surface the trip service needs. The pgx
// implementation lives in repositories; tests plug in an in-memory fake.
type TripStore interface {
	Create(ctx context.Context, t *models.Trip) error
	GetByID(ctx context.Context, id int) (*models.Trip, error)
	List(ctx context.Context, page, limit int) ([]*models.Trip, int, error)
	ListActive(ctx context.Context) ([]*models.Trip, error)
	FindActiveByTruck(ctx context.Context, matricule string) (*models.Trip, error)
	Finish(ctx context.Context, t *models.Trip) error
}

type ProductFinder interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

type BoxFinder interface {
	GetByID(ctx context.Context, id int) (*models.Box, error)
}

type TruckFinder interface {
	GetByMatricule(ctx context.Context, matricule string) (*models.Truck, error)
}

type EmployeeFinder interface {
	GetByCIN(ctx context.Context, cin string) (*models.Employee, error)
}

// SettlementNotifier is told about every settled trip. The monitoring
// server uses it to push shortfall alerts to its dashboard clients.
type SettlementNotifier interface {
	NotifySettlement(t *models.Trip)
}

type TripService struct {
	Trips     TripStore
	Products  ProductFinder
	Boxes     BoxFinder
	Trucks    TruckFinder
	Employees EmployeeFinder
	Notifier  SettlementNotifier
}

func NewTripService(trips TripStore, products ProductFinder, boxes BoxFinder, trucks TruckFinder, employees EmployeeFinder) *TripService {
	return &TripService{
		Trips:     trips,
		Products:  products,
		Boxes:     boxes,
		Trucks:    trucks,
		Employees: employees,
	}
}

// SetNotifier attaches the settlement notifier. Optional; nil means no
// notifications.
func (s *TripService) SetNotifier(n SettlementNotifier) {
	s.Notifier = n
}

// StartTrip validates the dispatch, snapshots catalog prices and crate
// capacities into the trip lines, and persists the trip as active. A truck
// can only have one active trip at a time.
func (s *TripService) StartTrip(ctx context.Context, req *models.StartTripRequest) (*models.Trip, error) {
	if req.TruckMatricule == "" {
		return nil, &trip.MissingFieldError{Field: "truck_matricule"}
	}
	if req.DriverCIN == "" {
		return nil, &trip.MissingFieldError{Field: "driver_id"}
	}
	if req.SellerCIN == "" {
		return nil, &trip.MissingFieldError{Field: "seller_id"}
	}
	if req.Zone == "" {
		return nil, &trip.MissingFieldError{Field: "zone"}
	}
	if req.Date == "" {
		return nil, &trip.MissingFieldError{Field: "date"}
	}
	date, err := parseTripDate(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.Trucks.GetByMatricule(ctx, req.TruckMatricule); err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, &trip.UnknownReferenceError{Kind: "truck", Ref: req.TruckMatricule}
		}
		return nil, err
	}
	for _, cin := range []string{req.DriverCIN, req.SellerCIN, req.AssistantCIN} {
		if cin == "" {
			continue // assistant is optional
		}
		if _, err := s.Employees.GetByCIN(ctx, cin); err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "employee", Ref: cin}
			}
			return nil, err
		}
	}

	// Pre-check; the partial unique index on active trips backs this up
	// against races.
	if _, err := s.Trips.FindActiveByTruck(ctx, req.TruckMatricule); err == nil {
		return nil, trip.ErrTruckBusy
	} else if !errors.Is(err, repositories.ErrNoRows) {
		return nil, err
	}

	products := make([]models.TripProduct, 0, len(req.Products))
	for _, in := range req.Products {
		p, err := s.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "product", Ref: strconv.Itoa(in.ProductID)}
			}
			return nil, err
		}
		products = append(products, models.TripProduct{
			ProductID:     p.ID,
			Designation:   p.Designation,
			PriceUnite:    p.PriceUnite,
			CapacityByBox: p.CapacityByBox,
			QttOut:        in.QttOut,
			QttOutUnite:   in.QttOutUnite,
		})
	}
	boxes := make([]models.TripBox, 0, len(req.Boxes))
	for _, in := range req.Boxes {
		b, err := s.Boxes.GetByID(ctx, in.BoxID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "box", Ref: strconv.Itoa(in.BoxID)}
			}
			return nil, err
		}
		boxes = append(boxes, models.TripBox{
			BoxID:       b.ID,
			Designation: b.Designation,
			QttOut:      in.QttOut,
		})
	}

	ledger, err := trip.NewLedger(products, boxes)
	if err != nil {
		return nil, err
	}

	t := &models.Trip{
		TruckMatricule: req.TruckMatricule,
		DriverCIN:      req.DriverCIN,
		SellerCIN:      req.SellerCIN,
		AssistantCIN:   req.AssistantCIN,
		Date:           date,
		Zone:           req.Zone,
		Status:         models.TripStatusActive,
		Products:       ledger.Products,
		Boxes:          ledger.Boxes,
	}
	if err := s.Trips.Create(ctx, t); err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, cache.ActiveTripsKey)
	metrics.TripsStarted.Inc()
	log.Printf("[TripService] Trip %d started: truck %s, zone %s, %d product lines, %d crate lines",
		t.ID, t.TruckMatricule, t.Zone, len(t.Products), len(t.Boxes))
	return t, nil
}

// FinishTrip records the evening return, reconciles the money, and flips
// the trip to finished. The whole settlement is validated before anything
// is written; a rejected return leaves the trip active and unchanged.
func (s *TripService) FinishTrip(ctx context.Context, id int, req *models.FinishTripRequest) (*models.Trip, error) {
	t, err := s.Trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, trip.ErrNotFound
		}
		return nil, err
	}
	if t.Status == models.TripStatusFinished {
		return nil, trip.ErrAlreadyFinished
	}

	wastes := make([]models.TripWaste, 0, len(req.Wastes))
	for _, in := range req.Wastes {
		w := models.TripWaste{ProductID: in.ProductID, Type: in.Type, Qtt: in.Qtt}
		if line := findProductLine(t.Products, in.ProductID); line != nil {
			// Waste on a dispatched product is valued at the trip's
			// snapshotted price, not today's catalog price.
			w.Designation = line.Designation
			w.PriceUnite = line.PriceUnite
		} else if in.ProductID != 0 {
			p, err := s.Products.GetByID(ctx, in.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNoRows) {
					return nil, &trip.UnknownReferenceError{Kind: "product", Ref: strconv.Itoa(in.ProductID)}
				}
				return nil, err
			}
			w.Designation = p.Designation
			w.PriceUnite = p.PriceUnite
		}
		wastes = append(wastes, w)
	}
	charges := make([]models.TripCharge, 0, len(req.Charges))
	for _, in := range req.Charges {
		charges = append(charges, models.TripCharge{Type: in.Type, Amount: in.Amount})
	}

	return s.settle(ctx, t, trip.ReturnInput{
		Products:       req.Products,
		Boxes:          req.Boxes,
		Wastes:         wastes,
		Charges:        charges,
		ReceivedAmount: req.ReceivedAmount,
	}, false)
}

// EmptyTruck closes the truck's active trip as if everything dispatched
// came straight back: full return, no sales, no cash. It is the recovery
// path for a truck that never made its round.
func (s *TripService) EmptyTruck(ctx context.Context, matricule string) (*models.Trip, error) {
	t, err := s.Trips.FindActiveByTruck(ctx, matricule)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, trip.ErrNoActiveTrip
		}
		return nil, err
	}

	ledger, err := trip.NewLedger(t.Products, t.Boxes)
	if err != nil {
		return nil, err
	}
	settled, err := s.settle(ctx, t, ledger.FullReturn(), true)
	if err != nil {
		return nil, err
	}
	log.Printf("[TripService] Trip %d emptied: truck %s returned in full", settled.ID, matricule)
	return settled, nil
}

// settle runs the return through the ledger, reconciles, and persists the
// finished trip.
func (s *TripService) settle(ctx context.Context, t *models.Trip, in trip.ReturnInput, emptied bool) (*models.Trip, error) {
	ledger, err := trip.NewLedger(t.Products, t.Boxes)
	if err != nil {
		return nil, err
	}
	if err := ledger.RecordReturn(in); err != nil {
		return nil, err
	}
	summary, err := ledger.Reconcile()
	if err != nil {
		return nil, err
	}

	t.Products = ledger.Products
	t.Boxes = ledger.Boxes
	t.Wastes = ledger.Wastes
	t.Charges = ledger.Charges
	t.ReceivedAmount = summary.ReceivedAmount
	t.WaitedAmount = summary.WaitedAmount
	t.Benefit = summary.Benefit
	t.Deff = summary.Deff
	t.Status = models.TripStatusFinished

	if err := s.Trips.Finish(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, trip.ErrNotFound
		}
		return nil, err
	}
	now := timeutil.Now()
	t.FinishedAt = &now

	cache.Invalidate(ctx, cache.ActiveTripsKey)
	if emptied {
		metrics.TripsEmptied.Inc()
	}
	metrics.TripsFinished.Inc()
	variance, _ := t.Deff.Float64()
	metrics.CashVariance.Observe(variance)
	if s.Notifier != nil {
		s.Notifier.NotifySettlement(t)
	}
	log.Printf("[TripService] Trip %d finished: waited %s, received %s, deff %s",
		t.ID, t.WaitedAmount.StringFixed(2), t.ReceivedAmount.StringFixed(2), t.Deff.StringFixed(2))
	return t, nil
}

func (s *TripService) GetTrip(ctx context.Context, id int) (*models.Trip, error) {
	t, err := s.Trips.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, trip.ErrNotFound
	}
	return t, err
}

func (s *TripService) ListTrips(ctx context.Context, page, limit int) (*models.TripPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	trips, total, err := s.Trips.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &models.TripPage{
		Trips:       trips,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// ListActiveTrips serves the dispatch board. The list changes on every
// start and settlement, so the cache entry is short-lived and invalidated
// on both.
func (s *TripService) ListActiveTrips(ctx context.Context) ([]*models.Trip, error) {
	if data, ok := cache.Get(ctx, cache.ActiveTripsKey); ok {
		var trips []*models.Trip
		if err := json.Unmarshal(data, &trips); err == nil {
			return trips, nil
		}
	}
	trips, err := s.Trips.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(trips); err == nil {
		cache.SetActiveTrips(ctx, data)
	}
	return trips, nil
}

func findProductLine(lines []models.TripProduct, productID int) *models.TripProduct {
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i]
		}
	}
	return nil
}

func parseTripDate(value string) (time.Time, error) {
	if d, err := timeutil.ParseInDepot(timeutil.DateLayout, value); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, value); err == nil {
		return timeutil.ToDepot(d), nil
	}
	return time.Time{}, &trip.InvalidDateError{Value: value}
}
