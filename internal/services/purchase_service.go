package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	GetByID(ctx context.Context, id int) (*models.Purchase, error)
	List(ctx context.Context, page, limit int) ([]*models.Purchase, int, error)
}

type SupplierFinder interface {
	GetByID(ctx context.Context, id int) (*models.Supplier, error)
}

// PurchaseService records restock deliveries from suppliers. A purchase is
// written once, complete; there is no later settlement step like trips
// have, so the total is fixed at creation.
type PurchaseService struct {
	Purchases PurchaseStore
	Suppliers SupplierFinder
	Products  ProductFinder
	Boxes     BoxFinder
}

func NewPurchaseService(purchases PurchaseStore, suppliers SupplierFinder, products ProductFinder, boxes BoxFinder) *PurchaseService {
	return &PurchaseService{
		Purchases: purchases,
		Suppliers: suppliers,
		Products:  products,
		Boxes:     boxes,
	}
}

// Create validates the delivery, snapshots catalog designations and crate
// capacities, computes the total from the product lines (buy price times
// total units), and persists it.
func (s *PurchaseService) Create(ctx context.Context, req *models.CreatePurchaseRequest) (*models.Purchase, error) {
	if req.SupplierID == 0 {
		return nil, &trip.MissingFieldError{Field: "supplier_id"}
	}
	if req.Date == "" {
		return nil, &trip.MissingFieldError{Field: "date"}
	}
	if len(req.Products) == 0 {
		return nil, &trip.MissingFieldError{Field: "purchaseProducts"}
	}
	date, err := parseTripDate(req.Date)
	if err != nil {
		return nil, err
	}

	supplier, err := s.Suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, &trip.UnknownReferenceError{Kind: "supplier", Ref: strconv.Itoa(req.SupplierID)}
		}
		return nil, err
	}

	total := decimal.Zero
	products := make([]models.PurchaseProduct, 0, len(req.Products))
	seenProducts := make(map[int]bool, len(req.Products))
	for i, in := range req.Products {
		if seenProducts[in.ProductID] {
			return nil, &trip.DuplicateLineError{Kind: "product", Ref: strconv.Itoa(in.ProductID)}
		}
		seenProducts[in.ProductID] = true
		if in.Qtt < 0 {
			return nil, &trip.InvalidQuantityError{Field: fmt.Sprintf("purchaseProducts[%d].qtt", i)}
		}
		if in.QttUnite < 0 {
			return nil, &trip.InvalidQuantityError{Field: fmt.Sprintf("purchaseProducts[%d].qttUnite", i)}
		}
		if in.Price.IsNegative() {
			return nil, &trip.InvalidQuantityError{Field: fmt.Sprintf("purchaseProducts[%d].price", i)}
		}
		p, err := s.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "product", Ref: strconv.Itoa(in.ProductID)}
			}
			return nil, err
		}
		units, err := trip.ToUnits(in.Qtt, in.QttUnite, p.CapacityByBox)
		if err != nil {
			return nil, err
		}
		total = total.Add(in.Price.Mul(decimal.NewFromInt(int64(units))))
		products = append(products, models.PurchaseProduct{
			ProductID:     p.ID,
			Designation:   p.Designation,
			Price:         in.Price,
			CapacityByBox: p.CapacityByBox,
			Qtt:           in.Qtt,
			QttUnite:      in.QttUnite,
		})
	}

	boxes := make([]models.PurchaseBox, 0, len(req.Boxes))
	seenBoxes := make(map[int]bool, len(req.Boxes))
	for i, in := range req.Boxes {
		if seenBoxes[in.BoxID] {
			return nil, &trip.DuplicateLineError{Kind: "box", Ref: strconv.Itoa(in.BoxID)}
		}
		seenBoxes[in.BoxID] = true
		if in.QttIn < 0 {
			return nil, &trip.InvalidQuantityError{Field: fmt.Sprintf("purchaseBoxes[%d].qttIn", i)}
		}
		if in.QttOut < 0 {
			return nil, &trip.InvalidQuantityError{Field: fmt.Sprintf("purchaseBoxes[%d].qttOut", i)}
		}
		b, err := s.Boxes.GetByID(ctx, in.BoxID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "box", Ref: strconv.Itoa(in.BoxID)}
			}
			return nil, err
		}
		boxes = append(boxes, models.PurchaseBox{
			BoxID:       b.ID,
			Designation: b.Designation,
			QttIn:       in.QttIn,
			QttOut:      in.QttOut,
		})
	}

	wastes := make([]models.PurchaseWaste, 0, len(req.Wastes))
	for i, in := range req.Wastes {
		switch {
		case in.ProductID == 0:
			return nil, &trip.InvalidWasteError{Index: i, Reason: "missing product reference"}
		case in.Type == "":
			return nil, &trip.InvalidWasteError{Index: i, Reason: "missing waste type"}
		case in.Qtt <= 0:
			return nil, &trip.InvalidWasteError{Index: i, Reason: "quantity must be positive"}
		}
		p, err := s.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "product", Ref: strconv.Itoa(in.ProductID)}
			}
			return nil, err
		}
		wastes = append(wastes, models.PurchaseWaste{
			ProductID:   p.ID,
			Designation: p.Designation,
			Type:        in.Type,
			Qtt:         in.Qtt,
		})
	}

	purchase := &models.Purchase{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Date:         date,
		Total:        total,
		Products:     products,
		Boxes:        boxes,
		Wastes:       wastes,
	}
	if err := s.Purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}

	log.Printf("[PurchaseService] Purchase %d recorded: supplier %s, %d product lines, total %s",
		purchase.ID, purchase.SupplierName, len(purchase.Products), purchase.Total.StringFixed(2))
	return purchase, nil
}

func (s *PurchaseService) Get(ctx context.Context, id int) (*models.Purchase, error) {
	p, err := s.Purchases.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, trip.ErrNotFound
	}
	return p, err
}

func (s *PurchaseService) List(ctx context.Context, page, limit int) (*models.PurchasePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	purchases, total, err := s.Purchases.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &models.PurchasePage{
		Purchases:   purchases,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}
