package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type ProductService struct {
	Repo  *repositories.ProductRepository
	Boxes *repositories.BoxRepository
}

func NewProductService(repo *repositories.ProductRepository, boxes *repositories.BoxRepository) *ProductService {
	return &ProductService{Repo: repo, Boxes: boxes}
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req.Designation == "" {
		return nil, &trip.MissingFieldError{Field: "designation"}
	}
	if req.PriceUnite.IsNegative() {
		return nil, &trip.InvalidQuantityError{Field: "priceUnite"}
	}
	if req.CapacityByBox < 0 {
		return nil, &trip.InvalidQuantityError{Field: "capacityByBox"}
	}
	if req.BoxID != nil {
		if _, err := s.Boxes.GetByID(ctx, *req.BoxID); err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				return nil, &trip.UnknownReferenceError{Kind: "box", Ref: strconv.Itoa(*req.BoxID)}
			}
			return nil, err
		}
	}

	product := &models.Product{
		Designation:   req.Designation,
		PriceUnite:    req.PriceUnite,
		BoxID:         req.BoxID,
		CapacityByBox: req.CapacityByBox,
	}
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.ProductListKey)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

// List serves the catalog from Redis when it can. Price and capacity edits
// invalidate the key, so a stale read is bounded by the TTL.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	if data, ok := cache.Get(ctx, cache.ProductListKey); ok {
		var products []*models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}
	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(products); err == nil {
		cache.SetCatalog(ctx, cache.ProductListKey, data)
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id int, req *models.CreateProductRequest) (*models.Product, error) {
	if req.Designation == "" {
		return nil, &trip.MissingFieldError{Field: "designation"}
	}
	if req.PriceUnite.IsNegative() {
		return nil, &trip.InvalidQuantityError{Field: "priceUnite"}
	}
	product, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Designation = req.Designation
	product.PriceUnite = req.PriceUnite
	product.BoxID = req.BoxID
	product.CapacityByBox = req.CapacityByBox
	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.ProductListKey)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ProductListKey)
	return nil
}
