package services

import (
	"context"
	"encoding/json"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type SupplierService struct {
	Repo *repositories.SupplierRepository
}

func NewSupplierService(repo *repositories.SupplierRepository) *SupplierService {
	return &SupplierService{Repo: repo}
}

func (s *SupplierService) Create(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	if req.Name == "" {
		return nil, &trip.MissingFieldError{Field: "name"}
	}

	supplier := &models.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.Repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.SupplierListKey)
	return supplier, nil
}

func (s *SupplierService) Get(ctx context.Context, id int) (*models.Supplier, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *SupplierService) List(ctx context.Context) ([]*models.Supplier, error) {
	if data, ok := cache.Get(ctx, cache.SupplierListKey); ok {
		var suppliers []*models.Supplier
		if err := json.Unmarshal(data, &suppliers); err == nil {
			return suppliers, nil
		}
	}
	suppliers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(suppliers); err == nil {
		cache.SetCatalog(ctx, cache.SupplierListKey, data)
	}
	return suppliers, nil
}

func (s *SupplierService) Update(ctx context.Context, id int, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		supplier.Name = req.Name
	}
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	if err := s.Repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.SupplierListKey)
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.SupplierListKey)
	return nil
}
