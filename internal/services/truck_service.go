package services

import (
	"context"
	"encoding/json"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type TruckService struct {
	Repo *repositories.TruckRepository
}

func NewTruckService(repo *repositories.TruckRepository) *TruckService {
	return &TruckService{Repo: repo}
}

func (s *TruckService) Create(ctx context.Context, req *models.CreateTruckRequest) (*models.Truck, error) {
	if req.Matricule == "" {
		return nil, &trip.MissingFieldError{Field: "matricule"}
	}
	if req.Capacity < 0 {
		return nil, &trip.InvalidQuantityError{Field: "capacity"}
	}

	truck := &models.Truck{
		Matricule: req.Matricule,
		Capacity:  req.Capacity,
	}
	if err := s.Repo.Create(ctx, truck); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.TruckListKey)
	return truck, nil
}

func (s *TruckService) GetByMatricule(ctx context.Context, matricule string) (*models.Truck, error) {
	return s.Repo.GetByMatricule(ctx, matricule)
}

func (s *TruckService) List(ctx context.Context) ([]*models.Truck, error) {
	if data, ok := cache.Get(ctx, cache.TruckListKey); ok {
		var trucks []*models.Truck
		if err := json.Unmarshal(data, &trucks); err == nil {
			return trucks, nil
		}
	}
	trucks, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(trucks); err == nil {
		cache.SetCatalog(ctx, cache.TruckListKey, data)
	}
	return trucks, nil
}

func (s *TruckService) Update(ctx context.Context, matricule string, req *models.CreateTruckRequest) (*models.Truck, error) {
	truck, err := s.Repo.GetByMatricule(ctx, matricule)
	if err != nil {
		return nil, err
	}
	if req.Matricule != "" {
		truck.Matricule = req.Matricule
	}
	truck.Capacity = req.Capacity
	if err := s.Repo.Update(ctx, truck); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.TruckListKey)
	return truck, nil
}

func (s *TruckService) Delete(ctx context.Context, matricule string) error {
	truck, err := s.Repo.GetByMatricule(ctx, matricule)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, truck.ID); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.TruckListKey)
	return nil
}
