package services

import (
	"context"
	"encoding/json"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type BoxService struct {
	Repo *repositories.BoxRepository
}

func NewBoxService(repo *repositories.BoxRepository) *BoxService {
	return &BoxService{Repo: repo}
}

func (s *BoxService) Create(ctx context.Context, req *models.CreateBoxRequest) (*models.Box, error) {
	if req.Designation == "" {
		return nil, &trip.MissingFieldError{Field: "designation"}
	}
	if req.Full < 0 {
		return nil, &trip.InvalidQuantityError{Field: "full"}
	}
	if req.Empty < 0 {
		return nil, &trip.InvalidQuantityError{Field: "empty"}
	}
	if req.Capacity < 0 {
		return nil, &trip.InvalidQuantityError{Field: "capacity"}
	}

	box := &models.Box{
		Designation: req.Designation,
		Full:        req.Full,
		Empty:       req.Empty,
		Capacity:    req.Capacity,
	}
	if err := s.Repo.Create(ctx, box); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.BoxListKey)
	return box, nil
}

func (s *BoxService) Get(ctx context.Context, id int) (*models.Box, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *BoxService) List(ctx context.Context) ([]*models.Box, error) {
	if data, ok := cache.Get(ctx, cache.BoxListKey); ok {
		var boxes []*models.Box
		if err := json.Unmarshal(data, &boxes); err == nil {
			return boxes, nil
		}
	}
	boxes, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(boxes); err == nil {
		cache.SetCatalog(ctx, cache.BoxListKey, data)
	}
	return boxes, nil
}

func (s *BoxService) Update(ctx context.Context, id int, req *models.CreateBoxRequest) (*models.Box, error) {
	if req.Designation == "" {
		return nil, &trip.MissingFieldError{Field: "designation"}
	}
	box, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	box.Designation = req.Designation
	box.Full = req.Full
	box.Empty = req.Empty
	box.Capacity = req.Capacity
	if err := s.Repo.Update(ctx, box); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.BoxListKey)
	return box, nil
}

func (s *BoxService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.BoxListKey)
	return nil
}
