package services

import (
	"context"
	"encoding/json"

	"bev-backend/internal/cache"
	"bev-backend/internal/models"
	"bev-backend/internal/repositories"
	"bev-backend/internal/trip"
)

type EmployeeService struct {
	Repo *repositories.EmployeeRepository
}

func NewEmployeeService(repo *repositories.EmployeeRepository) *EmployeeService {
	return &EmployeeService{Repo: repo}
}

func (s *EmployeeService) Create(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	if req.CIN == "" {
		return nil, &trip.MissingFieldError{Field: "cin"}
	}
	if req.Name == "" {
		return nil, &trip.MissingFieldError{Field: "name"}
	}
	if req.Salary.IsNegative() {
		return nil, &trip.InvalidQuantityError{Field: "salary"}
	}

	employee := &models.Employee{
		CIN:    req.CIN,
		Name:   req.Name,
		Phone:  req.Phone,
		Role:   req.Role,
		Salary: req.Salary,
	}
	if err := s.Repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.EmployeeListKey)
	return employee, nil
}

func (s *EmployeeService) GetByCIN(ctx context.Context, cin string) (*models.Employee, error) {
	return s.Repo.GetByCIN(ctx, cin)
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	if data, ok := cache.Get(ctx, cache.EmployeeListKey); ok {
		var employees []*models.Employee
		if err := json.Unmarshal(data, &employees); err == nil {
			return employees, nil
		}
	}
	employees, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(employees); err == nil {
		cache.SetCatalog(ctx, cache.EmployeeListKey, data)
	}
	return employees, nil
}

func (s *EmployeeService) Update(ctx context.Context, cin string, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.Repo.GetByCIN(ctx, cin)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		employee.Name = req.Name
	}
	employee.Phone = req.Phone
	employee.Role = req.Role
	if !req.Salary.IsZero() {
		employee.Salary = req.Salary
	}
	if err := s.Repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.EmployeeListKey)
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, cin string) error {
	employee, err := s.Repo.GetByCIN(ctx, cin)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, employee.ID); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.EmployeeListKey)
	return nil
}
