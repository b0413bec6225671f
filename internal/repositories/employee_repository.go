package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (cin, name, phone, role, salary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		employee.CIN,
		employee.Name,
		employee.Phone,
		employee.Role,
		employee.Salary,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *EmployeeRepository) GetByCIN(ctx context.Context, cin string) (*models.Employee, error) {
	query := `
		SELECT id, cin, name, phone, role, salary, created_at, updated_at
		FROM employees
		WHERE cin = $1
	`
	employee := &models.Employee{}
	err := r.DB.QueryRow(ctx, query, cin).Scan(
		&employee.ID,
		&employee.CIN,
		&employee.Name,
		&employee.Phone,
		&employee.Role,
		&employee.Salary,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query := `
		SELECT id, cin, name, phone, role, salary, created_at, updated_at
		FROM employees
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee := &models.Employee{}
		err := rows.Scan(
			&employee.ID,
			&employee.CIN,
			&employee.Name,
			&employee.Phone,
			&employee.Role,
			&employee.Salary,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET cin = $1, name = $2, phone = $3, role = $4, salary = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		employee.CIN,
		employee.Name,
		employee.Phone,
		employee.Role,
		employee.Salary,
		employee.ID,
	).Scan(&employee.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
