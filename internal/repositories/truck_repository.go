package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
)

type TruckRepository struct {
	DB *pgxpool.Pool
}

func NewTruckRepository(db *pgxpool.Pool) *TruckRepository {
	return &TruckRepository{DB: db}
}

func (r *TruckRepository) Create(ctx context.Context, truck *models.Truck) error {
	query := `
		INSERT INTO trucks (matricule, capacity)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query, truck.Matricule, truck.Capacity).
		Scan(&truck.ID, &truck.CreatedAt, &truck.UpdatedAt)
}

func (r *TruckRepository) GetByMatricule(ctx context.Context, matricule string) (*models.Truck, error) {
	query := `
		SELECT id, matricule, capacity, created_at, updated_at
		FROM trucks
		WHERE matricule = $1
	`
	truck := &models.Truck{}
	err := r.DB.QueryRow(ctx, query, matricule).Scan(
		&truck.ID,
		&truck.Matricule,
		&truck.Capacity,
		&truck.CreatedAt,
		&truck.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return truck, nil
}

func (r *TruckRepository) List(ctx context.Context) ([]*models.Truck, error) {
	query := `
		SELECT id, matricule, capacity, created_at, updated_at
		FROM trucks
		ORDER BY matricule
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []*models.Truck
	for rows.Next() {
		truck := &models.Truck{}
		err := rows.Scan(
			&truck.ID,
			&truck.Matricule,
			&truck.Capacity,
			&truck.CreatedAt,
			&truck.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}
	return trucks, rows.Err()
}

func (r *TruckRepository) Update(ctx context.Context, truck *models.Truck) error {
	query := `
		UPDATE trucks
		SET matricule = $1, capacity = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query, truck.Matricule, truck.Capacity, truck.ID).
		Scan(&truck.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func (r *TruckRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM trucks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
