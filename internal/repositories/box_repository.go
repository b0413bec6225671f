package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
)

type BoxRepository struct {
	DB *pgxpool.Pool
}

func NewBoxRepository(db *pgxpool.Pool) *BoxRepository {
	return &BoxRepository{DB: db}
}

func (r *BoxRepository) Create(ctx context.Context, box *models.Box) error {
	query := `
		INSERT INTO boxes (designation, full_count, empty_count, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		box.Designation,
		box.Full,
		box.Empty,
		box.Capacity,
	).Scan(&box.ID, &box.CreatedAt, &box.UpdatedAt)
}

func (r *BoxRepository) GetByID(ctx context.Context, id int) (*models.Box, error) {
	query := `
		SELECT id, designation, full_count, empty_count, capacity, created_at, updated_at
		FROM boxes
		WHERE id = $1
	`
	box := &models.Box{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&box.ID,
		&box.Designation,
		&box.Full,
		&box.Empty,
		&box.Capacity,
		&box.CreatedAt,
		&box.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return box, nil
}

func (r *BoxRepository) List(ctx context.Context) ([]*models.Box, error) {
	query := `
		SELECT id, designation, full_count, empty_count, capacity, created_at, updated_at
		FROM boxes
		ORDER BY designation
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boxes []*models.Box
	for rows.Next() {
		box := &models.Box{}
		err := rows.Scan(
			&box.ID,
			&box.Designation,
			&box.Full,
			&box.Empty,
			&box.Capacity,
			&box.CreatedAt,
			&box.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}

func (r *BoxRepository) Update(ctx context.Context, box *models.Box) error {
	query := `
		UPDATE boxes
		SET designation = $1, full_count = $2, empty_count = $3, capacity = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		box.Designation,
		box.Full,
		box.Empty,
		box.Capacity,
		box.ID,
	).Scan(&box.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func (r *BoxRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM boxes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
