package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
)

// ErrNoRows is returned by lookups when the row does not exist, so callers
// can tell "not found" apart from a query failure.
var ErrNoRows = errors.New("no rows found")

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (designation, price_unite, box_id, capacity_by_box)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		product.Designation,
		product.PriceUnite,
		product.BoxID,
		product.CapacityByBox,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT id, designation, price_unite, box_id, capacity_by_box, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	product := &models.Product{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Designation,
		&product.PriceUnite,
		&product.BoxID,
		&product.CapacityByBox,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT id, designation, price_unite, box_id, capacity_by_box, created_at, updated_at
		FROM products
		ORDER BY designation
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Designation,
			&product.PriceUnite,
			&product.BoxID,
			&product.CapacityByBox,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET designation = $1, price_unite = $2, box_id = $3, capacity_by_box = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		product.Designation,
		product.PriceUnite,
		product.BoxID,
		product.CapacityByBox,
		product.ID,
	).Scan(&product.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
