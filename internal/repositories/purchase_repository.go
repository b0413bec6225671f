package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
)

type PurchaseRepository struct {
	DB *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// Create inserts the purchase and all its lines in one transaction.
func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (supplier_id, purchase_date, total)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, p.SupplierID, p.Date, p.Total).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	for i := range p.Products {
		line := &p.Products[i]
		line.PurchaseID = p.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO purchase_products (purchase_id, product_id, designation, price, capacity_by_box, qtt, qtt_unite)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, p.ID, line.ProductID, line.Designation, line.Price, line.CapacityByBox, line.Qtt, line.QttUnite).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert purchase product line: %w", err)
		}
	}
	for i := range p.Boxes {
		line := &p.Boxes[i]
		line.PurchaseID = p.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO purchase_boxes (purchase_id, box_id, designation, qtt_in, qtt_out)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, p.ID, line.BoxID, line.Designation, line.QttIn, line.QttOut).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert purchase box line: %w", err)
		}
	}
	for i := range p.Wastes {
		line := &p.Wastes[i]
		line.PurchaseID = p.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO purchase_wastes (purchase_id, product_id, designation, waste_type, qtt)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, p.ID, line.ProductID, line.Designation, line.Type, line.Qtt).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert purchase waste line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const purchaseColumns = `
	p.id, p.supplier_id, s.name, p.purchase_date, p.total, p.created_at
`

func scanPurchase(row pgx.Row) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := row.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Date, &p.Total, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id int) (*models.Purchase, error) {
	p, err := scanPurchase(r.DB.QueryRow(ctx,
		"SELECT "+purchaseColumns+" FROM purchases p JOIN suppliers s ON s.id = p.supplier_id WHERE p.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, []*models.Purchase{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns one page of purchases, newest first, with lines loaded,
// plus the total row count for the pager.
func (r *PurchaseRepository) List(ctx context.Context, page, limit int) ([]*models.Purchase, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM purchases").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx,
		"SELECT "+purchaseColumns+` FROM purchases p JOIN suppliers s ON s.id = p.supplier_id
		 ORDER BY p.purchase_date DESC, p.id DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var purchases []*models.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadLines(ctx, purchases); err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// loadLines fills Products, Boxes and Wastes for the given purchases with
// one query per table instead of one per purchase.
func (r *PurchaseRepository) loadLines(ctx context.Context, purchases []*models.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	byID := make(map[int]*models.Purchase, len(purchases))
	ids := make([]int, 0, len(purchases))
	for _, p := range purchases {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, purchase_id, product_id, designation, price, capacity_by_box, qtt, qtt_unite
		FROM purchase_products
		WHERE purchase_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var line models.PurchaseProduct
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ProductID, &line.Designation,
			&line.Price, &line.CapacityByBox, &line.Qtt, &line.QttUnite); err != nil {
			rows.Close()
			return err
		}
		byID[line.PurchaseID].Products = append(byID[line.PurchaseID].Products, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT id, purchase_id, box_id, designation, qtt_in, qtt_out
		FROM purchase_boxes
		WHERE purchase_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var line models.PurchaseBox
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.BoxID, &line.Designation,
			&line.QttIn, &line.QttOut); err != nil {
			rows.Close()
			return err
		}
		byID[line.PurchaseID].Boxes = append(byID[line.PurchaseID].Boxes, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT id, purchase_id, product_id, designation, waste_type, qtt
		FROM purchase_wastes
		WHERE purchase_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var line models.PurchaseWaste
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ProductID, &line.Designation,
			&line.Type, &line.Qtt); err != nil {
			rows.Close()
			return err
		}
		byID[line.PurchaseID].Wastes = append(byID[line.PurchaseID].Wastes, line)
	}
	rows.Close()
	return rows.Err()
}
