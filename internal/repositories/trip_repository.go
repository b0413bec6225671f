package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bev-backend/internal/models"
	"bev-backend/internal/trip"
)

type TripRepository struct {
	DB *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{DB: db}
}

// Create inserts the trip and all its dispatch lines in one transaction.
func (r *TripRepository) Create(ctx context.Context, t *models.Trip) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trips (truck_matricule, driver_cin, seller_cin, assistant_cin, trip_date, zone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		t.TruckMatricule,
		t.DriverCIN,
		t.SellerCIN,
		nullIfEmpty(t.AssistantCIN),
		t.Date,
		t.Zone,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for i := range t.Products {
		p := &t.Products[i]
		p.TripID = t.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO trip_products (trip_id, product_id, designation, price_unite, capacity_by_box, qtt_out, qtt_out_unite)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, t.ID, p.ProductID, p.Designation, p.PriceUnite, p.CapacityByBox, p.QttOut, p.QttOutUnite).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert trip product line: %w", err)
		}
	}
	for i := range t.Boxes {
		b := &t.Boxes[i]
		b.TripID = t.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO trip_boxes (trip_id, box_id, designation, qtt_out)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, t.ID, b.BoxID, b.Designation, b.QttOut).Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("failed to insert trip box line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const tripColumns = `
	id, truck_matricule, driver_cin, seller_cin, assistant_cin, trip_date, zone, status,
	received_amount, waited_amount, benefit, deff, created_at, finished_at
`

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanTrip(row pgx.Row) (*models.Trip, error) {
	t := &models.Trip{}
	var assistant *string
	err := row.Scan(
		&t.ID,
		&t.TruckMatricule,
		&t.DriverCIN,
		&t.SellerCIN,
		&assistant,
		&t.Date,
		&t.Zone,
		&t.Status,
		&t.ReceivedAmount,
		&t.WaitedAmount,
		&t.Benefit,
		&t.Deff,
		&t.CreatedAt,
		&t.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	if assistant != nil {
		t.AssistantCIN = *assistant
	}
	return t, nil
}

func (r *TripRepository) GetByID(ctx context.Context, id int) (*models.Trip, error) {
	t, err := scanTrip(r.DB.QueryRow(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, []*models.Trip{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns one page of trips, newest first, with all line collections
// loaded, plus the total row count for the pager.
func (r *TripRepository) List(ctx context.Context, page, limit int) ([]*models.Trip, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM trips").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx,
		"SELECT "+tripColumns+" FROM trips ORDER BY trip_date DESC, id DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadLines(ctx, trips); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *TripRepository) ListActive(ctx context.Context) ([]*models.Trip, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE status = $1 ORDER BY created_at",
		models.TripStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) FindActiveByTruck(ctx context.Context, matricule string) (*models.Trip, error) {
	t, err := scanTrip(r.DB.QueryRow(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE truck_matricule = $1 AND status = $2",
		matricule, models.TripStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, []*models.Trip{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Finish persists the settlement. The status flip is a compare-and-swap on
// status = 'active', so of two racing finish calls exactly one wins; the
// loser gets trip.ErrAlreadyFinished (or ErrNoRows if the trip never
// existed).
func (r *TripRepository) Finish(ctx context.Context, t *models.Trip) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = $1, received_amount = $2, waited_amount = $3, benefit = $4, deff = $5, finished_at = NOW()
		WHERE id = $6 AND status = $7
	`, models.TripStatusFinished, t.ReceivedAmount, t.WaitedAmount, t.Benefit, t.Deff,
		t.ID, models.TripStatusActive)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)", t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNoRows
		}
		return trip.ErrAlreadyFinished
	}

	for _, p := range t.Products {
		_, err := tx.Exec(ctx, `
			UPDATE trip_products
			SET qtt_reutour = $1, qtt_reutour_unite = $2, qtt_vendu = $3
			WHERE trip_id = $4 AND product_id = $5
		`, p.QttReutour, p.QttReutourUnite, p.QttVendu, t.ID, p.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update trip product line: %w", err)
		}
	}
	for _, b := range t.Boxes {
		_, err := tx.Exec(ctx, `
			UPDATE trip_boxes
			SET qtt_in = $1
			WHERE trip_id = $2 AND box_id = $3
		`, b.QttIn, t.ID, b.BoxID)
		if err != nil {
			return fmt.Errorf("failed to update trip box line: %w", err)
		}
	}
	for i := range t.Wastes {
		w := &t.Wastes[i]
		w.TripID = t.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO trip_wastes (trip_id, product_id, designation, price_unite, waste_type, qtt)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, t.ID, w.ProductID, w.Designation, w.PriceUnite, w.Type, w.Qtt).Scan(&w.ID)
		if err != nil {
			return fmt.Errorf("failed to insert trip waste line: %w", err)
		}
	}
	for i := range t.Charges {
		c := &t.Charges[i]
		c.TripID = t.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO trip_charges (trip_id, charge_type, amount)
			VALUES ($1, $2, $3)
			RETURNING id
		`, t.ID, c.Type, c.Amount).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert trip charge line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// loadLines fills Products, Boxes, Wastes and Charges for the given trips
// with one query per table instead of one per trip.
func (r *TripRepository) loadLines(ctx context.Context, trips []*models.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	byID := make(map[int]*models.Trip, len(trips))
	ids := make([]int, 0, len(trips))
	for _, t := range trips {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, trip_id, product_id, designation, price_unite, capacity_by_box,
		       qtt_out, qtt_out_unite, qtt_reutour, qtt_reutour_unite, qtt_vendu
		FROM trip_products
		WHERE trip_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p models.TripProduct
		if err := rows.Scan(&p.ID, &p.TripID, &p.ProductID, &p.Designation, &p.PriceUnite,
			&p.CapacityByBox, &p.QttOut, &p.QttOutUnite, &p.QttReutour, &p.QttReutourUnite,
			&p.QttVendu); err != nil {
			rows.Close()
			return err
		}
		byID[p.TripID].Products = append(byID[p.TripID].Products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT id, trip_id, box_id, designation, qtt_out, qtt_in
		FROM trip_boxes
		WHERE trip_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var b models.TripBox
		if err := rows.Scan(&b.ID, &b.TripID, &b.BoxID, &b.Designation, &b.QttOut, &b.QttIn); err != nil {
			rows.Close()
			return err
		}
		byID[b.TripID].Boxes = append(byID[b.TripID].Boxes, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT id, trip_id, product_id, designation, price_unite, waste_type, qtt
		FROM trip_wastes
		WHERE trip_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var w models.TripWaste
		if err := rows.Scan(&w.ID, &w.TripID, &w.ProductID, &w.Designation, &w.PriceUnite,
			&w.Type, &w.Qtt); err != nil {
			rows.Close()
			return err
		}
		byID[w.TripID].Wastes = append(byID[w.TripID].Wastes, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT id, trip_id, charge_type, amount
		FROM trip_charges
		WHERE trip_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c models.TripCharge
		if err := rows.Scan(&c.ID, &c.TripID, &c.Type, &c.Amount); err != nil {
			rows.Close()
			return err
		}
		byID[c.TripID].Charges = append(byID[c.TripID].Charges, c)
	}
	rows.Close()
	return rows.Err()
}
