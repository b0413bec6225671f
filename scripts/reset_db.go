package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all trips and their lines")
	fmt.Println("  - Delete the product, box, truck, employee and supplier catalogs")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println("  - Seed a small demo catalog")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "bev_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"purchase_wastes",
		"purchase_boxes",
		"purchase_products",
		"purchases",
		"trip_charges",
		"trip_wastes",
		"trip_boxes",
		"trip_products",
		"trips",
		"products",
		"boxes",
		"trucks",
		"employees",
		"suppliers",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  Cleared %s\n", table)
	}

	sequences := []string{
		"purchases_id_seq",
		"purchase_products_id_seq",
		"purchase_boxes_id_seq",
		"purchase_wastes_id_seq",
		"trips_id_seq",
		"trip_products_id_seq",
		"trip_boxes_id_seq",
		"trip_wastes_id_seq",
		"trip_charges_id_seq",
		"products_id_seq",
		"boxes_id_seq",
		"trucks_id_seq",
		"employees_id_seq",
		"suppliers_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  Reset ID sequences")

	// Demo catalog: one crate type, two products, one truck, a driver and
	// a seller. Enough to start and finish a trip by hand.
	_, err = tx.Exec(ctx, `
		INSERT INTO boxes (designation, full_count, empty_count, capacity)
		VALUES ('Glass crate 24', 0, 100, 24)`)
	if err != nil {
		log.Fatalf("Failed to seed boxes: %v\n", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO products (designation, price_unite, box_id, capacity_by_box)
		VALUES ('Cola 33cl', 5.00, 1, 24),
		       ('Water 1.5L', 6.50, NULL, 6)`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v\n", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO trucks (matricule, capacity)
		VALUES ('A-1234', 900)`)
	if err != nil {
		log.Fatalf("Failed to seed trucks: %v\n", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO employees (cin, name, phone, role, salary)
		VALUES ('K111', 'Demo Driver', '0600000001', 'driver', 4000.00),
		       ('K222', 'Demo Seller', '0600000002', 'seller', 3500.00)`)
	if err != nil {
		log.Fatalf("Failed to seed employees: %v\n", err)
	}
	fmt.Println("  Seeded demo catalog")

	err = tx.Commit(ctx)
	if err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful!")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
