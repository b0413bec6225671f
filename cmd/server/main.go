package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"bev-backend/internal/archive"
	"bev-backend/internal/cache"
	"bev-backend/internal/config"
	"bev-backend/internal/database"
	"bev-backend/internal/db"
	"bev-backend/internal/handlers"
	"bev-backend/internal/health"
	h "bev-backend/internal/http"
	"bev-backend/internal/middleware"
	"bev-backend/internal/monitoring"
	"bev-backend/internal/repositories"
	"bev-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; everything degrades to direct DB reads without it
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (catalog reads go to the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, "migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)

	// Monitoring dashboard on its own port
	monitor := monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort, cfg.Alerts.ShortfallThreshold)
	go monitor.Start()

	// Repositories
	productRepo := repositories.NewProductRepository(pool)
	boxRepo := repositories.NewBoxRepository(pool)
	truckRepo := repositories.NewTruckRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	tripRepo := repositories.NewTripRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)

	// Services
	productService := services.NewProductService(productRepo, boxRepo)
	boxService := services.NewBoxService(boxRepo)
	truckService := services.NewTruckService(truckRepo)
	employeeService := services.NewEmployeeService(employeeRepo)
	supplierService := services.NewSupplierService(supplierRepo)
	tripService := services.NewTripService(tripRepo, productRepo, boxRepo, truckRepo, employeeRepo)
	tripService.SetNotifier(monitor)
	purchaseService := services.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, boxRepo)
	invoiceService := services.NewInvoiceService(tripRepo)
	if archiver := archive.New(cfg.Archive); archiver != nil {
		invoiceService.SetArchiver(archiver)
		log.Printf("[Archive] Settlement invoices archived to bucket %s", cfg.Archive.Bucket)
	}

	// Handlers
	tripHandler := handlers.NewTripHandler(tripService)
	truckHandler := handlers.NewTruckHandler(truckService, tripService)
	productHandler := handlers.NewProductHandler(productService)
	boxHandler := handlers.NewBoxHandler(boxService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		tripHandler,
		truckHandler,
		productHandler,
		boxHandler,
		employeeHandler,
		supplierHandler,
		purchaseHandler,
		invoiceHandler,
		healthHandler,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.RequestLogging(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
