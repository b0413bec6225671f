package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bev-backend/internal/handlers"
)

func NewRouter(
	tripHandler *handlers.TripHandler,
	truckHandler *handlers.TruckHandler,
	productHandler *handlers.ProductHandler,
	boxHandler *handlers.BoxHandler,
	employeeHandler *handlers.EmployeeHandler,
	supplierHandler *handlers.SupplierHandler,
	purchaseHandler *handlers.PurchaseHandler,
	invoiceHandler *handlers.InvoiceHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Trips. Order matters: /active must register before /{id}.
	tripsAPI := r.PathPrefix("/api/trips").Subrouter()
	tripsAPI.HandleFunc("/start", tripHandler.StartTrip).Methods("POST")
	tripsAPI.HandleFunc("/active", tripHandler.ListActiveTrips).Methods("GET")
	tripsAPI.HandleFunc("", tripHandler.ListTrips).Methods("GET")
	tripsAPI.HandleFunc("/{id}", tripHandler.GetTrip).Methods("GET")
	tripsAPI.HandleFunc("/{id}/finish", tripHandler.FinishTrip).Methods("POST")
	tripsAPI.HandleFunc("/{id}/invoice", invoiceHandler.GetInvoice).Methods("GET")

	// Trucks
	trucksAPI := r.PathPrefix("/api/trucks").Subrouter()
	trucksAPI.HandleFunc("", truckHandler.CreateTruck).Methods("POST")
	trucksAPI.HandleFunc("", truckHandler.ListTrucks).Methods("GET")
	trucksAPI.HandleFunc("/{matricule}", truckHandler.GetTruck).Methods("GET")
	trucksAPI.HandleFunc("/{matricule}", truckHandler.UpdateTruck).Methods("PUT")
	trucksAPI.HandleFunc("/{matricule}", truckHandler.DeleteTruck).Methods("DELETE")
	trucksAPI.HandleFunc("/{matricule}/empty", truckHandler.EmptyTruck).Methods("POST")

	// Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.DeleteProduct).Methods("DELETE")

	// Boxes (crate types)
	boxesAPI := r.PathPrefix("/api/boxes").Subrouter()
	boxesAPI.HandleFunc("", boxHandler.CreateBox).Methods("POST")
	boxesAPI.HandleFunc("", boxHandler.ListBoxes).Methods("GET")
	boxesAPI.HandleFunc("/{id}", boxHandler.GetBox).Methods("GET")
	boxesAPI.HandleFunc("/{id}", boxHandler.UpdateBox).Methods("PUT")
	boxesAPI.HandleFunc("/{id}", boxHandler.DeleteBox).Methods("DELETE")

	// Employees
	employeesAPI := r.PathPrefix("/api/employees").Subrouter()
	employeesAPI.HandleFunc("", employeeHandler.CreateEmployee).Methods("POST")
	employeesAPI.HandleFunc("", employeeHandler.ListEmployees).Methods("GET")
	employeesAPI.HandleFunc("/{cin}", employeeHandler.GetEmployee).Methods("GET")
	employeesAPI.HandleFunc("/{cin}", employeeHandler.UpdateEmployee).Methods("PUT")
	employeesAPI.HandleFunc("/{cin}", employeeHandler.DeleteEmployee).Methods("DELETE")

	// Suppliers
	suppliersAPI := r.PathPrefix("/api/suppliers").Subrouter()
	suppliersAPI.HandleFunc("", supplierHandler.CreateSupplier).Methods("POST")
	suppliersAPI.HandleFunc("", supplierHandler.ListSuppliers).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.GetSupplier).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.UpdateSupplier).Methods("PUT")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.DeleteSupplier).Methods("DELETE")

	// Purchases are append-only: a recorded delivery is never edited.
	purchasesAPI := r.PathPrefix("/api/purchases").Subrouter()
	purchasesAPI.HandleFunc("", purchaseHandler.CreatePurchase).Methods("POST")
	purchasesAPI.HandleFunc("", purchaseHandler.ListPurchases).Methods("GET")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.GetPurchase).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
