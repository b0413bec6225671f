package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys. The catalog changes rarely and is read on every
// start-trip wizard load, so short TTLs buy a lot.
const (
	ProductListKey   = "catalog:products"
	BoxListKey       = "catalog:boxes"
	TruckListKey     = "catalog:trucks"
	EmployeeListKey  = "catalog:employees"
	SupplierListKey  = "catalog:suppliers"
	ActiveTripsKey   = "trips:active"
	InvoiceKeyFmt    = "invoice:%d:%s"
	catalogTTL       = 5 * time.Minute
	activeTripsTTL   = 30 * time.Second
	invoiceTTL       = 10 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. On failure the client stays nil
// and every cache call degrades to a miss.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when the cache is down.
func GetClient() *redis.Client {
	return client
}

// Get returns the cached bytes for key, or a miss.
func Get(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCatalog caches a serialized catalog listing.
func SetCatalog(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, catalogTTL)
}

// SetActiveTrips caches the serialized active-trip listing. The TTL is
// short because dispatchers watch this view.
func SetActiveTrips(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, ActiveTripsKey, data, activeTripsTTL)
}

// InvoiceKey builds the cache key for a rendered invoice PDF.
func InvoiceKey(tripID int, kind string) string {
	return fmt.Sprintf(InvoiceKeyFmt, tripID, kind)
}

// SetInvoice caches a rendered invoice PDF. Settlement invoices are
// immutable once the trip is finished, so this is safe to serve repeatedly.
func SetInvoice(ctx context.Context, tripID int, kind string, pdf []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, InvoiceKey(tripID, kind), pdf, invoiceTTL)
}

// Invalidate drops the given keys.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
