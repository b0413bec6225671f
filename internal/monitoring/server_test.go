package monitoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bev-backend/internal/models"
)

func TestNotifySettlementDoesNotBlockWithoutClients(t *testing.T) {
	ms := NewMonitoringServer(nil, 9090, -200)
	shortTrip := &models.Trip{ID: 1, TruckMatricule: "A-1234", Deff: decimal.NewFromInt(-500)}

	// The broadcast consumer is not running; the push queue fills up and
	// every further notification must still return immediately.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			ms.NotifySettlement(shortTrip)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifySettlement blocked on the broadcast channel")
	}

	ms.alertsMux.RLock()
	defer ms.alertsMux.RUnlock()
	if len(ms.alerts) != 100 {
		t.Errorf("stored alerts = %d, want 100", len(ms.alerts))
	}
}

func TestNotifySettlementThreshold(t *testing.T) {
	ms := NewMonitoringServer(nil, 9090, -200)

	ms.NotifySettlement(&models.Trip{ID: 2, Deff: decimal.NewFromInt(-50)})
	if len(ms.alerts) != 0 {
		t.Fatalf("variance above threshold must not alert, got %d alerts", len(ms.alerts))
	}

	ms.NotifySettlement(&models.Trip{ID: 3, TruckMatricule: "A-1234", Deff: decimal.NewFromInt(-250)})
	if len(ms.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(ms.alerts))
	}
	if ms.alerts[0].Type != "cash_shortfall" {
		t.Errorf("alert type = %q, want cash_shortfall", ms.alerts[0].Type)
	}
}
