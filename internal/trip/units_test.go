package trip_test

import (
	"errors"
	"testing"

	"bev-backend/internal/trip"
)

func TestToUnits(t *testing.T) {
	tests := []struct {
		name      string
		crates    int
		loose     int
		capacity  int
		want      int
		expectErr bool
	}{
		{name: "crates and loose", crates: 2, loose: 5, capacity: 24, want: 53},
		{name: "loose only", crates: 0, loose: 7, capacity: 24, want: 7},
		{name: "zero capacity degenerates to loose", crates: 3, loose: 4, capacity: 0, want: 4},
		{name: "all zero", crates: 0, loose: 0, capacity: 0, want: 0},
		{name: "negative crates", crates: -1, loose: 0, capacity: 24, expectErr: true},
		{name: "negative loose", crates: 1, loose: -2, capacity: 24, expectErr: true},
		{name: "negative capacity", crates: 1, loose: 0, capacity: -24, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := trip.ToUnits(tt.crates, tt.loose, tt.capacity)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				var iq *trip.InvalidQuantityError
				if !errors.As(err, &iq) {
					t.Errorf("expected InvalidQuantityError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
