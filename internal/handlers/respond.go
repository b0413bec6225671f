package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bev-backend/internal/repositories"
	"bev-backend/internal/services"
	"bev-backend/internal/trip"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Input problems are 400,
// state conflicts 409, missing records 404, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		missing *trip.MissingFieldError
		badQty  *trip.InvalidQuantityError
		badDate *trip.InvalidDateError
		unknown *trip.UnknownReferenceError
		dup     *trip.DuplicateLineError
		over    *trip.OverReturnError
		waste   *trip.InvalidWasteError
		charge  *trip.InvalidChargeError
	)
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "missing_field", Message: err.Error(), Field: missing.Field,
		}})
	case errors.As(err, &badQty):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "invalid_quantity", Message: err.Error(), Field: badQty.Field,
		}})
	case errors.As(err, &badDate):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "invalid_date", Message: err.Error(), Field: "date",
		}})
	case errors.As(err, &dup):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "duplicate_line", Message: err.Error(), Field: dup.Ref,
		}})
	case errors.As(err, &waste):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "invalid_waste", Message: err.Error(),
		}})
	case errors.As(err, &charge):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "invalid_charge", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrEmptyDispatch):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "empty_dispatch", Message: err.Error(),
		}})
	case errors.Is(err, services.ErrInvalidInvoiceType):
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "invalid_invoice_type", Message: err.Error(),
		}})
	case errors.As(err, &unknown):
		// A reference that does not resolve is a consistency problem with
		// the catalog, not a malformed request.
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "unknown_reference", Message: err.Error(), Field: unknown.Ref,
		}})
	case errors.As(err, &over):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "over_return", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrAlreadyFinished):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "already_finished", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrNoActiveTrip):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "no_active_trip", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrTruckBusy):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "truck_busy", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrNotSettled):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{
			Code: "not_settled", Message: err.Error(),
		}})
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, repositories.ErrNoRows):
		writeJSON(w, http.StatusNotFound, errorBody{errorDetail{
			Code: "not_found", Message: err.Error(),
		}})
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{errorDetail{
			Code: "internal", Message: "internal server error",
		}})
	}
}
