package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bev-backend/internal/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

// GetInvoice streams the trip's invoice PDF. ?type=loading gives the
// morning loading sheet, ?type=settlement the full reconciliation (only
// available once the trip is finished).
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "bad_id", Message: "trip id must be an integer",
		}})
		return
	}
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = services.InvoiceSettlement
	}

	pdf, err := h.Service.Generate(r.Context(), id, kind)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=trip-%d-%s.pdf", id, kind))
	w.Write(pdf)
}
