package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"bev-backend/internal/models"
	"bev-backend/internal/services"
)

type TruckHandler struct {
	Service *services.TruckService
	Trips   *services.TripService
}

func NewTruckHandler(s *services.TruckService, trips *services.TripService) *TruckHandler {
	return &TruckHandler{Service: s, Trips: trips}
}

func (h *TruckHandler) CreateTruck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "bad_json", Message: "invalid request body",
		}})
		return
	}

	truck, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, truck)
}

func (h *TruckHandler) GetTruck(w http.ResponseWriter, r *http.Request) {
	truck, err := h.Service.GetByMatricule(r.Context(), mux.Vars(r)["matricule"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, truck)
}

func (h *TruckHandler) ListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trucks)
}

func (h *TruckHandler) UpdateTruck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "bad_json", Message: "invalid request body",
		}})
		return
	}

	truck, err := h.Service.Update(r.Context(), mux.Vars(r)["matricule"], &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, truck)
}

func (h *TruckHandler) DeleteTruck(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["matricule"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EmptyTruck closes the truck's active trip with a full return. It exists
// for the day a truck comes back without having made its round, so the
// depot can recover the stock without faking a settlement.
func (h *TruckHandler) EmptyTruck(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trips.EmptyTruck(r.Context(), mux.Vars(r)["matricule"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
