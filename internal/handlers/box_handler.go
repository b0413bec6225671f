package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bev-backend/internal/models"
	"bev-backend/internal/services"
)

type BoxHandler struct {
	Service *services.BoxService
}

func NewBoxHandler(s *services.BoxService) *BoxHandler {
	return &BoxHandler{Service: s}
}

func (h *BoxHandler) CreateBox(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "bad_json", Message: "invalid request body",
		}})
		return
	}

	box, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, box)
}

func (h *BoxHandler) GetBox(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	box, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, box)
}

func (h *BoxHandler) ListBoxes(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boxes)
}

func (h *BoxHandler) UpdateBox(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.CreateBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code: "bad_json", Message: "invalid request body",
		}})
		return
	}

	box, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, box)
}

func (h *BoxHandler) DeleteBox(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
