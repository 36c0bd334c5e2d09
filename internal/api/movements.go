package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// MovementsHandler handles ledger endpoints.
type MovementsHandler struct {
	Inventory *store.Inventory
}

type createMovementRequest struct {
	ItemID   int64  `json:"item_id"`
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// List handles GET /movements.
func (h *MovementsHandler) List(w http.ResponseWriter, r *http.Request) {
	var itemID int64

	if v := r.URL.Query().Get("item_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		itemID = id
	}

	movements, err := h.Inventory.ListMovements(r.Context(), itemID)
	if err != nil {
		writeError(w, r, err, "list movements")
		return
	}
	if movements == nil {
		movements = []model.Movement{}
	}
	jsonResponse(w, http.StatusOK, movements)
}

// Create handles POST /movements.
func (h *MovementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qty, err := h.Inventory.ApplyMovement(r.Context(), model.NewMovement{
		ItemID:   req.ItemID,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, r, err, "record movement")
		return
	}

	slog.Info("movement applied", "item", req.ItemID, "kind", req.Kind,
		"quantity", req.Quantity, "new_quantity", qty)
	jsonResponse(w, http.StatusCreated, map[string]any{"status": "recorded", "new_quantity": qty})
}
