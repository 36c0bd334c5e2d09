package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler handles catalog endpoints.
type ItemsHandler struct {
	Inventory *store.Inventory
}

type createItemRequest struct {
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Unit     string           `json:"unit"`
	Price    *decimal.Decimal `json:"price"`
}

type updateItemRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Note  string           `json:"note"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListItems(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, "list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Trash handles GET /trash.
func (h *ItemsHandler) Trash(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListTrash(r.Context())
	if err != nil {
		writeError(w, r, err, "list deleted items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Inventory.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get item")
		return
	}

	movements, err := h.Inventory.ListMovements(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get item movements")
		return
	}
	if movements == nil {
		movements = []model.Movement{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":      item,
		"movements": movements,
	})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Inventory.CreateItem(r.Context(), model.NewItem{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Price:    req.Price,
	})
	if err != nil {
		writeError(w, r, err, "create item")
		return
	}

	slog.Info("item created", "id", id, "name", req.Name, "quantity", req.Quantity)
	jsonResponse(w, http.StatusCreated, map[string]any{"status": "created", "id": id})
}

// Update handles PUT /items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Inventory.UpdateItem(r.Context(), id, model.ItemChanges{
		Name:  req.Name,
		Price: req.Price,
		Note:  req.Note,
	})
	if err != nil {
		writeError(w, r, err, "update item")
		return
	}

	slog.Info("item updated", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Inventory.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err, "delete item")
		return
	}

	slog.Info("item deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Restore handles PATCH /items/{id}/restore.
func (h *ItemsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Inventory.RestoreItem(r.Context(), id); err != nil {
		writeError(w, r, err, "restore item")
		return
	}

	slog.Info("item restored", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"status": "restored"})
}
