package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(inv *store.Inventory) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Inventory: inv}
	movementsHandler := &MovementsHandler{Inventory: inv}
	healthHandler := &HealthHandler{Inventory: inv}

	// Catalog.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemsHandler.Delete)
	mux.HandleFunc("PATCH /items/{id}/restore", itemsHandler.Restore)
	mux.HandleFunc("GET /trash", itemsHandler.Trash)

	// Ledger.
	mux.HandleFunc("GET /movements", movementsHandler.List)
	mux.HandleFunc("POST /movements", movementsHandler.Create)

	mux.HandleFunc("GET /audit", healthHandler.Audit)
	mux.HandleFunc("GET /healthz", healthHandler.Health)

	return mux
}
