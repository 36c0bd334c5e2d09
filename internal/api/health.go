package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// HealthHandler reports service and ledger health.
type HealthHandler struct {
	Inventory *store.Inventory
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Inventory.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Audit handles GET /audit.
func (h *HealthHandler) Audit(w http.ResponseWriter, r *http.Request) {
	found, err := h.Inventory.Audit(r.Context())
	if err != nil {
		writeError(w, r, err, "audit ledger")
		return
	}
	if found == nil {
		found = []model.Discrepancy{}
	}
	if len(found) > 0 {
		slog.Warn("ledger discrepancies found", "count", len(found))
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"consistent":    len(found) == 0,
		"discrepancies": found,
	})
}
