package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/model"
)

func TestAuditConsistentInventory(t *testing.T) {
	inv := newTestInventory(t)
	ctx := context.Background()

	pen, err := inv.CreateItem(ctx, newItem("Pen", 5))
	require.NoError(t, err)
	cup, err := inv.CreateItem(ctx, newItem("Cup", 0))
	require.NoError(t, err)

	inv.ApplyMovement(ctx, model.NewMovement{ItemID: pen, Kind: model.KindOutbound, Quantity: 2})
	inv.ApplyMovement(ctx, model.NewMovement{ItemID: cup, Kind: model.KindInbound, Quantity: 8})
	inv.UpdateItem(ctx, cup, model.ItemChanges{Name: strPtr("Mug")})
	inv.DeleteItem(ctx, pen)

	found, err := inv.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAuditReportsDrift(t *testing.T) {
	inv := newTestInventory(t)
	ctx := context.Background()

	id, err := inv.CreateItem(ctx, newItem("Pen", 5))
	require.NoError(t, err)

	// Bypass the engine to simulate drift.
	_, err = inv.db.ExecContext(ctx, `UPDATE items SET quantity = 9 WHERE id = ?`, id)
	require.NoError(t, err)

	found, err := inv.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, model.Discrepancy{ItemID: id, ItemName: "Pen", StoredQuantity: 9, LedgerQuantity: 5}, found[0])
}
