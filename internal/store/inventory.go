package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// InitialStockNote is the note on the inbound movement written when an item
// is created with stock.
const InitialStockNote = "initial stock"

// Inventory is the only write path into the catalog and the ledger. Each
// write runs in one transaction, so an item's quantity and its movements
// are committed together or not at all.
type Inventory struct {
	db *sql.DB
}

// NewInventory returns an inventory backed by db. The database should be
// opened with db.Open so write transactions take the lock up front.
func NewInventory(db *sql.DB) *Inventory {
	return &Inventory{db: db}
}

// withTx runs fn against stores bound to a single transaction.
func (inv *Inventory) withTx(ctx context.Context, fn func(items *Items, ledger *Ledger) error) error {
	tx, err := inv.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewItems(tx), NewLedger(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateItem adds an item to the catalog. Starting stock is recorded as an
// inbound movement in the same transaction. Returns the new item's ID.
func (inv *Inventory) CreateItem(ctx context.Context, n model.NewItem) (int64, error) {
	if err := n.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := inv.withTx(ctx, func(items *Items, ledger *Ledger) error {
		item, err := items.create(ctx, n)
		if err != nil {
			return err
		}
		id = item.ID

		if item.Quantity > 0 {
			if _, err := ledger.append(ctx, item.ID, model.KindInbound, item.Quantity, InitialStockNote); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateItem renames and/or reprices an active item and records an edit
// movement describing what changed.
func (inv *Inventory) UpdateItem(ctx context.Context, id int64, c model.ItemChanges) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return inv.withTx(ctx, func(items *Items, ledger *Ledger) error {
		old, err := items.GetActive(ctx, id)
		if err != nil {
			return err
		}

		if err := items.renameAndReprice(ctx, id, c); err != nil {
			return err
		}

		_, err = ledger.append(ctx, id, model.KindEdit, 0, describeChanges(old, c))
		return err
	})
}

// DeleteItem soft-deletes an active item. No movement is recorded.
func (inv *Inventory) DeleteItem(ctx context.Context, id int64) error {
	return inv.withTx(ctx, func(items *Items, _ *Ledger) error {
		return items.softDelete(ctx, id)
	})
}

// RestoreItem brings a soft-deleted item back into the catalog. No movement
// is recorded.
func (inv *Inventory) RestoreItem(ctx context.Context, id int64) error {
	return inv.withTx(ctx, func(items *Items, _ *Ledger) error {
		return items.restore(ctx, id)
	})
}

// ApplyMovement moves stock in or out of an active item and returns the new
// quantity. An outbound movement larger than the stock on hand fails with
// ErrInsufficientStock and writes nothing.
func (inv *Inventory) ApplyMovement(ctx context.Context, m model.NewMovement) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	var newQty int
	err := inv.withTx(ctx, func(items *Items, ledger *Ledger) error {
		item, err := items.GetActive(ctx, m.ItemID)
		if err != nil {
			return err
		}

		newQty = item.Quantity + model.Effect(m.Kind, m.Quantity)
		if newQty < 0 {
			return fmt.Errorf("%w: have %d, need %d", model.ErrInsufficientStock, item.Quantity, m.Quantity)
		}

		if err := items.setQuantity(ctx, m.ItemID, newQty); err != nil {
			return err
		}

		_, err = ledger.append(ctx, m.ItemID, m.Kind, m.Quantity, m.Note)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// ListItems returns active items, optionally filtered by name.
func (inv *Inventory) ListItems(ctx context.Context, filter string) ([]model.Item, error) {
	return NewItems(inv.db).ListActive(ctx, filter)
}

// ListTrash returns soft-deleted items.
func (inv *Inventory) ListTrash(ctx context.Context) ([]model.Item, error) {
	return NewItems(inv.db).ListDeleted(ctx)
}

// GetItem returns an active item.
func (inv *Inventory) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return NewItems(inv.db).GetActive(ctx, id)
}

// ListMovements returns the ledger newest first, for one item or all (itemID 0).
func (inv *Inventory) ListMovements(ctx context.Context, itemID int64) ([]model.Movement, error) {
	return NewLedger(inv.db).List(ctx, itemID)
}

// Ping checks the database is reachable.
func (inv *Inventory) Ping(ctx context.Context) error {
	return inv.db.PingContext(ctx)
}
