package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// Ledger is the append-only movement log. Entries are never updated or
// deleted; the schema rejects both.
type Ledger struct {
	q Querier
}

// NewLedger returns a ledger backed by q.
func NewLedger(q Querier) *Ledger {
	return &Ledger{q: q}
}

// append records a movement with the current timestamp. The item is not
// looked up, so history can be written for any item id the caller vouches for.
func (l *Ledger) append(ctx context.Context, itemID int64, kind string, quantity int, note string) (int64, error) {
	if !model.ValidKind(kind) {
		return 0, fmt.Errorf("%w: unknown movement kind %q", model.ErrValidation, kind)
	}
	if quantity < 0 {
		return 0, fmt.Errorf("%w: movement quantity must not be negative", model.ErrValidation)
	}

	result, err := l.q.ExecContext(ctx,
		`INSERT INTO movements (item_id, kind, quantity, note) VALUES (?, ?, ?, ?)`,
		itemID, kind, quantity, sql.NullString{String: note, Valid: note != ""},
	)
	if err != nil {
		return 0, fmt.Errorf("recording movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting movement id: %w", err)
	}
	return id, nil
}

// List returns movements newest first, joined with the item's current name.
// An itemID of 0 returns movements for all items.
func (l *Ledger) List(ctx context.Context, itemID int64) ([]model.Movement, error) {
	query := `SELECT m.id, m.item_id, m.kind, m.quantity, m.note, m.created_at,
	                 i.name AS item_name
	          FROM movements m
	          JOIN items i ON i.id = m.item_id`
	var args []any

	if itemID > 0 {
		query += ` WHERE m.item_id = ?`
		args = append(args, itemID)
	}

	query += ` ORDER BY m.created_at DESC, m.id DESC`

	rows, err := l.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var movements []model.Movement
	for rows.Next() {
		var m model.Movement
		var note sql.NullString
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &note, &m.Timestamp, &m.ItemName); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		m.Note = note.String
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// Count returns the number of movements recorded for an item, or for all
// items when itemID is 0.
func (l *Ledger) Count(ctx context.Context, itemID int64) (int, error) {
	var count int
	err := l.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movements WHERE ? = 0 OR item_id = ?`, itemID, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting movements: %w", err)
	}
	return count, nil
}
