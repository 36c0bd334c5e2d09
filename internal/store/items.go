package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/zaloga/internal/model"
)

// Querier is the subset of *sql.DB and *sql.Tx the stores run against.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Items is the item catalog. Writes are unexported: they are only reachable
// through Inventory, which pairs them with ledger entries.
type Items struct {
	q Querier
}

// NewItems returns an item store backed by q.
func NewItems(q Querier) *Items {
	return &Items{q: q}
}

const itemColumns = `id, name, quantity, unit, price, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	if err := s.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.Price,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
		return nil, err
	}
	item.Deleted = item.DeletedAt != nil
	return item, nil
}

func (s *Items) list(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListActive returns all non-deleted items. A non-empty filter keeps only
// items whose name contains it, ignoring case.
func (s *Items) ListActive(ctx context.Context, filter string) ([]model.Item, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return s.list(ctx,
			`SELECT `+itemColumns+` FROM items WHERE deleted_at IS NULL ORDER BY name, id`,
		)
	}
	return s.list(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE deleted_at IS NULL AND instr(fold(name), fold(?)) > 0
		 ORDER BY name, id`, filter,
	)
}

// ListDeleted returns all soft-deleted items.
func (s *Items) ListDeleted(ctx context.Context) ([]model.Item, error) {
	return s.list(ctx,
		`SELECT `+itemColumns+` FROM items WHERE deleted_at IS NOT NULL ORDER BY name, id`,
	)
}

// GetActive returns a non-deleted item by ID.
func (s *Items) GetActive(ctx context.Context, id int64) (*model.Item, error) {
	return s.get(ctx, id, `deleted_at IS NULL`)
}

// GetDeleted returns a soft-deleted item by ID.
func (s *Items) GetDeleted(ctx context.Context, id int64) (*model.Item, error) {
	return s.get(ctx, id, `deleted_at IS NOT NULL`)
}

func (s *Items) get(ctx context.Context, id int64, scope string) (*model.Item, error) {
	item, err := scanItem(s.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND `+scope, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// nameTaken reports whether an active item other than exceptID uses name.
func (s *Items) nameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE name = ? AND deleted_at IS NULL AND id != ?`,
		name, exceptID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking item name: %w", err)
	}
	return count > 0, nil
}

func nameConflict(name string) error {
	return fmt.Errorf("%w: an active item named %q already exists", model.ErrConflict, name)
}

// create inserts a new item.
func (s *Items) create(ctx context.Context, n model.NewItem) (*model.Item, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, n.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, nameConflict(n.Name)
	}

	result, err := s.q.ExecContext(ctx,
		`INSERT INTO items (name, quantity, unit, price) VALUES (?, ?, ?, ?)`,
		n.Name, n.Quantity, n.Unit, n.Price.String(),
	)
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
		return nil, nameConflict(n.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.GetActive(ctx, id)
}

// renameAndReprice applies the provided name and price to an active item.
// Quantity is never touched.
func (s *Items) renameAndReprice(ctx context.Context, id int64, c model.ItemChanges) error {
	if err := c.Validate(); err != nil {
		return err
	}

	current, err := s.GetActive(ctx, id)
	if err != nil {
		return err
	}

	var name, price any
	if c.Name != nil {
		name = *c.Name
		if *c.Name != current.Name {
			taken, err := s.nameTaken(ctx, *c.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return nameConflict(*c.Name)
			}
		}
	}
	if c.Price != nil {
		price = c.Price.String()
	}

	_, err = s.q.ExecContext(ctx,
		`UPDATE items
		 SET name = COALESCE(?, name), price = COALESCE(?, price), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, price, id,
	)
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
		return nameConflict(*c.Name)
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// setQuantity overwrites an active item's quantity.
func (s *Items) setQuantity(ctx context.Context, id int64, quantity int) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		quantity, id,
	)
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_CHECK) {
		return fmt.Errorf("%w: quantity %d", model.ErrInsufficientStock, quantity)
	}
	if err != nil {
		return fmt.Errorf("setting item quantity: %w", err)
	}
	return requireRow(result, id)
}

// softDelete hides an active item from the catalog.
func (s *Items) softDelete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireRow(result, id)
}

// restore brings a soft-deleted item back. It fails with ErrConflict when an
// active item has taken its name in the meantime.
func (s *Items) restore(ctx context.Context, id int64) error {
	item, err := s.GetDeleted(ctx, id)
	if err != nil {
		return err
	}

	taken, err := s.nameTaken(ctx, item.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return nameConflict(item.Name)
	}

	result, err := s.q.ExecContext(ctx,
		`UPDATE items SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NOT NULL`,
		id,
	)
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
		return nameConflict(item.Name)
	}
	if err != nil {
		return fmt.Errorf("restoring item: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// isConstraint reports whether err is a SQLite constraint violation with the
// given extended result code.
func isConstraint(err error, code int) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == code
}
