package db

import (
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestFileDB(t)

	var enabled int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("expected foreign_keys=1, got %d", enabled)
	}

	_, err := database.Exec(`INSERT INTO movements (item_id, kind, quantity) VALUES (999, 'inbound', 1)`)
	if err == nil {
		t.Error("expected foreign key violation for unknown item")
	}
}

func TestMovementsAppendOnly(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO items (name) VALUES ('Pen')`); err != nil {
		t.Fatalf("inserting item: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO movements (item_id, kind, quantity) VALUES (1, 'inbound', 5)`); err != nil {
		t.Fatalf("inserting movement: %v", err)
	}

	if _, err := database.Exec(`UPDATE movements SET quantity = 6 WHERE id = 1`); err == nil {
		t.Error("expected update of a movement to fail")
	}
	if _, err := database.Exec(`DELETE FROM movements WHERE id = 1`); err == nil {
		t.Error("expected delete of a movement to fail")
	}

	var qty int
	database.QueryRow(`SELECT quantity FROM movements WHERE id = 1`).Scan(&qty)
	if qty != 5 {
		t.Errorf("expected movement quantity 5, got %d", qty)
	}
}

func TestActiveNameUniqueIndex(t *testing.T) {
	database := NewTestDB(t)

	database.Exec(`INSERT INTO items (name) VALUES ('Pen')`)
	if _, err := database.Exec(`INSERT INTO items (name) VALUES ('Pen')`); err == nil {
		t.Fatal("expected duplicate active name to fail")
	}

	database.Exec(`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE name = 'Pen'`)
	if _, err := database.Exec(`INSERT INTO items (name) VALUES ('Pen')`); err != nil {
		t.Errorf("expected name reuse after soft delete, got %v", err)
	}
}

func TestFoldFunction(t *testing.T) {
	database := NewTestDB(t)

	var got string
	if err := database.QueryRow(`SELECT fold('ÇAY Bardağı')`).Scan(&got); err != nil {
		t.Fatalf("fold: %v", err)
	}
	if got != "çay bardağı" {
		t.Errorf("expected %q, got %q", "çay bardağı", got)
	}
}
