package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestAppendAndListMovements(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	items := NewItems(database)
	ledger := NewLedger(database)

	pen, _ := items.create(ctx, newItem("Pen", 0))
	cup, _ := items.create(ctx, newItem("Cup", 0))

	ledger.append(ctx, pen.ID, model.KindInbound, 10, "delivery")
	ledger.append(ctx, cup.ID, model.KindInbound, 3, "")
	ledger.append(ctx, pen.ID, model.KindOutbound, 4, "sold")

	all, err := ledger.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(all))
	}

	// Newest first.
	if all[0].Kind != model.KindOutbound || all[0].Note != "sold" {
		t.Errorf("expected newest movement first, got %+v", all[0])
	}
	if all[2].Note != "delivery" {
		t.Errorf("expected oldest movement last, got %+v", all[2])
	}
	if all[1].Note != "" {
		t.Errorf("expected empty note, got %q", all[1].Note)
	}
	if all[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	byItem, _ := ledger.List(ctx, pen.ID)
	if len(byItem) != 2 {
		t.Errorf("expected 2 movements for pen, got %d", len(byItem))
	}
	for _, m := range byItem {
		if m.ItemID != pen.ID || m.ItemName != "Pen" {
			t.Errorf("unexpected movement in pen history: %+v", m)
		}
	}

	count, _ := ledger.Count(ctx, cup.ID)
	if count != 1 {
		t.Errorf("expected 1 movement for cup, got %d", count)
	}
	total, _ := ledger.Count(ctx, 0)
	if total != 3 {
		t.Errorf("expected 3 movements in total, got %d", total)
	}
}

func TestMovementShowsCurrentItemName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	items := NewItems(database)
	ledger := NewLedger(database)

	item, _ := items.create(ctx, newItem("Pen", 0))
	ledger.append(ctx, item.ID, model.KindInbound, 1, "")

	items.renameAndReprice(ctx, item.ID, model.ItemChanges{Name: strPtr("Ballpoint")})

	list, _ := ledger.List(ctx, item.ID)
	if len(list) != 1 || list[0].ItemName != "Ballpoint" {
		t.Errorf("expected movement to show the current name, got %+v", list)
	}
}

func TestAppendRejectsInvalidMovement(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	items := NewItems(database)
	ledger := NewLedger(database)

	item, _ := items.create(ctx, newItem("Pen", 0))

	if _, err := ledger.append(ctx, item.ID, "transfer", 1, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown kind, got %v", err)
	}
	if _, err := ledger.append(ctx, item.ID, model.KindInbound, -1, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for negative quantity, got %v", err)
	}

	count, _ := ledger.Count(ctx, item.ID)
	if count != 0 {
		t.Errorf("expected no movements, got %d", count)
	}
}

func TestDeletedItemKeepsHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	items := NewItems(database)
	ledger := NewLedger(database)

	item, _ := items.create(ctx, newItem("Pen", 0))
	ledger.append(ctx, item.ID, model.KindInbound, 2, "")
	items.softDelete(ctx, item.ID)

	// The ledger does not care whether the item is active.
	if _, err := ledger.append(ctx, item.ID, model.KindEdit, 0, "note"); err != nil {
		t.Fatalf("append for deleted item: %v", err)
	}

	list, _ := ledger.List(ctx, item.ID)
	if len(list) != 2 {
		t.Errorf("expected 2 movements for deleted item, got %d", len(list))
	}
}
