package model

import (
	"fmt"
	"time"
)

// Movement is an immutable ledger entry recording a quantity change or an
// audit-only edit of an item.
type Movement struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Kind      string    `json:"kind"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Joined at read time: the item's current name.
	ItemName string `json:"item_name"`
}

// Movement kinds.
const (
	KindInbound  = "inbound"
	KindOutbound = "outbound"
	KindEdit     = "edit"
)

// Effect returns the signed change a movement applies to an item's quantity.
func Effect(kind string, quantity int) int {
	switch kind {
	case KindInbound:
		return quantity
	case KindOutbound:
		return -quantity
	default:
		return 0
	}
}

// ValidKind reports whether kind is a known movement kind.
func ValidKind(kind string) bool {
	return kind == KindInbound || kind == KindOutbound || kind == KindEdit
}

// NewMovement is the input for applying a stock movement to an item.
type NewMovement struct {
	ItemID   int64
	Kind     string
	Quantity int
	Note     string
}

// Validate checks the movement is a stock change. Edit entries are written
// only by item updates.
func (m NewMovement) Validate() error {
	if m.ItemID <= 0 {
		return fmt.Errorf("%w: item_id required", ErrValidation)
	}
	if m.Kind != KindInbound && m.Kind != KindOutbound {
		return fmt.Errorf("%w: kind must be %q or %q", ErrValidation, KindInbound, KindOutbound)
	}
	if m.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return nil
}

// Discrepancy reports an item whose stored quantity disagrees with the net
// effect of its movements.
type Discrepancy struct {
	ItemID         int64  `json:"item_id"`
	ItemName       string `json:"item_name"`
	StoredQuantity int    `json:"stored_quantity"`
	LedgerQuantity int    `json:"ledger_quantity"`
}
