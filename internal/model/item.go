package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultUnit is used when an item is created without a unit.
const DefaultUnit = "adet"

// Item represents a catalog entry tracked by quantity.
type Item struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Deleted   bool            `json:"deleted"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// NewItem is the input for creating an item.
type NewItem struct {
	Name     string
	Quantity int
	Unit     string
	Price    *decimal.Decimal
}

// Validate checks required fields and fills in the default unit.
func (n *NewItem) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if n.Price == nil {
		return fmt.Errorf("%w: price required", ErrValidation)
	}
	if n.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if n.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if strings.TrimSpace(n.Unit) == "" {
		n.Unit = DefaultUnit
	}
	return nil
}

// ItemChanges is a partial update of an item's name and price. Nil fields
// are left unchanged. Note is an optional remark recorded in the audit entry.
type ItemChanges struct {
	Name  *string
	Price *decimal.Decimal
	Note  string
}

// Validate rejects an empty name or a negative price.
func (c ItemChanges) Validate() error {
	if c.Name != nil && *c.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if c.Price != nil && c.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}
