package store

import (
	"fmt"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// NoChanges is the edit note recorded when an update changes nothing.
const NoChanges = "no changes"

// describeChanges summarizes how c differs from the stored item: one entry
// per changed field, joined with "; ". A non-blank note is appended on its
// own line.
func describeChanges(old *model.Item, c model.ItemChanges) string {
	var changes []string
	if c.Name != nil && *c.Name != old.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", old.Name, *c.Name))
	}
	if c.Price != nil && !c.Price.Equal(old.Price) {
		changes = append(changes, fmt.Sprintf("price: %s -> %s", old.Price.String(), c.Price.String()))
	}

	summary := NoChanges
	if len(changes) > 0 {
		summary = strings.Join(changes, "; ")
	}

	if note := strings.TrimSpace(c.Note); note != "" {
		summary += "\nnote: " + note
	}
	return summary
}
