package store

import (
	"context"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// Audit recomputes every item's quantity from its movements, deleted items
// included, and returns the items whose stored quantity disagrees.
func (inv *Inventory) Audit(ctx context.Context) ([]model.Discrepancy, error) {
	rows, err := inv.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.quantity,
		        COALESCE(SUM(CASE m.kind
		                     WHEN 'inbound' THEN m.quantity
		                     WHEN 'outbound' THEN -m.quantity
		                     ELSE 0 END), 0) AS net
		 FROM items i
		 LEFT JOIN movements m ON m.item_id = i.id
		 GROUP BY i.id
		 HAVING i.quantity != net
		 ORDER BY i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("auditing ledger: %w", err)
	}
	defer rows.Close()

	var found []model.Discrepancy
	for rows.Next() {
		var d model.Discrepancy
		if err := rows.Scan(&d.ItemID, &d.ItemName, &d.StoredQuantity, &d.LedgerQuantity); err != nil {
			return nil, fmt.Errorf("scanning discrepancy: %w", err)
		}
		found = append(found, d)
	}
	return found, rows.Err()
}
