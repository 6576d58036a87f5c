package unlock

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

// ContentItem is one entry in the externally authored content catalog.
// OrderIndex positions the item in the unlock sequence, starting at zero.
type ContentItem struct {
	ID         string
	OrderIndex int
}

// Catalog lists the published content items in unlock order.
type Catalog interface {
	Items(ctx context.Context) ([]ContentItem, error)
}

// SliceCatalog is a static in-memory catalog. It copies and sorts the items
// once at construction, so Items is cheap and the caller's slice stays
// untouched.
type SliceCatalog struct {
	items []ContentItem
}

// NewSliceCatalog creates a catalog from a fixed item list.
func NewSliceCatalog(items []ContentItem) *SliceCatalog {
	sorted := make([]ContentItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})
	return &SliceCatalog{items: sorted}
}

// Items implements Catalog.
func (c *SliceCatalog) Items(ctx context.Context) ([]ContentItem, error) {
	out := make([]ContentItem, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Querier is the subset of pgx connection behavior the catalog needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGCatalog reads published content items from the content-authoring tables.
// This module never writes to them.
type PGCatalog struct {
	db Querier
}

// NewPGCatalog creates a catalog backed by a Postgres pool or connection.
func NewPGCatalog(db Querier) (*PGCatalog, error) {
	if db == nil {
		return nil, errors.New("unlock: database connection is required")
	}
	return &PGCatalog{db: db}, nil
}

const catalogQuery = `
SELECT id, order_index
FROM content_items
WHERE published
ORDER BY order_index`

// Items implements Catalog.
func (c *PGCatalog) Items(ctx context.Context) ([]ContentItem, error) {
	rows, err := c.db.Query(ctx, catalogQuery)
	if err != nil {
		return nil, fmt.Errorf("unlock: list catalog: %w", err)
	}
	defer rows.Close()

	var items []ContentItem
	for rows.Next() {
		var item ContentItem
		if err := rows.Scan(&item.ID, &item.OrderIndex); err != nil {
			return nil, fmt.Errorf("unlock: scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unlock: read catalog: %w", err)
	}
	return items, nil
}
