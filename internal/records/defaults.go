package records

import (
	"context"
	"fmt"

	"taxiledger/internal/core"
)

// DefaultCategories returns the categories a fresh store starts with.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "1", Title: "سوخت و انرژی", Color: "#ef4444", Icon: "Fuel", IsDefault: true},
		{ID: "2", Title: "تعمیرات و سرویس", Color: "#f97316", Icon: "Wrench", IsDefault: true},
		{ID: "3", Title: "لوازم یدکی", Color: "#3b82f6", Icon: "Settings", IsDefault: true},
		{ID: "4", Title: "بیمه و عوارض", Color: "#8b5cf6", Icon: "FileText", IsDefault: true},
		{ID: "5", Title: "نظافت و کارواش", Color: "#06b6d4", Icon: "Droplets", IsDefault: true},
		{ID: "6", Title: "جریمه‌ها", Color: "#64748b", Icon: "AlertTriangle", IsDefault: true},
		{ID: "7", Title: "سایر هزینه‌ها", Color: "#94a3b8", Icon: "MoreHorizontal", IsDefault: true},
	}
}

// SeedDefaultCategories writes the default categories when the store has
// none. It is a startup step; reads never seed. It reports how many
// categories were inserted.
func SeedDefaultCategories(ctx context.Context, store CategoryStore) (int, error) {
	n, err := store.CountCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	defaults := DefaultCategories()
	for _, c := range defaults {
		if err := store.SaveCategory(ctx, c); err != nil {
			return 0, fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return len(defaults), nil
}
