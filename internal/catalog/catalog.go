// Package catalog is the fixed category table. Categories are configuration
// data scoped by kind; each carries a display label, color and icon name.
package catalog

import (
	"fmt"

	"saldo/internal/core"
)

// Category is one entry of the catalog.
type Category struct {
	ID    string    `json:"id"`
	Kind  core.Kind `json:"kind"`
	Label string    `json:"label"`
	Color string    `json:"color"`
	Icon  string    `json:"icon"`
}

var (
	expenseCategories = []Category{
		{ID: "food", Kind: core.Expense, Label: "Food", Color: "#F87171", Icon: "utensils"},
		{ID: "transport", Kind: core.Expense, Label: "Transport", Color: "#FBBF24", Icon: "car"},
		{ID: "home", Kind: core.Expense, Label: "Home", Color: "#60A5FA", Icon: "house"},
		{ID: "leisure", Kind: core.Expense, Label: "Leisure", Color: "#A78BFA", Icon: "gamepad-2"},
		{ID: "shopping", Kind: core.Expense, Label: "Shopping", Color: "#F472B6", Icon: "shopping-bag"},
		{ID: "other", Kind: core.Expense, Label: "Other", Color: "#94A3B8", Icon: "trash-2"},
	}

	incomeCategories = []Category{
		{ID: "salary", Kind: core.Income, Label: "Salary", Color: "#4ADE80", Icon: "wallet"},
		{ID: "extra", Kind: core.Income, Label: "Extra", Color: "#2DD4BF", Icon: "trending-up"},
		{ID: "gift", Kind: core.Income, Label: "Gift", Color: "#F472B6", Icon: "gift"},
	}

	byKind = map[core.Kind]map[string]Category{
		core.Expense: index(expenseCategories),
		core.Income:  index(incomeCategories),
	}
)

func index(cats []Category) map[string]Category {
	m := make(map[string]Category, len(cats))
	for _, c := range cats {
		m[c.ID] = c
	}
	return m
}

// ForKind returns the categories of a kind in display order.
func ForKind(kind core.Kind) []Category {
	var src []Category
	switch kind {
	case core.Expense:
		src = expenseCategories
	case core.Income:
		src = incomeCategories
	}
	return append([]Category(nil), src...)
}

// All returns expense categories followed by income categories.
func All() []Category {
	return append(ForKind(core.Expense), ForKind(core.Income)...)
}

// Lookup finds a category id within the catalog of kind.
func Lookup(kind core.Kind, id string) (Category, bool) {
	c, ok := byKind[kind][id]
	return c, ok
}

// Validate fails with core.ErrInvalidCategory when id does not belong to kind.
func Validate(kind core.Kind, id string) error {
	if _, ok := Lookup(kind, id); !ok {
		return fmt.Errorf("%w: %q is not a %s category", core.ErrInvalidCategory, id, kind)
	}
	return nil
}
