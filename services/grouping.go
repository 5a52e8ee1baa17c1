package services

import (
	"log"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UncategorizedLabel is used when an item's material no longer resolves
// against the catalog or has no category.
const UncategorizedLabel = "Sem categoria"

// CategoryGroup is one display bucket of the grouped item view. Indexes are
// positions into the underlying item slice, in their current relative order.
type CategoryGroup struct {
	Categoria string
	Indexes   []int
}

var categoryCollator = collate.New(language.BrazilianPortuguese)

// GroupByCategory partitions item indexes by the category of each item's
// material. Groups are sorted with Brazilian Portuguese collation; within a
// group the items keep the relative order they have in the slice.
func GroupByCategory(items []LineItem, lookup MaterialLookup) []CategoryGroup {
	byName := make(map[string]*CategoryGroup)
	var order []string

	for i, item := range items {
		categoria := UncategorizedLabel
		if m, ok := lookup[item.MaterialID]; ok && m.Categoria != "" {
			categoria = m.Categoria
		} else if item.Categoria != "" {
			categoria = item.Categoria
		}

		g, ok := byName[categoria]
		if !ok {
			g = &CategoryGroup{Categoria: categoria}
			byName[categoria] = g
			order = append(order, categoria)
		}
		g.Indexes = append(g.Indexes, i)
	}

	categoryCollator.SortStrings(order)

	groups := make([]CategoryGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, *byName[name])
	}
	return groups
}

// SortCategories sorts category names in place with Brazilian Portuguese
// collation, the same ordering the grouped views use.
func SortCategories(names []string) {
	categoryCollator.SortStrings(names)
}

// FlattenGroups concatenates the group index lists into the storage order
// the grouped display implies.
func FlattenGroups(groups []CategoryGroup) []int {
	var out []int
	for _, g := range groups {
		out = append(out, g.Indexes...)
	}
	return out
}

// ReconcileOrder rewrites items into the given grouped order so that
// persisted positions match what the user sees. It returns the (possibly
// new) slice and whether a rewrite happened.
//
// The rewrite is skipped when the grouped order is already the storage
// order, and when the index list is not an exact permutation of the current
// indexes; the latter is a consistency violation that is logged and left
// untouched rather than propagated.
func ReconcileOrder(items []LineItem, grouped []int) ([]LineItem, bool) {
	if len(grouped) != len(items) {
		log.Printf("grouping: grouped order has %d indexes for %d items, keeping previous order", len(grouped), len(items))
		return items, false
	}

	seen := make(map[int]bool, len(grouped))
	identity := true
	for pos, idx := range grouped {
		if idx < 0 || idx >= len(items) || seen[idx] {
			log.Printf("grouping: grouped order is not a permutation (index %d), keeping previous order", idx)
			return items, false
		}
		seen[idx] = true
		if idx != pos {
			identity = false
		}
	}
	if identity {
		return items, false
	}

	reordered := make([]LineItem, len(items))
	for pos, idx := range grouped {
		reordered[pos] = items[idx]
		reordered[pos].Posicao = pos
	}
	return reordered, true
}

// MoveItemUp swaps the item at index i with its predecessor and renumbers
// every position. No-op at the top boundary.
func MoveItemUp(items []LineItem, i int) {
	if i <= 0 || i >= len(items) {
		return
	}
	items[i], items[i-1] = items[i-1], items[i]
	RenumberPositions(items)
}

// MoveItemDown swaps the item at index i with its successor and renumbers
// every position. No-op at the bottom boundary.
func MoveItemDown(items []LineItem, i int) {
	if i < 0 || i >= len(items)-1 {
		return
	}
	items[i], items[i+1] = items[i+1], items[i]
	RenumberPositions(items)
}

// RenumberPositions reassigns each item's position to its slice index.
func RenumberPositions(items []LineItem) {
	for i := range items {
		items[i].Posicao = i
	}
}

// GroupTotal sums the final values of the items at the given indexes.
func GroupTotal(items []LineItem, lookup MaterialLookup, indexes []int) float64 {
	var sum float64
	for _, idx := range indexes {
		if idx < 0 || idx >= len(items) {
			continue
		}
		sum += ItemTotal(items[idx], lookup)
	}
	return Round2(sum)
}
