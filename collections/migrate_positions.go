package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateItemPositions backfills the posicao field on budget items created
// before position persistence existed. Items of each budget are numbered in
// their creation order. Safe to call on every startup -- budgets whose items
// already carry distinct positions are left untouched.
func MigrateItemPositions(app *pocketbase.PocketBase) error {
	budgetsCol, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		return fmt.Errorf("migrate: could not find budgets collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return fmt.Errorf("migrate: could not find budget_items collection: %w", err)
	}

	budgets, err := app.FindAllRecords(budgetsCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query budgets: %w", err)
	}

	migrated := 0
	for _, budget := range budgets {
		items, err := app.FindRecordsByFilter(
			itemsCol,
			"budget = {:budget}",
			"posicao",
			0,
			0,
			map[string]any{"budget": budget.Id},
		)
		if err != nil {
			log.Printf("migrate: could not query items of budget %s: %v\n", budget.Id, err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		// Distinct positions already assigned means nothing to backfill.
		seen := make(map[int]bool, len(items))
		distinct := true
		for _, item := range items {
			p := int(item.GetFloat("posicao"))
			if seen[p] {
				distinct = false
				break
			}
			seen[p] = true
		}
		if distinct {
			continue
		}

		for i, item := range items {
			item.Set("posicao", i)
			if err := app.Save(item); err != nil {
				log.Printf("migrate: failed to renumber item %s of budget %s: %v\n", item.Id, budget.Id, err)
			}
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: backfilled item positions on %d budget(s)\n", migrated)
	}
	return nil
}
