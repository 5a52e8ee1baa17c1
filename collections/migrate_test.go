package collections_test

import (
	"testing"

	"rentaladmin/collections"
	"rentaladmin/testhelpers"
)

func TestMigrateItemPositions_BackfillsDuplicates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mat := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Legacy Budget", "PENDENTE")

	// Legacy rows: every item stuck at posicao 0.
	for i := 0; i < 3; i++ {
		testhelpers.CreateTestBudgetItem(t, app, budget.Id, mat.Id, 0, 1, float64(i+1), 100)
	}

	if err := collections.MigrateItemPositions(app); err != nil {
		t.Fatalf("MigrateItemPositions() error: %v", err)
	}

	itemsCol, _ := app.FindCollectionByNameOrId("budget_items")
	items, err := app.FindRecordsByFilter(
		itemsCol,
		"budget = {:b}",
		"posicao", 0, 0,
		map[string]any{"b": budget.Id},
	)
	if err != nil {
		t.Fatalf("query items: %v", err)
	}

	seen := make(map[int]bool)
	for _, item := range items {
		p := int(item.GetFloat("posicao"))
		if seen[p] {
			t.Errorf("duplicate posicao %d after migration", p)
		}
		seen[p] = true
	}
	for i := 0; i < 3; i++ {
		if !seen[i] {
			t.Errorf("missing posicao %d after migration", i)
		}
	}
}

func TestMigrateItemPositions_LeavesDistinctPositionsAlone(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mat := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Ordered Budget", "PENDENTE")

	// Deliberate custom ordering that a backfill would destroy.
	first := testhelpers.CreateTestBudgetItem(t, app, budget.Id, mat.Id, 2, 1, 1, 100)
	second := testhelpers.CreateTestBudgetItem(t, app, budget.Id, mat.Id, 0, 1, 2, 100)
	third := testhelpers.CreateTestBudgetItem(t, app, budget.Id, mat.Id, 1, 1, 3, 100)

	if err := collections.MigrateItemPositions(app); err != nil {
		t.Fatalf("MigrateItemPositions() error: %v", err)
	}

	for _, tc := range []struct {
		id   string
		want int
	}{
		{first.Id, 2},
		{second.Id, 0},
		{third.Id, 1},
	} {
		item, err := app.FindRecordById("budget_items", tc.id)
		if err != nil {
			t.Fatalf("reload item: %v", err)
		}
		if got := int(item.GetFloat("posicao")); got != tc.want {
			t.Errorf("item %s posicao = %d, want untouched %d", tc.id, got, tc.want)
		}
	}
}

func TestMigrateItemPositions_EmptyDatabase(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateItemPositions(app); err != nil {
		t.Fatalf("MigrateItemPositions() error: %v", err)
	}
}

func TestMigrateItemPositions_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mat := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Twice Migrated", "PENDENTE")
	for i := 0; i < 2; i++ {
		testhelpers.CreateTestBudgetItem(t, app, budget.Id, mat.Id, 0, 1, float64(i+1), 100)
	}

	if err := collections.MigrateItemPositions(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}

	itemsCol, _ := app.FindCollectionByNameOrId("budget_items")
	items, _ := app.FindRecordsByFilter(itemsCol, "budget = {:b}", "posicao", 0, 0, map[string]any{"b": budget.Id})
	positions := make(map[string]int, len(items))
	for _, item := range items {
		positions[item.Id] = int(item.GetFloat("posicao"))
	}

	if err := collections.MigrateItemPositions(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	items, _ = app.FindRecordsByFilter(itemsCol, "budget = {:b}", "posicao", 0, 0, map[string]any{"b": budget.Id})
	for _, item := range items {
		if got := int(item.GetFloat("posicao")); got != positions[item.Id] {
			t.Errorf("item %s posicao changed on second run: %d -> %d", item.Id, positions[item.Id], got)
		}
	}
}
