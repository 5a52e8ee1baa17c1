package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

// apiError writes the JSON error envelope the SPA expects.
func apiError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"message": message})
}

// CORSMiddleware allows the SPA dev server and any configured origin to call
// the API, and answers preflight requests directly.
func CORSMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		h := e.Response.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if e.Request.Method == http.MethodOptions {
			return e.NoContent(http.StatusNoContent)
		}
		return e.Next()
	}
}

// HandleHealthCheck responds to the connectivity probe the dashboard pings.
func HandleHealthCheck() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// buildMaterialLookup loads the whole material catalog keyed by record id.
// A failed query degrades to an empty lookup so pricing falls back to the
// item snapshots.
func buildMaterialLookup(app *pocketbase.PocketBase) services.MaterialLookup {
	lookup := services.MaterialLookup{}

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		log.Printf("materials: could not find materials collection: %v", err)
		return lookup
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		log.Printf("materials: could not query materials: %v", err)
		return lookup
	}

	for _, rec := range records {
		lookup[rec.Id] = services.Material{
			ID:          rec.Id,
			Categoria:   rec.GetString("categoria"),
			Equipamento: rec.GetString("equipamento"),
			CustoDiario: rec.GetFloat("custo_diario"),
		}
	}
	return lookup
}

// lineItemFromRecord maps a stored budget item onto the pricing engine type.
func lineItemFromRecord(rec *core.Record) services.LineItem {
	return services.LineItem{
		ID:                 rec.Id,
		MaterialID:         rec.GetString("material"),
		Categoria:          rec.GetString("categoria"),
		Equipamento:        rec.GetString("equipamento"),
		Quantidade:         rec.GetFloat("quantidade"),
		Dias:               rec.GetFloat("dias"),
		ValorUnitario:      rec.GetFloat("valor_unitario"),
		DescontoPercentual: rec.GetFloat("desconto_percentual"),
		DescontoValor:      rec.GetFloat("desconto_valor"),
		Posicao:            int(rec.GetFloat("posicao")),
	}
}

// loadBudgetItems returns the stored item records of a budget ordered by
// position, plus their pricing-engine projection.
func loadBudgetItems(app *pocketbase.PocketBase, budgetID string) ([]*core.Record, []services.LineItem, error) {
	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return nil, nil, err
	}
	records, err := app.FindRecordsByFilter(
		col,
		"budget = {:budget}",
		"posicao",
		0,
		0,
		map[string]any{"budget": budgetID},
	)
	if err != nil {
		return nil, nil, err
	}

	items := make([]services.LineItem, len(records))
	for i, rec := range records {
		items[i] = lineItemFromRecord(rec)
	}
	return records, items, nil
}

// recomputeBudgetTotals reprices every item of a budget against the current
// catalog and persists the derived totals on the items and the budget record.
func recomputeBudgetTotals(app *pocketbase.PocketBase, budget *core.Record, lookup services.MaterialLookup) error {
	records, items, err := loadBudgetItems(app, budget.Id)
	if err != nil {
		return err
	}

	for i, rec := range records {
		rec.Set("valor_total", services.ItemSubtotal(items[i], lookup))
		rec.Set("valor_final", services.ItemTotal(items[i], lookup))
		if err := app.Save(rec); err != nil {
			return err
		}
	}

	breakdown := services.CalcBudgetBreakdown(
		items,
		lookup,
		budget.GetFloat("desconto_geral"),
		budget.GetFloat("desconto_valor_geral"),
	)
	budget.Set("subtotal", breakdown.Subtotal)
	budget.Set("valor_final", breakdown.TotalFinal)
	return app.Save(budget)
}
