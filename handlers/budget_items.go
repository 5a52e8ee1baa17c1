package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

// applyItemPayload writes the payload onto an item record, resolving the
// material snapshot and enforcing discount exclusivity.
func applyItemPayload(rec *core.Record, p budgetItemPayload, lookup services.MaterialLookup) {
	item := services.LineItem{
		MaterialID:         p.MaterialID,
		Quantidade:         services.ParseNumber(p.Quantidade),
		Dias:               services.ParseNumber(p.Dias),
		ValorUnitario:      services.ParseNumber(p.ValorUnitario),
		DescontoPercentual: services.ParseNumber(p.DescontoPercentual),
		DescontoValor:      services.ParseNumber(p.DescontoValor),
	}
	if item.DescontoPercentual > 0 {
		item.DescontoValor = 0
	}

	categoria := p.Categoria
	equipamento := p.Equipamento
	if m, ok := lookup[p.MaterialID]; ok {
		categoria = m.Categoria
		equipamento = m.Equipamento
		item.ValorUnitario = m.CustoDiario
	}

	rec.Set("material", p.MaterialID)
	rec.Set("categoria", categoria)
	rec.Set("equipamento", equipamento)
	rec.Set("quantidade", item.Quantidade)
	rec.Set("dias", item.Dias)
	rec.Set("valor_unitario", item.ValorUnitario)
	rec.Set("desconto_percentual", item.DescontoPercentual)
	rec.Set("desconto_valor", item.DescontoValor)
	rec.Set("valor_total", services.ItemSubtotal(item, lookup))
	rec.Set("valor_final", services.ItemTotal(item, lookup))
}

// HandleBudgetItemCreate appends an item to a budget and recomputes totals.
func HandleBudgetItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		var p budgetItemPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		records, _, err := loadBudgetItems(app, budget.Id)
		if err != nil {
			log.Printf("budget_items: could not query items of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		col, err := app.FindCollectionByNameOrId("budget_items")
		if err != nil {
			log.Printf("budget_items: could not find budget_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		lookup := buildMaterialLookup(app)
		rec := core.NewRecord(col)
		rec.Set("budget", budget.Id)
		applyItemPayload(rec, p, lookup)
		rec.Set("posicao", len(records))
		if err := app.Save(rec); err != nil {
			log.Printf("budget_items: could not save item on budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar item")
		}

		if err := recomputeBudgetTotals(app, budget, lookup); err != nil {
			log.Printf("budget_items: could not recompute totals of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}
		return e.JSON(http.StatusCreated, budgetItemToJSON(rec))
	}
}

// HandleBudgetItemUpdate overwrites one item and recomputes totals.
func HandleBudgetItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}
		rec, err := app.FindRecordById("budget_items", e.Request.PathValue("itemId"))
		if err != nil || rec.GetString("budget") != budget.Id {
			return apiError(e, http.StatusNotFound, "Item não encontrado")
		}

		var p budgetItemPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		lookup := buildMaterialLookup(app)
		applyItemPayload(rec, p, lookup)
		if err := app.Save(rec); err != nil {
			log.Printf("budget_items: could not update item %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar item")
		}

		if err := recomputeBudgetTotals(app, budget, lookup); err != nil {
			log.Printf("budget_items: could not recompute totals of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}
		return e.JSON(http.StatusOK, budgetItemToJSON(rec))
	}
}

// HandleBudgetItemDelete removes one item, renumbers the remainder and
// recomputes totals.
func HandleBudgetItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}
		rec, err := app.FindRecordById("budget_items", e.Request.PathValue("itemId"))
		if err != nil || rec.GetString("budget") != budget.Id {
			return apiError(e, http.StatusNotFound, "Item não encontrado")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("budget_items: could not delete item %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir item")
		}

		// Close the position gap left by the deleted item.
		records, _, err := loadBudgetItems(app, budget.Id)
		if err != nil {
			log.Printf("budget_items: could not query items of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		for i, item := range records {
			if int(item.GetFloat("posicao")) != i {
				item.Set("posicao", i)
				if err := app.Save(item); err != nil {
					log.Printf("budget_items: could not renumber item %s: %v", item.Id, err)
				}
			}
		}

		lookup := buildMaterialLookup(app)
		if err := recomputeBudgetTotals(app, budget, lookup); err != nil {
			log.Printf("budget_items: could not recompute totals of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Item excluído"})
	}
}

type reorderPayload struct {
	NovaPosicoes []struct {
		ItemID  string `json:"itemId"`
		Posicao any    `json:"posicao"`
	} `json:"novaPosicoes"`
}

// HandleBudgetReorder persists a batch of item positions. Entries referencing
// items of other budgets (or unknown items) invalidate the whole batch, which
// is logged and ignored rather than half-applied.
func HandleBudgetReorder(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		var p reorderPayload
		if err := e.BindBody(&p); err != nil || len(p.NovaPosicoes) == 0 {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		// Validate the whole batch before writing anything.
		targets := make([]*core.Record, 0, len(p.NovaPosicoes))
		for _, np := range p.NovaPosicoes {
			rec, err := app.FindRecordById("budget_items", np.ItemID)
			if err != nil || rec.GetString("budget") != budget.Id {
				log.Printf("budget_items: reorder on budget %s references unknown item %s, ignoring batch", budget.Id, np.ItemID)
				return apiError(e, http.StatusBadRequest, "Itens inválidos na reordenação")
			}
			targets = append(targets, rec)
		}

		for i, np := range p.NovaPosicoes {
			targets[i].Set("posicao", int(services.ParseNumber(np.Posicao)))
			if err := app.Save(targets[i]); err != nil {
				log.Printf("budget_items: could not persist position of item %s: %v", targets[i].Id, err)
				return apiError(e, http.StatusInternalServerError, "Erro ao reordenar itens")
			}
		}

		return e.JSON(http.StatusOK, map[string]string{"message": "Itens reordenados"})
	}
}

type bulkDiscountPayload struct {
	ItemIDs            []string `json:"itemIds"`
	DescontoPercentual any      `json:"descontoPercentual"`
}

// HandleBudgetBulkDiscount applies one percent discount to a set of items,
// clearing their flat discounts, then recomputes totals.
func HandleBudgetBulkDiscount(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		var p bulkDiscountPayload
		if err := e.BindBody(&p); err != nil || len(p.ItemIDs) == 0 {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		pct := services.ParseNumber(p.DescontoPercentual)
		if pct < 0 || pct > 100 {
			return apiError(e, http.StatusBadRequest, "Desconto deve estar entre 0 e 100")
		}

		lookup := buildMaterialLookup(app)
		for _, itemID := range p.ItemIDs {
			rec, err := app.FindRecordById("budget_items", itemID)
			if err != nil || rec.GetString("budget") != budget.Id {
				log.Printf("budget_items: bulk discount on budget %s skipping unknown item %s", budget.Id, itemID)
				continue
			}
			rec.Set("desconto_percentual", pct)
			rec.Set("desconto_valor", 0)

			item := lineItemFromRecord(rec)
			rec.Set("valor_total", services.ItemSubtotal(item, lookup))
			rec.Set("valor_final", services.ItemTotal(item, lookup))
			if err := app.Save(rec); err != nil {
				log.Printf("budget_items: could not apply bulk discount to item %s: %v", rec.Id, err)
				return apiError(e, http.StatusInternalServerError, "Erro ao aplicar desconto")
			}
		}

		if err := recomputeBudgetTotals(app, budget, lookup); err != nil {
			log.Printf("budget_items: could not recompute totals of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Desconto aplicado"})
	}
}
