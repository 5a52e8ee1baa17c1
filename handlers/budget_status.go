package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

type statusPayload struct {
	Status        string `json:"status"`
	DataPagamento string `json:"dataPagamento"`
}

// HandleBudgetStatus transitions a budget's lifecycle status. Confirming a
// budget creates its finance entry (once); the other transitions only update
// the record.
func HandleBudgetStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		var p statusPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if !services.IsValidBudgetStatus(p.Status) {
			return apiError(e, http.StatusBadRequest, fmt.Sprintf("Status inválido: %q", p.Status))
		}

		budget.Set("status", p.Status)
		if p.DataPagamento != "" {
			budget.Set("data_pagamento", p.DataPagamento)
		}
		if err := app.Save(budget); err != nil {
			log.Printf("budget_status: could not update budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao atualizar status")
		}

		if p.Status == services.StatusConfirmado {
			if err := ensureFinanceEntry(app, budget); err != nil {
				log.Printf("budget_status: could not create finance entry for budget %s: %v", budget.Id, err)
				return apiError(e, http.StatusInternalServerError, "Erro ao criar lançamento financeiro")
			}
		}

		return e.JSON(http.StatusOK, budgetToJSON(app, budget))
	}
}

// ensureFinanceEntry creates a pending finance entry for a confirmed budget
// unless one already exists.
func ensureFinanceEntry(app *pocketbase.PocketBase, budget *core.Record) error {
	col, err := app.FindCollectionByNameOrId("finance_entries")
	if err != nil {
		return err
	}

	existing, err := app.FindRecordsByFilter(
		col,
		"budget = {:budget}",
		"",
		1,
		0,
		map[string]any{"budget": budget.Id},
	)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	rec := core.NewRecord(col)
	rec.Set("budget", budget.Id)
	rec.Set("descricao", "Locação - "+budget.GetString("job_name"))
	rec.Set("valor", budget.GetFloat("valor_final"))
	rec.Set("valor_pago", 0)
	rec.Set("status_pagamento", services.PaymentPendente)
	rec.Set("data_pagamento", budget.GetString("data_pagamento"))
	return app.Save(rec)
}
