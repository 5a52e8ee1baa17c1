package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

func trashToJSON(rec *core.Record) map[string]any {
	out := map[string]any{
		"_id":        rec.Id,
		"jobName":    rec.GetString("job_name"),
		"deletedAt":  rec.GetString("deleted_at"),
		"restored":   rec.GetBool("restored"),
		"restoredAt": rec.GetString("restored_at"),
	}

	var snapshot map[string]any
	if err := json.Unmarshal([]byte(rec.GetString("payload")), &snapshot); err == nil {
		out["orcamento"] = snapshot
	}
	return out
}

// HandleTrashList returns all trashed budgets, most recently deleted first.
func HandleTrashList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("trash_budgets")
		if err != nil {
			log.Printf("trash: could not find trash_budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("trash: could not query trash: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, trashToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleTrashGet returns one trash entry with its full snapshot.
func HandleTrashGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("trash_budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Registro não encontrado")
		}
		return e.JSON(http.StatusOK, trashToJSON(rec))
	}
}

// HandleTrashCreate stores a budget snapshot sent by the client directly.
// The regular path is the budget delete endpoint; this exists for clients
// that snapshot before deleting on their own.
func HandleTrashCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var snapshot map[string]any
		if err := e.BindBody(&snapshot); err != nil || len(snapshot) == 0 {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		payload, err := json.Marshal(snapshot)
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		col, err := app.FindCollectionByNameOrId("trash_budgets")
		if err != nil {
			log.Printf("trash: could not find trash_budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		if jobName, ok := snapshot["jobName"].(string); ok {
			rec.Set("job_name", jobName)
		}
		rec.Set("payload", string(payload))
		rec.Set("deleted_at", time.Now().Format(time.RFC3339))
		rec.Set("restored", false)
		if err := app.Save(rec); err != nil {
			log.Printf("trash: could not save trash entry: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar registro")
		}
		return e.JSON(http.StatusCreated, trashToJSON(rec))
	}
}

// HandleTrashRestore recreates the budget and its items from the stored
// snapshot and marks the trash entry as restored. Restoring twice is
// rejected.
func HandleTrashRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("trash_budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Registro não encontrado")
		}
		if rec.GetBool("restored") {
			return apiError(e, http.StatusBadRequest, "Orçamento já foi restaurado")
		}

		var snapshot budgetPayload
		if err := json.Unmarshal([]byte(rec.GetString("payload")), &snapshot); err != nil {
			log.Printf("trash: could not decode snapshot of %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Registro corrompido")
		}

		budgetsCol, err := app.FindCollectionByNameOrId("budgets")
		if err != nil {
			log.Printf("trash: could not find budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		budget := core.NewRecord(budgetsCol)
		applyBudgetPayload(budget, snapshot)
		status := snapshot.Status
		if !services.IsValidBudgetStatus(status) {
			status = services.StatusPendente
		}
		budget.Set("status", status)
		if err := app.Save(budget); err != nil {
			log.Printf("trash: could not restore budget from %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao restaurar orçamento")
		}

		lookup := buildMaterialLookup(app)
		if err := saveBudgetItems(app, budget.Id, snapshot.Itens, lookup); err != nil {
			log.Printf("trash: could not restore items from %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao restaurar itens")
		}
		if err := recomputeBudgetTotals(app, budget, lookup); err != nil {
			log.Printf("trash: could not recompute totals of restored budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}

		rec.Set("restored", true)
		rec.Set("restored_at", time.Now().Format(time.RFC3339))
		if err := app.Save(rec); err != nil {
			log.Printf("trash: could not mark %s as restored: %v", rec.Id, err)
		}

		return e.JSON(http.StatusOK, budgetToJSON(app, budget))
	}
}

// HandleTrashDelete permanently removes a trash entry.
func HandleTrashDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("trash_budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Registro não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("trash: could not delete trash entry %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir registro")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Registro excluído definitivamente"})
	}
}

// HandleTrashStats returns the trash counters for the cleanup screen.
func HandleTrashStats(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("trash_budgets")
		if err != nil {
			log.Printf("trash: could not find trash_budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			log.Printf("trash: could not query trash: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		restaurados := 0
		for _, rec := range records {
			if rec.GetBool("restored") {
				restaurados++
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"total":          len(records),
			"restaurados":    restaurados,
			"naoRestaurados": len(records) - restaurados,
		})
	}
}
