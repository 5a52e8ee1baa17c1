package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

type financePayload struct {
	BudgetID        string `json:"orcamentoId"`
	Descricao       string `json:"descricao"`
	Valor           any    `json:"valor"`
	ValorPago       any    `json:"valorPago"`
	StatusPagamento string `json:"statusPagamento"`
	DataPagamento   string `json:"dataPagamento"`
}

func financeToJSON(app *pocketbase.PocketBase, rec *core.Record) map[string]any {
	out := map[string]any{
		"_id":             rec.Id,
		"orcamentoId":     rec.GetString("budget"),
		"descricao":       rec.GetString("descricao"),
		"valor":           rec.GetFloat("valor"),
		"valorPago":       rec.GetFloat("valor_pago"),
		"statusPagamento": rec.GetString("status_pagamento"),
		"dataPagamento":   rec.GetString("data_pagamento"),
	}

	if budgetID := rec.GetString("budget"); budgetID != "" {
		if budget, err := app.FindRecordById("budgets", budgetID); err == nil {
			out["jobName"] = budget.GetString("job_name")
			if clienteID := budget.GetString("cliente"); clienteID != "" {
				if cliente, err := app.FindRecordById("clients", clienteID); err == nil {
					out["clienteNome"] = cliente.GetString("nome")
				}
			}
		}
	}
	return out
}

// HandleFinanceList returns all finance entries, newest first.
func HandleFinanceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("finance_entries")
		if err != nil {
			log.Printf("finance: could not find finance_entries collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("finance: could not query finance entries: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, financeToJSON(app, rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleFinanceGet returns a single finance entry by id.
func HandleFinanceGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("finance_entries", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Lançamento não encontrado")
		}
		return e.JSON(http.StatusOK, financeToJSON(app, rec))
	}
}

// HandleFinanceCreate creates a standalone finance entry.
func HandleFinanceCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p financePayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		col, err := app.FindCollectionByNameOrId("finance_entries")
		if err != nil {
			log.Printf("finance: could not find finance_entries collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		status := p.StatusPagamento
		if !services.IsValidPaymentStatus(status) {
			status = services.PaymentPendente
		}

		rec := core.NewRecord(col)
		rec.Set("budget", p.BudgetID)
		rec.Set("descricao", p.Descricao)
		rec.Set("valor", services.ParseNumber(p.Valor))
		rec.Set("valor_pago", services.ParseNumber(p.ValorPago))
		rec.Set("status_pagamento", status)
		rec.Set("data_pagamento", p.DataPagamento)
		if err := app.Save(rec); err != nil {
			log.Printf("finance: could not save finance entry: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar lançamento")
		}
		return e.JSON(http.StatusCreated, financeToJSON(app, rec))
	}
}

// HandleFinanceUpdate overwrites a finance entry.
func HandleFinanceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("finance_entries", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Lançamento não encontrado")
		}

		var p financePayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}

		rec.Set("descricao", p.Descricao)
		rec.Set("valor", services.ParseNumber(p.Valor))
		rec.Set("valor_pago", services.ParseNumber(p.ValorPago))
		if services.IsValidPaymentStatus(p.StatusPagamento) {
			rec.Set("status_pagamento", p.StatusPagamento)
		}
		rec.Set("data_pagamento", p.DataPagamento)
		if err := app.Save(rec); err != nil {
			log.Printf("finance: could not update finance entry %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar lançamento")
		}
		return e.JSON(http.StatusOK, financeToJSON(app, rec))
	}
}

// HandleFinanceDelete removes a finance entry.
func HandleFinanceDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("finance_entries", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Lançamento não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("finance: could not delete finance entry %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir lançamento")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Lançamento excluído"})
	}
}

type paymentStatusPayload struct {
	StatusPagamento string `json:"statusPagamento"`
	ValorPago       any    `json:"valorPago"`
	DataPagamento   string `json:"dataPagamento"`
}

// HandleFinancePaymentStatus flips an entry between paid and pending. Marking
// as paid without an explicit amount settles the full value.
func HandleFinancePaymentStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("finance_entries", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Lançamento não encontrado")
		}

		var p paymentStatusPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if !services.IsValidPaymentStatus(p.StatusPagamento) {
			return apiError(e, http.StatusBadRequest, "Status de pagamento inválido")
		}

		rec.Set("status_pagamento", p.StatusPagamento)
		if p.StatusPagamento == services.PaymentPago {
			valorPago := services.ParseNumber(p.ValorPago)
			if valorPago <= 0 {
				valorPago = rec.GetFloat("valor")
			}
			rec.Set("valor_pago", valorPago)
			if p.DataPagamento != "" {
				rec.Set("data_pagamento", p.DataPagamento)
			}
		}
		if err := app.Save(rec); err != nil {
			log.Printf("finance: could not update payment status of %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao atualizar pagamento")
		}
		return e.JSON(http.StatusOK, financeToJSON(app, rec))
	}
}

// HandleFinanceSummary returns the aggregated totals the finance screen shows.
func HandleFinanceSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("finance_entries")
		if err != nil {
			log.Printf("finance: could not find finance_entries collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			log.Printf("finance: could not query finance entries: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		var valorTotal, valorPago, valorPendente float64
		for _, rec := range records {
			valor := rec.GetFloat("valor")
			pago := rec.GetFloat("valor_pago")
			valorTotal += valor
			valorPago += pago
			if pendente := valor - pago; pendente > 0 {
				valorPendente += pendente
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"totalOrcamentos": len(records),
			"valorTotal":      services.Round2(valorTotal),
			"valorPago":       services.Round2(valorPago),
			"valorPendente":   services.Round2(valorPendente),
		})
	}
}
