package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

// reportPeriod reads the mes/ano query params into a "YYYY-MM" prefix and a
// display label. Empty params mean no period filter.
func reportPeriod(e *core.RequestEvent) (prefix, label string) {
	mes := e.Request.URL.Query().Get("mes")
	ano := e.Request.URL.Query().Get("ano")
	if mes == "" || ano == "" {
		return "", ""
	}
	if len(mes) == 1 {
		mes = "0" + mes
	}
	return ano + "-" + mes, mes + "/" + ano
}

// buildFinanceRows assembles the confirmed-budget report rows, joining each
// budget with its finance entry for payment figures.
func buildFinanceRows(app *pocketbase.PocketBase, periodPrefix string) ([]services.FinanceReportRow, error) {
	budgetsCol, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		return nil, err
	}
	budgets, err := app.FindRecordsByFilter(
		budgetsCol,
		"status = {:status}",
		"data_pagamento",
		0,
		0,
		map[string]any{"status": services.StatusConfirmado},
	)
	if err != nil {
		return nil, err
	}

	financeCol, err := app.FindCollectionByNameOrId("finance_entries")
	if err != nil {
		return nil, err
	}

	var rows []services.FinanceReportRow
	for _, budget := range budgets {
		dataPagamento := budget.GetString("data_pagamento")
		if periodPrefix != "" && !strings.HasPrefix(dataPagamento, periodPrefix) {
			continue
		}

		row := services.FinanceReportRow{
			JobName:       budget.GetString("job_name"),
			Status:        budget.GetString("status"),
			DataPagamento: dataPagamento,
			ValorFinal:    budget.GetFloat("valor_final"),
		}
		if clienteID := budget.GetString("cliente"); clienteID != "" {
			if cliente, err := app.FindRecordById("clients", clienteID); err == nil {
				row.Cliente = cliente.GetString("nome")
			}
		}

		entries, err := app.FindRecordsByFilter(
			financeCol,
			"budget = {:budget}",
			"",
			1,
			0,
			map[string]any{"budget": budget.Id},
		)
		if err == nil && len(entries) > 0 {
			row.ValorPago = entries[0].GetFloat("valor_pago")
			row.StatusPagamento = entries[0].GetString("status_pagamento")
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// HandleFinanceReport returns the confirmed-budget financial report as JSON,
// or as an Excel workbook when formato=xlsx.
func HandleFinanceReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		periodPrefix, periodLabel := reportPeriod(e)

		rows, err := buildFinanceRows(app, periodPrefix)
		if err != nil {
			log.Printf("reports: could not build finance report: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		report := services.BuildFinanceReport(periodLabel, rows)

		if e.Request.URL.Query().Get("formato") == "xlsx" {
			data, err := services.GenerateFinanceExcel(report)
			if err != nil {
				log.Printf("reports: could not generate finance excel: %v", err)
				return apiError(e, http.StatusInternalServerError, "Erro ao gerar planilha")
			}
			e.Response.Header().Set("Content-Disposition", `attachment; filename="relatorio-financeiro.xlsx"`)
			return e.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		}

		out := make([]map[string]any, 0, len(report.Rows))
		for _, r := range report.Rows {
			out = append(out, map[string]any{
				"jobName":         r.JobName,
				"clienteNome":     r.Cliente,
				"status":          r.Status,
				"dataPagamento":   r.DataPagamento,
				"valorFinal":      r.ValorFinal,
				"valorPago":       r.ValorPago,
				"statusPagamento": r.StatusPagamento,
			})
		}
		return e.JSON(http.StatusOK, map[string]any{
			"periodo":         report.Periodo,
			"data":            out,
			"totalOrcamentos": report.TotalBudgets,
			"valorTotal":      report.ValorTotal,
			"valorPago":       report.ValorPago,
			"valorPendente":   report.ValorPendente,
		})
	}
}

// HandleConfirmedReportPDF streams the monthly confirmed-budgets PDF.
func HandleConfirmedReportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		periodPrefix, periodLabel := reportPeriod(e)

		rows, err := buildFinanceRows(app, periodPrefix)
		if err != nil {
			log.Printf("reports: could not build confirmed report: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		report := services.BuildFinanceReport(periodLabel, rows)

		pdf, err := services.GenerateFinanceReportPDF(report, time.Now().Format("02/01/2006 15:04"))
		if err != nil {
			log.Printf("reports: could not generate confirmed report PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao gerar PDF")
		}

		e.Response.Header().Set("Content-Disposition", `attachment; filename="orcamentos-confirmados.pdf"`)
		return e.Blob(http.StatusOK, "application/pdf", pdf)
	}
}

// HandleBudgetPDF streams a budget document. The tipo path segment selects
// the client-facing variant or the internal one with per-item figures.
func HandleBudgetPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		tipo := e.Request.PathValue("tipo")
		if tipo != "cliente" && tipo != "interno" {
			return apiError(e, http.StatusBadRequest, fmt.Sprintf("Tipo de documento inválido: %q", tipo))
		}

		_, items, err := loadBudgetItems(app, budget.Id)
		if err != nil {
			log.Printf("reports: could not query items of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		lookup := buildMaterialLookup(app)

		clienteNome := ""
		if clienteID := budget.GetString("cliente"); clienteID != "" {
			if cliente, err := app.FindRecordById("clients", clienteID); err == nil {
				clienteNome = cliente.GetString("nome")
			}
		}
		responsavel := budget.GetString("produtor")
		if colabID := budget.GetString("colaborador"); colabID != "" {
			if colab, err := app.FindRecordById("collaborators", colabID); err == nil {
				responsavel = colab.GetString("nome")
			}
		}

		data := services.BudgetExportData{
			JobName:     budget.GetString("job_name"),
			ClienteNome: clienteNome,
			Responsavel: responsavel,
			Status:      budget.GetString("status"),
			DataInicio:  budget.GetString("data_inicio"),
			DataFim:     budget.GetString("data_fim"),
			GeradoEm:    time.Now().Format("02/01/2006 15:04"),
			Interno:     tipo == "interno",
			Groups:      services.BuildBudgetExportGroups(items, lookup),
			Breakdown: services.CalcBudgetBreakdown(
				items,
				lookup,
				budget.GetFloat("desconto_geral"),
				budget.GetFloat("desconto_valor_geral"),
			),
		}

		pdf, err := services.GenerateBudgetPDF(data)
		if err != nil {
			log.Printf("reports: could not generate PDF of budget %s: %v", budget.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao gerar PDF")
		}

		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="orcamento-%s-%s.pdf"`, tipo, budget.Id))
		return e.Blob(http.StatusOK, "application/pdf", pdf)
	}
}
