package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentaladmin/testhelpers"
)

func TestHandleFinanceReport_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cliente := testhelpers.CreateTestClient(t, app, "Produtora Sol")
	confirmed := testhelpers.CreateTestBudget(t, app, "Job Confirmado", "CONFIRMADO")
	confirmed.Set("cliente", cliente.Id)
	confirmed.Set("valor_final", 1000)
	confirmed.Set("data_pagamento", "2026-08-15")
	if err := app.Save(confirmed); err != nil {
		t.Fatalf("seed confirmed budget: %v", err)
	}
	testhelpers.CreateTestFinanceEntry(t, app, confirmed.Id, 1000, 400, "PENDENTE")

	// Pending budgets stay out of the report.
	testhelpers.CreateTestBudget(t, app, "Job Pendente", "PENDENTE")

	handler := HandleFinanceReport(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/financeiro/relatorio", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if asFloat(t, out["totalOrcamentos"]) != 1 {
		t.Errorf("totalOrcamentos = %v, want 1", out["totalOrcamentos"])
	}
	if got := asFloat(t, out["valorTotal"]); math.Abs(got-1000) > 0.001 {
		t.Errorf("valorTotal = %v, want 1000", got)
	}
	if got := asFloat(t, out["valorPago"]); math.Abs(got-400) > 0.001 {
		t.Errorf("valorPago = %v, want 400", got)
	}
	if got := asFloat(t, out["valorPendente"]); math.Abs(got-600) > 0.001 {
		t.Errorf("valorPendente = %v, want 600", got)
	}

	data := out["data"].([]any)
	row := data[0].(map[string]any)
	if row["jobName"] != "Job Confirmado" || row["clienteNome"] != "Produtora Sol" {
		t.Errorf("row = %v", row)
	}
}

func TestHandleFinanceReport_PeriodFilter(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	in := testhelpers.CreateTestBudget(t, app, "Job Agosto", "CONFIRMADO")
	in.Set("data_pagamento", "2026-08-10")
	if err := app.Save(in); err != nil {
		t.Fatalf("seed: %v", err)
	}
	outside := testhelpers.CreateTestBudget(t, app, "Job Julho", "CONFIRMADO")
	outside.Set("data_pagamento", "2026-07-20")
	if err := app.Save(outside); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := HandleFinanceReport(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/financeiro/relatorio?mes=8&ano=2026", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeJSON(t, rec)
	if body["periodo"] != "08/2026" {
		t.Errorf("periodo = %v, want 08/2026", body["periodo"])
	}
	data := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("rows = %d, want the August budget only", len(data))
	}
	if data[0].(map[string]any)["jobName"] != "Job Agosto" {
		t.Errorf("row = %v", data[0])
	}
}

func TestHandleFinanceReport_Xlsx(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	budget := testhelpers.CreateTestBudget(t, app, "Job Planilha", "CONFIRMADO")
	budget.Set("valor_final", 500)
	if err := app.Save(budget); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := HandleFinanceReport(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/financeiro/relatorio?formato=xlsx", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("response is not a zip-based workbook")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "relatorio-financeiro.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestHandleConfirmedReportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	budget := testhelpers.CreateTestBudget(t, app, "Job PDF", "CONFIRMADO")
	budget.Set("valor_final", 500)
	if err := app.Save(budget); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := HandleConfirmedReportPDF(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/relatorios/confirmados/pdf", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("response is not a PDF")
	}
}

func TestHandleBudgetPDF_Variants(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Job Documento", "PENDENTE")
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 0, 1, 2, 100)

	handler := HandleBudgetPDF(app)
	for _, tipo := range []string{"cliente", "interno"} {
		req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/"+budget.Id+"/pdf/"+tipo, nil)
		req.SetPathValue("id", budget.Id)
		req.SetPathValue("tipo", tipo)
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error (%s): %v", tipo, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tipo, rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Errorf("%s: response is not a PDF", tipo)
		}
	}
}

func TestHandleBudgetPDF_RejectsUnknownType(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	budget := testhelpers.CreateTestBudget(t, app, "Job Documento", "PENDENTE")

	handler := HandleBudgetPDF(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/"+budget.Id+"/pdf/resumido", nil)
	req.SetPathValue("id", budget.Id)
	req.SetPathValue("tipo", "resumido")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
