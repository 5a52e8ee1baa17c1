package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentaladmin/testhelpers"
)

func TestHandleFinanceCreate_DefaultsInvalidStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleFinanceCreate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/financeiro",
		strings.NewReader(`{"descricao": "Frete", "valor": "150.50", "statusPagamento": "QUITADO"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["statusPagamento"] != "PENDENTE" {
		t.Errorf("statusPagamento = %v, want fallback PENDENTE", out["statusPagamento"])
	}
	if got := asFloat(t, out["valor"]); math.Abs(got-150.50) > 0.001 {
		t.Errorf("valor = %v, want 150.50 parsed from string", got)
	}
}

func TestHandleFinanceGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	budget := testhelpers.CreateTestBudget(t, app, "Job Detalhe Financeiro", "CONFIRMADO")
	entry := testhelpers.CreateTestFinanceEntry(t, app, budget.Id, 900, 300, "PENDENTE")

	handler := HandleFinanceGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/financeiro/"+entry.Id, nil)
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["_id"] != entry.Id {
		t.Errorf("_id = %v, want %s", out["_id"], entry.Id)
	}
	if got := asFloat(t, out["valor"]); math.Abs(got-900) > 0.001 {
		t.Errorf("valor = %v, want 900", got)
	}
	if out["jobName"] != "Job Detalhe Financeiro" {
		t.Errorf("jobName = %v, want the joined budget name", out["jobName"])
	}
}

func TestHandleFinanceGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleFinanceGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/financeiro/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleFinanceList_JoinsBudgetJob(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cliente := testhelpers.CreateTestClient(t, app, "Produtora Sol")
	budget := testhelpers.CreateTestBudget(t, app, "Job Financeiro", "CONFIRMADO")
	budget.Set("cliente", cliente.Id)
	if err := app.Save(budget); err != nil {
		t.Fatalf("link client: %v", err)
	}
	testhelpers.CreateTestFinanceEntry(t, app, budget.Id, 900, 0, "PENDENTE")

	handler := HandleFinanceList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/financeiro", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "Job Financeiro", "Produtora Sol")
}

func TestHandleFinancePaymentStatus_PagoSettlesFullValue(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	entry := testhelpers.CreateTestFinanceEntry(t, app, "", 480, 0, "PENDENTE")

	handler := HandleFinancePaymentStatus(app)
	req := httptest.NewRequest(http.MethodPatch, "/api/financeiro/"+entry.Id+"/status-pagamento",
		strings.NewReader(`{"statusPagamento": "PAGO", "dataPagamento": "2026-08-15"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if got := asFloat(t, out["valorPago"]); math.Abs(got-480) > 0.001 {
		t.Errorf("valorPago = %v, want the full value 480", got)
	}
	if out["dataPagamento"] != "2026-08-15" {
		t.Errorf("dataPagamento = %v", out["dataPagamento"])
	}
}

func TestHandleFinancePaymentStatus_PartialAmountKept(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	entry := testhelpers.CreateTestFinanceEntry(t, app, "", 480, 0, "PENDENTE")

	handler := HandleFinancePaymentStatus(app)
	req := httptest.NewRequest(http.MethodPatch, "/api/financeiro/"+entry.Id+"/status-pagamento",
		strings.NewReader(`{"statusPagamento": "PAGO", "valorPago": 200}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	out := decodeJSON(t, rec)
	if got := asFloat(t, out["valorPago"]); math.Abs(got-200) > 0.001 {
		t.Errorf("valorPago = %v, want the explicit 200", got)
	}
}

func TestHandleFinancePaymentStatus_RejectsUnknownStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	entry := testhelpers.CreateTestFinanceEntry(t, app, "", 480, 0, "PENDENTE")

	handler := HandleFinancePaymentStatus(app)
	req := httptest.NewRequest(http.MethodPatch, "/api/financeiro/"+entry.Id+"/status-pagamento",
		strings.NewReader(`{"statusPagamento": "ATRASADO"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleFinanceSummary_ClampsOverpaidRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestFinanceEntry(t, app, "", 1000, 400, "PENDENTE")
	// An overpaid row must not offset other rows' pending amounts.
	testhelpers.CreateTestFinanceEntry(t, app, "", 300, 500, "PAGO")

	handler := HandleFinanceSummary(app)
	req := httptest.NewRequest(http.MethodGet, "/api/financeiro/relatorio/resumo", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	out := decodeJSON(t, rec)
	if asFloat(t, out["totalOrcamentos"]) != 2 {
		t.Errorf("totalOrcamentos = %v, want 2", out["totalOrcamentos"])
	}
	if got := asFloat(t, out["valorTotal"]); math.Abs(got-1300) > 0.001 {
		t.Errorf("valorTotal = %v, want 1300", got)
	}
	if got := asFloat(t, out["valorPago"]); math.Abs(got-900) > 0.001 {
		t.Errorf("valorPago = %v, want 900", got)
	}
	if got := asFloat(t, out["valorPendente"]); math.Abs(got-600) > 0.001 {
		t.Errorf("valorPendente = %v, want 600", got)
	}
}

func TestHandleFinanceDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	entry := testhelpers.CreateTestFinanceEntry(t, app, "", 100, 0, "PENDENTE")

	handler := HandleFinanceDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/financeiro/"+entry.Id, nil)
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("finance_entries", entry.Id); err == nil {
		t.Error("entry still exists after delete")
	}
}
