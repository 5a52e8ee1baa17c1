package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentaladmin/testhelpers"
)

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}

func asFloat(t *testing.T, v any) float64 {
	t.Helper()
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("expected number, got %T (%v)", v, v)
	}
	return f
}

func TestHandleBudgetList_ShapeAndCounts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBudget(t, app, "Job A", "PENDENTE")
	testhelpers.CreateTestBudget(t, app, "Job B", "PENDENTE")
	testhelpers.CreateTestBudget(t, app, "Job C", "CONFIRMADO")

	handler := HandleBudgetList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	out := decodeJSON(t, rec)
	data, ok := out["data"].([]any)
	if !ok || len(data) != 3 {
		t.Fatalf("data = %v, want 3 budgets", out["data"])
	}
	pagination := out["pagination"].(map[string]any)
	if asFloat(t, pagination["total"]) != 3 {
		t.Errorf("pagination.total = %v, want 3", pagination["total"])
	}
	summary := out["summary"].(map[string]any)
	counts := summary["statusCounts"].(map[string]any)
	if asFloat(t, counts["PENDENTE"]) != 2 || asFloat(t, counts["CONFIRMADO"]) != 1 {
		t.Errorf("statusCounts = %v", counts)
	}
}

func TestHandleBudgetList_StatusFilterAndLimit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBudget(t, app, "Job A", "PENDENTE")
	testhelpers.CreateTestBudget(t, app, "Job B", "CONFIRMADO")
	testhelpers.CreateTestBudget(t, app, "Job C", "CONFIRMADO")

	handler := HandleBudgetList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos?status=CONFIRMADO&limit=1", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	out := decodeJSON(t, rec)
	data := out["data"].([]any)
	if len(data) != 1 {
		t.Errorf("limited data length = %d, want 1", len(data))
	}
	pagination := out["pagination"].(map[string]any)
	// Total reflects the filtered set, not the truncated page.
	if asFloat(t, pagination["total"]) != 2 {
		t.Errorf("pagination.total = %v, want 2", pagination["total"])
	}
	first := data[0].(map[string]any)
	if first["status"] != "CONFIRMADO" {
		t.Errorf("filtered status = %v, want CONFIRMADO", first["status"])
	}
}

func TestHandleBudgetCreate_RecomputesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	luz := testhelpers.CreateTestMaterial(t, app, "Iluminação", "Aputure 600d", 50)

	body := fmt.Sprintf(`{
		"jobName": "Clipe Teste",
		"descontoGeral": 5,
		"itens": [
			{"materialId": %q, "quantidade": 1, "dias": 3},
			{"materialId": %q, "quantidade": 2, "dias": 3, "descontoPercentual": 10}
		]
	}`, cam.Id, luz.Id)

	handler := HandleBudgetCreate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/orcamentos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if got := asFloat(t, out["subtotal"]); math.Abs(got-600) > 0.001 {
		t.Errorf("subtotal = %v, want pre-discount 600", got)
	}
	if got := asFloat(t, out["valorFinal"]); math.Abs(got-541.50) > 0.001 {
		t.Errorf("valorFinal = %v, want 541.50", got)
	}
	if out["status"] != "PENDENTE" {
		t.Errorf("status = %v, want default PENDENTE", out["status"])
	}
}

func TestHandleBudgetCreate_RequiresJobName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBudgetCreate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/orcamentos", strings.NewReader(`{"itens":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleBudgetCreate_MalformedNumbersParseAsZero(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)

	body := fmt.Sprintf(`{
		"jobName": "Números quebrados",
		"descontoGeral": "abc",
		"itens": [{"materialId": %q, "quantidade": "2", "dias": "x"}]
	}`, cam.Id)

	handler := HandleBudgetCreate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/orcamentos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("malformed numerics must not fail the request, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeJSON(t, rec)
	// dias parsed as zero, so the whole budget totals zero.
	if got := asFloat(t, out["valorFinal"]); got != 0 {
		t.Errorf("valorFinal = %v, want 0", got)
	}
}

func TestHandleBudgetGet_ItemsAndBreakdown(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Job Detalhe", "PENDENTE")
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 1, 1, 1, 100)
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 0, 1, 2, 100)

	handler := HandleBudgetGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/"+budget.Id, nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	out := decodeJSON(t, rec)
	itens := out["itens"].([]any)
	if len(itens) != 2 {
		t.Fatalf("itens length = %d, want 2", len(itens))
	}
	// Ordered by posicao: the two-day item was stored at position 0.
	first := itens[0].(map[string]any)
	if asFloat(t, first["posicao"]) != 0 || asFloat(t, first["dias"]) != 2 {
		t.Errorf("first item = %v, want the posicao 0 item with 2 days", first)
	}
	breakdown := out["breakdown"].(map[string]any)
	if got := asFloat(t, breakdown["subtotal"]); math.Abs(got-300) > 0.001 {
		t.Errorf("breakdown.subtotal = %v, want 300", got)
	}
}

func TestHandleBudgetGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBudgetGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/orcamentos/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	out := decodeJSON(t, rec)
	if out["message"] == "" {
		t.Error("error response must carry a message")
	}
}

func TestHandleBudgetUpdate_ReplacesItemsWholesale(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Job Antigo", "PENDENTE")
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 0, 1, 1, 100)
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 1, 1, 1, 100)

	body := fmt.Sprintf(`{
		"jobName": "Job Novo",
		"itens": [{"materialId": %q, "quantidade": 1, "dias": 5}]
	}`, cam.Id)

	handler := HandleBudgetUpdate(app)
	req := httptest.NewRequest(http.MethodPut, "/api/orcamentos/"+budget.Id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["jobName"] != "Job Novo" {
		t.Errorf("jobName = %v, want Job Novo", out["jobName"])
	}
	if got := asFloat(t, out["valorFinal"]); math.Abs(got-500) > 0.001 {
		t.Errorf("valorFinal = %v, want 500", got)
	}

	records, _, err := loadBudgetItems(app, budget.Id)
	if err != nil {
		t.Fatalf("loadBudgetItems: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("stored items = %d, want the old list fully replaced", len(records))
	}
}

func TestHandleBudgetDelete_MovesToTrash(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Job Lixeira", "PENDENTE")
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 0, 1, 2, 100)

	handler := HandleBudgetDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/orcamentos/"+budget.Id, nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := app.FindRecordById("budgets", budget.Id); err == nil {
		t.Error("budget still exists after delete")
	}

	trashCol, err := app.FindCollectionByNameOrId("trash_budgets")
	if err != nil {
		t.Fatalf("trash collection: %v", err)
	}
	entries, err := app.FindAllRecords(trashCol)
	if err != nil || len(entries) != 1 {
		t.Fatalf("trash entries = %d (%v), want 1", len(entries), err)
	}
	if entries[0].GetString("job_name") != "Job Lixeira" {
		t.Errorf("trash job_name = %q", entries[0].GetString("job_name"))
	}
	if !strings.Contains(entries[0].GetString("payload"), "itens") {
		t.Error("trash payload must embed the item snapshot")
	}
}

func TestHandleBudgetClone(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cam := testhelpers.CreateTestMaterial(t, app, "Câmera", "Sony FX6", 100)
	budget := testhelpers.CreateTestBudget(t, app, "Job Original", "CONFIRMADO")
	testhelpers.CreateTestBudgetItem(t, app, budget.Id, cam.Id, 0, 1, 3, 100)

	handler := HandleBudgetClone(app)
	req := httptest.NewRequest(http.MethodPost, "/api/orcamentos/"+budget.Id+"/clonar", nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["jobName"] != "Job Original (cópia)" {
		t.Errorf("clone jobName = %v", out["jobName"])
	}
	if out["status"] != "PENDENTE" {
		t.Errorf("clone status = %v, want PENDENTE", out["status"])
	}

	cloneID := out["_id"].(string)
	if cloneID == budget.Id {
		t.Fatal("clone must be a new record")
	}
	records, _, err := loadBudgetItems(app, cloneID)
	if err != nil {
		t.Fatalf("loadBudgetItems: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("clone items = %d, want 1", len(records))
	}
	originals, _, _ := loadBudgetItems(app, budget.Id)
	if records[0].Id == originals[0].Id {
		t.Error("clone items must get fresh ids")
	}
}
