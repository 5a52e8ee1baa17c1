package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentaladmin/testhelpers"
)

func TestHandleExtraGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	extra := testhelpers.CreateTestExtra(t, app, "Consumíveis", "Fita Gaffer (rolo)", 35)

	handler := HandleExtraGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/extras/"+extra.Id, nil)
	req.SetPathValue("id", extra.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["equipamento"] != "Fita Gaffer (rolo)" {
		t.Errorf("equipamento = %v", out["equipamento"])
	}
	if asFloat(t, out["custoDiario"]) != 35 {
		t.Errorf("custoDiario = %v, want 35", out["custoDiario"])
	}
}

func TestHandleExtraGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleExtraGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/extras/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleExtraCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleExtraCreate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/extras",
		strings.NewReader(`{"categoria": "Energia"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
