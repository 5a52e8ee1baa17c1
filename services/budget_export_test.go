package services

import (
	"bytes"
	"testing"
)

func TestBuildBudgetExportGroups(t *testing.T) {
	lookup := testLookup()
	items := []LineItem{
		{MaterialID: "cam1", Quantidade: 1, Dias: 3},
		{MaterialID: "luz1", Quantidade: 2, Dias: 3, DescontoPercentual: 10},
		{MaterialID: "gone", Quantidade: 1, Dias: 1, ValorUnitario: 80},
	}

	groups := BuildBudgetExportGroups(items, lookup)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	var camera, luz, sem *BudgetExportGroup
	for i := range groups {
		switch groups[i].Categoria {
		case "Câmera":
			camera = &groups[i]
		case "Iluminação":
			luz = &groups[i]
		case UncategorizedLabel:
			sem = &groups[i]
		}
	}
	if camera == nil || luz == nil || sem == nil {
		t.Fatalf("missing expected groups: %v", groups)
	}

	if !almostEqual(camera.Total, 300) {
		t.Errorf("Câmera total = %v, want 300", camera.Total)
	}
	if camera.Rows[0].Equipamento != "Sony FX6" {
		t.Errorf("equipment name = %q, want catalog name", camera.Rows[0].Equipamento)
	}

	if luz.Rows[0].Desconto != "10%" {
		t.Errorf("percent discount rendered as %q, want \"10%%\"", luz.Rows[0].Desconto)
	}
	if !almostEqual(luz.Rows[0].ValorFinal, 270) {
		t.Errorf("discounted final = %v, want 270", luz.Rows[0].ValorFinal)
	}

	if sem.Rows[0].Equipamento != "Item personalizado" {
		t.Errorf("unresolved item name = %q, want fallback label", sem.Rows[0].Equipamento)
	}
	if !almostEqual(sem.Rows[0].ValorUnitario, 80) {
		t.Errorf("unresolved item unit = %v, want snapshot 80", sem.Rows[0].ValorUnitario)
	}
}

func TestBuildBudgetExportGroups_FlatDiscountLabel(t *testing.T) {
	lookup := testLookup()
	items := []LineItem{{MaterialID: "cam1", Quantidade: 1, Dias: 1, DescontoValor: 50}}

	groups := BuildBudgetExportGroups(items, lookup)
	if groups[0].Rows[0].Desconto != "R$ 50,00" {
		t.Errorf("flat discount rendered as %q, want \"R$ 50,00\"", groups[0].Rows[0].Desconto)
	}
}

func TestGenerateBudgetPDF(t *testing.T) {
	lookup := testLookup()
	items := []LineItem{
		{MaterialID: "cam1", Quantidade: 1, Dias: 3},
		{MaterialID: "luz1", Quantidade: 2, Dias: 3, DescontoPercentual: 10},
	}

	data := BudgetExportData{
		JobName:     "Clipe Banda X",
		ClienteNome: "Produtora X",
		Responsavel: "Ana",
		Status:      "PENDENTE",
		DataInicio:  "2026-09-01",
		DataFim:     "2026-09-03",
		GeradoEm:    "29/08/2026 10:00",
		Interno:     true,
		Groups:      BuildBudgetExportGroups(items, lookup),
		Breakdown:   CalcBudgetBreakdown(items, lookup, 5, 0),
	}

	for _, interno := range []bool{true, false} {
		data.Interno = interno
		pdf, err := GenerateBudgetPDF(data)
		if err != nil {
			t.Fatalf("GenerateBudgetPDF(interno=%v) error = %v", interno, err)
		}
		if len(pdf) < 4 || !bytes.Equal(pdf[:4], []byte("%PDF")) {
			t.Errorf("interno=%v output does not look like a PDF (%d bytes)", interno, len(pdf))
		}
	}
}

func TestGenerateCatalogPDF(t *testing.T) {
	materials := []Material{
		{ID: "1", Categoria: "Câmera", Equipamento: "Sony FX6", CustoDiario: 100},
		{ID: "2", Categoria: "Iluminação", Equipamento: "Aputure 600d", CustoDiario: 50},
		{ID: "3", Categoria: "", Equipamento: "Fita gaffer", CustoDiario: 5},
	}

	pdf, err := GenerateCatalogPDF(materials, "29/08/2026 10:00")
	if err != nil {
		t.Fatalf("GenerateCatalogPDF() error = %v", err)
	}
	if len(pdf) < 4 || !bytes.Equal(pdf[:4], []byte("%PDF")) {
		t.Errorf("output does not look like a PDF (%d bytes)", len(pdf))
	}
}
