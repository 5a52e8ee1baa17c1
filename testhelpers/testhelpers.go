// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestClient creates a client record with the given name and returns it.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, nome string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("nome", nome)
	record.Set("documento", "12.345.678/0001-90")
	record.Set("telefone", "(11) 98765-4321")
	record.Set("municipio", "São Paulo")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestCollaborator creates a collaborator record and returns it.
func CreateTestCollaborator(t *testing.T, app *pocketbase.PocketBase, nome string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("collaborators")
	if err != nil {
		t.Fatalf("failed to find collaborators collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("nome", nome)
	record.Set("funcao", "Atendimento")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test collaborator: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material record and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, categoria, equipamento string, custoDiario float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("categoria", categoria)
	record.Set("equipamento", equipamento)
	record.Set("custo_diario", custoDiario)
	record.Set("quantidade_disponivel", 2)
	record.Set("quantidade_inventario", 2)
	record.Set("ativo", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestExtra creates an extra (auxiliary gear) record and returns it.
func CreateTestExtra(t *testing.T, app *pocketbase.PocketBase, categoria, equipamento string, custoDiario float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("extras")
	if err != nil {
		t.Fatalf("failed to find extras collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("categoria", categoria)
	record.Set("equipamento", equipamento)
	record.Set("custo_diario", custoDiario)
	record.Set("ativo", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test extra: %v", err)
	}

	return record
}

// CreateTestBudget creates a budget record with the given job name and status.
func CreateTestBudget(t *testing.T, app *pocketbase.PocketBase, jobName, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		t.Fatalf("failed to find budgets collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("job_name", jobName)
	record.Set("status", status)
	record.Set("data_inicio", "2026-09-01")
	record.Set("data_fim", "2026-09-03")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test budget: %v", err)
	}

	return record
}

// CreateTestBudgetItem creates a line item linked to a budget and material.
// Pass an empty materialID for custom items without a catalog entry.
func CreateTestBudgetItem(t *testing.T, app *pocketbase.PocketBase, budgetID, materialID string, posicao int, quantidade, dias, valorUnitario float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		t.Fatalf("failed to find budget_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("budget", budgetID)
	if materialID != "" {
		record.Set("material", materialID)
		if mat, err := app.FindRecordById("materials", materialID); err == nil {
			record.Set("categoria", mat.GetString("categoria"))
			record.Set("equipamento", mat.GetString("equipamento"))
		}
	}
	record.Set("quantidade", quantidade)
	record.Set("dias", dias)
	record.Set("valor_unitario", valorUnitario)
	record.Set("valor_total", quantidade*dias*valorUnitario)
	record.Set("valor_final", quantidade*dias*valorUnitario)
	record.Set("posicao", posicao)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test budget item: %v", err)
	}

	return record
}

// CreateTestFinanceEntry creates a finance entry linked to a budget.
func CreateTestFinanceEntry(t *testing.T, app *pocketbase.PocketBase, budgetID string, valor, valorPago float64, statusPagamento string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("finance_entries")
	if err != nil {
		t.Fatalf("failed to find finance_entries collection: %v", err)
	}

	record := core.NewRecord(col)
	if budgetID != "" {
		record.Set("budget", budgetID)
	}
	record.Set("descricao", "Locação de equipamentos")
	record.Set("valor", valor)
	record.Set("valor_pago", valorPago)
	record.Set("status_pagamento", statusPagamento)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test finance entry: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
