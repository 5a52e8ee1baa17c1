package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/collections"
	"rentaladmin/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateItemPositions(app); err != nil {
			log.Printf("Warning: item position migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// The SPA runs on its own origin
		se.Router.BindFunc(handlers.CORSMiddleware())

		// ── Health probe ─────────────────────────────────────────
		se.Router.GET("/api/test", handlers.HandleHealthCheck())

		// ── Clients ──────────────────────────────────────────────
		se.Router.GET("/api/clientes", handlers.HandleClientList(app))
		se.Router.POST("/api/clientes", handlers.HandleClientCreate(app))
		se.Router.GET("/api/clientes/{id}", handlers.HandleClientGet(app))
		se.Router.PUT("/api/clientes/{id}", handlers.HandleClientUpdate(app))
		se.Router.DELETE("/api/clientes/{id}", handlers.HandleClientDelete(app))

		// ── Collaborators ────────────────────────────────────────
		se.Router.GET("/api/colaboradores", handlers.HandleCollaboratorList(app))
		se.Router.POST("/api/colaboradores", handlers.HandleCollaboratorCreate(app))
		se.Router.GET("/api/colaboradores/{id}", handlers.HandleCollaboratorGet(app))
		se.Router.PUT("/api/colaboradores/{id}", handlers.HandleCollaboratorUpdate(app))
		se.Router.DELETE("/api/colaboradores/{id}", handlers.HandleCollaboratorDelete(app))

		// ── Materials (must register the static paths before {id}) ──
		se.Router.GET("/api/materiais/categorias/lista", handlers.HandleMaterialCategories(app))
		se.Router.GET("/api/materiais/lista/pdf", handlers.HandleMaterialCatalogPDF(app))
		se.Router.GET("/api/materiais", handlers.HandleMaterialList(app))
		se.Router.POST("/api/materiais", handlers.HandleMaterialCreate(app))
		se.Router.GET("/api/materiais/{id}", handlers.HandleMaterialGet(app))
		se.Router.PUT("/api/materiais/{id}", handlers.HandleMaterialUpdate(app))
		se.Router.DELETE("/api/materiais/{id}", handlers.HandleMaterialDelete(app))

		// ── Extras ───────────────────────────────────────────────
		se.Router.GET("/api/extras", handlers.HandleExtraList(app))
		se.Router.POST("/api/extras", handlers.HandleExtraCreate(app))
		se.Router.GET("/api/extras/{id}", handlers.HandleExtraGet(app))
		se.Router.PUT("/api/extras/{id}", handlers.HandleExtraUpdate(app))
		se.Router.DELETE("/api/extras/{id}", handlers.HandleExtraDelete(app))

		// ── Budgets ──────────────────────────────────────────────
		se.Router.GET("/api/orcamentos/financeiro/relatorio", handlers.HandleFinanceReport(app))
		se.Router.GET("/api/orcamentos/relatorios/confirmados/pdf", handlers.HandleConfirmedReportPDF(app))
		se.Router.GET("/api/orcamentos", handlers.HandleBudgetList(app))
		se.Router.POST("/api/orcamentos", handlers.HandleBudgetCreate(app))
		se.Router.GET("/api/orcamentos/{id}", handlers.HandleBudgetGet(app))
		se.Router.PUT("/api/orcamentos/{id}", handlers.HandleBudgetUpdate(app))
		se.Router.DELETE("/api/orcamentos/{id}", handlers.HandleBudgetDelete(app))
		se.Router.POST("/api/orcamentos/{id}/clonar", handlers.HandleBudgetClone(app))
		se.Router.PATCH("/api/orcamentos/{id}/status", handlers.HandleBudgetStatus(app))

		// Budget items
		se.Router.POST("/api/orcamentos/{id}/itens", handlers.HandleBudgetItemCreate(app))
		se.Router.PUT("/api/orcamentos/{id}/itens/{itemId}", handlers.HandleBudgetItemUpdate(app))
		se.Router.DELETE("/api/orcamentos/{id}/itens/{itemId}", handlers.HandleBudgetItemDelete(app))
		se.Router.POST("/api/orcamentos/{id}/reordenar", handlers.HandleBudgetReorder(app))
		se.Router.POST("/api/orcamentos/{id}/desconto-massa", handlers.HandleBudgetBulkDiscount(app))

		// Budget documents
		se.Router.GET("/api/orcamentos/{id}/pdf/{tipo}", handlers.HandleBudgetPDF(app))

		// ── Finance ──────────────────────────────────────────────
		se.Router.GET("/api/financeiro/relatorio/resumo", handlers.HandleFinanceSummary(app))
		se.Router.GET("/api/financeiro", handlers.HandleFinanceList(app))
		se.Router.POST("/api/financeiro", handlers.HandleFinanceCreate(app))
		se.Router.GET("/api/financeiro/{id}", handlers.HandleFinanceGet(app))
		se.Router.PUT("/api/financeiro/{id}", handlers.HandleFinanceUpdate(app))
		se.Router.DELETE("/api/financeiro/{id}", handlers.HandleFinanceDelete(app))
		se.Router.PATCH("/api/financeiro/{id}/status-pagamento", handlers.HandleFinancePaymentStatus(app))

		// ── Trash ────────────────────────────────────────────────
		se.Router.GET("/api/orcamentos-lixeira/stats/resumo", handlers.HandleTrashStats(app))
		se.Router.GET("/api/orcamentos-lixeira", handlers.HandleTrashList(app))
		se.Router.POST("/api/orcamentos-lixeira", handlers.HandleTrashCreate(app))
		se.Router.GET("/api/orcamentos-lixeira/{id}", handlers.HandleTrashGet(app))
		se.Router.POST("/api/orcamentos-lixeira/{id}/restaurar", handlers.HandleTrashRestore(app))
		se.Router.DELETE("/api/orcamentos-lixeira/{id}", handlers.HandleTrashDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
